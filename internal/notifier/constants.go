package notifier

import "time"

// Discord formatting constants
const (
	DiscordUsername   = "metawatch"
	SuccessEmbedColor = 0x5CB85C // Bootstrap success green
	WarningEmbedColor = 0xF0AD4E // Bootstrap warning orange
	ErrorEmbedColor   = 0xD9534F // Bootstrap danger red

	// maxDiscordFileSize is Discord's attachment limit without Nitro
	maxDiscordFileSize  = 8 * 1024 * 1024
	maxEmbedDescLength  = 4000
	defaultSendTimeout  = 60 * time.Second
	notifierNameEmail   = "email"
	notifierNameDiscord = "discord"
)
