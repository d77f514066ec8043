package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/config"
	"github.com/aleister1102/metawatch/internal/httpclient"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/rs/zerolog"
)

// RequestDoer executes a single HTTP request and returns the fully read response.
type RequestDoer interface {
	Do(req *httpclient.HTTPRequest) (*httpclient.HTTPResponse, error)
}

// DiscordNotifier posts group reports to a Discord webhook.
type DiscordNotifier struct {
	logger       zerolog.Logger
	httpClient   RequestDoer
	webhookURL   string
	mentionRoles []string
	fileManager  *common.FileManager
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(cfg config.NotificationConfig, httpClient RequestDoer, logger zerolog.Logger) (*DiscordNotifier, error) {
	moduleLogger := logger.With().Str("module", "DiscordNotifier").Logger()

	if _, err := url.ParseRequestURI(cfg.DiscordWebhookURL); err != nil {
		return nil, common.WrapError(err, "invalid discord webhook url")
	}
	if httpClient == nil {
		return nil, common.NewValidationError("httpClient", nil, "http client cannot be nil")
	}

	return &DiscordNotifier{
		logger:       moduleLogger,
		httpClient:   httpClient,
		webhookURL:   cfg.DiscordWebhookURL,
		mentionRoles: cfg.DiscordMentionRole,
		fileManager:  common.NewFileManager(moduleLogger),
	}, nil
}

// Name identifies the channel in logs.
func (dn *DiscordNotifier) Name() string {
	return notifierNameDiscord
}

// Notify posts the report summary as an embed with the spreadsheet attached.
func (dn *DiscordNotifier) Notify(ctx context.Context, report models.Report) error {
	payload := dn.buildPayload(report)
	return dn.SendNotification(ctx, payload, report.FilePath)
}

func (dn *DiscordNotifier) buildPayload(report models.Report) models.DiscordMessagePayload {
	color := SuccessEmbedColor
	switch {
	case report.HasFailures:
		color = ErrorEmbedColor
	case report.HasChanges:
		color = WarningEmbedColor
	}

	embed := NewDiscordEmbedBuilder().
		WithTitle(fmt.Sprintf("%s: %s", report.Subject, report.Hostname)).
		WithDescription(report.Summary).
		WithColor(color).
		WithTimestamp(time.Now()).
		WithFooter(DiscordUsername)
	if report.FilePath != "" {
		embed.AddField("File", filepath.Base(report.FilePath), false)
	}

	builder := NewDiscordMessagePayloadBuilder().
		WithUsername(DiscordUsername).
		AddEmbed(embed.Build())

	if len(dn.mentionRoles) > 0 && (report.HasChanges || report.HasFailures) {
		mentions := make([]string, 0, len(dn.mentionRoles))
		for _, id := range dn.mentionRoles {
			mentions = append(mentions, "<@&"+id+">")
		}
		builder.WithContent(strings.Join(mentions, " ")).
			WithAllowedMentions(models.AllowedMentions{Parse: []string{"roles"}})
	}
	return builder.Build()
}

// SendNotification posts payload to the webhook as multipart form data, attaching reportFilePath when set.
func (dn *DiscordNotifier) SendNotification(ctx context.Context, payload models.DiscordMessagePayload, reportFilePath string) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return common.WrapError(err, "failed to marshal discord payload")
	}
	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return common.WrapError(err, "failed to write payload_json to multipart")
	}

	if reportFilePath != "" {
		fileData, err := dn.fileManager.ReadFile(reportFilePath, maxDiscordFileSize)
		if err != nil {
			dn.logger.Error().Err(err).Str("file_path", reportFilePath).Msg("Failed to read report file for attachment")
			return common.WrapError(err, "failed to read report file")
		}

		part, err := writer.CreateFormFile("file[0]", filepath.Base(reportFilePath))
		if err != nil {
			return common.WrapError(err, "failed to create form file")
		}
		if _, err := part.Write(fileData); err != nil {
			return common.WrapError(err, "failed to copy file data to form")
		}
	}

	if err := writer.Close(); err != nil {
		return common.WrapError(err, "failed to close multipart writer")
	}

	resp, err := dn.httpClient.Do(&httpclient.HTTPRequest{
		URL:     dn.webhookURL,
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:    body,
		Context: ctx,
	})
	if err != nil {
		dn.logger.Error().Err(err).Msg("Failed to send Discord notification")
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		dn.logger.Error().Int("status_code", resp.StatusCode).Str("response_body", string(resp.Body)).Msg("Discord notification failed")
		return common.NewHTTPErrorWithURL(resp.StatusCode, "discord webhook rejected notification: "+strconv.Itoa(resp.StatusCode), dn.webhookURL)
	}

	dn.logger.Info().Int("status_code", resp.StatusCode).Msg("Discord notification sent")
	return nil
}
