package notifier

import (
	"context"
	"errors"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/rs/zerolog"
)

// ErrNoNotifiers is returned when a report is sent with no channel configured.
var ErrNoNotifiers = errors.New("no notification channels configured")

// NotificationHelper fans a report out to every configured channel.
type NotificationHelper struct {
	notifiers []Notifier
	logger    zerolog.Logger
}

// NewNotificationHelper creates a NotificationHelper. Nil notifiers are ignored.
func NewNotificationHelper(logger zerolog.Logger, notifiers ...Notifier) *NotificationHelper {
	nh := &NotificationHelper{logger: logger.With().Str("module", "NotificationHelper").Logger()}
	for _, n := range notifiers {
		if n != nil {
			nh.notifiers = append(nh.notifiers, n)
		}
	}
	return nh
}

// Channels returns the names of the configured channels.
func (nh *NotificationHelper) Channels() []string {
	names := make([]string, len(nh.notifiers))
	for i, n := range nh.notifiers {
		names[i] = n.Name()
	}
	return names
}

// Notify delivers the report through every channel. Every channel is attempted;
// failures are combined into the returned error.
func (nh *NotificationHelper) Notify(ctx context.Context, report models.Report) error {
	if len(nh.notifiers) == 0 {
		nh.logger.Warn().Str("hostname", report.Hostname).Msg("No notification channels configured, skipping report delivery")
		return ErrNoNotifiers
	}

	var errs []error
	for _, n := range nh.notifiers {
		if err := n.Notify(ctx, report); err != nil {
			nh.logger.Error().Err(err).Str("channel", n.Name()).Str("hostname", report.Hostname).Msg("Notification failed")
			errs = append(errs, common.WrapErrorf(err, "%s notification failed", n.Name()))
			continue
		}
		nh.logger.Debug().Str("channel", n.Name()).Str("hostname", report.Hostname).Msg("Notification delivered")
	}
	return common.CombineErrors(errs)
}
