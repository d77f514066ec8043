package notifier

import (
	"context"

	"github.com/aleister1102/metawatch/internal/models"
)

// Notifier delivers one group's report over a single channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, report models.Report) error
}
