package system

import (
	"fmt"

	"github.com/julianstephens/blossom/internal/cli"
	"github.com/julianstephens/blossom/internal/countdown"
	"github.com/julianstephens/blossom/internal/logger"
	"github.com/julianstephens/blossom/internal/notifier"
)

// sender is implemented by notifier.Notifier
type sender interface {
	Notify(text string) error
}

var newSender = func() sender { return notifier.New() }

type NotifyCmd struct {
	DryRun bool `help:"Print the notification to stdout instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	msg := NotificationText(ctx)
	if c.DryRun {
		ctx.Println("[DryRun] " + msg)
		return nil
	}

	if err := newSender().Notify(msg); err != nil {
		logger.Warn("Tray notification failed", "error", err)
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// NotificationText renders the countdown for the tray, e.g. "187 days until 04.24"
func NotificationText(ctx *cli.Context) string {
	remaining := ctx.Remaining()
	label := ctx.Target().Label()
	switch {
	case remaining.IsComplete:
		return fmt.Sprintf("%s is here ✿", label)
	case remaining.Days == 0:
		return fmt.Sprintf("%s:%s:%s until %s",
			countdown.Pad(remaining.Hours), countdown.Pad(remaining.Minutes), countdown.Pad(remaining.Seconds), label)
	case remaining.Days == 1:
		return fmt.Sprintf("1 day until %s", label)
	default:
		return fmt.Sprintf("%d days until %s", remaining.Days, label)
	}
}
