package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/countdown"
)

type CountdownCmd struct {
	Watch bool `help:"Keep printing the remaining time every second until interrupted."`
}

func (c *CountdownCmd) Run(ctx *Context) error {
	at := ctx.TargetTime()
	if !c.Watch {
		ctx.Println(c.line(ctx, at))
		return nil
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.watch(sigCtx, ctx, at, time.NewTicker(constants.TickInterval).C)
}

// watch redraws until interrupted or until at passes. at is resolved once so
// the countdown ends on arrival instead of rolling over to next year.
func (c *CountdownCmd) watch(sigCtx context.Context, ctx *Context, at time.Time, ticks <-chan time.Time) error {
	for {
		remaining := countdown.ComputeRemaining(at, ctx.Clock())
		// Carriage return keeps the countdown on one line
		ctx.Printf("\r%s", c.render(ctx, remaining))
		if remaining.IsComplete {
			ctx.Println()
			return nil
		}
		select {
		case <-sigCtx.Done():
			ctx.Println()
			return nil
		case <-ticks:
		}
	}
}

func (c *CountdownCmd) line(ctx *Context, at time.Time) string {
	return c.render(ctx, countdown.ComputeRemaining(at, ctx.Clock()))
}

func (c *CountdownCmd) render(ctx *Context, remaining countdown.Remaining) string {
	target := ctx.Target()
	if remaining.IsComplete {
		return fmt.Sprintf("%s is here ✿", target.Label())
	}
	return fmt.Sprintf("%s until %s (%.1f%% completed)",
		countdown.Format(remaining), target.Label(), countdown.Progress(remaining))
}
