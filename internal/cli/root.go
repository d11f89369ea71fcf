package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/blossom/internal/config"
	"github.com/julianstephens/blossom/internal/countdown"
	"github.com/julianstephens/blossom/internal/gemini"
	"github.com/julianstephens/blossom/internal/insight"
	"github.com/julianstephens/blossom/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Config config.Config

	// Generator replaces the Gemini client when set
	Generator insight.Generator
	// Now replaces time.Now when set
	Now func() time.Time
	// Out replaces stdout when set
	Out io.Writer
}

// Clock returns the current time
func (c *Context) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) Stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// Printf writes to the command's output
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

// Println writes a line to the command's output
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Target returns the configured countdown target, defaulting to April 24
func (c *Context) Target() countdown.Target {
	if c.Config.Target == (countdown.Target{}) {
		return countdown.DefaultTarget()
	}
	return c.Config.Target
}

// TargetTime resolves the next target occurrence as of now
func (c *Context) TargetTime() time.Time {
	return countdown.ComputeTarget(c.Target(), c.Clock())
}

// Remaining returns the time left until the next target occurrence
func (c *Context) Remaining() countdown.Remaining {
	return countdown.ComputeRemaining(c.TargetTime(), c.Clock())
}

// NewGenerator returns the configured insight generator
func (c *Context) NewGenerator() insight.Generator {
	if c.Generator != nil {
		return c.Generator
	}
	return gemini.NewClient(gemini.Config{
		APIKey:  c.Config.APIKey,
		Model:   c.Config.Model,
		BaseURL: c.Config.BaseURL,
		Timeout: c.Config.Timeout,
	})
}

// NewFetcher wires the generator and the store-backed cache
func (c *Context) NewFetcher() *insight.Fetcher {
	return insight.NewFetcher(c.NewGenerator(), insight.NewCache(c.Store), c.Target()).WithClock(c.Clock)
}
