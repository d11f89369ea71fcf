package insights

import (
	"fmt"

	"github.com/julianstephens/blossom/internal/cli"
	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/insight"
)

type CacheShowCmd struct{}

func (c *CacheShowCmd) Run(ctx *cli.Context) error {
	cache := insight.NewCache(ctx.Store)
	entry, ok, err := cache.Entry()
	if err != nil {
		return err
	}
	if !ok {
		ctx.Printf("No insight cached under %s\n", cache.Key())
		return nil
	}

	now := ctx.Clock()
	fetchedAt := entry.FetchedAt(now.Location())
	status := "stale"
	if insight.SameDay(fetchedAt, now) {
		status = "fresh"
	}

	ctx.Printf("Key:       %s\n", cache.Key())
	ctx.Printf("Fetched:   %s %s (%s)\n", fetchedAt.Format(constants.DateFormat), fetchedAt.Format(constants.TimeFormat), status)
	ctx.Printf("Quote:     %s\n", entry.Data.Quote)
	ctx.Printf("Author:    %s\n", entry.Data.Author)
	ctx.Printf("Fact:      %s\n", entry.Data.Fact)
	return nil
}

type CacheClearCmd struct{}

func (c *CacheClearCmd) Run(ctx *cli.Context) error {
	if err := insight.NewCache(ctx.Store).Clear(); err != nil {
		return fmt.Errorf("failed to clear insight cache: %w", err)
	}
	ctx.Println("✓ Insight cache cleared")
	return nil
}
