package insights

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/blossom/internal/cli"
)

type InsightCmd struct {
	Force bool `help:"Skip today's cached insight and ask the model for a new one."`
	JSON  bool `name:"json" help:"Print the insight as JSON."`
}

type insightOutput struct {
	Quote     string `json:"quote"`
	Author    string `json:"author"`
	Fact      string `json:"fact"`
	Source    string `json:"source"`
	RequestID string `json:"request_id"`
}

func (c *InsightCmd) Run(ctx *cli.Context) error {
	remaining := ctx.Remaining()
	result := ctx.NewFetcher().Fetch(context.Background(), c.Force, remaining.Days)

	if c.JSON {
		out, err := json.MarshalIndent(insightOutput{
			Quote:     result.Record.Quote,
			Author:    result.Record.Author,
			Fact:      result.Record.Fact,
			Source:    string(result.Source),
			RequestID: result.RequestID,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal insight: %w", err)
		}
		ctx.Println(string(out))
		return nil
	}

	ctx.Printf("“%s”\n", result.Record.Quote)
	ctx.Printf("  — %s\n\n", result.Record.Author)
	ctx.Println("春之絮語")
	ctx.Printf("  %s\n\n", result.Record.Fact)
	ctx.Printf("source: %s\n", result.Source)
	return nil
}
