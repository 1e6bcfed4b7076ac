package rests

import (
	"context"
	"fmt"

	"github.com/julianstephens/tachoplan/internal/cli"
	"github.com/julianstephens/tachoplan/internal/constants"
)

// StatusCmd shows the reduced rests used in the rolling week
type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Planner()
	if err != nil {
		return err
	}

	used, err := p.UsedReductions(context.Background())
	if err != nil {
		return err
	}

	ctx.Printf("Reduced (9h) rests used in the last %d days: %d of %d\n",
		constants.ReducedRestWindowDays, len(used), constants.MaxReducedRestsPerWeek)
	for _, r := range used {
		line := fmt.Sprintf("  %s  rest %d", r.UsedAt.Local().Format(constants.DateTimeFormat), r.RestIndex)
		if r.Note != "" {
			line += "  " + r.Note
		}
		ctx.Println(line)
	}
	ctx.Printf("Remaining this week: %d\n", max(0, constants.MaxReducedRestsPerWeek-len(used)))
	return nil
}

// ResetCmd clears the reduced-rest ledger
type ResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm("Forget all recorded reduced rests?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}

	p, err := ctx.Planner()
	if err != nil {
		return err
	}
	n, err := p.ResetWeek(context.Background())
	if err != nil {
		return fmt.Errorf("failed to reset reduced rests: %w", err)
	}
	ctx.Printf("✓ Cleared %d reduced rest record(s)\n", n)
	return nil
}
