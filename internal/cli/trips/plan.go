package trips

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/tachoplan/internal/cli"
	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/planner"
	"github.com/julianstephens/tachoplan/internal/render"
)

type PlanCmd struct {
	Distance        float64 `help:"Trip distance in km." required:""`
	Speed           float64 `help:"Average speed in km/h." required:""`
	Driver          string  `help:"Crew configuration: single or two." default:"single" enum:"single,two,1,2"`
	CustomHours     float64 `help:"Drive hours available in the first segment, if less than the daily allowance."`
	Refuel          []int   `help:"Segment number of a refuel stop (repeatable)." placeholder:"SEGMENT"`
	FerryMinutes    float64 `help:"Ferry crossing length in minutes."`
	FerrySegment    int     `help:"Segment number the ferry is taken in." default:"1"`
	AutoFerryRest   bool    `help:"Treat a long ferry crossing as the daily rest." xor:"ferryrest"`
	NoAutoFerryRest bool    `help:"Never treat a ferry crossing as the daily rest." xor:"ferryrest"`
	Start           string  `help:"Departure time (YYYY-MM-DD HH:MM); defaults to now."`
	Reduce          []int   `help:"Shorten daily rest N to 9h, using one weekly reduction (repeatable)." placeholder:"REST"`
	JSON            bool    `help:"Print the plan as JSON." name:"json"`
	Plain           bool    `help:"Disable colours."`
}

// input converts the flags into planner input, parsing the start time in loc
func (c *PlanCmd) input(loc *time.Location) (planner.Input, error) {
	driver, err := models.ParseDriverType(c.Driver)
	if err != nil {
		return planner.Input{}, err
	}

	in := planner.Input{
		DistanceKm:              c.Distance,
		SpeedKmh:                c.Speed,
		DriverType:              driver,
		CustomFirstSegmentHours: c.CustomHours,
		RefuelSegments:          c.Refuel,
		FerryMinutes:            c.FerryMinutes,
		FerrySegment:            c.FerrySegment,
	}

	switch {
	case c.AutoFerryRest:
		v := true
		in.AutoFerryRest = &v
	case c.NoAutoFerryRest:
		v := false
		in.AutoFerryRest = &v
	}

	if c.Start != "" {
		start, err := time.ParseInLocation(constants.DateTimeFormat, c.Start, loc)
		if err != nil {
			return planner.Input{}, fmt.Errorf("invalid start time %q (expected YYYY-MM-DD HH:MM): %w", c.Start, err)
		}
		in.StartTime = start
	}
	return in, nil
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Planner()
	if err != nil {
		return err
	}
	loc, err := p.Settings().Location()
	if err != nil {
		return err
	}

	in, err := c.input(loc)
	if err != nil {
		return err
	}

	var result planner.Result
	if len(c.Reduce) > 0 {
		result, err = p.Reduce(context.Background(), in, c.Reduce...)
	} else {
		result, err = p.Plan(context.Background(), in)
	}
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := render.JSON(result.Schedule, result.Request)
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	ctx.Printf("%s", render.Text(result.Schedule, result.Request, render.Options{Styled: !c.Plain}))

	if len(c.Reduce) > 0 {
		remaining, err := p.RemainingReductions(context.Background())
		if err != nil {
			return err
		}
		ctx.Printf("\nReduced rests left this week: %d\n", remaining)
	}
	return nil
}
