package settings

import (
	"fmt"

	"github.com/julianstephens/tachoplan/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	AutoFerryRest *bool    `help:"Treat long ferry crossings as the daily rest."`
	Threshold     *float64 `help:"Minimum ferry hours that count as a daily rest."`
	CapSingle     *float64 `help:"Duty cap in hours for a single driver."`
	CapTwo        *float64 `help:"Duty cap in hours for a two-driver crew."`
	RefuelDelay   *float64 `help:"Hours added per refuel stop."`
	Timezone      *string  `help:"IANA timezone for departure times, or Local."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Delay Mode:            %s\n", settings.DelayMode)
		ctx.Printf("  Auto Ferry Rest:       %v\n", settings.AutoFerryRest)
		ctx.Printf("  Ferry Rest Threshold:  %gh\n", settings.AutoFerryRestThreshold)
		ctx.Printf("  Duty Cap (single):     %gh\n", settings.DutyCapSingle)
		ctx.Printf("  Duty Cap (two):        %gh\n", settings.DutyCapTwo)
		ctx.Printf("  Refuel Delay:          %gh\n", settings.RefuelDelayHours)
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		return nil
	}

	updated := false
	if c.AutoFerryRest != nil {
		settings.AutoFerryRest = *c.AutoFerryRest
		updated = true
	}
	if c.Threshold != nil {
		settings.AutoFerryRestThreshold = *c.Threshold
		updated = true
	}
	if c.CapSingle != nil {
		settings.DutyCapSingle = *c.CapSingle
		updated = true
	}
	if c.CapTwo != nil {
		settings.DutyCapTwo = *c.CapTwo
		updated = true
	}
	if c.RefuelDelay != nil {
		settings.RefuelDelayHours = *c.RefuelDelay
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
