package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
)

func newTripForm(f *TripFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Distance (km)").
				Value(&f.Distance).
				Validate(validatePositive),
			huh.NewInput().
				Title("Average speed (km/h)").
				Value(&f.Speed).
				Validate(validatePositive),
			huh.NewSelect[models.DriverType]().
				Title("Crew").
				Options(
					huh.NewOption("Single driver", models.DriverSingle),
					huh.NewOption("Two drivers", models.DriverTwo),
				).
				Value(&f.Driver),
			huh.NewInput().
				Title("Departure").
				Description("YYYY-MM-DD HH:MM").
				Value(&f.Start).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateTimeFormat, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("expected YYYY-MM-DD HH:MM")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("First segment drive hours").
				Description("Leave empty to use the full daily allowance").
				Value(&f.CustomHours).
				Validate(validateOptional),
			huh.NewInput().
				Title("Refuel stops").
				Description("Segment numbers, comma separated").
				Value(&f.Refuels).
				Validate(func(s string) error {
					_, err := parseSegments(s)
					return err
				}),
			huh.NewInput().
				Title("Ferry crossing (minutes)").
				Value(&f.FerryMinutes).
				Validate(validateOptional),
			huh.NewInput().
				Title("Ferry segment").
				Value(&f.FerrySegment).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("must be a whole number")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Treat a long ferry crossing as the daily rest?").
				Value(&f.AutoFerryRest),
		),
	).WithTheme(huh.ThemeDracula())
}

func newSettingsForm(f *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Auto ferry rest").
				Value(&f.AutoFerryRest),
			huh.NewInput().
				Title("Ferry rest threshold (hours)").
				Value(&f.Threshold).
				Validate(validateNumber),
			huh.NewInput().
				Title("Duty cap, single driver (hours)").
				Value(&f.CapSingle).
				Validate(validateNumber),
			huh.NewInput().
				Title("Duty cap, two drivers (hours)").
				Value(&f.CapTwo).
				Validate(validateNumber),
			huh.NewInput().
				Title("Refuel delay (hours)").
				Value(&f.RefuelDelay).
				Validate(validateNumber),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name, or Local").
				Value(&f.Timezone).
				Validate(func(s string) error {
					_, err := models.Settings{Timezone: strings.TrimSpace(s)}.Location()
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func validatePositive(s string) error {
	_, err := parsePositive(s, "value")
	return err
}

func validateOptional(s string) error {
	_, err := parseOptional(s, "value")
	return err
}

func validateNumber(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("must be a number")
	}
	return nil
}
