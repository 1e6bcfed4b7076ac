package models

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/julianstephens/tachoplan/internal/constants"
)

// DefaultSettings returns the settings table defaults.
func DefaultSettings() Settings {
	return Settings{
		DelayMode:              constants.DefaultDelayMode,
		AutoFerryRest:          constants.DefaultAutoFerryRest,
		AutoFerryRestThreshold: constants.DefaultAutoFerryRestThreshold,
		DutyCapSingle:          constants.DefaultDutyCapSingle,
		DutyCapTwo:             constants.DefaultDutyCapTwo,
		RefuelDelayHours:       constants.DefaultRefuelDelayHours,
		Timezone:               constants.DefaultTimezone,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys absent from data keep their default value.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		var err error
		switch key {
		case constants.SettingDelayMode:
			settings.DelayMode = value
		case constants.SettingAutoFerryRest:
			settings.AutoFerryRest = value == "true"
		case constants.SettingAutoFerryRestThreshold:
			settings.AutoFerryRestThreshold, err = strconv.ParseFloat(value, 64)
		case constants.SettingDutyCapSingle:
			settings.DutyCapSingle, err = strconv.ParseFloat(value, 64)
		case constants.SettingDutyCapTwo:
			settings.DutyCapTwo, err = strconv.ParseFloat(value, 64)
		case constants.SettingRefuelDelayHours:
			settings.RefuelDelayHours, err = strconv.ParseFloat(value, 64)
		case constants.SettingTimezone:
			settings.Timezone = value
		}
		if err != nil {
			return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDelayMode:              settings.DelayMode,
		constants.SettingAutoFerryRest:          strconv.FormatBool(settings.AutoFerryRest),
		constants.SettingAutoFerryRestThreshold: formatFloat(settings.AutoFerryRestThreshold),
		constants.SettingDutyCapSingle:          formatFloat(settings.DutyCapSingle),
		constants.SettingDutyCapTwo:             formatFloat(settings.DutyCapTwo),
		constants.SettingRefuelDelayHours:       formatFloat(settings.RefuelDelayHours),
		constants.SettingTimezone:               settings.Timezone,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
// AutoFerryRest is a bool and cannot be told apart from an explicit false, so
// it is left untouched.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DelayMode == "" {
		settings.DelayMode = constants.DefaultDelayMode
	}
	if settings.AutoFerryRestThreshold < 0 {
		settings.AutoFerryRestThreshold = constants.DefaultAutoFerryRestThreshold
	}
	if settings.DutyCapSingle == 0 {
		settings.DutyCapSingle = constants.DefaultDutyCapSingle
	}
	if settings.DutyCapTwo == 0 {
		settings.DutyCapTwo = constants.DefaultDutyCapTwo
	}
	if settings.RefuelDelayHours < 0 {
		settings.RefuelDelayHours = constants.DefaultRefuelDelayHours
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

// Validate checks the settings against the defaulting table constraints.
func (s Settings) Validate() error {
	if s.DelayMode != constants.DelayModeAuto {
		return fmt.Errorf("unsupported delay mode %q (only %q is supported)", s.DelayMode, constants.DelayModeAuto)
	}
	numbers := []struct {
		name  string
		value float64
	}{
		{"auto ferry rest threshold", s.AutoFerryRestThreshold},
		{"single-driver duty cap", s.DutyCapSingle},
		{"two-driver duty cap", s.DutyCapTwo},
		{"refuel delay", s.RefuelDelayHours},
	}
	for _, n := range numbers {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return fmt.Errorf("%s must be a finite number, got %v", n.name, n.value)
		}
	}
	if s.AutoFerryRestThreshold < 0 {
		return fmt.Errorf("auto ferry rest threshold must not be negative, got %v", s.AutoFerryRestThreshold)
	}
	if s.DutyCapSingle <= constants.InShiftBreakHours {
		return fmt.Errorf("single-driver duty cap must exceed %vh, got %v", constants.InShiftBreakHours, s.DutyCapSingle)
	}
	if s.DutyCapTwo <= 0 {
		return fmt.Errorf("two-driver duty cap must be positive, got %v", s.DutyCapTwo)
	}
	if s.RefuelDelayHours < 0 {
		return fmt.Errorf("refuel delay must not be negative, got %v", s.RefuelDelayHours)
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone
func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
