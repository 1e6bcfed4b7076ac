package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tachoplan/internal/backup"
	"github.com/julianstephens/tachoplan/internal/cli"
	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/keyring"
	"github.com/julianstephens/tachoplan/internal/planner"
	"github.com/julianstephens/tachoplan/internal/scheduler"
	"github.com/julianstephens/tachoplan/internal/validation"
)

// sampleTrip is planned with the stored settings to surface rule conflicts
// that Validate does not reject, such as cap ordering
var sampleTrip = planner.Input{
	DistanceKm: 1600,
	SpeedKmh:   80,
	StartTime:  time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC),
}

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warn marks a check whose failure is reported but not fatal
	warn bool
	// needsDB skips the check when the database is unreachable
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Reduced rest ledger", run: checkLedger, needsDB: true},
	{name: "Sample trip", run: checkSampleTrip, warn: true, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warn: true},
	{name: "OS keyring", run: checkKeyring, warn: true},
	{name: "Clock/timezone", run: func(*cli.Context) error { return checkClock(time.Now()) }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	if err := ctx.Store.Load(); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.Validate()
}

func checkSampleTrip(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	req, err := planner.BuildRequest(sampleTrip, settings)
	if err != nil {
		return err
	}

	v := validation.New()
	if check := v.ValidateRequest(req); check.HasConflicts() {
		return errors.New(strings.TrimSpace(check.FormatReport()))
	}
	schedule := scheduler.New().ScheduleTrip(req)
	if check := v.CheckSchedule(schedule, req); check.HasConflicts() {
		return errors.New(strings.TrimSpace(check.FormatReport()))
	}
	return nil
}

func checkLedger(ctx *cli.Context) error {
	now := time.Now()
	used, err := ctx.Store.GetReducedRestsSince(now.AddDate(0, 0, -constants.ReducedRestWindowDays))
	if err != nil {
		return fmt.Errorf("failed to read reduced rest ledger: %w", err)
	}
	if len(used) > constants.MaxReducedRestsPerWeek {
		return fmt.Errorf("%d reduced rests recorded in the last %d days, limit is %d",
			len(used), constants.ReducedRestWindowDays, constants.MaxReducedRestsPerWeek)
	}
	for _, r := range used {
		if r.UsedAt.After(now.Add(time.Minute)) {
			return fmt.Errorf("ledger entry %s is dated in the future (%s)", r.ID, r.UsedAt.Format(time.RFC3339))
		}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsLocal() {
		return fmt.Errorf("backups are only managed for local SQLite storage")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
