package constants

// Statutory values used by the trip scheduler. All durations are in hours.
const (
	// Default daily drive-time allowance per driver configuration
	DefaultDriveSingleHours = 9.0
	DefaultDriveTwoHours    = 18.0

	// Maximum continuous driving for one driver before the in-shift break is due
	ContinuousDriveLimitHours = 4.5
	InShiftBreakHours         = 0.75

	// Daily rest lengths
	RegularDailyRestHours = 11.0
	ReducedDailyRestHours = 9.0

	// Reduced (9h) rests allowed per rolling week
	MaxReducedRestsPerWeek = 2
	ReducedRestWindowDays  = 7

	// Input limits carried over from the calculator form
	MaxRefuels = 10

	// Iteration guard for the scheduling loop
	MaxSegments = 1000

	// Remaining drive below this is treated as zero
	HoursEpsilon = 1e-9
)
