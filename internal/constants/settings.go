package constants

const (
	// Setting keys
	SettingDelayMode              = "delay_mode"
	SettingAutoFerryRest          = "auto_ferry_rest"
	SettingAutoFerryRestThreshold = "auto_ferry_rest_threshold"
	SettingDutyCapSingle          = "duty_cap_single"
	SettingDutyCapTwo             = "duty_cap_two"
	SettingRefuelDelayHours       = "refuel_delay_hours"
	SettingTimezone               = "timezone"

	// Default Settings Values
	DefaultDelayMode              = DelayModeAuto
	DefaultAutoFerryRest          = true
	DefaultAutoFerryRestThreshold = 6.0
	DefaultDutyCapSingle          = 15.0
	DefaultDutyCapTwo             = 21.0
	DefaultRefuelDelayHours       = 1.0
	DefaultTimezone               = "Local" // Use system local timezone by default
)
