package models

// Settings represents the calculator settings persisted by the store
type Settings struct {
	DelayMode              string  `json:"delay_mode"`                // only "auto" is supported
	AutoFerryRest          bool    `json:"auto_ferry_rest"`           // convert long ferry crossings into a daily rest
	AutoFerryRestThreshold float64 `json:"auto_ferry_rest_threshold"` // minimum ferry hours that qualify as a rest
	DutyCapSingle          float64 `json:"duty_cap_single"`           // daily spread cap for one driver, hours
	DutyCapTwo             float64 `json:"duty_cap_two"`              // daily spread cap for a two-driver crew, hours
	RefuelDelayHours       float64 `json:"refuel_delay_hours"`        // delay applied per refuel stop
	Timezone               string  `json:"timezone"`                  // IANA timezone name or "Local"
}

// DutyCapFor returns the duty cap that applies to the driver configuration
func (s Settings) DutyCapFor(d DriverType) float64 {
	if d == DriverTwo {
		return s.DutyCapTwo
	}
	return s.DutyCapSingle
}
