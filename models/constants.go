package models

// ✅ Timezone codes supported by the profile form
const (
	TimezoneEST = "EST"
	TimezoneCST = "CST"
	TimezoneMST = "MST"
	TimezonePST = "PST"
	TimezoneGMT = "GMT"
	TimezoneCET = "CET"
)

// ✅ Years-of-experience brackets, ordered junior to senior
var ExperienceLevels = []string{"0-2", "3-5", "6-10", "10+"}

// ✅ Availability slot codes (day/time windows)
const (
	SlotWeekdayMorning   = "weekday-morning"
	SlotWeekdayLunch     = "weekday-lunch"
	SlotWeekdayAfternoon = "weekday-afternoon"
	SlotWeekdayEvening   = "weekday-evening"
	SlotWeekendMorning   = "weekend-morning"
	SlotWeekendAfternoon = "weekend-afternoon"
)

// ✅ Coffee chat statuses
const (
	ChatStatusScheduled = "scheduled"
	ChatStatusCompleted = "completed"
	ChatStatusCancelled = "cancelled"
	ChatStatusNoShow    = "no-show"
)
