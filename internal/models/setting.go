package models

import "time"

// Setting is one key/value row in the schedule-config store. Values are
// stored as strings; callers parse what they need.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Known setting keys. Deployment config supplies the defaults; rows here
// override them at runtime.
const (
	SettingHallPassLocked  = "hallPassLocked"
	SettingBlackoutStart   = "blackoutStart"
	SettingBlackoutEnd     = "blackoutEnd"
	SettingCooldownMinutes = "cooldownMinutes"
	SettingGraceMinutes    = "graceMinutes"
	SettingDayTypeOverride = "dayTypeOverride"
	SettingCustomPeriods   = "customPeriods"
)
