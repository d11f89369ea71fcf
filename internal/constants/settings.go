package constants

const (
	// Settings keys persisted in the key-value store
	SettingPrefix       = "settings."
	SettingTargetMonth  = SettingPrefix + "target_month"
	SettingTargetDay    = SettingPrefix + "target_day"
	SettingTargetHour   = SettingPrefix + "target_hour"
	SettingTargetMinute = SettingPrefix + "target_minute"
	SettingModel        = SettingPrefix + "model"
	SettingShowPetals   = SettingPrefix + "show_petals"

	// Default Settings Values
	DefaultShowPetals = true
)
