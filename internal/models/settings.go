package models

import "time"

// Settings represents application-wide settings
type Settings struct {
	TargetMonth  time.Month `json:"target_month"`  // month of the annual countdown target
	TargetDay    int        `json:"target_day"`    // day of month of the target
	TargetHour   int        `json:"target_hour"`   // hour of the target, local time
	TargetMinute int        `json:"target_minute"` // minute of the target
	Model        string     `json:"model"`         // generative model used for insights
	ShowPetals   bool       `json:"show_petals"`   // whether the TUI animates the petal field
}
