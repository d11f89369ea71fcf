package storage

import (
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/models"
)

// DefaultSettings returns the settings used before the user changes anything
func DefaultSettings() models.Settings {
	return models.Settings{
		TargetMonth:  constants.DefaultTargetMonth,
		TargetDay:    constants.DefaultTargetDay,
		TargetHour:   constants.DefaultTargetHour,
		TargetMinute: constants.DefaultTargetMinute,
		Model:        constants.DefaultModel,
		ShowPetals:   constants.DefaultShowPetals,
	}
}

// GetSettings reads settings from kv, falling back to defaults for missing keys
func GetSettings(kv KV) (models.Settings, error) {
	settings := DefaultSettings()

	ints := []struct {
		key string
		dst *int
	}{
		{constants.SettingTargetDay, &settings.TargetDay},
		{constants.SettingTargetHour, &settings.TargetHour},
		{constants.SettingTargetMinute, &settings.TargetMinute},
	}
	for _, field := range ints {
		value, ok, err := kv.Get(field.key)
		if err != nil {
			return models.Settings{}, err
		}
		if !ok {
			continue
		}
		n, err := strconv.Atoi(string(value))
		if err != nil {
			return models.Settings{}, fmt.Errorf("parsing %s: %w", field.key, err)
		}
		*field.dst = n
	}

	if value, ok, err := kv.Get(constants.SettingTargetMonth); err != nil {
		return models.Settings{}, err
	} else if ok {
		n, err := strconv.Atoi(string(value))
		if err != nil {
			return models.Settings{}, fmt.Errorf("parsing %s: %w", constants.SettingTargetMonth, err)
		}
		settings.TargetMonth = time.Month(n)
	}

	if value, ok, err := kv.Get(constants.SettingModel); err != nil {
		return models.Settings{}, err
	} else if ok && len(value) > 0 {
		settings.Model = string(value)
	}

	if value, ok, err := kv.Get(constants.SettingShowPetals); err != nil {
		return models.Settings{}, err
	} else if ok {
		settings.ShowPetals = string(value) == "true"
	}

	return settings, nil
}

// SaveSettings writes every settings field to kv
func SaveSettings(kv KV, settings models.Settings) error {
	values := map[string]string{
		constants.SettingTargetMonth:  strconv.Itoa(int(settings.TargetMonth)),
		constants.SettingTargetDay:    strconv.Itoa(settings.TargetDay),
		constants.SettingTargetHour:   strconv.Itoa(settings.TargetHour),
		constants.SettingTargetMinute: strconv.Itoa(settings.TargetMinute),
		constants.SettingModel:        settings.Model,
		constants.SettingShowPetals:   strconv.FormatBool(settings.ShowPetals),
	}
	for key, value := range values {
		if err := kv.Set(key, []byte(value)); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return nil
}
