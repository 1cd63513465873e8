package store

import (
	"encoding/json"
	"log"

	"github.com/synheart/calmband/internal/models"
)

// LoadConfig reads the persisted settings, one flat key per value.
// Absent or corrupt keys fall back to their defaults individually.
// The last-acknowledged time is runtime state and is not persisted.
func LoadConfig(blob Blob) models.Config {
	cfg := models.DefaultConfig()

	var mode models.SensitivityMode
	if loadKey(blob, KeySensitivity, &mode) {
		if parsed, err := models.ParseSensitivity(string(mode)); err == nil {
			cfg.Sensitivity = parsed
		}
	}

	var enabled bool
	if loadKey(blob, KeyMonitoringEnabled, &enabled) {
		cfg.MonitoringEnabled = enabled
	}

	var interval float64
	if loadKey(blob, KeyReminderInterval, &interval) {
		cfg.ReminderInterval = models.ClampReminderInterval(interval)
	}

	return cfg
}

// SaveConfig persists the settings as flat keys
func SaveConfig(blob Blob, cfg models.Config) error {
	if err := saveKey(blob, KeySensitivity, cfg.Sensitivity); err != nil {
		return err
	}
	if err := saveKey(blob, KeyMonitoringEnabled, cfg.MonitoringEnabled); err != nil {
		return err
	}
	return saveKey(blob, KeyReminderInterval, cfg.ReminderInterval)
}

func loadKey(blob Blob, key string, dst any) bool {
	data, ok, err := blob.Load(key)
	if err != nil {
		log.Printf("store: failed to load %s, using default: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("store: corrupt %s blob, using default: %v", key, err)
		return false
	}
	return true
}

func saveKey(blob Blob, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return blob.Save(key, data)
}
