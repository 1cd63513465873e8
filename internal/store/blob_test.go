package store

import (
	"testing"
	"time"

	"github.com/synheart/calmband/internal/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	if err := fs.Save("key", []byte(`{"hello":"world"}`)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, ok, err := fs.Load("key")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if string(data) != `{"hello":"world"}` {
		t.Errorf("unexpected blob content: %s", data)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	_, ok, err := fs.Load("absent")
	if err != nil {
		t.Fatalf("expected no error for missing key, got %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing key")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := LoadConfig(NewMemStore())

	if cfg.Sensitivity != models.SensitivityMedium {
		t.Errorf("expected default sensitivity medium, got %v", cfg.Sensitivity)
	}
	if !cfg.MonitoringEnabled {
		t.Error("expected monitoring enabled by default")
	}
	if cfg.ReminderInterval != 3600 {
		t.Errorf("expected default reminder interval 3600, got %v", cfg.ReminderInterval)
	}
	if cfg.LastAcknowledged != nil {
		t.Error("expected no last-acknowledged time by default")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	mem := NewMemStore()

	saved := models.Config{
		Sensitivity:       models.SensitivityDeep,
		MonitoringEnabled: false,
		ReminderInterval:  900,
	}
	if err := SaveConfig(mem, saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cfg := LoadConfig(mem)
	if cfg.Sensitivity != models.SensitivityDeep {
		t.Errorf("expected deep sensitivity, got %v", cfg.Sensitivity)
	}
	if cfg.MonitoringEnabled {
		t.Error("expected monitoring disabled")
	}
	if cfg.ReminderInterval != 900 {
		t.Errorf("expected reminder interval 900, got %v", cfg.ReminderInterval)
	}
}

func TestConfigClampsIntervalOnLoad(t *testing.T) {
	mem := NewMemStore()
	mem.Put(KeyReminderInterval, []byte("10"))

	cfg := LoadConfig(mem)
	if cfg.ReminderInterval != models.MinReminderInterval {
		t.Errorf("expected interval clamped to %v, got %v", models.MinReminderInterval, cfg.ReminderInterval)
	}
}

func TestConfigCorruptKeysFallBack(t *testing.T) {
	mem := NewMemStore()
	mem.Put(KeySensitivity, []byte(`"ultra"`))
	mem.Put(KeyMonitoringEnabled, []byte("maybe"))
	mem.Put(KeyReminderInterval, []byte("{"))

	cfg := LoadConfig(mem)
	defaults := models.DefaultConfig()
	if cfg.Sensitivity != defaults.Sensitivity {
		t.Errorf("expected default sensitivity, got %v", cfg.Sensitivity)
	}
	if cfg.MonitoringEnabled != defaults.MonitoringEnabled {
		t.Errorf("expected default monitoring flag, got %v", cfg.MonitoringEnabled)
	}
	if cfg.ReminderInterval != defaults.ReminderInterval {
		t.Errorf("expected default interval, got %v", cfg.ReminderInterval)
	}
}

func TestInsightLogCapacityAndReload(t *testing.T) {
	mem := NewMemStore()
	log := NewInsightLog(mem)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		in := models.NewInsight(models.InsightTiming, "observation", 0.8, now.Add(time.Duration(i)*time.Minute))
		if err := log.Append(in); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	if log.Len() != 10 {
		t.Fatalf("expected 10 insights after 12 appends, got %d", log.Len())
	}

	reloaded := NewInsightLog(mem)
	if reloaded.Len() != 10 {
		t.Fatalf("expected 10 insights after reload, got %d", reloaded.Len())
	}

	first := reloaded.Insights()[0]
	if !first.Timestamp.Equal(now.Add(11 * time.Minute)) {
		t.Errorf("expected newest insight first after reload, got %v", first.Timestamp)
	}
}
