package db

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestSettingsRoundTrip(t *testing.T) {
	d := openTestDB(t)

	if got := d.GetSetting("engine", "openai"); got != "openai" {
		t.Errorf("missing key default = %q, want openai", got)
	}

	if err := d.SetSetting("engine", "whisper.cpp"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if got := d.GetSetting("engine", "openai"); got != "whisper.cpp" {
		t.Errorf("GetSetting = %q, want whisper.cpp", got)
	}

	// Upsert overwrites.
	if err := d.SetSetting("engine", "openai"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	if got := d.GetSetting("engine", ""); got != "openai" {
		t.Errorf("GetSetting after overwrite = %q, want openai", got)
	}

	all, err := d.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings: %v", err)
	}
	if len(all) != 1 || all["engine"] != "openai" {
		t.Errorf("GetAllSettings = %v", all)
	}
}

func TestJobsTableExists(t *testing.T) {
	d := openTestDB(t)

	var count int
	err := d.DB().QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count)
	if err != nil {
		t.Fatalf("jobs table query: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh jobs table has %d rows", count)
	}
}
