package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeJSON(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadConfigs(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "config.json", `{
		"raw_path": "raw.csv",
		"cache": {"backend": "pebble", "pebble_dir": "cache"},
		"refresh": {"interval": "15m", "watch": true},
		"report_filter": {"traffic": ["Jam"], "min_age": 20}
	}`)
	writeJSON(t, dir, "dataconfig.json", `{
		"columns": {"ID": "order_id"},
		"null_markers": ["NaN", "-"]
	}`)

	cfg, dcfg, err := loadConfigs(dir, "config.json", "dataconfig.json")
	if err != nil {
		t.Fatalf("loadConfigs: %v", err)
	}
	if cfg.RawPath != "raw.csv" || cfg.Cache.Backend != BackendPebble {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Cache.Key != "dataset_clear" {
		t.Fatalf("default key lost: %q", cfg.Cache.Key)
	}
	if time.Duration(cfg.Refresh.Interval) != 15*time.Minute || !cfg.Refresh.Watch {
		t.Fatalf("refresh = %+v", cfg.Refresh)
	}
	if cfg.ReportFilter.MinAge == nil || *cfg.ReportFilter.MinAge != 20 {
		t.Fatalf("report filter = %+v", cfg.ReportFilter)
	}
	if got := dcfg.GetColumn("ID"); got != "order_id" {
		t.Fatalf("GetColumn(ID) = %q", got)
	}
	if got := dcfg.GetColumn("City"); got != "City" {
		t.Fatalf("default column lost: %q", got)
	}
	if !dcfg.IsNullMarker("-") || dcfg.IsNullMarker("nan") {
		t.Fatalf("null markers not replaced: %v", dcfg.NullMarkers)
	}
}

func TestLoadConfigsWithoutDataConfig(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "config.json", `{"raw_path": "raw.csv"}`)

	_, dcfg, err := loadConfigs(dir, "config.json", "missing.json")
	if err != nil {
		t.Fatalf("loadConfigs: %v", err)
	}
	if dcfg.FixValue("Metropolitian") != "Metropolitan" {
		t.Fatalf("default value fixes missing")
	}
	if len(dcfg.GetCategories("Road_traffic_density")) != 4 {
		t.Fatalf("categories = %v", dcfg.GetCategories("Road_traffic_density"))
	}
}

func TestLoadConfigsRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "config.json", `{"raw_path": "raw.csv", "cache": {"backend": "redis"}}`)

	_, _, err := loadConfigs(dir, "config.json", "dataconfig.json")
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("err = %v, want ErrUnknownBackend", err)
	}
}

func TestLoadConfigsCombinesErrors(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "config.json", `{`)
	writeJSON(t, dir, "dataconfig.json", `[`)

	if _, _, err := loadConfigs(dir, "config.json", "dataconfig.json"); err == nil {
		t.Fatalf("expected error for malformed files")
	}
}

func TestDurationJSON(t *testing.T) {
	d := Duration(90 * time.Second)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Duration
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip = %v", time.Duration(back))
	}
}
