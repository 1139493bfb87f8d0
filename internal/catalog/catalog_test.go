package catalog

import (
	"path/filepath"
	"testing"
	"time"
)

func testEntry(day, deviceID, metric string, rows int, written time.Time) Entry {
	return Entry{
		Day:       day,
		StationID: "station-1",
		DeviceID:  deviceID,
		Device:    "Outdoor",
		Metric:    metric,
		File:      "data/" + day + "_Outdoor_" + metric + ".csv",
		RowCount:  rows,
		WrittenAt: written,
	}
}

func TestRecordAndRecent(t *testing.T) {
	cat, err := Open(filepath.Join(t.TempDir(), "exports.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cat.Close()

	base := time.Date(2024, 3, 2, 6, 10, 0, 0, time.UTC)
	if err := cat.Record(testEntry("2024-03-01", "module-1", "Temperature", 288, base)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := cat.Record(testEntry("2024-03-01", "module-1", "Humidity", 288, base.Add(time.Second))); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := cat.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Metric != "Humidity" {
		t.Errorf("newest entry metric = %q, want Humidity", entries[0].Metric)
	}
	if entries[1].RowCount != 288 || entries[1].Day != "2024-03-01" {
		t.Errorf("oldest entry = %+v", entries[1])
	}
}

func TestRecordReplacesSameKey(t *testing.T) {
	cat, err := Open(filepath.Join(t.TempDir(), "exports.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cat.Close()

	base := time.Date(2024, 3, 2, 6, 10, 0, 0, time.UTC)
	if err := cat.Record(testEntry("2024-03-01", "module-1", "Temperature", 288, base)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := cat.Record(testEntry("2024-03-01", "module-1", "Temperature", 12, base.Add(time.Hour))); err != nil {
		t.Fatalf("Record again: %v", err)
	}

	entries, err := cat.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1 after replace", len(entries))
	}
	if entries[0].RowCount != 12 {
		t.Errorf("row count = %d, want 12", entries[0].RowCount)
	}
}

func TestRecentLimit(t *testing.T) {
	cat, err := Open(filepath.Join(t.TempDir(), "exports.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cat.Close()

	base := time.Date(2024, 3, 2, 6, 10, 0, 0, time.UTC)
	for i, metric := range []string{"Temperature", "Humidity", "CO2"} {
		if err := cat.Record(testEntry("2024-03-01", "module-1", metric, 1, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := cat.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Metric != "CO2" {
		t.Errorf("newest = %q, want CO2", entries[0].Metric)
	}
}
