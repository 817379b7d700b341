package report

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"

	"DeliveryInsights/src/analytics"
	"DeliveryInsights/src/model"

	"github.com/xuri/excelize/v2"
)

func orders() []model.Order {
	ordered := time.Date(2022, 3, 1, 9, 0, 0, 0, time.UTC)
	base := model.Order{
		ID: "0x1", ServiceID: "MYSRES01DEL01", Age: 27,
		Rating: sql.NullFloat64{Float64: 4.8, Valid: true}, OrderType: "Snack",
		Ordered: ordered, Picked: ordered.Add(5 * time.Minute), PickMinutes: 5,
		Delivered: ordered.Add(25 * time.Minute), TakenMinutes: 0,
		VehicleType: "scooter", VehicleCondition: sql.NullInt64{Int64: 2, Valid: true},
		City: "Urban", Traffic: "Low", Weather: "Windy", Festival: "No",
		Restaurant: model.Location{Lat: 12.31, Lon: 76.65}, Destination: model.Location{Lat: 12.35, Lon: 76.69},
		DistanceKm: 6.1,
	}
	second := base
	second.ID, second.City, second.TakenMinutes = "0x2", "Semi-Urban", 30
	second.VelocityKmh = 12.2
	second.Ordered = ordered.AddDate(0, 0, 14)

	// 第一单用时为 0，速度为 +Inf
	base.VelocityKmh = math.Inf(1)
	return []model.Order{base, second}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Write(path, orders(), analytics.Filter{Cities: []string{"Urban", "Semi-Urban"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != len(Sheets(nil)) || sheets[0] != SheetMetrics {
		t.Fatalf("sheets = %v", sheets)
	}

	weeks, err := f.GetRows(SheetOrdersPerWeek)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// 第 9 周到第 11 周，中间一周为 0
	if len(weeks) != 4 || weeks[2][1] != "0" {
		t.Fatalf("weekly rows = %v", weeks)
	}

	dataset, err := f.GetRows(SheetDataset)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(dataset) != 3 || dataset[0][0] != model.ColID {
		t.Fatalf("dataset rows = %v", dataset)
	}
}

func TestWriteReportEmptySelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Write(path, orders(), analytics.Filter{Cities: []string{"Metropolitan"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetDataset)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
