package model

import (
	"database/sql"
	"math"
	"reflect"
	"testing"
	"time"
)

func sampleOrders() []Order {
	ordered := time.Date(2022, 3, 19, 23, 50, 0, 0, time.UTC)
	return []Order{
		{
			ID: "0x4607", ServiceID: "INDORES13DEL02", Age: 37,
			Rating: sql.NullFloat64{Float64: 4.9, Valid: true}, OrderType: "Snack",
			Ordered: ordered, Picked: ordered.Add(15 * time.Minute), PickMinutes: 15,
			Delivered: ordered.Add(39 * time.Minute), TakenMinutes: 24,
			VehicleType: "motorcycle", VehicleCondition: sql.NullInt64{Int64: 2, Valid: true},
			City: "Urban", Traffic: "High", Weather: "Sunny", Festival: "No",
			Restaurant: Location{22.745049, 75.892471}, Destination: Location{22.765049, 75.912471},
			DistanceKm: 3.0251, VelocityKmh: 7.56,
		},
		{
			ID: "0xb379", ServiceID: "BANGRES18DEL02", Age: 34, OrderType: "Meal",
			Ordered: ordered, OrderedImputed: true, Picked: ordered, Delivered: ordered,
			VehicleType: "scooter", City: Unknown, Traffic: Unknown, Weather: Unknown, Festival: Unknown,
			DistanceKm: 0, VelocityKmh: math.NaN(),
		},
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	orders := sampleOrders()
	records := Records(orders)
	if !reflect.DeepEqual(records[0], Columns) {
		t.Fatalf("header = %v", records[0])
	}
	if records[2][3] != "" {
		t.Fatalf("missing rating rendered as %q", records[2][3])
	}

	back, err := FromRecords(records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if len(back) != 2 {
		t.Fatalf("len = %d", len(back))
	}
	if !math.IsNaN(back[1].VelocityKmh) {
		t.Fatalf("velocity = %v, want NaN", back[1].VelocityKmh)
	}
	back[1].VelocityKmh, orders[1].VelocityKmh = 0, 0
	if !reflect.DeepEqual(back, orders) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, orders)
	}
	if !reflect.DeepEqual(Records(back), Records(orders)) {
		t.Fatalf("records not stable")
	}
}

func TestFromRecordsMissingColumn(t *testing.T) {
	if _, err := FromRecords([][]string{{ColID}}); err == nil {
		t.Fatalf("expected missing column error")
	}
}

func TestFrameColumns(t *testing.T) {
	df := Frame(sampleOrders())
	if df.Err != nil {
		t.Fatalf("frame: %v", df.Err)
	}
	if !reflect.DeepEqual(df.Names(), Columns) {
		t.Fatalf("names = %v", df.Names())
	}
	if df.Nrow() != 2 {
		t.Fatalf("nrow = %d", df.Nrow())
	}
	if !df.Col(ColRating).Elem(1).IsNA() {
		t.Fatalf("missing rating should be NA")
	}
	if !df.Col(ColVehicleCondition).Elem(1).IsNA() {
		t.Fatalf("missing vehicle condition should be NA")
	}
}

func TestNullIsland(t *testing.T) {
	cases := []struct {
		loc  Location
		want bool
	}{
		{Location{0, 0}, true},
		{Location{0.5, 77}, true},
		{Location{12.34, 77.01}, false},
	}
	for _, c := range cases {
		if got := c.loc.NullIsland(); got != c.want {
			t.Errorf("%+v.NullIsland() = %v", c.loc, got)
		}
	}
}
