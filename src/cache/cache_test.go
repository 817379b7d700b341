package cache

import (
	"bytes"
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"DeliveryInsights/src/metrics"
	"DeliveryInsights/src/model"
	"DeliveryInsights/src/processor"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func sampleOrders() []model.Order {
	ordered := time.Date(2022, 2, 11, 21, 30, 0, 0, time.UTC)
	return []model.Order{
		{
			ID: "0x2318", ServiceID: "COIMBRES13DEL01", Age: 29,
			Rating: sql.NullFloat64{Float64: 4.7, Valid: true}, OrderType: "Drinks",
			Ordered: ordered, Picked: ordered.Add(10 * time.Minute), PickMinutes: 10,
			Delivered: ordered.Add(45 * time.Minute), TakenMinutes: 35,
			VehicleType: "scooter", VehicleCondition: sql.NullInt64{Int64: 1, Valid: true},
			City: "Metropolitan", Traffic: "Jam", Weather: "Fog", Festival: "No",
			Restaurant: model.Location{Lat: 11.003669, Lon: 76.976494}, Destination: model.Location{Lat: 11.043669, Lon: 77.016494},
			DistanceKm: 6.2218, VelocityKmh: 1.0 / 3.0,
		},
		{
			ID: "0x4f8d", ServiceID: model.Unknown, Age: 29, OrderType: "Buffet",
			Ordered: ordered, OrderedImputed: true, Picked: ordered, Delivered: ordered,
			VehicleType: "motorcycle", City: model.Unknown, Traffic: model.Unknown, Weather: model.Unknown, Festival: model.Unknown,
			VelocityKmh: math.NaN(),
		},
	}
}

type countingSource struct{ reads int }

func (s *countingSource) Read() (dataframe.DataFrame, error) {
	s.reads++
	return dataframe.New(series.New([]string{"x"}, series.String, "ID")), nil
}

type fixedCleaner struct {
	orders []model.Order
	runs   int
}

func (c *fixedCleaner) Run(dataframe.DataFrame) ([]model.Order, processor.Stats, error) {
	c.runs++
	return c.orders, processor.Stats{RowsKept: len(c.orders)}, nil
}

func TestCodecRoundTrip(t *testing.T) {
	orders := sampleOrders()
	data, err := Encode(orders)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(model.Records(back), model.Records(orders)) {
		t.Fatalf("records differ after reload")
	}
	again, err := Encode(back)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatalf("snapshot not byte-identical:\n%s\n%s", data, again)
	}
}

func TestCodecEmpty(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(back) != 0 {
		t.Fatalf("len = %d", len(back))
	}
}

func TestGateMissThenHit(t *testing.T) {
	reg := metrics.NewRegistry()
	source := &countingSource{}
	cleaner := &fixedCleaner{orders: sampleOrders()}
	gate := NewGate(NewMemoryStore(), "dataset_clear", source, cleaner, nil, reg)

	first, err := gate.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := gate.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if source.reads != 1 || cleaner.runs != 1 {
		t.Fatalf("reads = %d runs = %d, want 1/1", source.reads, cleaner.runs)
	}
	if got := testutil.ToFloat64(reg.CacheMisses); got != 1 {
		t.Fatalf("misses = %v", got)
	}
	if got := testutil.ToFloat64(reg.CacheHits); got != 1 {
		t.Fatalf("hits = %v", got)
	}
	if !reflect.DeepEqual(model.Records(first), model.Records(second)) {
		t.Fatalf("hit returned different data")
	}
}

func TestGateRefresh(t *testing.T) {
	source := &countingSource{}
	cleaner := &fixedCleaner{orders: sampleOrders()}
	gate := NewGate(NewMemoryStore(), "k", source, cleaner, nil, nil)

	if _, err := gate.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cleaner.orders = cleaner.orders[:1]
	if _, err := gate.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	orders, err := gate.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(orders) != 1 || source.reads != 2 {
		t.Fatalf("orders = %d reads = %d", len(orders), source.reads)
	}
}

func TestGateCorruptSnapshot(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Save("k", []byte("garbage"))
	source := &countingSource{}
	gate := NewGate(store, "k", source, &fixedCleaner{orders: sampleOrders()}, nil, nil)

	orders, err := gate.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(orders) != 2 || source.reads != 1 {
		t.Fatalf("orders = %d reads = %d", len(orders), source.reads)
	}
}

type failingSource struct{}

func (failingSource) Read() (dataframe.DataFrame, error) {
	return dataframe.New(), errors.New("disk gone")
}

func TestGateSourceError(t *testing.T) {
	gate := NewGate(NewMemoryStore(), "k", failingSource{}, &fixedCleaner{}, nil, nil)
	if _, err := gate.Load(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFileStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "data", "dataset_clear.csv"))
	if _, err := store.Load("ignored"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := store.Save("ignored", []byte("a,b\n")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load("other")
	if err != nil || string(got) != "a,b\n" {
		t.Fatalf("Load = %q, %v", got, err)
	}
}

func TestPebbleStore(t *testing.T) {
	store, err := NewPebbleStore(t.TempDir())
	if err != nil {
		t.Fatalf("pebble open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.Load("dataset_clear"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	data, err := Encode(sampleOrders())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := store.Save("dataset_clear", data); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load("dataset_clear")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("pebble returned different bytes")
	}
}
