package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRun(t *testing.T) {
	r := NewRegistry()
	r.ObserveRun(Run{Read: 10, Dropped: 2, Kept: 8, NonFinite: 1, Imputed: map[string]int{"Delivery_person_Age": 3}, Seconds: 0.2})
	r.ObserveRun(Run{Read: 5, Kept: 5})

	if got := testutil.ToFloat64(r.RowsRead); got != 15 {
		t.Fatalf("rows read = %v", got)
	}
	if got := testutil.ToFloat64(r.RowsDropped); got != 2 {
		t.Fatalf("rows dropped = %v", got)
	}
	if got := testutil.ToFloat64(r.Imputed.WithLabelValues("Delivery_person_Age")); got != 3 {
		t.Fatalf("imputed age = %v", got)
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	r.ObserveRun(Run{Read: 1})
	r.CacheHit()
	r.CacheMiss()
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.CacheHit()
	r.CacheMiss()
	r.CacheMiss()

	path := filepath.Join(t.TempDir(), "delivery.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "delivery_cache_misses_total 2") {
		t.Fatalf("textfile missing counter:\n%s", data)
	}
}
