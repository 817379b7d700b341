package processor

import (
	"math"
	"testing"
	"time"

	"DeliveryInsights/src/model"
)

func TestNormalizerScalars(t *testing.T) {
	n := NewNormalizer(nil)

	if got := n.minutes("(min) 35"); !got.Valid || got.Int64 != 35 {
		t.Errorf("minutes = %+v", got)
	}
	if got := n.minutes("NaN"); got.Valid {
		t.Errorf("minutes(NaN) = %+v", got)
	}
	for _, v := range []string{"NaN", "nan", "Inf", "abc", ""} {
		if got := n.number(v); got.Valid {
			t.Errorf("number(%q) = %+v", v, got)
		}
	}
	if got := n.integer("34.0"); !got.Valid || got.Int64 != 34 {
		t.Errorf("integer = %+v", got)
	}

	cases := map[string]time.Duration{
		"11:30:00":    11*time.Hour + 30*time.Minute,
		"08:05":       8*time.Hour + 5*time.Minute,
		"0.5":         12 * time.Hour,
		"0.479166667": 11*time.Hour + 30*time.Minute,
		"0.999999":    24*time.Hour - time.Second,
	}
	for in, want := range cases {
		if got := n.clock(in); !got.Valid || got.Duration != want {
			t.Errorf("clock(%q) = %+v, want %v", in, got, want)
		}
	}
	if got := n.clock("25"); got.Valid {
		t.Errorf("clock(25) = %+v", got)
	}

	if got := n.date("19-03-2022"); !got.Valid || !got.Time.Equal(time.Date(2022, 3, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %+v", got)
	}
	if got := n.date("2022-03-19"); !got.Valid || got.Time.Day() != 19 {
		t.Errorf("iso date = %+v", got)
	}
}

func TestNormalizerCategory(t *testing.T) {
	n := NewNormalizer(nil)
	cases := []struct {
		column, in, want string
	}{
		{"City", "Metropolitian", "Metropolitan"},
		{"City", "NaN", model.Unknown},
		{"Road_traffic_density", "Jam", "Jam"},
		{"Road_traffic_density", "Gridlock", model.Unknown},
		{"Festival", "", model.Unknown},
	}
	for _, c := range cases {
		if got := n.category(c.column, c.in); got != c.want {
			t.Errorf("category(%s, %q) = %q, want %q", c.column, c.in, got, c.want)
		}
	}
}

func TestHaversine(t *testing.T) {
	if got := Haversine(model.Location{Lat: 19, Lon: 72}, model.Location{Lat: 19, Lon: 72}); got != 0 {
		t.Fatalf("same point = %v", got)
	}
	got := Haversine(model.Location{Lat: 19, Lon: 72}, model.Location{Lat: 19.1, Lon: 72.1})
	if math.Abs(got-15.30) > 0.01 {
		t.Fatalf("distance = %v", got)
	}
}
