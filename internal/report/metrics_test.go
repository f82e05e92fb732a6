package report

import (
	"reflect"
	"testing"
	"time"
)

func TestAccuracy(t *testing.T) {
	cases := []struct {
		correct int
		total   int
		want    float64
	}{
		{0, 0, 0},
		{1, 1, 100.0},
		{1, 2, 50.0},
		{2, 3, 66.7},
		{3, 4, 75.0},
		{1, 3, 33.3},
	}
	for _, tc := range cases {
		if got := Accuracy(tc.correct, tc.total); got != tc.want {
			t.Fatalf("Accuracy(%d, %d) = %.1f, want %.1f", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{7 * time.Minute, "07:00"},
		{61*time.Minute + 5*time.Second, "1:01:05"},
		{-time.Second, "00:00"},
	}
	for _, tc := range cases {
		if got := FormatElapsed(tc.d); got != tc.want {
			t.Fatalf("FormatElapsed(%s) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		minutes float64
		want    string
	}{
		{0, "0m"},
		{45.4, "45m"},
		{60, "1h 0m"},
		{135.6, "2h 16m"},
		{-3, "0m"},
	}
	for _, tc := range cases {
		if got := FormatMinutes(tc.minutes); got != tc.want {
			t.Fatalf("FormatMinutes(%.1f) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 3, 5}, 2)
	want := []float64{1, 2, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MovingAverage = %v, want %v", got, want)
	}
}

func TestMovingAverageWindowOnePassesThrough(t *testing.T) {
	values := []float64{4, 2, 9}
	got := MovingAverage(values, 1)
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("expected pass-through, got %v", got)
	}
	got[0] = 100
	if values[0] != 4 {
		t.Fatalf("pass-through must copy, not alias")
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	got := Sparkline([]float64{5, 5, 5})
	if len(got) != 3 {
		t.Fatalf("expected 3 characters, got %q", got)
	}
	if got[0] != got[1] || got[1] != got[2] {
		t.Fatalf("flat series must render uniformly, got %q", got)
	}
}

func TestSparklineEndpoints(t *testing.T) {
	got := Sparkline([]float64{0, 100})
	if len(got) != 2 {
		t.Fatalf("expected 2 characters, got %q", got)
	}
	if got[0] != ' ' || got[1] != '@' {
		t.Fatalf("expected extremes mapped to extreme glyphs, got %q", got)
	}
}
