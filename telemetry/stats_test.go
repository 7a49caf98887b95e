package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestSetClassSizes(t *testing.T) {
	var s EnumerationStats
	s.SetClassSizes([]int{4, 1, 1, 2})

	if s.LargestClass != 4 {
		t.Errorf("expected largest class 4, got %d", s.LargestClass)
	}
	if math.Abs(s.MeanClassSize-2.0) > 1e-9 {
		t.Errorf("expected mean class size 2.0, got %f", s.MeanClassSize)
	}
	if math.Abs(s.ClassSizeP50-1.5) > 1e-9 {
		t.Errorf("expected p50 1.5, got %f", s.ClassSizeP50)
	}

	var empty EnumerationStats
	empty.SetClassSizes(nil)
	if empty.LargestClass != 0 || empty.MeanClassSize != 0 {
		t.Error("expected zero stats for no classes")
	}
}
