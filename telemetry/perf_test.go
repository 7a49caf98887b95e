package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few runs
	for i := 0; i < 5; i++ {
		pc.StartRun()
		pc.StartPhase(PhaseGenerate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseClassify)
		time.Sleep(200 * time.Microsecond)
		pc.EndRun()
	}

	stats := pc.Stats()

	if stats.AvgRunDuration <= 0 {
		t.Error("expected positive average run duration")
	}
	if stats.Runs != 5 {
		t.Errorf("expected 5 runs, got %d", stats.Runs)
	}
	if _, ok := stats.PhaseAvg[PhaseGenerate]; !ok {
		t.Error("expected generate phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseClassify]; !ok {
		t.Error("expected classify phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	for i := 0; i < 10; i++ {
		pc.StartRun()
		pc.StartPhase(PhaseGraph)
		pc.EndRun()
	}

	stats := pc.Stats()
	if stats.Runs != 5 {
		t.Errorf("expected window of 5 runs, got %d", stats.Runs)
	}
	if stats.MinRunDuration > stats.MaxRunDuration {
		t.Errorf("min %v exceeds max %v", stats.MinRunDuration, stats.MaxRunDuration)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartRun()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(2 * time.Millisecond)
		pc.EndRun()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase pct (%.1f) > fast phase pct (%.1f)",
			stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
	if total := stats.PhasePct["slow"] + stats.PhasePct["fast"]; total > 100.5 {
		t.Errorf("phase percentages sum to %.1f, expected <= 100", total)
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	pc := NewPerfCollector(0)
	stats := pc.Stats()
	if stats.Runs != 0 || stats.AvgRunDuration != 0 {
		t.Error("expected zero stats from empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_NilSafe(t *testing.T) {
	var pc *PerfCollector
	pc.StartRun()
	pc.StartPhase(PhaseGraph)
	pc.EndRun()
	if pc.Stats().Runs != 0 {
		t.Error("nil collector should report no runs")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		Runs:           2,
		AvgRunDuration: 1500 * time.Microsecond,
		PhasePct:       map[string]float64{PhaseGraph: 40, PhaseClassify: 60},
	}
	row := s.ToCSV()
	if row.AvgRunUS != 1500 || row.GraphPct != 40 || row.ClassifyPct != 60 || row.GeneratePct != 0 {
		t.Errorf("unexpected CSV row %+v", row)
	}

	s.PhasePct = map[string]float64{PhaseExpected: 10, PhaseSample: 90}
	row = s.ToCSV()
	if row.ExpectedPct != 10 || row.SamplePct != 90 || row.GraphPct != 0 {
		t.Errorf("unexpected CSV row %+v", row)
	}
}
