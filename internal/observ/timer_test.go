package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("scan")
	tm.End(idx, "3 files")
	idx = tm.Begin("lint")
	tm.End(idx, "")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != "scan" || report.Phases[0].Note != "3 files" {
		t.Errorf("phase 0 = %+v", report.Phases[0])
	}
	if report.Phases[1].Name != "lint" {
		t.Errorf("phase 1 name = %q", report.Phases[1].Name)
	}

	summary := tm.Summary()
	if !strings.Contains(summary, "scan") || !strings.Contains(summary, "// 3 files") {
		t.Errorf("summary missing phase info:\n%s", summary)
	}
	if !strings.Contains(summary, "total") {
		t.Errorf("summary missing total:\n%s", summary)
	}
}

func TestTimerNilSafe(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("scan")
	if idx != -1 {
		t.Errorf("Begin on nil timer = %d, want -1", idx)
	}
	tm.End(idx, "")
	if report := tm.Report(); len(report.Phases) != 0 {
		t.Errorf("nil timer report has %d phases", len(report.Phases))
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(0, "nothing started")
	tm.End(-1, "")
	if report := tm.Report(); len(report.Phases) != 0 {
		t.Errorf("report has %d phases, want 0", len(report.Phases))
	}
}
