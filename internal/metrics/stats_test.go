package metrics

import (
	"math"
	"testing"
	"time"
)

func TestWindowSnapshot(t *testing.T) {
	var w Window
	w.Record(10*time.Millisecond, 1.2)
	w.Record(10*time.Millisecond, 0.8)
	w.RecordTest(0.9)

	snap := w.Snapshot()
	if math.Abs(snap.ItersPerSec-100) > 1 {
		t.Fatalf("unexpected throughput %.2f", snap.ItersPerSec)
	}
	if snap.TrainMSE != 0.8 {
		t.Fatalf("expected last train loss 0.8, got %.2f", snap.TrainMSE)
	}
	if snap.TestMSE != 0.9 {
		t.Fatalf("expected test loss 0.9, got %.2f", snap.TestMSE)
	}
	if w.steps != 0 || w.compute != 0 {
		t.Fatalf("window was not reset")
	}
}

func TestWindowSnapshot_Empty(t *testing.T) {
	var w Window
	snap := w.Snapshot()
	if snap.ItersPerSec != 0 {
		t.Fatalf("empty window reported throughput %.2f", snap.ItersPerSec)
	}
}
