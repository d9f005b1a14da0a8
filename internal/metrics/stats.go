// Package metrics accumulates training statistics between log lines.
package metrics

import "time"

// Window accumulates timing and loss stats across multiple iterations.
type Window struct {
	compute   time.Duration
	steps     int
	lastTrain float64
	lastTest  float64
}

// Record adds a new training iteration to the window.
func (w *Window) Record(computeTime time.Duration, trainLoss float64) {
	w.compute += computeTime
	w.steps++
	w.lastTrain = trainLoss
}

// RecordTest stores the most recent held-out loss.
func (w *Window) RecordTest(testLoss float64) {
	w.lastTest = testLoss
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{}
	if w.compute > 0 {
		snap.ItersPerSec = float64(w.steps) / w.compute.Seconds()
	}
	snap.TrainMSE = w.lastTrain
	snap.TestMSE = w.lastTest

	w.compute = 0
	w.steps = 0
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	ItersPerSec float64
	TrainMSE    float64
	TestMSE     float64
}
