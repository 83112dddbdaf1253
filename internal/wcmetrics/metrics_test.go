package wcmetrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestObserveCommitDurationRecordsASample(t *testing.T) {
	var before dto.Metric
	if err := CommitDuration.Write(&before); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	beforeCount := before.GetHistogram().GetSampleCount()

	ObserveCommitDuration(time.Now().Add(-50 * time.Millisecond))

	var after dto.Metric
	if err := CommitDuration.Write(&after); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := after.GetHistogram().GetSampleCount(); got != beforeCount+1 {
		t.Errorf("sample count = %d, want %d", got, beforeCount+1)
	}
}

func TestWorkQueueDepthReportsAGauge(t *testing.T) {
	var m dto.Metric
	if err := WorkQueueDepth.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if m.GetGauge() == nil {
		t.Error("WorkQueueDepth did not report a gauge value")
	}
}
