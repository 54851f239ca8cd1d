package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordLoginAttemptCountsByResult(t *testing.T) {
	before := testutil.ToFloat64(loginAttempts.WithLabelValues("failure"))
	RecordLoginAttempt("failure")
	RecordLoginAttempt("failure")
	after := testutil.ToFloat64(loginAttempts.WithLabelValues("failure"))
	if after-before != 2 {
		t.Fatalf("expected 2 failures recorded, got %v", after-before)
	}
}

func TestSetReadyTogglesGauge(t *testing.T) {
	SetReady(true)
	if got := testutil.ToFloat64(ready); got != 1 {
		t.Fatalf("expected ready=1, got %v", got)
	}
	SetReady(false)
	if got := testutil.ToFloat64(ready); got != 0 {
		t.Fatalf("expected ready=0, got %v", got)
	}
}
