package rate_limiter

import (
	"testing"
	"time"
)

func TestLimiterBurstPerIP(t *testing.T) {
	l := New(0.001, 3)

	for i := range 3 {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth request should be limited")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}

	l.CleanupAllVisitors()
	if !l.Allow("10.0.0.1") {
		t.Error("bucket should be fresh after cleanup")
	}
}

func TestLimiterCleanupIdle(t *testing.T) {
	l := New(1, 1)
	l.GetVisitor("10.0.0.1")
	l.visitors["10.0.0.1"].lastSeen = time.Now().Add(-10 * time.Minute)
	l.GetVisitor("10.0.0.2")

	l.cleanup(5 * time.Minute)

	if _, ok := l.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor should be removed")
	}
	if _, ok := l.visitors["10.0.0.2"]; !ok {
		t.Error("active visitor should stay")
	}
}
