package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping() error { return f.err }

type fakeUV struct{ last time.Time }

func (f fakeUV) LastRefresh() time.Time { return f.last }

func TestChecker_AllHealthy(t *testing.T) {
	c := NewChecker(fakePinger{}, t.TempDir(), fakeUV{last: time.Now()})
	c.runAll(context.Background())

	if !c.IsHealthy() {
		t.Errorf("IsHealthy() = false, want true: %+v", c.Statuses())
	}
	if got := len(c.Statuses()); got != 3 {
		t.Errorf("len(Statuses()) = %d, want 3", got)
	}
}

func TestChecker_DBFailure(t *testing.T) {
	c := NewChecker(fakePinger{err: errors.New("database is locked")}, t.TempDir(), fakeUV{})
	c.runAll(context.Background())

	if c.IsHealthy() {
		t.Error("IsHealthy() = true, want false")
	}

	var found bool
	for _, s := range c.Statuses() {
		if s.Name == "sqlite" {
			found = true
			if s.Healthy {
				t.Error("sqlite check should be unhealthy")
			}
			if s.Error == "" {
				t.Error("sqlite check should carry the error message")
			}
		}
	}
	if !found {
		t.Fatal("no sqlite status reported")
	}
}

func TestChecker_StaleUV(t *testing.T) {
	c := NewChecker(fakePinger{}, t.TempDir(), fakeUV{last: time.Now().Add(-time.Hour)})
	c.runAll(context.Background())

	if c.IsHealthy() {
		t.Error("IsHealthy() = true, want false for hour-old UV reading")
	}
}

func TestChecker_NoRefreshYet(t *testing.T) {
	// Zero time means the daemon just started; not a failure.
	c := NewChecker(fakePinger{}, t.TempDir(), fakeUV{})
	c.runAll(context.Background())

	if !c.IsHealthy() {
		t.Errorf("IsHealthy() = false, want true: %+v", c.Statuses())
	}
}

func TestChecker_MissingDataDirOK(t *testing.T) {
	c := NewChecker(fakePinger{}, "/nonexistent/solarin-data", fakeUV{last: time.Now()})
	c.runAll(context.Background())

	if !c.IsHealthy() {
		t.Errorf("missing data dir should be healthy (created on first write): %+v", c.Statuses())
	}
}
