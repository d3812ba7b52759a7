package cron

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type fakeLocker struct {
	held     map[string]bool
	acquired []string
	released []string
	failOn   string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (f *fakeLocker) AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if name == f.failOn {
		return false, fmt.Errorf("redis down")
	}
	if f.held[name] {
		return false, nil
	}
	f.held[name] = true
	f.acquired = append(f.acquired, name)
	return true, nil
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, name string) error {
	delete(f.held, name)
	f.released = append(f.released, name)
	return nil
}

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func newTestRunner(t *testing.T, locker *fakeLocker) *Runner {
	t.Helper()
	runner, err := NewRunner(locker, time.Hour, time.Hour, nil, nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner
}

func TestRunAllTakesAndReleasesLock(t *testing.T) {
	locker := newFakeLocker()
	runner := newTestRunner(t, locker)
	job := &countingJob{name: "retention"}
	runner.Register(job)

	if err := runner.RunAll(context.Background()); err != nil {
		t.Fatalf("run all: %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected one run, got %d", job.runs)
	}
	if len(locker.acquired) != 1 || len(locker.released) != 1 {
		t.Fatalf("lock lifecycle broken: acquired=%v released=%v", locker.acquired, locker.released)
	}
}

func TestRunAllSkipsHeldLock(t *testing.T) {
	locker := newFakeLocker()
	locker.held["retention"] = true
	runner := newTestRunner(t, locker)
	job := &countingJob{name: "retention"}
	runner.Register(job)

	if err := runner.RunAll(context.Background()); err != nil {
		t.Fatalf("held lock is not an error: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job must not run while the lock is held elsewhere")
	}
}

func TestRunAllCollectsFailures(t *testing.T) {
	locker := newFakeLocker()
	runner := newTestRunner(t, locker)
	failing := &countingJob{name: "broken", err: fmt.Errorf("boom")}
	healthy := &countingJob{name: "retention"}
	runner.Register(failing)
	runner.Register(healthy)

	err := runner.RunAll(context.Background())
	if err == nil {
		t.Fatalf("expected combined error")
	}
	if healthy.runs != 1 {
		t.Fatalf("one failing job must not stop the others")
	}
	if len(locker.released) != 2 {
		t.Fatalf("locks must be released even on failure")
	}
}

type fakePurger struct {
	gotRetention time.Duration
	deleted      int64
}

func (f *fakePurger) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	f.gotRetention = retention
	return f.deleted, nil
}

func TestNotificationRetentionJob(t *testing.T) {
	purger := &fakePurger{deleted: 7}
	job, err := NewNotificationRetentionJob(purger, 30, nil)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if purger.gotRetention != 30*24*time.Hour {
		t.Fatalf("unexpected retention %s", purger.gotRetention)
	}

	if _, err := NewNotificationRetentionJob(purger, 0, nil); err == nil {
		t.Fatalf("zero retention should be rejected")
	}
}
