package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileysalas/clientdesk-backend/pkg/logger"
)

type stubLock struct {
	locked   bool
	acquires int
	releases int
	err      error
}

func (l *stubLock) Acquire(context.Context) (bool, error) {
	l.acquires++
	if l.err != nil {
		return false, l.err
	}
	return l.locked, nil
}

func (l *stubLock) Release(context.Context) error {
	l.releases++
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestRunCycleExecutesJobsUnderLock(t *testing.T) {
	job := &stubJob{name: "only"}
	lock := &stubLock{locked: true}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	require.NoError(t, err)

	require.NoError(t, svc.runCycle(context.Background()))
	assert.Equal(t, 1, job.runs)
	assert.Equal(t, 1, lock.acquires)
	assert.Equal(t, 1, lock.releases)
}

func TestRunCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	job := &stubJob{name: "only"}
	lock := &stubLock{locked: false}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	require.NoError(t, err)

	require.NoError(t, svc.runCycle(context.Background()))
	assert.Equal(t, 0, job.runs)
	assert.Equal(t, 0, lock.releases)
}

func TestRunCycleContinuesPastFailingJob(t *testing.T) {
	failing := &stubJob{name: "failing", err: errors.New("boom")}
	next := &stubJob{name: "next"}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(failing, next),
		Lock:     &stubLock{locked: true},
	})
	require.NoError(t, err)

	require.NoError(t, svc.runCycle(context.Background()))
	assert.Equal(t, 1, failing.runs)
	assert.Equal(t, 1, next.runs)
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(ServiceParams{Lock: &stubLock{}})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Logger: testLogger()})
	require.Error(t, err)
}
