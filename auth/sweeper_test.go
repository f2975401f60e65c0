package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/jobhub/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSweep_DeleteErrorEmitsNoEvent(t *testing.T) {
	sessions := new(MockSessions)
	sessions.On("DeleteExpired", mock.Anything, 24*time.Hour).
		Return(int64(0), errors.New("rows affected unavailable", errors.CategoryInternal))

	sink := &capturingSink{}
	sweeper := auth.NewSweeper(sessions, time.Minute, 24*time.Hour).
		WithLogger(testLogger{}).
		WithActivitySink(sink)

	sweeper.Sweep(context.Background())

	sessions.AssertExpectations(t)
	assert.Empty(t, sink.Events(), "a failed sweep must not report deletions")
}

func TestSweep_NothingToDeleteEmitsNoEvent(t *testing.T) {
	sessions := new(MockSessions)
	sessions.On("DeleteExpired", mock.Anything, 24*time.Hour).
		Return(int64(0), nil)

	sink := &capturingSink{}
	sweeper := auth.NewSweeper(sessions, time.Minute, 24*time.Hour).
		WithActivitySink(sink)

	sweeper.Sweep(context.Background())

	assert.Empty(t, sink.Events())
}
