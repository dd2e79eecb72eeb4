package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
)

type trackingHandlerMock struct{ mock.Mock }

func (m *trackingHandlerMock) Handle(ctx context.Context, command commands.RefreshTrackingCommand) (commands.RefreshTrackingResult, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(commands.RefreshTrackingResult), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTrackingRefreshJob_Run(t *testing.T) {
	t.Run("should pass the configured batch size to the handler", func(t *testing.T) {
		// Given
		handler := new(trackingHandlerMock)
		job := NewTrackingRefreshJob(handler, DefaultTrackingSchedule, 40, discardLogger())
		cmd, err := commands.NewRefreshTrackingCommand(40)
		require.NoError(t, err)

		handler.On("Handle", mock.Anything, mock.MatchedBy(func(c commands.RefreshTrackingCommand) bool {
			return c.BatchSize() == 40
		})).Return(commands.RefreshTrackingResult{Checked: 3, Updated: 1}, nil).Once()

		// When
		job.run(t.Context(), cmd)

		// Then
		handler.AssertExpectations(t)
	})

	t.Run("should survive handler failures", func(t *testing.T) {
		handler := new(trackingHandlerMock)
		job := NewTrackingRefreshJob(handler, DefaultTrackingSchedule, 10, discardLogger())
		cmd, err := commands.NewRefreshTrackingCommand(10)
		require.NoError(t, err)

		handler.On("Handle", mock.Anything, mock.Anything).
			Return(commands.RefreshTrackingResult{}, errors.New("database is down")).Twice()

		assert.NotPanics(t, func() {
			job.run(t.Context(), cmd)
			job.run(t.Context(), cmd)
		})
		handler.AssertExpectations(t)
	})
}

func TestTrackingRefreshJob_Start(t *testing.T) {
	t.Run("should start and stop on a valid schedule", func(t *testing.T) {
		job := NewTrackingRefreshJob(new(trackingHandlerMock), "0 0 3 * * *", 10, discardLogger())

		require.NoError(t, job.Start())
		job.Stop()
	})

	t.Run("should reject an invalid schedule", func(t *testing.T) {
		job := NewTrackingRefreshJob(new(trackingHandlerMock), "every minute", 10, discardLogger())

		require.Error(t, job.Start())
	})

	t.Run("should reject an invalid batch size", func(t *testing.T) {
		job := NewTrackingRefreshJob(new(trackingHandlerMock), DefaultTrackingSchedule, 0, discardLogger())

		require.Error(t, job.Start())
	})
}

func TestJobManager(t *testing.T) {
	t.Run("should fall back to the default schedule", func(t *testing.T) {
		jm := NewJobManager(new(trackingHandlerMock), Config{TrackingBatchSize: 5}, discardLogger())

		assert.Equal(t, DefaultTrackingSchedule, jm.trackingRefreshJob.schedule)
		require.NoError(t, jm.StartAll())
		jm.StopAll()
	})

	t.Run("should report a job that cannot start", func(t *testing.T) {
		jm := NewJobManager(new(trackingHandlerMock), Config{TrackingSchedule: "bogus", TrackingBatchSize: 5}, discardLogger())

		err := jm.StartAll()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "tracking refresh job")
	})
}
