package impl

import (
	"log/slog"
	"testing"
	"time"

	"tripwatch/config"
	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(countdown time.Duration) *confirmationService {
	cfg := pipelineConfig()
	cfg.Pipeline.ConfirmationCountdown = countdown

	return NewConfirmationService(cfg, slog.Default()).(*confirmationService)
}

func TestConfirmationService_TrackAndGet(t *testing.T) {
	registry := newRegistry(15 * time.Second)
	confirmation := entity.NewConfirmation(uuid.New(), uuid.New())
	registry.Track(confirmation)

	got, ok := registry.Get(confirmation.ID())
	require.True(t, ok)
	assert.Equal(t, confirmation, got)

	_, ok = registry.Get(uuid.New())
	assert.False(t, ok)
}

func TestConfirmationService_DispatchSettledRoutesToBoundConfirmation(t *testing.T) {
	registry := newRegistry(15 * time.Second)
	confirmation := entity.NewConfirmation(uuid.New(), uuid.New())
	confirmation.MarkLocationResolved(uuid.New())
	dispatchID := uuid.New()
	confirmation.MarkNotificationPending(dispatchID)

	registry.Track(confirmation)
	registry.BindDispatch(confirmation.ID(), dispatchID)
	registry.DispatchSettled(dispatchID, entity.DispatchStatusSent)

	assert.Equal(t, entity.ConfirmationNotificationSent, confirmation.State())
	assert.False(t, confirmation.ClosesAt().IsZero())
}

func TestConfirmationService_DispatchSettledUnknownDispatchIsNoop(t *testing.T) {
	registry := newRegistry(15 * time.Second)

	// Must not panic when the confirmation was already evicted.
	registry.DispatchSettled(uuid.New(), entity.DispatchStatusFailed)
}

func TestConfirmationService_FailedDispatchMarksFailure(t *testing.T) {
	registry := newRegistry(15 * time.Second)
	confirmation := entity.NewConfirmation(uuid.New(), uuid.New())
	confirmation.MarkLocationResolved(uuid.New())
	dispatchID := uuid.New()
	confirmation.MarkNotificationPending(dispatchID)

	registry.Track(confirmation)
	registry.BindDispatch(confirmation.ID(), dispatchID)
	registry.DispatchSettled(dispatchID, entity.DispatchStatusFailed)

	assert.Equal(t, entity.ConfirmationNotificationFailed, confirmation.State())
}

func TestConfirmationService_AutoCloseFiresAfterCountdown(t *testing.T) {
	registry := newRegistry(20 * time.Millisecond)
	confirmation := entity.NewConfirmation(uuid.New(), uuid.New())
	registry.Track(confirmation)
	registry.ArmAutoClose(confirmation.ID())

	require.Eventually(t, func() bool {
		return confirmation.State() == entity.ConfirmationClosed
	}, time.Second, 5*time.Millisecond)
}

func TestConfirmationService_ExplicitClose(t *testing.T) {
	registry := newRegistry(15 * time.Second)
	confirmation := entity.NewConfirmation(uuid.New(), uuid.New())
	registry.Track(confirmation)

	closed, ok := registry.Close(confirmation.ID())
	require.True(t, ok)
	assert.Equal(t, entity.ConfirmationClosed, closed.State())

	// Still pollable during the retention grace period.
	_, ok = registry.Get(confirmation.ID())
	assert.True(t, ok)

	_, ok = registry.Close(uuid.New())
	assert.False(t, ok)
}

func TestConfirmationService_CountdownFromConfig(t *testing.T) {
	cfg := &config.Config{Pipeline: &config.PipelineConfig{ConfirmationCountdown: 15 * time.Second}}
	registry := NewConfirmationService(cfg, slog.Default()).(*confirmationService)
	confirmation := entity.NewConfirmation(uuid.New(), uuid.New())
	registry.Track(confirmation)

	before := time.Now()
	registry.ArmAutoClose(confirmation.ID())
	assert.WithinDuration(t, before.Add(15*time.Second), confirmation.ClosesAt(), time.Second)
}
