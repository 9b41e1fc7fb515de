package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/lifecycle"
	apperrors "equipment-tracker/pkg/errors"
)

func newLocationFixture() (*LocationService, *fakeEquipmentRepo, *fakeLocationLogRepo, *fakeTxManager) {
	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{ID: 3, Name: "Кран", QRCode: "EQ-CRANE1"})
	logs := &fakeLocationLogRepo{}
	tx := &fakeTxManager{}
	svc := NewLocationService(equipmentRepo, logs, tx, 50*time.Millisecond, 0, zap.NewNop())
	svc.now = fixedClock
	return svc, equipmentRepo, logs, tx
}

func TestRecord_WritesPositionAndHistoryTogether(t *testing.T) {
	svc, equipmentRepo, logs, tx := newLocationFixture()

	entry, err := svc.Record(context.Background(), 3, lifecycle.Coordinate{Lat: 60.1, Lng: 29.9}, "Иван Петров")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), entry.ID)
	assert.Equal(t, fixedNow, entry.CreatedAt)
	assert.Equal(t, 1, tx.calls)

	stored, _ := equipmentRepo.FindByID(context.Background(), nil, 3)
	require.NotNil(t, stored.LastSeenAt)
	assert.Equal(t, fixedNow, *stored.LastSeenAt)
	assert.Equal(t, 60.1, *stored.LastKnownLat)
	require.Len(t, logs.entries, 1)
	assert.Equal(t, *stored.LastSeenAt, logs.entries[0].CreatedAt)
}

func TestRecord_RejectsOutOfRange(t *testing.T) {
	svc, _, logs, tx := newLocationFixture()

	_, err := svc.Record(context.Background(), 3, lifecycle.Coordinate{Lat: 91, Lng: 0}, "x")
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Zero(t, tx.calls)
	assert.Empty(t, logs.entries)
}

func TestCaptureAndRecord_NoSource(t *testing.T) {
	svc, _, _, tx := newLocationFixture()

	coord, err := svc.CaptureAndRecord(context.Background(), 3, nil, "x")
	assert.NoError(t, err)
	assert.Nil(t, coord)
	assert.Zero(t, tx.calls)
}

func TestCaptureAndRecord_SensorErrorsAreSwallowed(t *testing.T) {
	for _, sensorErr := range []error{
		apperrors.ErrPermissionDenied,
		apperrors.ErrPositionTimeout,
		apperrors.ErrPositionUnsupported,
	} {
		t.Run(sensorErr.Error(), func(t *testing.T) {
			svc, equipmentRepo, _, _ := newLocationFixture()

			coord, err := svc.CaptureAndRecord(context.Background(), 3, fixedPosition{err: sensorErr}, "x")
			assert.NoError(t, err)
			assert.Nil(t, coord)
			assert.Zero(t, equipmentRepo.positions)
		})
	}
}

func TestCaptureAndRecord_ReportedErrorCode(t *testing.T) {
	svc, _, logs, _ := newLocationFixture()

	coord, err := svc.CaptureAndRecord(context.Background(), 3,
		lifecycle.ReportedPosition{Error: lifecycle.PositionErrorPermissionDenied}, "x")
	assert.NoError(t, err)
	assert.Nil(t, coord)
	assert.Empty(t, logs.entries)
}

func TestCaptureAndRecord_PersistenceErrorKeepsCoordinate(t *testing.T) {
	svc, equipmentRepo, _, _ := newLocationFixture()
	equipmentRepo.positionErr = errors.New("deadlock detected")

	coord, err := svc.CaptureAndRecord(context.Background(), 3, fixedPosition{coord: lifecycle.Coordinate{Lat: 1, Lng: 2}}, "x")
	require.Error(t, err)
	require.NotNil(t, coord)
	assert.Equal(t, lifecycle.Coordinate{Lat: 1, Lng: 2}, *coord)
}

func TestRecordByCode(t *testing.T) {
	svc, _, logs, _ := newLocationFixture()

	res, err := svc.RecordByCode(context.Background(), " EQ-CRANE1 ",
		lifecycle.ReportedPosition{Coordinate: &lifecycle.Coordinate{Lat: 59.93, Lng: 30.31}}, "Иван Петров")
	require.NoError(t, err)
	assert.True(t, res.Logged)
	require.NotNil(t, res.Position)
	assert.Equal(t, 59.93, res.Position.Lat)
	require.Len(t, logs.entries, 1)
	assert.Equal(t, "Иван Петров", logs.entries[0].RecordedBy)

	res, err = svc.RecordByCode(context.Background(), "EQ-CRANE1", lifecycle.ReportedPosition{Error: lifecycle.PositionErrorTimeout}, "x")
	require.NoError(t, err)
	assert.False(t, res.Logged)
	assert.Nil(t, res.Position)

	_, err = svc.RecordByCode(context.Background(), "EQ-UNKNOWN", lifecycle.ReportedPosition{}, "x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHistory_NewestFirstWithCurrentMarker(t *testing.T) {
	svc, _, _, _ := newLocationFixture()
	for i := 1; i <= 3; i++ {
		_, err := svc.Record(context.Background(), 3, lifecycle.Coordinate{Lat: float64(i), Lng: float64(i)}, "x")
		require.NoError(t, err)
	}

	history, err := svc.History(context.Background(), "EQ-CRANE1", 2)
	require.NoError(t, err)
	assert.Equal(t, "EQ-CRANE1", history.Equipment.QRCode)
	require.Len(t, history.Entries, 2)
	assert.Equal(t, 3.0, history.Entries[0].Lat)
	assert.True(t, history.Entries[0].IsCurrent)
	assert.False(t, history.Entries[1].IsCurrent)
}

func TestHistory_DefaultLimit(t *testing.T) {
	svc, _, _, _ := newLocationFixture()
	assert.Equal(t, uint64(20), svc.historyLimit)

	history, err := svc.History(context.Background(), "EQ-CRANE1", 0)
	require.NoError(t, err)
	assert.Empty(t, history.Entries)
}

func TestNewLocationService_NonPositiveTimeoutFallsBack(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		equipmentRepo := newFakeEquipmentRepo(entities.Equipment{ID: 3, Name: "Кран", QRCode: "EQ-CRANE1"})
		logs := &fakeLocationLogRepo{}
		svc := NewLocationService(equipmentRepo, logs, &fakeTxManager{}, timeout, 0, zap.NewNop())
		assert.Equal(t, defaultCaptureTimeout, svc.captureTimeout)

		coord, err := svc.CaptureAndRecord(context.Background(), 3,
			lifecycle.ReportedPosition{Coordinate: &lifecycle.Coordinate{Lat: 59.9, Lng: 30.3}}, "Иван Петров")
		require.NoError(t, err)
		require.NotNil(t, coord)
		assert.Len(t, logs.entries, 1)
	}
}
