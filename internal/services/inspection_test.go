package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-tracker/internal/authz"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/events"
	"equipment-tracker/internal/lifecycle"
	apperrors "equipment-tracker/pkg/errors"
)

type inspectionFixture struct {
	service     *InspectionService
	equipment   *fakeEquipmentRepo
	inspections *fakeInspectionRepo
	logs        *fakeLocationLogRepo
	storage     *fakeStorage
	tx          *fakeTxManager
	publisher   *recordingPublisher
}

func newInspectionFixture(t *testing.T) *inspectionFixture {
	t.Helper()
	next := fixedNow.AddDate(0, 0, 30)
	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{
		ID:                  1,
		Name:                "Сварочный аппарат",
		QRCode:              "EQ-000001",
		TypeID:              1,
		Status:              lifecycle.StatusActive,
		NextMaintenanceDate: &next,
	})
	typeRepo := newFakeTypeRepo(entities.EquipmentType{
		ID:                    1,
		Name:                  "Сварка",
		MaintenancePeriodDays: 180,
		ChecklistSchema:       []lifecycle.ChecklistItem{{Label: "Кабель"}, {Label: "Заземление"}},
	})
	f := &inspectionFixture{
		equipment:   equipmentRepo,
		inspections: &fakeInspectionRepo{},
		logs:        &fakeLocationLogRepo{},
		storage:     newFakeStorage(),
		tx:          &fakeTxManager{},
		publisher:   &recordingPublisher{},
	}
	locations := NewLocationService(equipmentRepo, f.logs, f.tx, time.Second, 20, zap.NewNop())
	locations.now = fixedClock
	f.service = NewInspectionService(f.inspections, equipmentRepo, typeRepo, f.tx, locations, f.storage, f.publisher, zap.NewNop())
	f.service.now = fixedClock
	return f
}

func inspectorSession() authz.Session {
	return authz.Session{UserID: 5, FullName: "Иван Петров", Role: authz.RoleInspector}
}

func answers(statuses ...lifecycle.AnswerStatus) []lifecycle.ChecklistAnswer {
	labels := []string{"Кабель", "Заземление", "Корпус"}
	out := make([]lifecycle.ChecklistAnswer, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, lifecycle.ChecklistAnswer{Label: labels[i], Status: s})
	}
	return out
}

func TestChecklistSheet_ReturnsUnsetAnswers(t *testing.T) {
	f := newInspectionFixture(t)

	sheet, err := f.service.ChecklistSheet(context.Background(), " EQ-000001 ")
	require.NoError(t, err)
	assert.Equal(t, "Сварка", sheet.TypeName)
	require.Len(t, sheet.Answers, 2)
	for _, a := range sheet.Answers {
		assert.Equal(t, lifecycle.AnswerUnset, a.Status)
	}
}

func TestChecklistSheet_UnknownCode(t *testing.T) {
	f := newInspectionFixture(t)

	_, err := f.service.ChecklistSheet(context.Background(), "EQ-NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmit_PassKeepsStatus(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass, lifecycle.AnswerPass))

	res, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, SubmissionSucceeded, sub.State())
	assert.Equal(t, lifecycle.ResultPass, res.Inspection.Result)
	assert.Equal(t, lifecycle.StatusActive, res.EquipmentStatus)
	assert.Equal(t, lifecycle.DerivedActive, res.DerivedStatus)
	assert.False(t, res.PositionLogged)

	require.Len(t, f.inspections.items, 1)
	saved := f.inspections.items[0]
	require.NotNil(t, saved.InspectorID)
	assert.Equal(t, uint64(5), *saved.InspectorID)
	assert.Nil(t, saved.WorkerName)

	stored, _ := f.equipment.FindByID(context.Background(), nil, 1)
	assert.Equal(t, lifecycle.StatusActive, stored.Status)
}

func TestSubmit_FailLocksEquipmentAndPublishes(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass, lifecycle.AnswerFail))

	res, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, lifecycle.ResultFail, res.Inspection.Result)
	assert.Equal(t, lifecycle.StatusMaintenanceRequired, res.EquipmentStatus)
	assert.Equal(t, lifecycle.DerivedLocked, res.DerivedStatus)

	stored, _ := f.equipment.FindByID(context.Background(), nil, 1)
	assert.Equal(t, lifecycle.StatusMaintenanceRequired, stored.Status)
	assert.Equal(t, 1, f.tx.calls)

	require.Len(t, f.publisher.events, 1)
	event, ok := f.publisher.events[0].(events.InspectionSubmittedEvent)
	require.True(t, ok)
	assert.Equal(t, lifecycle.ResultFail, event.Result)
	assert.Equal(t, "Иван Петров", event.Inspector)
}

func TestSubmit_FailLocksRegardlessOfPriorStatus(t *testing.T) {
	overdue := fixedNow.AddDate(0, 0, -10)
	cases := []struct {
		name   string
		status lifecycle.StoredStatus
		next   *time.Time
	}{
		{"уже на обслуживании", lifecycle.StatusMaintenanceRequired, &overdue},
		{"просроченное активное", lifecycle.StatusActive, &overdue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newInspectionFixture(t)
			f.equipment.items[1].Status = tc.status
			f.equipment.items[1].NextMaintenanceDate = tc.next
			sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerFail))

			res, err := f.service.Submit(context.Background(), sub)
			require.NoError(t, err)
			assert.Equal(t, lifecycle.StatusMaintenanceRequired, res.EquipmentStatus)
			assert.Equal(t, lifecycle.DerivedLocked, res.DerivedStatus)

			stored, _ := f.equipment.FindByID(context.Background(), nil, 1)
			assert.Equal(t, lifecycle.StatusMaintenanceRequired, stored.Status)
		})
	}
}

func TestSubmit_IncompleteChecklistReturnsToCollecting(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass, lifecycle.AnswerUnset))

	_, err := f.service.Submit(context.Background(), sub)
	require.Error(t, err)

	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{"Заземление"}, vErr.Fields)
	assert.Equal(t, SubmissionCollecting, sub.State())
	assert.Equal(t, err, sub.Err())
	assert.Empty(t, f.inspections.items)
	assert.Zero(t, f.tx.calls)

	// Ответы сохранены, можно дозаполнить и отправить снова.
	sub.Answers[1].Status = lifecycle.AnswerPass
	_, err = f.service.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, SubmissionSucceeded, sub.State())
}

func TestSubmit_EmptyChecklistRejected(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-000001", inspectorSession(), nil)

	_, err := f.service.Submit(context.Background(), sub)
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "answers")
}

func TestSubmit_GuestNeedsWorkerIdentity(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-000001", authz.GuestSession(), answers(lifecycle.AnswerPass))
	sub.WorkerName = "  "

	_, err := f.service.Submit(context.Background(), sub)
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.ElementsMatch(t, []string{"worker_name", "worker_company"}, vErr.Fields)
	assert.Equal(t, SubmissionCollecting, sub.State())
}

func TestSubmit_GuestStoresWorkerIdentity(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-000001", authz.GuestSession(), answers(lifecycle.AnswerPass, lifecycle.AnswerPass))
	sub.WorkerName = " Алексей "
	sub.WorkerCompany = "МорМонтаж"

	_, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)

	saved := f.inspections.items[0]
	assert.Nil(t, saved.InspectorID)
	require.NotNil(t, saved.WorkerName)
	assert.Equal(t, "Алексей", *saved.WorkerName)
	assert.Equal(t, "МорМонтаж", *saved.WorkerCompany)
}

func TestSubmit_GuestPositionOnlyWhenScanned(t *testing.T) {
	f := newInspectionFixture(t)
	position := fixedPosition{coord: lifecycle.Coordinate{Lat: 59.9, Lng: 30.3}}

	typed := NewSubmission("EQ-000001", authz.GuestSession(), answers(lifecycle.AnswerPass))
	typed.WorkerName, typed.WorkerCompany = "Алексей", "МорМонтаж"
	typed.Position = position
	res, err := f.service.Submit(context.Background(), typed)
	require.NoError(t, err)
	assert.False(t, res.PositionLogged)
	assert.Empty(t, f.logs.entries)

	scanned := NewSubmission("EQ-000001", authz.GuestSession(), answers(lifecycle.AnswerPass))
	scanned.WorkerName, scanned.WorkerCompany = "Алексей", "МорМонтаж"
	scanned.Scanned = true
	scanned.Position = position
	res, err = f.service.Submit(context.Background(), scanned)
	require.NoError(t, err)
	assert.True(t, res.PositionLogged)
	require.Len(t, f.logs.entries, 1)
	assert.Equal(t, "Алексей (МорМонтаж)", f.logs.entries[0].RecordedBy)
	require.NotNil(t, res.Inspection.Position)
	assert.Equal(t, 59.9, res.Inspection.Position.Lat)
}

func TestSubmit_SensorFailureDoesNotBlock(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass))
	sub.Position = fixedPosition{err: apperrors.ErrPermissionDenied}

	res, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.False(t, res.PositionLogged)
	assert.Nil(t, res.Inspection.Position)
	assert.Len(t, f.inspections.items, 1)
}

func TestSubmit_PositionPersistenceErrorDoesNotBlock(t *testing.T) {
	f := newInspectionFixture(t)
	f.logs.appendErr = errors.New("location_logs недоступна")
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass))
	sub.Position = fixedPosition{coord: lifecycle.Coordinate{Lat: 10, Lng: 20}}

	res, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.False(t, res.PositionLogged)
	assert.Len(t, f.inspections.items, 1)
}

func TestSubmit_PhotoSavedWithInspection(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerFail))
	sub.Photo = &PhotoUpload{File: strings.NewReader("jpeg-bytes"), FileName: "crack.jpg"}

	res, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)

	require.NotNil(t, res.Inspection.PhotoURL)
	assert.Equal(t, "/uploads/inspections/EQ-000001/crack.jpg", *res.Inspection.PhotoURL)
	assert.Contains(t, f.storage.saved, "inspections/EQ-000001/crack.jpg")
}

func TestSubmit_TransactionFailureRemovesPhotoAndAllowsRetry(t *testing.T) {
	f := newInspectionFixture(t)
	f.inspections.createErr = errors.New("connection reset")
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass))
	sub.Photo = &PhotoUpload{File: strings.NewReader("jpeg-bytes"), FileName: "ok.jpg"}

	_, err := f.service.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Equal(t, SubmissionFailed, sub.State())
	assert.Equal(t, []string{"inspections/EQ-000001/ok.jpg"}, f.storage.deleted)
	assert.Empty(t, f.publisher.events)

	// Повтор без Retry запрещён.
	_, err = f.service.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	f.inspections.createErr = nil
	require.NoError(t, sub.Retry())
	assert.Equal(t, SubmissionCollecting, sub.State())

	res, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, SubmissionSucceeded, sub.State())
	assert.Equal(t, []byte("jpeg-bytes"), f.storage.saved["inspections/EQ-000001/ok.jpg"])
	require.NotNil(t, res.Inspection.PhotoURL)
	assert.Equal(t, "/uploads/inspections/EQ-000001/ok.jpg", *res.Inspection.PhotoURL)
}

func TestSubmit_RetryReusesCapturedPosition(t *testing.T) {
	f := newInspectionFixture(t)
	f.inspections.createErr = errors.New("connection reset")
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass))
	sub.Position = fixedPosition{coord: lifecycle.Coordinate{Lat: 59.9, Lng: 30.3}}
	sub.Photo = &PhotoUpload{File: strings.NewReader("jpeg-bytes"), FileName: "ok.jpg"}

	_, err := f.service.Submit(context.Background(), sub)
	require.Error(t, err)
	require.Len(t, f.logs.entries, 1)

	f.inspections.createErr = nil
	sub.Position = fixedPosition{coord: lifecycle.Coordinate{Lat: 1, Lng: 1}}
	require.NoError(t, sub.Retry())
	res, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Len(t, f.logs.entries, 1)
	assert.True(t, res.PositionLogged)
	require.Len(t, f.inspections.items, 1)
	saved := f.inspections.items[0]
	require.NotNil(t, saved.GPSLat)
	assert.Equal(t, 59.9, *saved.GPSLat)
	assert.Equal(t, []byte("jpeg-bytes"), f.storage.saved["inspections/EQ-000001/ok.jpg"])
}

func TestSubmit_OrphanPhotoDeleteFailureIsNotRetried(t *testing.T) {
	f := newInspectionFixture(t)
	f.inspections.createErr = errors.New("connection reset")
	f.storage.deleteErr = errors.New("disk busy")
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass))
	sub.Photo = &PhotoUpload{File: strings.NewReader("x"), FileName: "p.png"}

	_, err := f.service.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Len(t, f.storage.deleted, 1)
}

func TestSubmit_PhotoUploadFailureStopsSubmission(t *testing.T) {
	f := newInspectionFixture(t)
	f.storage.saveErr = errors.New("no space left")
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass))
	sub.Photo = &PhotoUpload{File: strings.NewReader("x"), FileName: "p.png"}

	_, err := f.service.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Equal(t, SubmissionFailed, sub.State())
	assert.Empty(t, f.inspections.items)
}

func TestSubmit_UnknownEquipment(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-MISSING", inspectorSession(), answers(lifecycle.AnswerPass))

	_, err := f.service.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, SubmissionFailed, sub.State())
}

func TestRetry_OnlyFromFailed(t *testing.T) {
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass))
	assert.ErrorIs(t, sub.Retry(), apperrors.ErrBadRequest)
}

func TestMyInspections_UsesCalendarDay(t *testing.T) {
	f := newInspectionFixture(t)
	sub := NewSubmission("EQ-000001", inspectorSession(), answers(lifecycle.AnswerPass))
	_, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)

	list, err := f.service.MyInspections(context.Background(), 5, time.Time{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), f.inspections.period.From)
	assert.Equal(t, time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), f.inspections.period.To)
}
