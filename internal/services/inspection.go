package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-tracker/internal/authz"
	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/events"
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/internal/repositories"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/filestorage"
	"equipment-tracker/pkg/types"
)

const photoPathPrefix = "inspections"

// SubmissionState - этап отправки формы инспекции.
type SubmissionState int

const (
	SubmissionCollecting SubmissionState = iota
	SubmissionValidating
	SubmissionSubmitting
	SubmissionSucceeded
	SubmissionFailed
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionCollecting:
		return "collecting"
	case SubmissionValidating:
		return "validating"
	case SubmissionSubmitting:
		return "submitting"
	case SubmissionSucceeded:
		return "succeeded"
	case SubmissionFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// PhotoUpload - фото, уже прошедшее проверку типа и размера.
// File перематывается в начало перед каждой попыткой сохранения.
type PhotoUpload struct {
	File     io.ReadSeeker
	FileName string
}

// Submission хранит введённые данные между попытками: после ошибки
// ответы не теряются, Retry возвращает форму к заполнению.
type Submission struct {
	EquipmentCode string
	Session       authz.Session
	Answers       []lifecycle.ChecklistAnswer
	WorkerName    string
	WorkerCompany string
	// Scanned - форма открыта сканированием QR-кода.
	Scanned  bool
	Position lifecycle.PositionSource
	Photo    *PhotoUpload

	state SubmissionState
	err   error

	// позиция снимается один раз на форму, повтор отправки её переиспользует
	positionTaken  bool
	coord          *lifecycle.Coordinate
	positionLogged bool
}

func NewSubmission(code string, session authz.Session, answers []lifecycle.ChecklistAnswer) *Submission {
	return &Submission{
		EquipmentCode: strings.TrimSpace(code),
		Session:       session,
		Answers:       answers,
		state:         SubmissionCollecting,
	}
}

func (s *Submission) State() SubmissionState { return s.state }

// Err - причина последнего отказа (validating -> collecting или failed).
func (s *Submission) Err() error { return s.err }

// Retry разрешён только из failed. Автоматических повторов нет.
func (s *Submission) Retry() error {
	if s.state != SubmissionFailed {
		return fmt.Errorf("%w: повтор возможен только после ошибки отправки (состояние %s)", apperrors.ErrBadRequest, s.state)
	}
	s.state = SubmissionCollecting
	s.err = nil
	return nil
}

// submitter - подпись в истории позиций и в уведомлениях.
func (s *Submission) submitter() string {
	if s.Session.IsAuthenticated() {
		return s.Session.FullName
	}
	return fmt.Sprintf("%s (%s)", strings.TrimSpace(s.WorkerName), strings.TrimSpace(s.WorkerCompany))
}

func (s *Submission) wantsPosition() bool {
	if s.Position == nil {
		return false
	}
	return s.Session.IsAuthenticated() || s.Scanned
}

type InspectionServiceInterface interface {
	ChecklistSheet(ctx context.Context, code string) (*dto.ChecklistSheetDTO, error)
	Submit(ctx context.Context, sub *Submission) (*dto.SubmissionResultDTO, error)
	ListByEquipment(ctx context.Context, equipmentID uint64, filter types.Filter) ([]dto.InspectionDTO, uint64, error)
	MyInspections(ctx context.Context, inspectorID uint64, day time.Time) ([]dto.InspectionDTO, error)
}

type InspectionService struct {
	repo          repositories.InspectionRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	typeRepo      repositories.EquipmentTypeRepositoryInterface
	txManager     repositories.TxManagerInterface
	locations     LocationServiceInterface
	storage       filestorage.FileStorageInterface
	publisher     EventPublisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewInspectionService(
	repo repositories.InspectionRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	typeRepo repositories.EquipmentTypeRepositoryInterface,
	txManager repositories.TxManagerInterface,
	locations LocationServiceInterface,
	storage filestorage.FileStorageInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) *InspectionService {
	return &InspectionService{
		repo:          repo,
		equipmentRepo: equipmentRepo,
		typeRepo:      typeRepo,
		txManager:     txManager,
		locations:     locations,
		storage:       storage,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *InspectionService) ChecklistSheet(ctx context.Context, code string) (*dto.ChecklistSheetDTO, error) {
	equipment, err := s.equipmentRepo.FindByCode(ctx, nil, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	eqType, err := s.typeRepo.FindByID(ctx, nil, equipment.TypeID)
	if err != nil {
		return nil, err
	}
	return &dto.ChecklistSheetDTO{
		Equipment: shortEquipment(*equipment),
		TypeName:  eqType.Name,
		Answers:   lifecycle.NewAnswerSheet(eqType.ChecklistSchema),
	}, nil
}

// Submit проводит отправку через состояния collecting -> validating -> submitting.
// Ошибка проверки возвращает форму в collecting без обращения к БД и хранилищу.
func (s *InspectionService) Submit(ctx context.Context, sub *Submission) (*dto.SubmissionResultDTO, error) {
	if sub.state != SubmissionCollecting {
		return nil, fmt.Errorf("%w: форма в состоянии %s", apperrors.ErrBadRequest, sub.state)
	}

	sub.state = SubmissionValidating
	result, err := s.validate(sub)
	if err != nil {
		sub.state = SubmissionCollecting
		sub.err = err
		return nil, err
	}

	sub.state = SubmissionSubmitting
	out, err := s.submit(ctx, sub, result)
	if err != nil {
		sub.state = SubmissionFailed
		sub.err = err
		return nil, err
	}

	sub.state = SubmissionSucceeded
	sub.err = nil
	return out, nil
}

func (s *InspectionService) validate(sub *Submission) (lifecycle.InspectionResult, error) {
	if !sub.Session.IsAuthenticated() {
		missing := make([]string, 0, 2)
		if strings.TrimSpace(sub.WorkerName) == "" {
			missing = append(missing, "worker_name")
		}
		if strings.TrimSpace(sub.WorkerCompany) == "" {
			missing = append(missing, "worker_company")
		}
		if len(missing) > 0 {
			return "", apperrors.NewValidationError("укажите имя и фирму работника", missing...)
		}
	}
	if len(sub.Answers) == 0 {
		return "", apperrors.NewValidationError("чек-лист пуст", "answers")
	}
	return lifecycle.Evaluate(sub.Answers)
}

func (s *InspectionService) submit(ctx context.Context, sub *Submission, result lifecycle.InspectionResult) (*dto.SubmissionResultDTO, error) {
	equipment, err := s.equipmentRepo.FindByCode(ctx, nil, sub.EquipmentCode)
	if err != nil {
		return nil, err
	}

	if sub.wantsPosition() && !sub.positionTaken {
		coord, posErr := s.locations.CaptureAndRecord(ctx, equipment.ID, sub.Position, sub.submitter())
		if posErr != nil {
			s.logger.Error("Позиция получена, но не сохранена; инспекция продолжается",
				zap.Uint64("equipmentID", equipment.ID),
				zap.Error(posErr),
			)
		}
		sub.positionTaken = true
		sub.coord = coord
		sub.positionLogged = coord != nil && posErr == nil
	}
	coord, positionLogged := sub.coord, sub.positionLogged

	var photoPath string
	var photoURL *string
	if sub.Photo != nil {
		if _, err := sub.Photo.File.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("не удалось перечитать фото: %w", err)
		}
		photoPath, err = s.storage.Save(sub.Photo.File, sub.Photo.FileName, photoPathPrefix+"/"+equipment.QRCode)
		if err != nil {
			s.logger.Error("Не удалось сохранить фото инспекции", zap.String("code", equipment.QRCode), zap.Error(err))
			return nil, fmt.Errorf("не удалось загрузить фото: %w", err)
		}
		url := s.storage.PublicURL(photoPath)
		photoURL = &url
	}

	record := entities.Inspection{
		EquipmentID:   equipment.ID,
		InspectorID:   sub.Session.InspectorID(),
		ChecklistData: sub.Answers,
		Result:        result,
		PhotoURL:      photoURL,
		EquipmentName: equipment.Name,
		EquipmentCode: equipment.QRCode,
	}
	if sub.Session.IsAuthenticated() {
		record.InspectorName = &sub.Session.FullName
	} else {
		name := strings.TrimSpace(sub.WorkerName)
		company := strings.TrimSpace(sub.WorkerCompany)
		record.WorkerName = &name
		record.WorkerCompany = &company
	}
	if coord != nil {
		record.GPSLat = &coord.Lat
		record.GPSLng = &coord.Lng
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, createdAt, err := s.repo.Create(ctx, tx, record)
		if err != nil {
			return err
		}
		record.ID = id
		record.CreatedAt = createdAt
		if result == lifecycle.ResultFail {
			return s.equipmentRepo.SetStatus(ctx, tx, equipment.ID, lifecycle.StatusMaintenanceRequired)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Не удалось сохранить инспекцию", zap.Uint64("equipmentID", equipment.ID), zap.Error(err))
		if photoPath != "" {
			if delErr := s.storage.Delete(photoPath); delErr != nil {
				s.logger.Warn("Не удалось удалить фото без инспекции", zap.String("path", photoPath), zap.Error(delErr))
			}
		}
		return nil, err
	}

	status := equipment.Status
	if result == lifecycle.ResultFail {
		status = lifecycle.StatusMaintenanceRequired
	}
	s.logger.Info("Инспекция сохранена",
		zap.Uint64("inspectionID", record.ID),
		zap.Uint64("equipmentID", equipment.ID),
		zap.String("result", string(result)),
	)

	s.publisher.Publish(ctx, events.InspectionSubmittedEvent{
		InspectionID:  record.ID,
		EquipmentID:   equipment.ID,
		EquipmentName: equipment.Name,
		EquipmentCode: equipment.QRCode,
		Result:        result,
		Inspector:     sub.submitter(),
		SubmittedAt:   record.CreatedAt,
	})

	return &dto.SubmissionResultDTO{
		Inspection:      inspectionToDTO(record),
		EquipmentStatus: status,
		DerivedStatus:   lifecycle.DeriveStatus(s.now(), equipment.NextMaintenanceDate, status),
		PositionLogged:  positionLogged,
	}, nil
}

func (s *InspectionService) ListByEquipment(ctx context.Context, equipmentID uint64, filter types.Filter) ([]dto.InspectionDTO, uint64, error) {
	list, total, err := s.repo.ListByEquipment(ctx, equipmentID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.InspectionDTO, 0, len(list))
	for _, ins := range list {
		out = append(out, inspectionToDTO(ins))
	}
	return out, total, nil
}

// MyInspections - инспекции инспектора за календарный день day.
func (s *InspectionService) MyInspections(ctx context.Context, inspectorID uint64, day time.Time) ([]dto.InspectionDTO, error) {
	if day.IsZero() {
		day = s.now()
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	list, err := s.repo.ListByInspector(ctx, inspectorID, repositories.InspectionPeriod{
		From: from,
		To:   from.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InspectionDTO, 0, len(list))
	for _, ins := range list {
		out = append(out, inspectionToDTO(ins))
	}
	return out, nil
}
