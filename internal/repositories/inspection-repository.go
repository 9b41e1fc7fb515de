package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-tracker/internal/entities"
	db "equipment-tracker/internal/infrastructure/bd"
	"equipment-tracker/internal/lifecycle"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/types"
)

const (
	inspectionTable  = "inspections"
	inspectionFields = `i.id, i.equipment_id, i.inspector_id, i.worker_name, i.worker_company,
		i.checklist_data, i.result, i.photo_url, i.gps_lat, i.gps_lng, i.created_at,
		pr.full_name, e.name, e.qr_code`
)

var allowedInspectionFilters = map[string]string{
	"id":           "i.id",
	"equipment_id": "i.equipment_id",
	"inspector_id": "i.inspector_id",
	"result":       "i.result",
	"created_at":   "i.created_at",
}

// InspectionPeriod - полуинтервал [From, To); нулевые границы не ограничивают.
type InspectionPeriod struct {
	From time.Time
	To   time.Time
}

type InspectionRepositoryInterface interface {
	// Create только добавляет: изменения и удаления инспекций не поддерживаются.
	Create(ctx context.Context, tx pgx.Tx, ins entities.Inspection) (uint64, time.Time, error)
	FindByID(ctx context.Context, id uint64) (*entities.Inspection, error)
	ListByEquipment(ctx context.Context, equipmentID uint64, filter types.Filter) ([]entities.Inspection, uint64, error)
	ListByInspector(ctx context.Context, inspectorID uint64, period InspectionPeriod) ([]entities.Inspection, error)
	ListForReport(ctx context.Context, period InspectionPeriod, filter types.Filter) ([]entities.Inspection, error)
}

type inspectionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewInspectionRepository(storage *pgxpool.Pool, logger *zap.Logger) InspectionRepositoryInterface {
	return &inspectionRepository{storage: storage, logger: logger}
}

func (r *inspectionRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *inspectionRepository) baseSelect() sq.SelectBuilder {
	return db.Psql.Select(inspectionFields).
		From(inspectionTable + " i").
		Join("equipment e ON e.id = i.equipment_id").
		LeftJoin("profiles pr ON pr.id = i.inspector_id")
}

func applyPeriod(builder sq.SelectBuilder, period InspectionPeriod) sq.SelectBuilder {
	if !period.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"i.created_at": period.From})
	}
	if !period.To.IsZero() {
		builder = builder.Where(sq.Lt{"i.created_at": period.To})
	}
	return builder
}

func (r *inspectionRepository) scanRow(row pgx.Row) (*entities.Inspection, error) {
	var ins entities.Inspection
	var checklist []byte
	var result string
	err := row.Scan(
		&ins.ID, &ins.EquipmentID, &ins.InspectorID, &ins.WorkerName, &ins.WorkerCompany,
		&checklist, &result, &ins.PhotoURL, &ins.GPSLat, &ins.GPSLng, &ins.CreatedAt,
		&ins.InspectorName, &ins.EquipmentName, &ins.EquipmentCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования inspections: %w", err)
	}
	ins.Result = lifecycle.InspectionResult(result)
	if err := json.Unmarshal(checklist, &ins.ChecklistData); err != nil {
		return nil, fmt.Errorf("повреждён checklist_data инспекции %d: %w", ins.ID, err)
	}
	return &ins, nil
}

func (r *inspectionRepository) queryList(ctx context.Context, builder sq.SelectBuilder) ([]entities.Inspection, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения select: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Inspection, 0)
	for rows.Next() {
		ins, err := r.scanRow(rows)
		if err != nil {
			r.logger.Error("Ошибка сканирования inspection", zap.Error(err))
			return nil, err
		}
		list = append(list, *ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации rows: %w", err)
	}
	return list, nil
}

func (r *inspectionRepository) Create(ctx context.Context, tx pgx.Tx, ins entities.Inspection) (uint64, time.Time, error) {
	checklist, err := json.Marshal(ins.ChecklistData)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ошибка сериализации checklist_data: %w", err)
	}

	query, args, err := db.Psql.Insert(inspectionTable).
		Columns("equipment_id", "inspector_id", "worker_name", "worker_company",
			"checklist_data", "result", "photo_url", "gps_lat", "gps_lng", "created_at").
		Values(ins.EquipmentID, ins.InspectorID, ins.WorkerName, ins.WorkerCompany,
			sq.Expr("?::jsonb", string(checklist)), string(ins.Result), ins.PhotoURL,
			ins.GPSLat, ins.GPSLng, sq.Expr("NOW()")).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	var createdAt time.Time
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID, &createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolation:
				return 0, time.Time{}, fmt.Errorf("оборудование или инспектор не найдены: %w", apperrors.ErrNotFound)
			case pgCheckViolation:
				return 0, time.Time{}, apperrors.NewValidationError("не указан инспектор или работник", "worker_name", "worker_company")
			}
		}
		return 0, time.Time{}, fmt.Errorf("ошибка создания inspections: %w", err)
	}
	return newID, createdAt, nil
}

func (r *inspectionRepository) FindByID(ctx context.Context, id uint64) (*entities.Inspection, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"i.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return r.scanRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *inspectionRepository) ListByEquipment(ctx context.Context, equipmentID uint64, filter types.Filter) ([]entities.Inspection, uint64, error) {
	countBuilder := db.Psql.Select("COUNT(i.id)").From(inspectionTable + " i").Where(sq.Eq{"i.equipment_id": equipmentID})
	countBuilder = db.ApplyFilters(countBuilder, filter, allowedInspectionFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []entities.Inspection{}, 0, nil
	}

	builder := r.baseSelect().Where(sq.Eq{"i.equipment_id": equipmentID})
	builder = db.ApplyListParams(builder, filter, allowedInspectionFilters, "i.created_at DESC")
	list, err := r.queryList(ctx, builder)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *inspectionRepository) ListByInspector(ctx context.Context, inspectorID uint64, period InspectionPeriod) ([]entities.Inspection, error) {
	builder := r.baseSelect().Where(sq.Eq{"i.inspector_id": inspectorID})
	builder = applyPeriod(builder, period).OrderBy("i.created_at DESC")
	return r.queryList(ctx, builder)
}

func (r *inspectionRepository) ListForReport(ctx context.Context, period InspectionPeriod, filter types.Filter) ([]entities.Inspection, error) {
	builder := applyPeriod(r.baseSelect(), period)
	builder = db.ApplyFilters(builder, filter, allowedInspectionFilters).OrderBy("i.created_at DESC")
	return r.queryList(ctx, builder)
}
