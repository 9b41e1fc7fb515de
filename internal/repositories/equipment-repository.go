package repositories

import (
	"context"
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
	equipmentTable  = "equipment"
	equipmentFields = `e.id, e.name, e.serial_number, e.qr_code, e.type_id, e.status,
		e.last_maintenance_date, e.next_maintenance_date,
		e.last_known_gps_lat, e.last_known_gps_lng, e.last_seen_at, e.location_description,
		e.project_id, e.company_id, e.created_at, e.updated_at,
		et.name, p.name, c.name`
)

var allowedEquipmentFilters = map[string]string{
	"id":                    "e.id",
	"name":                  "e.name",
	"qr_code":               "e.qr_code",
	"status":                "e.status",
	"type_id":               "e.type_id",
	"project_id":            "e.project_id",
	"company_id":            "e.company_id",
	"next_maintenance_date": "e.next_maintenance_date",
	"last_seen_at":          "e.last_seen_at",
	"created_at":            "e.created_at",
}

// EquipmentBucket - группа на панели администратора.
type EquipmentBucket string

const (
	BucketFaulty  EquipmentBucket = "faulty"
	BucketOverdue EquipmentBucket = "overdue"
	BucketWarning EquipmentBucket = "warning"
	BucketActive  EquipmentBucket = "active"
)

// BucketBounds - границы календарных дней, посчитанные в часовом поясе сервиса.
// Warning: next_maintenance_date в [TodayStart, WarningEnd).
type BucketBounds struct {
	TodayStart time.Time
	WarningEnd time.Time
}

type EquipmentBucketCounts struct {
	Total, Active, Warning, Faulty, Overdue uint64
}

type EquipmentRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Equipment, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	CodeExists(ctx context.Context, tx pgx.Tx, code string) (bool, error)

	Create(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Equipment) error
	SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status lifecycle.StoredStatus) error
	MarkServiced(ctx context.Context, tx pgx.Tx, id uint64, last, next time.Time) error
	UpdatePosition(ctx context.Context, tx pgx.Tx, id uint64, coord lifecycle.Coordinate, seenAt time.Time) error

	CountBuckets(ctx context.Context, bounds BucketBounds) (*EquipmentBucketCounts, error)
	ListBucket(ctx context.Context, bucket EquipmentBucket, bounds BucketBounds, limit uint64) ([]entities.Equipment, error)
}

type equipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &equipmentRepository{storage: storage, logger: logger}
}

func (r *equipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *equipmentRepository) baseSelect() sq.SelectBuilder {
	return db.Psql.Select(equipmentFields).
		From(equipmentTable + " e").
		Join("equipment_types et ON et.id = e.type_id").
		LeftJoin("projects p ON p.id = e.project_id").
		LeftJoin("companies c ON c.id = e.company_id")
}

func (r *equipmentRepository) scanRow(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	var status string
	err := row.Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.QRCode, &e.TypeID, &status,
		&e.LastMaintenanceDate, &e.NextMaintenanceDate,
		&e.LastKnownLat, &e.LastKnownLng, &e.LastSeenAt, &e.LocationDescription,
		&e.ProjectID, &e.CompanyID, &e.CreatedAt, &e.UpdatedAt,
		&e.TypeName, &e.ProjectName, &e.CompanyName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования equipment: %w", err)
	}
	e.Status = lifecycle.StoredStatus(status)
	return &e, nil
}

func (r *equipmentRepository) findOne(ctx context.Context, querier Querier, where sq.Sqlizer) (*entities.Equipment, error) {
	query, args, err := r.baseSelect().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для equipment: %w", err)
	}
	return r.scanRow(querier.QueryRow(ctx, query, args...))
}

func (r *equipmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"e.id": id})
}

func (r *equipmentRepository) FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Equipment, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"e.qr_code": code})
}

func (r *equipmentRepository) CodeExists(ctx context.Context, tx pgx.Tx, code string) (bool, error) {
	var exists bool
	err := r.getQuerier(tx).QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM equipment WHERE qr_code = $1)", code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки qr_code: %w", err)
	}
	return exists, nil
}

func (r *equipmentRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	countBuilder := db.Psql.Select("COUNT(e.id)").From(equipmentTable + " e")
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "e.name", "e.qr_code", "e.serial_number")
	countBuilder = db.ApplyFilters(countBuilder, filter, allowedEquipmentFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []entities.Equipment{}, 0, nil
	}

	selectBuilder := db.ApplySearch(r.baseSelect(), filter.Search, "e.name", "e.qr_code", "e.serial_number")
	selectBuilder = db.ApplyListParams(selectBuilder, filter, allowedEquipmentFilters, "e.id DESC")

	list, err := r.queryList(ctx, r.storage, selectBuilder)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *equipmentRepository) queryList(ctx context.Context, querier Querier, builder sq.SelectBuilder) ([]entities.Equipment, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения select: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			r.logger.Error("Ошибка сканирования equipment", zap.Error(err))
			return nil, err
		}
		list = append(list, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации rows: %w", err)
	}
	return list, nil
}

func mapEquipmentWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("оборудование с таким QR-кодом уже существует: %w", apperrors.ErrConflict)
		case pgForeignKeyViolation:
			return apperrors.NewValidationError("связанная запись не найдена", pgErr.ConstraintName)
		case pgCheckViolation:
			return apperrors.NewValidationError("нарушено правило статуса оборудования", pgErr.ConstraintName)
		}
	}
	return err
}

func (r *equipmentRepository) Create(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error) {
	query, args, err := db.Psql.Insert(equipmentTable).
		Columns("name", "serial_number", "qr_code", "type_id", "status",
			"last_maintenance_date", "next_maintenance_date", "location_description",
			"project_id", "company_id", "created_at", "updated_at").
		Values(e.Name, e.SerialNumber, e.QRCode, e.TypeID, string(e.Status),
			e.LastMaintenanceDate, e.NextMaintenanceDate, e.LocationDescription,
			e.ProjectID, e.CompanyID, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, fmt.Errorf("ошибка создания equipment: %w", mapEquipmentWriteError(err))
	}
	return newID, nil
}

func (r *equipmentRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Equipment) error {
	builder := db.Psql.Update(equipmentTable).
		Set("name", e.Name).
		Set("serial_number", e.SerialNumber).
		Set("qr_code", e.QRCode).
		Set("type_id", e.TypeID).
		Set("location_description", e.LocationDescription).
		Set("project_id", e.ProjectID).
		Set("company_id", e.CompanyID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})
	if e.NextMaintenanceDate != nil {
		builder = builder.Set("next_maintenance_date", e.NextMaintenanceDate)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	return r.execAffectingOne(ctx, tx, query, args)
}

func (r *equipmentRepository) SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status lifecycle.StoredStatus) error {
	query, args, err := db.Psql.Update(equipmentTable).
		Set("status", string(status)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса SetStatus: %w", err)
	}
	return r.execAffectingOne(ctx, tx, query, args)
}

func (r *equipmentRepository) MarkServiced(ctx context.Context, tx pgx.Tx, id uint64, last, next time.Time) error {
	query, args, err := db.Psql.Update(equipmentTable).
		Set("status", string(lifecycle.StatusActive)).
		Set("last_maintenance_date", last).
		Set("next_maintenance_date", next).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса MarkServiced: %w", err)
	}
	return r.execAffectingOne(ctx, tx, query, args)
}

func (r *equipmentRepository) UpdatePosition(ctx context.Context, tx pgx.Tx, id uint64, coord lifecycle.Coordinate, seenAt time.Time) error {
	query, args, err := db.Psql.Update(equipmentTable).
		Set("last_known_gps_lat", coord.Lat).
		Set("last_known_gps_lng", coord.Lng).
		Set("last_seen_at", seenAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса UpdatePosition: %w", err)
	}
	return r.execAffectingOne(ctx, tx, query, args)
}

func (r *equipmentRepository) execAffectingOne(ctx context.Context, tx pgx.Tx, query string, args []interface{}) error {
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления equipment: %w", mapEquipmentWriteError(err))
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func bucketCondition(bucket EquipmentBucket, bounds BucketBounds) sq.Sqlizer {
	notFaulty := sq.NotEq{"e.status": string(lifecycle.StatusMaintenanceRequired)}
	switch bucket {
	case BucketFaulty:
		return sq.Eq{"e.status": string(lifecycle.StatusMaintenanceRequired)}
	case BucketOverdue:
		return sq.And{notFaulty, sq.Or{
			sq.Eq{"e.next_maintenance_date": nil},
			sq.Lt{"e.next_maintenance_date": bounds.TodayStart},
		}}
	case BucketWarning:
		return sq.And{notFaulty,
			sq.GtOrEq{"e.next_maintenance_date": bounds.TodayStart},
			sq.Lt{"e.next_maintenance_date": bounds.WarningEnd},
		}
	default:
		return sq.And{notFaulty, sq.GtOrEq{"e.next_maintenance_date": bounds.WarningEnd}}
	}
}

func (r *equipmentRepository) CountBuckets(ctx context.Context, bounds BucketBounds) (*EquipmentBucketCounts, error) {
	counts := &EquipmentBucketCounts{}
	targets := []struct {
		bucket EquipmentBucket
		dst    *uint64
	}{
		{BucketFaulty, &counts.Faulty},
		{BucketOverdue, &counts.Overdue},
		{BucketWarning, &counts.Warning},
		{BucketActive, &counts.Active},
	}

	builder := db.Psql.Select("COUNT(*)").From(equipmentTable + " e")
	for _, t := range targets {
		cond, condArgs, err := bucketCondition(t.bucket, bounds).ToSql()
		if err != nil {
			return nil, fmt.Errorf("ошибка сборки условия %s: %w", t.bucket, err)
		}
		builder = builder.Column(sq.Expr("COUNT(*) FILTER (WHERE "+cond+")", condArgs...))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки CountBuckets: %w", err)
	}

	dst := []interface{}{&counts.Total}
	for _, t := range targets {
		dst = append(dst, t.dst)
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(dst...); err != nil {
		return nil, fmt.Errorf("ошибка выполнения CountBuckets: %w", err)
	}
	return counts, nil
}

func (r *equipmentRepository) ListBucket(ctx context.Context, bucket EquipmentBucket, bounds BucketBounds, limit uint64) ([]entities.Equipment, error) {
	builder := r.baseSelect().Where(bucketCondition(bucket, bounds))
	switch bucket {
	case BucketFaulty:
		builder = builder.OrderBy("e.updated_at DESC")
	default:
		builder = builder.OrderBy("e.next_maintenance_date ASC NULLS FIRST")
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	return r.queryList(ctx, r.storage, builder)
}
