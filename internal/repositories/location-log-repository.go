package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"equipment-tracker/internal/entities"
	db "equipment-tracker/internal/infrastructure/bd"
	apperrors "equipment-tracker/pkg/errors"
)

const (
	locationLogTable  = "location_logs"
	locationLogFields = "id, equipment_id, lat, lng, recorded_by, created_at"
)

type LocationLogRepositoryInterface interface {
	// Append - журнал только пополняется; created_at берётся из записи.
	Append(ctx context.Context, tx pgx.Tx, log entities.LocationLog) (uint64, error)
	// ListByEquipment - новые сверху.
	ListByEquipment(ctx context.Context, equipmentID uint64, limit uint64) ([]entities.LocationLog, error)
}

type locationLogRepository struct {
	storage *pgxpool.Pool
}

func NewLocationLogRepository(storage *pgxpool.Pool) LocationLogRepositoryInterface {
	return &locationLogRepository{storage: storage}
}

func (r *locationLogRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *locationLogRepository) Append(ctx context.Context, tx pgx.Tx, log entities.LocationLog) (uint64, error) {
	query, args, err := db.Psql.Insert(locationLogTable).
		Columns("equipment_id", "lat", "lng", "recorded_by", "created_at").
		Values(log.EquipmentID, log.Lat, log.Lng, log.RecordedBy, log.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Append: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка записи location_logs: %w", err)
	}
	return newID, nil
}

func (r *locationLogRepository) ListByEquipment(ctx context.Context, equipmentID uint64, limit uint64) ([]entities.LocationLog, error) {
	builder := db.Psql.Select(locationLogFields).
		From(locationLogTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса ListByEquipment: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения ListByEquipment: %w", err)
	}
	defer rows.Close()

	logs := make([]entities.LocationLog, 0)
	for rows.Next() {
		var l entities.LocationLog
		if err := rows.Scan(&l.ID, &l.EquipmentID, &l.Lat, &l.Lng, &l.RecordedBy, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования location_logs: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации rows: %w", err)
	}
	return logs, nil
}
