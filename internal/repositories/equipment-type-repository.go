package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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
	equipmentTypeTable  = "equipment_types"
	equipmentTypeFields = "id, name, maintenance_period_days, checklist_schema, created_at, updated_at"
)

var allowedEquipmentTypeFilters = map[string]string{
	"id":                      "id",
	"name":                    "name",
	"maintenance_period_days": "maintenance_period_days",
	"created_at":              "created_at",
}

type EquipmentTypeRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EquipmentType, error)
	FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.EquipmentType, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.EquipmentType, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, t entities.EquipmentType) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, t entities.EquipmentType) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type equipmentTypeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentTypeRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentTypeRepositoryInterface {
	return &equipmentTypeRepository{storage: storage, logger: logger}
}

func (r *equipmentTypeRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *equipmentTypeRepository) scanRow(row pgx.Row) (*entities.EquipmentType, error) {
	var t entities.EquipmentType
	var schema []byte
	err := row.Scan(&t.ID, &t.Name, &t.MaintenancePeriodDays, &schema, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования equipment_types: %w", err)
	}

	t.ChecklistSchema = []lifecycle.ChecklistItem{}
	if len(schema) > 0 {
		if err := json.Unmarshal(schema, &t.ChecklistSchema); err != nil {
			return nil, fmt.Errorf("повреждён checklist_schema типа %d: %w", t.ID, err)
		}
	}
	return &t, nil
}

func encodeChecklistSchema(items []lifecycle.ChecklistItem) (string, error) {
	if items == nil {
		items = []lifecycle.ChecklistItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации checklist_schema: %w", err)
	}
	return string(raw), nil
}

func (r *equipmentTypeRepository) findOne(ctx context.Context, querier Querier, where sq.Eq) (*entities.EquipmentType, error) {
	query, args, err := db.Psql.Select(equipmentTypeFields).From(equipmentTypeTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для equipment_types: %w", err)
	}
	return r.scanRow(querier.QueryRow(ctx, query, args...))
}

func (r *equipmentTypeRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EquipmentType, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"id": id})
}

func (r *equipmentTypeRepository) FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.EquipmentType, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"name": name})
}

func (r *equipmentTypeRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.EquipmentType, uint64, error) {
	countBuilder := db.Psql.Select("COUNT(id)").From(equipmentTypeTable)
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "name")
	countBuilder = db.ApplyFilters(countBuilder, filter, allowedEquipmentTypeFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []entities.EquipmentType{}, 0, nil
	}

	selectBuilder := db.Psql.Select(equipmentTypeFields).From(equipmentTypeTable)
	selectBuilder = db.ApplySearch(selectBuilder, filter.Search, "name")
	selectBuilder = db.ApplyListParams(selectBuilder, filter, allowedEquipmentTypeFilters, "name ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select: %w", err)
	}
	defer rows.Close()

	list := make([]entities.EquipmentType, 0)
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка итерации rows: %w", err)
	}
	return list, total, nil
}

func (r *equipmentTypeRepository) Create(ctx context.Context, tx pgx.Tx, t entities.EquipmentType) (uint64, error) {
	schema, err := encodeChecklistSchema(t.ChecklistSchema)
	if err != nil {
		return 0, err
	}
	query, args, err := db.Psql.Insert(equipmentTypeTable).
		Columns("name", "maintenance_period_days", "checklist_schema", "created_at", "updated_at").
		Values(t.Name, t.MaintenancePeriodDays, sq.Expr("?::jsonb", schema), sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, fmt.Errorf("тип оборудования с таким названием уже существует: %w", apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания equipment_types: %w", err)
	}
	return newID, nil
}

// Update меняет шаблон только для будущих инспекций: прошлые хранят свою копию ответов.
func (r *equipmentTypeRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, t entities.EquipmentType) error {
	schema, err := encodeChecklistSchema(t.ChecklistSchema)
	if err != nil {
		return err
	}
	query, args, err := db.Psql.Update(equipmentTypeTable).
		Set("name", t.Name).
		Set("maintenance_period_days", t.MaintenancePeriodDays).
		Set("checklist_schema", sq.Expr("?::jsonb", schema)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("тип оборудования с таким названием уже существует: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("ошибка обновления equipment_types: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *equipmentTypeRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := db.Psql.Delete(equipmentTypeTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("тип используется оборудованием: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("ошибка удаления equipment_types: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
