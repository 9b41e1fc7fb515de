package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"equipment-tracker/internal/entities"
	db "equipment-tracker/internal/infrastructure/bd"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/types"
)

const (
	notificationTable  = "notifications"
	notificationFields = "n.id, n.equipment_id, n.title, n.message, n.type, n.is_read, n.created_at, e.name, e.qr_code"
)

var allowedNotificationFilters = map[string]string{
	"id":           "n.id",
	"type":         "n.type",
	"is_read":      "n.is_read",
	"equipment_id": "n.equipment_id",
	"created_at":   "n.created_at",
}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, n entities.Notification) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Notification, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Notification, uint64, error)
	CountUnread(ctx context.Context) (uint64, error)
	MarkRead(ctx context.Context, id uint64) error
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint64) error
}

type notificationRepository struct {
	storage *pgxpool.Pool
}

func NewNotificationRepository(storage *pgxpool.Pool) NotificationRepositoryInterface {
	return &notificationRepository{storage: storage}
}

func (r *notificationRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *notificationRepository) baseSelect() sq.SelectBuilder {
	return db.Psql.Select(notificationFields).
		From(notificationTable + " n").
		LeftJoin("equipment e ON e.id = n.equipment_id")
}

func scanNotification(row pgx.Row) (*entities.Notification, error) {
	var n entities.Notification
	var nType string
	err := row.Scan(&n.ID, &n.EquipmentID, &n.Title, &n.Message, &nType, &n.IsRead, &n.CreatedAt, &n.EquipmentName, &n.EquipmentCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования notifications: %w", err)
	}
	n.Type = entities.NotificationType(nType)
	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, tx pgx.Tx, n entities.Notification) (uint64, error) {
	query, args, err := db.Psql.Insert(notificationTable).
		Columns("equipment_id", "title", "message", "type", "is_read", "created_at").
		Values(n.EquipmentID, n.Title, n.Message, string(n.Type), false, sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, fmt.Errorf("ошибка создания notifications: %w", err)
	}
	return newID, nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id uint64) (*entities.Notification, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"n.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return scanNotification(r.storage.QueryRow(ctx, query, args...))
}

func (r *notificationRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Notification, uint64, error) {
	countBuilder := db.Psql.Select("COUNT(n.id)").From(notificationTable + " n")
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "n.title", "n.message")
	countBuilder = db.ApplyFilters(countBuilder, filter, allowedNotificationFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []entities.Notification{}, 0, nil
	}

	builder := db.ApplySearch(r.baseSelect(), filter.Search, "n.title", "n.message")
	builder = db.ApplyListParams(builder, filter, allowedNotificationFilters, "n.created_at DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка итерации rows: %w", err)
	}
	return list, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context) (uint64, error) {
	var count uint64
	if err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE is_read = FALSE").Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта непрочитанных: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка обновления notifications: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	result, err := r.storage.Exec(ctx, "UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE")
	if err != nil {
		return 0, fmt.Errorf("ошибка обновления notifications: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM notifications WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления notifications: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
