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
	"equipment-tracker/pkg/types"
)

const (
	projectTable  = "projects"
	projectFields = "p.id, p.name, p.company_id, p.description, p.is_active, p.created_at, p.updated_at, c.name"
)

var allowedProjectFilters = map[string]string{
	"id":         "p.id",
	"name":       "p.name",
	"company_id": "p.company_id",
	"is_active":  "p.is_active",
	"created_at": "p.created_at",
}

type ProjectRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Project, error)
	FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.Project, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Project, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, p entities.Project) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, p entities.Project) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type projectRepository struct {
	storage *pgxpool.Pool
}

func NewProjectRepository(storage *pgxpool.Pool) ProjectRepositoryInterface {
	return &projectRepository{storage: storage}
}

func (r *projectRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *projectRepository) baseSelect() sq.SelectBuilder {
	return db.Psql.Select(projectFields).
		From(projectTable + " p").
		LeftJoin("companies c ON c.id = p.company_id")
}

func scanProject(row pgx.Row) (*entities.Project, error) {
	var p entities.Project
	err := row.Scan(&p.ID, &p.Name, &p.CompanyID, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.CompanyName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования projects: %w", err)
	}
	return &p, nil
}

func mapProjectWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("проект с таким названием уже существует: %w", apperrors.ErrConflict)
		case pgForeignKeyViolation:
			return apperrors.NewValidationError("компания не найдена", "company_id")
		}
	}
	return fmt.Errorf("ошибка записи projects: %w", err)
}

func (r *projectRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Project, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return scanProject(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *projectRepository) FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.Project, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"p.name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByName: %w", err)
	}
	return scanProject(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *projectRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Project, uint64, error) {
	countBuilder := db.Psql.Select("COUNT(p.id)").From(projectTable + " p")
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "p.name")
	countBuilder = db.ApplyFilters(countBuilder, filter, allowedProjectFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []entities.Project{}, 0, nil
	}

	builder := db.ApplySearch(r.baseSelect(), filter.Search, "p.name")
	builder = db.ApplyListParams(builder, filter, allowedProjectFilters, "p.name ASC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка итерации rows: %w", err)
	}
	return list, total, nil
}

func (r *projectRepository) Create(ctx context.Context, tx pgx.Tx, p entities.Project) (uint64, error) {
	query, args, err := db.Psql.Insert(projectTable).
		Columns("name", "company_id", "description", "is_active", "created_at", "updated_at").
		Values(p.Name, p.CompanyID, p.Description, p.IsActive, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, mapProjectWriteError(err)
	}
	return newID, nil
}

func (r *projectRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, p entities.Project) error {
	query, args, err := db.Psql.Update(projectTable).
		Set("name", p.Name).
		Set("company_id", p.CompanyID).
		Set("description", p.Description).
		Set("is_active", p.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapProjectWriteError(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete: у оборудования проекта project_id обнуляется (ON DELETE SET NULL).
func (r *projectRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := r.getQuerier(tx).Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления projects: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
