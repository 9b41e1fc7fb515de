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
	companyTable  = "companies"
	companyFields = "id, name, contact_name, phone, created_at, updated_at"
)

var allowedCompanyFilters = map[string]string{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
}

type CompanyRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Company, error)
	FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.Company, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Company, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, c entities.Company) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, c entities.Company) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type companyRepository struct {
	storage *pgxpool.Pool
}

func NewCompanyRepository(storage *pgxpool.Pool) CompanyRepositoryInterface {
	return &companyRepository{storage: storage}
}

func (r *companyRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanCompany(row pgx.Row) (*entities.Company, error) {
	var c entities.Company
	if err := row.Scan(&c.ID, &c.Name, &c.ContactName, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования companies: %w", err)
	}
	return &c, nil
}

func (r *companyRepository) findOne(ctx context.Context, querier Querier, where sq.Eq) (*entities.Company, error) {
	query, args, err := db.Psql.Select(companyFields).From(companyTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для companies: %w", err)
	}
	return scanCompany(querier.QueryRow(ctx, query, args...))
}

func (r *companyRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Company, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"id": id})
}

func (r *companyRepository) FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.Company, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"name": name})
}

func (r *companyRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Company, uint64, error) {
	countBuilder := db.Psql.Select("COUNT(id)").From(companyTable)
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "name", "contact_name")
	countBuilder = db.ApplyFilters(countBuilder, filter, allowedCompanyFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []entities.Company{}, 0, nil
	}

	builder := db.ApplySearch(db.Psql.Select(companyFields).From(companyTable), filter.Search, "name", "contact_name")
	builder = db.ApplyListParams(builder, filter, allowedCompanyFilters, "name ASC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка итерации rows: %w", err)
	}
	return list, total, nil
}

func (r *companyRepository) Create(ctx context.Context, tx pgx.Tx, c entities.Company) (uint64, error) {
	query, args, err := db.Psql.Insert(companyTable).
		Columns("name", "contact_name", "phone", "created_at", "updated_at").
		Values(c.Name, c.ContactName, c.Phone, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, fmt.Errorf("компания с таким названием уже существует: %w", apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания companies: %w", err)
	}
	return newID, nil
}

func (r *companyRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, c entities.Company) error {
	query, args, err := db.Psql.Update(companyTable).
		Set("name", c.Name).
		Set("contact_name", c.ContactName).
		Set("phone", c.Phone).
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
			return fmt.Errorf("компания с таким названием уже существует: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("ошибка обновления companies: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *companyRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := r.getQuerier(tx).Exec(ctx, "DELETE FROM companies WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления companies: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
