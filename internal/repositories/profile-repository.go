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
	profileTable  = "profiles"
	profileFields = "id, email, password_hash, full_name, role, company_id, created_at, updated_at"
)

type ProfileRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Profile, error)
	FindByEmail(ctx context.Context, email string) (*entities.Profile, error)
	ListIDsByRole(ctx context.Context, role string) ([]uint64, error)
	// Upsert по email, используется сидером.
	Upsert(ctx context.Context, tx pgx.Tx, p entities.Profile) (uint64, error)
}

type profileRepository struct {
	storage *pgxpool.Pool
}

func NewProfileRepository(storage *pgxpool.Pool) ProfileRepositoryInterface {
	return &profileRepository{storage: storage}
}

func (r *profileRepository) findOne(ctx context.Context, where sq.Eq) (*entities.Profile, error) {
	query, args, err := db.Psql.Select(profileFields).From(profileTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для profiles: %w", err)
	}

	var p entities.Profile
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Role, &p.CompanyID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования profiles: %w", err)
	}
	return &p, nil
}

func (r *profileRepository) FindByID(ctx context.Context, id uint64) (*entities.Profile, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*entities.Profile, error) {
	return r.findOne(ctx, sq.Eq{"LOWER(email)": email})
}

func (r *profileRepository) ListIDsByRole(ctx context.Context, role string) ([]uint64, error) {
	rows, err := r.storage.Query(ctx, "SELECT id FROM profiles WHERE role = $1 ORDER BY id", role)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки profiles по роли: %w", err)
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования id профиля: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *profileRepository) Upsert(ctx context.Context, tx pgx.Tx, p entities.Profile) (uint64, error) {
	var q Querier = r.storage
	if tx != nil {
		q = tx
	}

	query, args, err := db.Psql.Insert(profileTable).
		Columns("email", "password_hash", "full_name", "role", "company_id", "created_at", "updated_at").
		Values(p.Email, p.PasswordHash, p.FullName, p.Role, p.CompanyID, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix(`ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			full_name = EXCLUDED.full_name,
			role = EXCLUDED.role,
			updated_at = NOW()
		RETURNING id`).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Upsert: %w", err)
	}

	var id uint64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
			return 0, apperrors.NewValidationError("недопустимая роль", "role")
		}
		return 0, fmt.Errorf("ошибка записи profiles: %w", err)
	}
	return id, nil
}
