package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/types"
)

type ProjectServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]dto.ProjectDTO, uint64, error)
	FindByID(ctx context.Context, id uint64) (*dto.ProjectDTO, error)
	Create(ctx context.Context, d dto.CreateProjectDTO) (*dto.ProjectDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateProjectDTO) (*dto.ProjectDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type ProjectService struct {
	repo      repositories.ProjectRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewProjectService(repo repositories.ProjectRepositoryInterface, txManager repositories.TxManagerInterface, logger *zap.Logger) ProjectServiceInterface {
	return &ProjectService{repo: repo, txManager: txManager, logger: logger}
}

func (s *ProjectService) GetAll(ctx context.Context, filter types.Filter) ([]dto.ProjectDTO, uint64, error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProjectDTO, 0, len(list))
	for _, p := range list {
		out = append(out, projectToDTO(p))
	}
	return out, total, nil
}

func (s *ProjectService) FindByID(ctx context.Context, id uint64) (*dto.ProjectDTO, error) {
	p, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	out := projectToDTO(*p)
	return &out, nil
}

func (s *ProjectService) Create(ctx context.Context, d dto.CreateProjectDTO) (*dto.ProjectDTO, error) {
	isActive := true
	if d.IsActive != nil {
		isActive = *d.IsActive
	}
	id, err := s.repo.Create(ctx, nil, entities.Project{
		Name:        strings.TrimSpace(d.Name),
		CompanyID:   d.CompanyID,
		Description: d.Description,
		IsActive:    isActive,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Проект создан", zap.Uint64("id", id), zap.String("name", d.Name))
	return s.FindByID(ctx, id)
}

func (s *ProjectService) Update(ctx context.Context, id uint64, d dto.UpdateProjectDTO) (*dto.ProjectDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		current.Name = strings.TrimSpace(d.Name)
		current.CompanyID = d.CompanyID.Ptr()
		current.Description = d.Description.Ptr()
		current.IsActive = d.IsActive
		return s.repo.Update(ctx, tx, id, *current)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Проект обновлён", zap.Uint64("id", id))
	return s.FindByID(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("Проект удалён", zap.Uint64("id", id))
	return nil
}
