package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/types"
)

type CompanyServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]dto.CompanyDTO, uint64, error)
	FindByID(ctx context.Context, id uint64) (*dto.CompanyDTO, error)
	Create(ctx context.Context, d dto.CreateCompanyDTO) (*dto.CompanyDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateCompanyDTO) (*dto.CompanyDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type CompanyService struct {
	repo   repositories.CompanyRepositoryInterface
	logger *zap.Logger
}

func NewCompanyService(repo repositories.CompanyRepositoryInterface, logger *zap.Logger) CompanyServiceInterface {
	return &CompanyService{repo: repo, logger: logger}
}

func (s *CompanyService) GetAll(ctx context.Context, filter types.Filter) ([]dto.CompanyDTO, uint64, error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CompanyDTO, 0, len(list))
	for _, c := range list {
		out = append(out, companyToDTO(c))
	}
	return out, total, nil
}

func (s *CompanyService) FindByID(ctx context.Context, id uint64) (*dto.CompanyDTO, error) {
	c, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	out := companyToDTO(*c)
	return &out, nil
}

func (s *CompanyService) Create(ctx context.Context, d dto.CreateCompanyDTO) (*dto.CompanyDTO, error) {
	id, err := s.repo.Create(ctx, nil, entities.Company{
		Name:        strings.TrimSpace(d.Name),
		ContactName: d.ContactName,
		Phone:       d.Phone,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Компания создана", zap.Uint64("id", id), zap.String("name", d.Name))
	return s.FindByID(ctx, id)
}

// Update - PUT: null в contact_name/phone очищает поле.
func (s *CompanyService) Update(ctx context.Context, id uint64, d dto.UpdateCompanyDTO) (*dto.CompanyDTO, error) {
	err := s.repo.Update(ctx, nil, id, entities.Company{
		Name:        strings.TrimSpace(d.Name),
		ContactName: d.ContactName.Ptr(),
		Phone:       d.Phone.Ptr(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Компания обновлена", zap.Uint64("id", id))
	return s.FindByID(ctx, id)
}

func (s *CompanyService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("Компания удалена", zap.Uint64("id", id))
	return nil
}
