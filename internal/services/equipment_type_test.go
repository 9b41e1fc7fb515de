package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/lifecycle"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/utils"
)

func TestEquipmentTypeCreate(t *testing.T) {
	svc := NewEquipmentTypeService(newFakeTypeRepo(), &fakeTxManager{}, maintenanceCfg, zap.NewNop())

	out, err := svc.Create(context.Background(), dto.CreateEquipmentTypeDTO{
		Name:            " Лебёдка ",
		ChecklistSchema: []lifecycle.ChecklistItem{{Label: "Трос"}, {Label: "Тормоз"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Лебёдка", out.Name)
	assert.Equal(t, 365, out.MaintenancePeriodDays)
	assert.Len(t, out.ChecklistSchema, 2)

	_, err = svc.Create(context.Background(), dto.CreateEquipmentTypeDTO{
		Name:            "Кран",
		ChecklistSchema: []lifecycle.ChecklistItem{{Label: "Трос"}, {Label: " трос "}},
	})
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
}

func TestEquipmentTypeUpdate_KeepsOmittedFields(t *testing.T) {
	repo := newFakeTypeRepo(entities.EquipmentType{
		ID: 1, Name: "Сварка", MaintenancePeriodDays: 180,
		ChecklistSchema: []lifecycle.ChecklistItem{{Label: "Кабель"}},
	})
	svc := NewEquipmentTypeService(repo, &fakeTxManager{}, maintenanceCfg, zap.NewNop())

	out, err := svc.Update(context.Background(), 1, dto.UpdateEquipmentTypeDTO{MaintenancePeriodDays: utils.ToPtr(90)})
	require.NoError(t, err)
	assert.Equal(t, "Сварка", out.Name)
	assert.Equal(t, 90, out.MaintenancePeriodDays)
	assert.Equal(t, []lifecycle.ChecklistItem{{Label: "Кабель"}}, out.ChecklistSchema)

	_, err = svc.Update(context.Background(), 2, dto.UpdateEquipmentTypeDTO{Name: utils.ToPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentTypeDTO_EmptySchemaIsArray(t *testing.T) {
	out := equipmentTypeToDTO(entities.EquipmentType{ID: 1, Name: "x"})
	assert.NotNil(t, out.ChecklistSchema)
	assert.Empty(t, out.ChecklistSchema)
}

func TestProjectService(t *testing.T) {
	repo := &fakeProjectRepo{}
	svc := NewProjectService(repo, &fakeTxManager{}, zap.NewNop())
	ctx := context.Background()
	companyID := uint64(3)

	created, err := svc.Create(ctx, dto.CreateProjectDTO{Name: "Проект 22220", CompanyID: &companyID})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	updated, err := svc.Update(ctx, created.ID, dto.UpdateProjectDTO{
		Name:        "Проект 22220",
		Description: null.StringFrom("Ледокол"),
		IsActive:    false,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Nil(t, updated.CompanyID)
	assert.Equal(t, "Ледокол", *updated.Description)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), apperrors.ErrNotFound)
}
