package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/memory"
)

func TestLocationUseCase_DeleteGuard(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := store.Stores()
	uc := usecase.NewLocationUseCase(s.Locations, store)

	loc, err := uc.Create(ctx, dto.CreateLocationRequest{Name: "Bodega central", Type: entity.LocationTypePhysical})
	require.NoError(t, err)
	require.NoError(t, s.Stock.Save(ctx, &entity.LocationStock{ItemID: "X", LocationID: loc.ID, Quantity: decimal.NewFromInt(3)}))

	err = uc.Delete(ctx, loc.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	_, err = uc.GetByID(ctx, loc.ID)
	require.NoError(t, err)

	require.NoError(t, s.Stock.Save(ctx, &entity.LocationStock{ItemID: "X", LocationID: loc.ID, Quantity: decimal.Zero}))
	require.NoError(t, uc.Delete(ctx, loc.ID))

	_, err = uc.GetByID(ctx, loc.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	left, err := s.Stock.ListByLocation(ctx, loc.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestLocationUseCase_RejectsUnknownType(t *testing.T) {
	store := memory.New()
	uc := usecase.NewLocationUseCase(store.Stores().Locations, store)

	_, err := uc.Create(context.Background(), dto.CreateLocationRequest{Name: "Camión", Type: "flotante"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	mobile := entity.LocationTypeMobile
	loc, err := uc.Create(context.Background(), dto.CreateLocationRequest{Name: "Camión", Type: entity.LocationTypePhysical})
	require.NoError(t, err)
	updated, err := uc.Update(context.Background(), loc.ID, dto.UpdateLocationRequest{Type: &mobile})
	require.NoError(t, err)
	assert.Equal(t, entity.LocationTypeMobile, updated.Type)
}
