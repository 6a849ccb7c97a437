package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/memory"
)

type llmMock struct{ mock.Mock }

func (m *llmMock) DraftPurchaseOrder(ctx context.Context, request string, catalog []dto.CatalogHint) (*dto.PurchaseOrderDraft, error) {
	args := m.Called(ctx, request, catalog)
	draft, _ := args.Get(0).(*dto.PurchaseOrderDraft)
	return draft, args.Error(1)
}

func (m *llmMock) SuggestSuppliers(ctx context.Context, need string, suppliers []dto.SupplierHint) ([]dto.SupplierSuggestion, error) {
	args := m.Called(ctx, need, suppliers)
	out, _ := args.Get(0).([]dto.SupplierSuggestion)
	return out, args.Error(1)
}

func TestAIUseCase_DraftFiltersUnknownItems(t *testing.T) {
	ctx := context.Background()
	s := memory.New().Stores()
	require.NoError(t, s.Items.Create(ctx, &entity.InventoryItem{ID: "CAM", SKU: "CAM-1", Name: "Cámara IP", Type: entity.ItemTypeSimple}))
	require.NoError(t, s.Items.Create(ctx, &entity.InventoryItem{ID: "INST", SKU: "SRV-1", Name: "Instalación", Type: entity.ItemTypeService}))

	llm := &llmMock{}
	llm.On("DraftPurchaseOrder", mock.Anything, "4 cámaras", mock.MatchedBy(func(c []dto.CatalogHint) bool {
		return len(c) == 1 && c[0].ItemID == "CAM"
	})).Return(&dto.PurchaseOrderDraft{Lines: []dto.DraftLine{
		{ItemID: "CAM", ItemName: "Cámara IP", Quantity: decimal.NewFromInt(4)},
		{ItemID: "inventado", ItemName: "Cable", Quantity: decimal.NewFromInt(1)},
		{ItemName: "Nada", Quantity: decimal.Zero},
	}}, nil)

	uc := usecase.NewAIUseCase(llm, s.Items, s.Suppliers)
	draft, err := uc.DraftPurchaseOrder(ctx, dto.DraftPurchaseOrderRequest{Request: "4 cámaras"})
	require.NoError(t, err)
	require.Len(t, draft.Lines, 2)
	assert.Equal(t, "CAM", draft.Lines[0].ItemID)
	assert.Equal(t, entity.LineTypeMaterial, draft.Lines[0].Type)
	assert.Empty(t, draft.Lines[1].ItemID)
	llm.AssertExpectations(t)
}

func TestAIUseCase_LLMFailureIsDependencyFailure(t *testing.T) {
	ctx := context.Background()
	s := memory.New().Stores()
	require.NoError(t, s.Suppliers.Create(ctx, &entity.Supplier{ID: "S1", Name: "Uno"}))

	llm := &llmMock{}
	llm.On("SuggestSuppliers", mock.Anything, "cemento", mock.Anything).Return(nil, errors.New("timeout"))
	llm.On("DraftPurchaseOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	uc := usecase.NewAIUseCase(llm, s.Items, s.Suppliers)
	_, err := uc.SuggestSuppliers(ctx, dto.SuggestSuppliersRequest{Need: "cemento"})
	assert.True(t, errors.Is(err, domain.ErrDependencyFailure))
	_, err = uc.DraftPurchaseOrder(ctx, dto.DraftPurchaseOrderRequest{Request: "algo"})
	assert.True(t, errors.Is(err, domain.ErrDependencyFailure))

	_, err = uc.SuggestSuppliers(ctx, dto.SuggestSuppliersRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAIUseCase_SuggestKeepsOnlyKnownSuppliers(t *testing.T) {
	ctx := context.Background()
	s := memory.New().Stores()
	require.NoError(t, s.Suppliers.Create(ctx, &entity.Supplier{ID: "S1", Name: "Uno"}))

	llm := &llmMock{}
	llm.On("SuggestSuppliers", mock.Anything, "cemento", []dto.SupplierHint{{SupplierID: "S1", Name: "Uno"}}).
		Return([]dto.SupplierSuggestion{{SupplierID: "S1", Reason: "cercano"}, {SupplierID: "S9", Reason: "?"}}, nil)

	uc := usecase.NewAIUseCase(llm, s.Items, s.Suppliers)
	resp, err := uc.SuggestSuppliers(ctx, dto.SuggestSuppliersRequest{Need: "cemento"})
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "S1", resp.Suggestions[0].SupplierID)
}
