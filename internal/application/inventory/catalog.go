package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	domaininv "github.com/jhoicas/orderflow-api/internal/domain/inventory"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// CatalogUseCase catálogo de artículos, ajustes de stock y consultas del diario.
type CatalogUseCase struct {
	tx     ports.TxRunner
	locker ports.KeyedLocker
	stores repository.Stores
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(tx ports.TxRunner, locker ports.KeyedLocker, stores repository.Stores) *CatalogUseCase {
	return &CatalogUseCase{tx: tx, locker: locker, stores: stores}
}

// CreateItem crea un artículo. El SKU es único; los kits requieren una receta válida.
func (uc *CatalogUseCase) CreateItem(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: sku y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.IsValidItemType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de artículo %q", domain.ErrInvalidInput, in.Type)
	}
	if in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	existing, err := uc.stores.Items.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: sku %s", domain.ErrDuplicate, sku)
	}

	now := time.Now()
	item := &entity.InventoryItem{
		ID:        uuid.New().String(),
		SKU:       sku,
		Name:      in.Name,
		Unit:      in.Unit,
		UnitCost:  in.UnitCost,
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if item.Type == entity.ItemTypeComposite {
		comps := toKitComponents(in.Components)
		if err := uc.validateRecipe(ctx, item.ID, comps); err != nil {
			return nil, err
		}
		item.Components = comps
		item.UnitCost = decimal.Zero
	} else if len(in.Components) > 0 {
		return nil, fmt.Errorf("%w: solo los kits tienen componentes", domain.ErrInvalidInput)
	}
	if err := uc.stores.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	return uc.toItemResponse(ctx, item)
}

// GetItem obtiene un artículo; para kits el costo se calcula de los componentes.
func (uc *CatalogUseCase) GetItem(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toItemResponse(ctx, item)
}

// ListItems lista artículos, opcionalmente por tipo.
func (uc *CatalogUseCase) ListItems(ctx context.Context, itemType string, limit, offset int) (*dto.ItemListResponse, error) {
	if itemType != "" && !entity.IsValidItemType(itemType) {
		return nil, fmt.Errorf("%w: tipo de artículo %q", domain.ErrInvalidInput, itemType)
	}
	list, err := uc.stores.Items.List(ctx, itemType, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		r, err := uc.toItemResponse(ctx, it)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return &dto.ItemListResponse{Items: out, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// UpdateItem actualiza datos del artículo. El tipo y el SKU no cambian.
func (uc *CatalogUseCase) UpdateItem(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
		}
		item.Name = *in.Name
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
		}
		if item.Type != entity.ItemTypeComposite {
			item.UnitCost = *in.UnitCost
		}
	}
	if in.Components != nil {
		if item.Type != entity.ItemTypeComposite {
			return nil, fmt.Errorf("%w: solo los kits tienen componentes", domain.ErrInvalidInput)
		}
		comps := toKitComponents(in.Components)
		if err := uc.validateRecipe(ctx, item.ID, comps); err != nil {
			return nil, err
		}
		item.Components = comps
	}
	item.UpdatedAt = time.Now()
	if err := uc.stores.Items.Update(ctx, item); err != nil {
		return nil, err
	}
	return uc.toItemResponse(ctx, item)
}

// DeleteItem elimina un artículo y todos sus registros de stock.
// Un artículo usado como componente de algún kit no se puede eliminar.
func (uc *CatalogUseCase) DeleteItem(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(s repository.Stores) error {
		item, err := s.Items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		kits, err := s.Items.ListCompositesUsing(ctx, id)
		if err != nil {
			return err
		}
		if len(kits) > 0 {
			return fmt.Errorf("%w: el artículo %s es componente del kit %s", domain.ErrConflict, item.SKU, kits[0].SKU)
		}
		if err := s.Stock.DeleteByItem(ctx, id); err != nil {
			return err
		}
		return s.Items.Delete(ctx, id)
	})
}

// StockByItem cantidades por ubicación. Para kits devuelve los kits completos que se pueden
// armar en cada ubicación con el stock de sus componentes.
func (uc *CatalogUseCase) StockByItem(ctx context.Context, id string) (*dto.ItemStockResponse, error) {
	item, err := uc.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.ItemStockResponse{ItemID: item.ID, Type: item.Type, Locations: []dto.LocationQuantity{}, Total: decimal.Zero}
	switch item.Type {
	case entity.ItemTypeSimple:
		records, err := uc.stores.Stock.ListByItem(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			resp.Locations = append(resp.Locations, dto.LocationQuantity{LocationID: r.LocationID, Quantity: r.Quantity})
			resp.Total = resp.Total.Add(r.Quantity)
		}
	case entity.ItemTypeComposite:
		byLocation := make(map[string]map[string]decimal.Decimal)
		for _, c := range item.Components {
			records, err := uc.stores.Stock.ListByItem(ctx, c.ComponentItemID)
			if err != nil {
				return nil, err
			}
			for _, r := range records {
				if byLocation[r.LocationID] == nil {
					byLocation[r.LocationID] = make(map[string]decimal.Decimal)
				}
				byLocation[r.LocationID][r.ItemID] = r.Quantity
			}
		}
		locs := make([]string, 0, len(byLocation))
		for l := range byLocation {
			locs = append(locs, l)
		}
		sort.Strings(locs)
		for _, l := range locs {
			n := domaininv.KitAvailability(item, byLocation[l])
			if n.IsPositive() {
				resp.Locations = append(resp.Locations, dto.LocationQuantity{LocationID: l, Quantity: n})
				resp.Total = resp.Total.Add(n)
			}
		}
	}
	return resp, nil
}

// AdjustStock fija la cantidad absoluta de un artículo simple en una ubicación.
func (uc *CatalogUseCase) AdjustStock(ctx context.Context, userID string, in dto.AdjustmentRequest) error {
	if in.Quantity.IsNegative() {
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	release, err := uc.locker.Acquire(ctx, StockKey(in.ItemID, in.LocationID))
	if err != nil {
		return err
	}
	defer release()

	return uc.tx.Run(ctx, func(s repository.Stores) error {
		item, err := s.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, in.ItemID)
		}
		if item.Type != entity.ItemTypeSimple {
			return fmt.Errorf("%w: solo los artículos simples llevan stock", domain.ErrInvalidInput)
		}
		if _, err := RequireLocation(ctx, s.Locations, in.LocationID); err != nil {
			return err
		}
		current, err := s.Stock.GetForUpdate(ctx, in.ItemID, in.LocationID)
		if err != nil {
			return err
		}
		delta := in.Quantity.Sub(current.Quantity)
		if delta.IsZero() {
			return nil
		}
		return ApplyStockDeltas(ctx, s, []StockDelta{{ItemID: in.ItemID, LocationID: in.LocationID, Quantity: delta}}, MovementRef{
			Type:      entity.MovementTypeADJUSTMENT,
			Reference: in.Reason,
			UserID:    userID,
		})
	})
}

// ListMovements consulta el diario de movimientos.
func (uc *CatalogUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	list, err := uc.stores.Movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ItemID:        m.ItemID,
			LocationID:    m.LocationID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			Reference:     m.Reference,
			Date:          m.Date,
			CreatedBy:     m.CreatedBy,
		})
	}
	return &dto.MovementListResponse{Items: out, Page: dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset}}, nil
}

// StockReport todas las existencias con nombres de artículo y ubicación, ordenadas por SKU.
func (uc *CatalogUseCase) StockReport(ctx context.Context) ([]dto.StockRow, error) {
	records, err := uc.stores.Stock.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make(map[string]*entity.InventoryItem)
	locations := make(map[string]*entity.Location)
	rows := make([]dto.StockRow, 0, len(records))
	for _, r := range records {
		item, ok := items[r.ItemID]
		if !ok {
			if item, err = uc.stores.Items.GetByID(ctx, r.ItemID); err != nil {
				return nil, err
			}
			items[r.ItemID] = item
		}
		loc, ok := locations[r.LocationID]
		if !ok {
			if loc, err = uc.stores.Locations.GetByID(ctx, r.LocationID); err != nil {
				return nil, err
			}
			locations[r.LocationID] = loc
		}
		row := dto.StockRow{ItemID: r.ItemID, LocationID: r.LocationID, Quantity: r.Quantity}
		if item != nil {
			row.SKU, row.ItemName = item.SKU, item.Name
		}
		if loc != nil {
			row.LocationName = loc.Name
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SKU != rows[j].SKU {
			return rows[i].SKU < rows[j].SKU
		}
		return rows[i].LocationName < rows[j].LocationName
	})
	return rows, nil
}

func (uc *CatalogUseCase) getItem(ctx context.Context, id string) (*entity.InventoryItem, error) {
	item, err := uc.stores.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	return item, nil
}

func (uc *CatalogUseCase) validateRecipe(ctx context.Context, kitID string, comps []entity.KitComponent) error {
	known := make(map[string]*entity.InventoryItem, len(comps))
	for _, c := range comps {
		if c.ComponentItemID == "" {
			continue
		}
		it, err := uc.stores.Items.GetByID(ctx, c.ComponentItemID)
		if err != nil {
			return err
		}
		if it != nil {
			known[it.ID] = it
		}
	}
	return domaininv.ValidateComponents(kitID, comps, known)
}

func (uc *CatalogUseCase) toItemResponse(ctx context.Context, item *entity.InventoryItem) (*dto.ItemResponse, error) {
	resp := &dto.ItemResponse{
		ID:        item.ID,
		SKU:       item.SKU,
		Name:      item.Name,
		Unit:      item.Unit,
		UnitCost:  item.UnitCost,
		Type:      item.Type,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Type == entity.ItemTypeComposite {
		ids := make([]string, 0, len(item.Components))
		for _, c := range item.Components {
			ids = append(ids, c.ComponentItemID)
			resp.Components = append(resp.Components, dto.KitComponentDTO{ComponentItemID: c.ComponentItemID, Quantity: c.Quantity})
		}
		comps := make(map[string]*entity.InventoryItem, len(ids))
		for _, id := range ids {
			c, err := uc.stores.Items.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			comps[id] = c
		}
		resp.UnitCost = domaininv.CompositeUnitCost(item, comps)
	}
	return resp, nil
}

func toKitComponents(in []dto.KitComponentDTO) []entity.KitComponent {
	out := make([]entity.KitComponent, 0, len(in))
	for _, c := range in {
		out = append(out, entity.KitComponent{ComponentItemID: c.ComponentItemID, Quantity: c.Quantity})
	}
	return out
}
