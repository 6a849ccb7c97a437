package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// StockDelta cambio firmado de cantidad para un artículo simple en una ubicación.
type StockDelta struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
}

// MovementRef datos comunes de los movimientos que genera un lote de deltas.
type MovementRef struct {
	Type          string
	Reference     string
	UserID        string
	TransactionID string
	Date          time.Time
}

type stockKey struct{ item, location string }

// StockKey clave de bloqueo de un registro de stock.
func StockKey(itemID, locationID string) string {
	return "stock:" + itemID + ":" + locationID
}

// StockLockKeys claves de bloqueo de un lote de deltas, sin repetir.
func StockLockKeys(deltas []StockDelta) []string {
	seen := make(map[string]bool, len(deltas))
	keys := make([]string, 0, len(deltas))
	for _, d := range deltas {
		k := StockKey(d.ItemID, d.LocationID)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// ApplyStockDeltas aplica un lote de deltas dentro de la transacción del caller.
// Agrupa por (artículo, ubicación), procesa las claves en orden, valida todas las salidas
// antes de escribir y deja un movimiento por clave. Ningún registro queda negativo;
// los que llegan a cero se eliminan.
func ApplyStockDeltas(ctx context.Context, s repository.Stores, deltas []StockDelta, ref MovementRef) error {
	net := make(map[stockKey]decimal.Decimal, len(deltas))
	for _, d := range deltas {
		if d.ItemID == "" || d.LocationID == "" {
			return fmt.Errorf("%w: delta sin artículo o ubicación", domain.ErrInvalidInput)
		}
		k := stockKey{d.ItemID, d.LocationID}
		net[k] = net[k].Add(d.Quantity)
	}
	keys := make([]stockKey, 0, len(net))
	for k, q := range net {
		if !q.IsZero() {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].item != keys[j].item {
			return keys[i].item < keys[j].item
		}
		return keys[i].location < keys[j].location
	})

	// Salidas: bloquear y validar todo antes de tocar nada.
	locked := make(map[stockKey]*entity.LocationStock)
	for _, k := range keys {
		q := net[k]
		if !q.IsNegative() {
			continue
		}
		current, err := s.Stock.GetForUpdate(ctx, k.item, k.location)
		if err != nil {
			return err
		}
		if current.Quantity.Add(q).IsNegative() {
			return fmt.Errorf("%w: artículo %s en ubicación %s (disponible %s, requerido %s)",
				domain.ErrInsufficientStock, k.item, k.location, current.Quantity, q.Neg())
		}
		locked[k] = current
	}

	if ref.TransactionID == "" {
		ref.TransactionID = uuid.New().String()
	}
	if ref.Date.IsZero() {
		ref.Date = time.Now()
	}
	for _, k := range keys {
		q := net[k]
		if q.IsPositive() {
			if err := s.Stock.Increase(ctx, k.item, k.location, q); err != nil {
				return err
			}
		} else {
			current := locked[k]
			next := current.Quantity.Add(q)
			if next.IsZero() {
				if err := s.Stock.Delete(ctx, k.item, k.location); err != nil {
					return err
				}
			} else {
				current.Quantity = next
				current.UpdatedAt = ref.Date
				if err := s.Stock.Save(ctx, current); err != nil {
					return err
				}
			}
		}
		mov := &entity.InventoryMovement{
			ID:            uuid.New().String(),
			TransactionID: ref.TransactionID,
			ItemID:        k.item,
			LocationID:    k.location,
			Type:          ref.Type,
			Quantity:      q,
			Reference:     ref.Reference,
			Date:          ref.Date,
			CreatedBy:     ref.UserID,
		}
		if err := s.Movements.Create(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}

// loadItems obtiene los artículos por ID; un ID inexistente es ErrNotFound.
func loadItems(ctx context.Context, repo repository.InventoryItemRepository, ids ...string) (map[string]*entity.InventoryItem, error) {
	items := make(map[string]*entity.InventoryItem, len(ids))
	for _, id := range ids {
		if _, ok := items[id]; ok {
			continue
		}
		item, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		items[id] = item
	}
	return items, nil
}

// LoadItemsWithComponents carga los artículos y, para los kits, también sus componentes.
func LoadItemsWithComponents(ctx context.Context, repo repository.InventoryItemRepository, ids ...string) (map[string]*entity.InventoryItem, error) {
	items, err := loadItems(ctx, repo, ids...)
	if err != nil {
		return nil, err
	}
	var compIDs []string
	for _, it := range items {
		for _, c := range it.Components {
			if _, ok := items[c.ComponentItemID]; !ok {
				compIDs = append(compIDs, c.ComponentItemID)
			}
		}
	}
	comps, err := loadItems(ctx, repo, compIDs...)
	if err != nil {
		return nil, err
	}
	for id, c := range comps {
		items[id] = c
	}
	return items, nil
}

// RequireLocation verifica que la ubicación exista; si no, ErrInvalidInput.
func RequireLocation(ctx context.Context, repo repository.LocationRepository, id string) (*entity.Location, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: ubicación requerida", domain.ErrInvalidInput)
	}
	loc, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: ubicación %s no existe", domain.ErrInvalidInput, id)
	}
	return loc, nil
}
