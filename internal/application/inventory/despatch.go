package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	domaininv "github.com/jhoicas/orderflow-api/internal/domain/inventory"
	"github.com/jhoicas/orderflow-api/internal/domain/purchasing"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// DespatchUseCase genera notas de entrega y descuenta el stock que sale hacia un proyecto.
type DespatchUseCase struct {
	tx     ports.TxRunner
	locker ports.KeyedLocker
	stores repository.Stores
	now    func() time.Time
}

// NewDespatchUseCase construye el caso de uso. stores se usa para lecturas fuera de transacción.
func NewDespatchUseCase(tx ports.TxRunner, locker ports.KeyedLocker, stores repository.Stores) *DespatchUseCase {
	return &DespatchUseCase{tx: tx, locker: locker, stores: stores, now: time.Now}
}

// Create valida las líneas, explota los kits en componentes y, en una sola transacción,
// asigna el número, descuenta el stock y guarda la nota. Si algún componente no alcanza
// no se escribe nada.
func (uc *DespatchUseCase) Create(ctx context.Context, userID string, in dto.CreateDeliveryNoteRequest) (*dto.DeliveryNoteResponse, error) {
	if in.ProjectID == "" {
		return nil, fmt.Errorf("%w: project_id requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la nota requiere al menos una línea", domain.ErrInvalidInput)
	}
	ids := make([]string, 0, len(in.Items))
	lines := make([]domaininv.Line, 0, len(in.Items))
	for _, l := range in.Items {
		if l.ItemID == "" || !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: cada línea requiere item_id y cantidad mayor a cero", domain.ErrInvalidInput)
		}
		ids = append(ids, l.ItemID)
		lines = append(lines, domaininv.Line{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	// La receta se resuelve antes de bloquear para conocer las claves de stock.
	items, err := LoadItemsWithComponents(ctx, uc.stores.Items, ids...)
	if err != nil {
		return nil, err
	}
	exploded, err := domaininv.Explode(lines, items)
	if err != nil {
		return nil, err
	}
	deltas := make([]StockDelta, 0, len(exploded))
	for _, l := range exploded {
		deltas = append(deltas, StockDelta{ItemID: l.ItemID, LocationID: in.LocationID, Quantity: l.Quantity.Neg()})
	}

	release, err := uc.locker.Acquire(ctx, StockLockKeys(deltas)...)
	if err != nil {
		return nil, err
	}
	defer release()

	var note *entity.DeliveryNote
	err = uc.tx.Run(ctx, func(s repository.Stores) error {
		if _, err := RequireLocation(ctx, s.Locations, in.LocationID); err != nil {
			return err
		}
		project, err := s.Projects.GetByID(ctx, in.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return fmt.Errorf("%w: proyecto %s no existe", domain.ErrInvalidInput, in.ProjectID)
		}
		clientID := in.ClientID
		if clientID == "" {
			clientID = project.ClientID
		} else {
			client, err := s.Clients.GetByID(ctx, clientID)
			if err != nil {
				return err
			}
			if client == nil {
				return fmt.Errorf("%w: cliente %s no existe", domain.ErrInvalidInput, clientID)
			}
		}

		now := uc.now()
		seq, err := s.Counters.Next(ctx, repository.SeriesDeliveryNote, now.Year())
		if err != nil {
			return err
		}
		note = &entity.DeliveryNote{
			ID:         uuid.New().String(),
			NoteNumber: purchasing.FormatNumber(purchasing.DeliveryNotePrefix, now.Year(), seq),
			ProjectID:  in.ProjectID,
			ClientID:   clientID,
			LocationID: in.LocationID,
			Status:     entity.DeliveryStatusPending,
			Notes:      in.Notes,
			CreatedBy:  userID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		for _, l := range in.Items {
			note.Items = append(note.Items, entity.DeliveryLine{
				ItemID:   l.ItemID,
				ItemName: items[l.ItemID].Name,
				Quantity: l.Quantity,
			})
		}
		if err := ApplyStockDeltas(ctx, s, deltas, MovementRef{
			Type:          entity.MovementTypeDESPATCH,
			Reference:     note.NoteNumber,
			UserID:        userID,
			TransactionID: note.ID,
			Date:          now,
		}); err != nil {
			return err
		}
		return s.DeliveryNotes.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	return ToDeliveryNoteResponse(note), nil
}

// MarkDelivered marca la nota como entregada. Repetir la operación no cambia nada.
func (uc *DespatchUseCase) MarkDelivered(ctx context.Context, id string) (*dto.DeliveryNoteResponse, error) {
	var note *entity.DeliveryNote
	err := uc.tx.Run(ctx, func(s repository.Stores) error {
		n, err := s.DeliveryNotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("%w: nota de entrega %s", domain.ErrNotFound, id)
		}
		note = n
		if n.Status == entity.DeliveryStatusDelivered {
			return nil
		}
		now := uc.now()
		n.Status = entity.DeliveryStatusDelivered
		n.DeliveredAt = &now
		n.UpdatedAt = now
		return s.DeliveryNotes.Update(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return ToDeliveryNoteResponse(note), nil
}

// Get obtiene una nota de entrega por ID.
func (uc *DespatchUseCase) Get(ctx context.Context, id string) (*entity.DeliveryNote, error) {
	n, err := uc.stores.DeliveryNotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("%w: nota de entrega %s", domain.ErrNotFound, id)
	}
	return n, nil
}

// List lista notas de entrega, opcionalmente por proyecto.
func (uc *DespatchUseCase) List(ctx context.Context, projectID string, limit, offset int) (*dto.DeliveryNoteListResponse, error) {
	list, err := uc.stores.DeliveryNotes.List(ctx, projectID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryNoteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, *ToDeliveryNoteResponse(n))
	}
	return &dto.DeliveryNoteListResponse{Items: out, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// ToDeliveryNoteResponse mapea la entidad al DTO de salida.
func ToDeliveryNoteResponse(n *entity.DeliveryNote) *dto.DeliveryNoteResponse {
	if n == nil {
		return nil
	}
	lines := make([]dto.DeliveryLineDTO, 0, len(n.Items))
	for _, l := range n.Items {
		lines = append(lines, dto.DeliveryLineDTO{ItemID: l.ItemID, ItemName: l.ItemName, Quantity: l.Quantity})
	}
	return &dto.DeliveryNoteResponse{
		ID:          n.ID,
		NoteNumber:  n.NoteNumber,
		ProjectID:   n.ProjectID,
		ClientID:    n.ClientID,
		LocationID:  n.LocationID,
		Items:       lines,
		Status:      n.Status,
		Notes:       n.Notes,
		CreatedBy:   n.CreatedBy,
		CreatedAt:   n.CreatedAt,
		DeliveredAt: n.DeliveredAt,
	}
}
