package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// DocumentUseCase arma las vistas de impresión (PDF) de notas de entrega y órdenes.
type DocumentUseCase struct {
	stores   repository.Stores
	renderer ports.DocumentRenderer
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(stores repository.Stores, renderer ports.DocumentRenderer) *DocumentUseCase {
	return &DocumentUseCase{stores: stores, renderer: renderer}
}

// DeliveryNotePDF genera el PDF de una nota de entrega con los nombres de proyecto, cliente y ubicación.
func (uc *DocumentUseCase) DeliveryNotePDF(ctx context.Context, id string) ([]byte, string, error) {
	note, err := uc.stores.DeliveryNotes.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if note == nil {
		return nil, "", fmt.Errorf("%w: nota de entrega %s", domain.ErrNotFound, id)
	}
	doc := ports.DeliveryNoteDocument{Note: note}
	if p, err := uc.stores.Projects.GetByID(ctx, note.ProjectID); err != nil {
		return nil, "", err
	} else if p != nil {
		doc.ProjectName = p.Name
	}
	if note.ClientID != "" {
		if c, err := uc.stores.Clients.GetByID(ctx, note.ClientID); err != nil {
			return nil, "", err
		} else if c != nil {
			doc.ClientName = c.Name
		}
	}
	if l, err := uc.stores.Locations.GetByID(ctx, note.LocationID); err != nil {
		return nil, "", err
	} else if l != nil {
		doc.LocationName = l.Name
	}
	pdf, err := uc.renderer.RenderDeliveryNote(doc)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return pdf, note.NoteNumber + ".pdf", nil
}

// PurchaseOrderPDF genera el PDF de una orden de compra.
func (uc *DocumentUseCase) PurchaseOrderPDF(ctx context.Context, id string) ([]byte, string, error) {
	order, err := uc.stores.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	pdf, err := uc.renderer.RenderPurchaseOrder(order)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return pdf, order.OrderNumber + ".pdf", nil
}
