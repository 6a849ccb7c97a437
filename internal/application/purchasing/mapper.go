package purchasing

import (
	"time"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
)

// OrderKey clave de bloqueo de una orden de compra.
func OrderKey(orderID string) string { return "order:" + orderID }

// ToPurchaseOrderResponse arma el modelo de lectura; Overdue se evalúa contra now.
func ToPurchaseOrderResponse(o *entity.PurchaseOrder, now time.Time) *dto.PurchaseOrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]dto.OrderLineDTO, 0, len(o.Items))
	for _, l := range o.Items {
		lines = append(lines, dto.OrderLineDTO{
			ItemID:   l.ItemID,
			ItemName: l.ItemName,
			Quantity: l.Quantity,
			Price:    l.Price,
			Type:     l.Type,
		})
	}
	history := make([]dto.StatusHistoryDTO, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, dto.StatusHistoryDTO{Status: string(h.Status), Date: h.Date, Comment: h.Comment})
	}
	return &dto.PurchaseOrderResponse{
		ID:                    o.ID,
		OrderNumber:           o.OrderNumber,
		SupplierID:            o.SupplierID,
		SupplierName:          o.SupplierName,
		ProjectID:             o.ProjectID,
		ProjectName:           o.ProjectName,
		Items:                 lines,
		Total:                 o.Total,
		Status:                string(o.Status),
		StatusHistory:         history,
		RejectionReason:       o.RejectionReason,
		OriginalOrderID:       o.OriginalOrderID,
		BackorderIDs:          append([]string(nil), o.BackorderIDs...),
		OrderDate:             o.OrderDate,
		EstimatedDeliveryDate: o.EstimatedDeliveryDate,
		Notes:                 o.Notes,
		Overdue:               o.IsOverdue(now),
		CreatedBy:             o.CreatedBy,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}
