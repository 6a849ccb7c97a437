package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationStock cantidad de un artículo simple en una ubicación. Quantity >= 0 siempre;
// los registros que llegan a cero se eliminan.
type LocationStock struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
