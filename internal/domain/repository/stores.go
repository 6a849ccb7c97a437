package repository

// Stores agrupa los repositorios que participan en operaciones atómicas.
// Fuera de una transacción están atados al pool; dentro de TxRunner.Run, a la tx.
type Stores struct {
	Items         InventoryItemRepository
	Locations     LocationRepository
	Stock         StockRepository
	Movements     InventoryMovementRepository
	Orders        PurchaseOrderRepository
	DeliveryNotes DeliveryNoteRepository
	Counters      CounterRepository
	Suppliers     SupplierRepository
	Clients       ClientRepository
	Projects      ProjectRepository
}
