package queries

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var (
	ErrGetFleetSummaryQueryIsNotConstructed = errors.New(
		"GetFleetSummaryQuery must be created via NewGetFleetSummaryQuery constructor",
	)
)

// GetFleetSummaryQuery reports every hub's occupancy and the state of
// its rider pool. This is the ops dashboard view.
type GetFleetSummaryQuery struct {
	guard guard.ConstructorGuard
}

// NewGetFleetSummaryQuery creates a parameterless fleet summary query.
func NewGetFleetSummaryQuery() GetFleetSummaryQuery {
	return GetFleetSummaryQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetFleetSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetFleetSummaryQueryIsNotConstructed)
}

// GetFleetSummaryQueryResponse is one warehouse's slice of the fleet.
type GetFleetSummaryQueryResponse struct {
	WarehouseID      kernel.UUID
	WarehouseName    string
	Capacity         int
	CurrentLoad      int
	HeldOrders       int
	RidersAvailable  int
	RidersOnPickup   int
	RidersOnDelivery int
	RidersOffline    int
}
