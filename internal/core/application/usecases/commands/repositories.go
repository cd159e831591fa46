// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"parcelhub/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler declares the narrowest composition it needs, so a command that
// only touches riders cannot accidentally reach into order state.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RiderRepoFactory provides access to the rider repository within a transaction.
	RiderRepoFactory interface {
		RiderRepository() ports.RiderRepository
	}

	// WarehouseRepoFactory provides access to the warehouse repository within a transaction.
	WarehouseRepoFactory interface {
		WarehouseRepository() ports.WarehouseRepository
	}

	// RouteRepoFactory provides access to the route repository within a transaction.
	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	// SubscriptionRepoFactory provides access to the subscription repository
	// within a transaction.
	SubscriptionRepoFactory interface {
		SubscriptionRepository() ports.SubscriptionRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RiderUoW manages transactions for rider-only operations.
	RiderUoW interface {
		TxManager
		RiderRepoFactory
	}

	// RiderUoWFactory creates new rider unit of work instances.
	RiderUoWFactory interface {
		Create() RiderUoW
	}

	// CreateOrderUoW manages transactions for order creation: the order row
	// plus the subscription allowance it may consume commit together.
	CreateOrderUoW interface {
		TxManager
		OrderRepoFactory
		SubscriptionRepoFactory
	}

	// CreateOrderUoWFactory creates new order-creation unit of work instances.
	CreateOrderUoWFactory interface {
		Create() CreateOrderUoW
	}

	// TransitionUoW manages transactions for status transitions. A transition
	// can mutate rider and warehouse counters and the order's route alongside
	// the order row, and all of it commits or rolls back as one.
	//
	// Example:
	//
	//	uow := factory.Create()
	//	err := uow.Begin(ctx)
	//	defer uow.Rollback(ctx)
	//
	//	orderRepo := uow.OrderRepository()
	//	riderRepo := uow.RiderRepository()
	//	// ... perform operations
	//
	//	err = uow.Commit(ctx)
	TransitionUoW interface {
		TxManager
		OrderRepoFactory
		RiderRepoFactory
		WarehouseRepoFactory
		RouteRepoFactory
	}

	// TransitionUoWFactory creates new transition unit of work instances.
	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// BatchUoW manages transactions for the route batch run: routes, order
	// assignments, rider loads and the warehouse counter move atomically.
	BatchUoW interface {
		TxManager
		OrderRepoFactory
		RiderRepoFactory
		WarehouseRepoFactory
		RouteRepoFactory
	}

	// BatchUoWFactory creates new batch unit of work instances.
	BatchUoWFactory interface {
		Create() BatchUoW
	}

	// FleetScanUoW provides the read snapshot for the surge recompute:
	// active order positions and available rider positions.
	FleetScanUoW interface {
		TxManager
		OrderRepoFactory
		RiderRepoFactory
	}

	// FleetScanUoWFactory creates new fleet scan unit of work instances.
	FleetScanUoWFactory interface {
		Create() FleetScanUoW
	}
)
