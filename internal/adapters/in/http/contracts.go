package http

import (
	"time"

	"github.com/shopspring/decimal"
)

// Error is the uniform error body every endpoint returns on failure.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderRequest is the booking payload.
type CreateOrderRequest struct {
	OrderID        string   `json:"order_id"`
	IdempotencyKey string   `json:"idempotency_key"`
	CustomerID     string   `json:"customer_id"`
	PickupAddress  string   `json:"pickup_address"`
	DropAddress    string   `json:"drop_address"`
	PackageSize    string   `json:"package_size"`
	Timing         string   `json:"timing"`
	Addons         []string `json:"addons,omitempty"`
	PaymentMode    string   `json:"payment_mode"`
}

// OrderResponse is the booking result: the created (or, on an
// idempotent replay, the previously created) order with its frozen
// price.
type OrderResponse struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	DistanceKM      float64         `json:"distance_km"`
	BaseCost        decimal.Decimal `json:"base_cost"`
	SurgeMultiplier decimal.Decimal `json:"surge_multiplier"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EstimateRequest asks for a price quote without booking.
type EstimateRequest struct {
	PickupAddress string   `json:"pickup_address"`
	DropAddress   string   `json:"drop_address"`
	PackageSize   string   `json:"package_size"`
	Timing        string   `json:"timing"`
	Addons        []string `json:"addons,omitempty"`
}

// EstimateResponse is the quoted breakdown. Nothing is reserved; a later
// booking may see a different surge multiplier.
type EstimateResponse struct {
	DistanceKM           float64         `json:"distance_km"`
	EstimatedDurationMin int             `json:"estimated_duration_min"`
	BaseCost             decimal.Decimal `json:"base_cost"`
	SurgeMultiplier      decimal.Decimal `json:"surge_multiplier"`
	AddonsCost           decimal.Decimal `json:"addons_cost"`
	BatchDiscount        decimal.Decimal `json:"batch_discount"`
	SubscriptionDiscount decimal.Decimal `json:"subscription_discount"`
	TotalCost            decimal.Decimal `json:"total_cost"`
}

// OrderSummaryResponse is one row of the order listing.
type OrderSummaryResponse struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderDetailResponse is the full read model of one order.
type OrderDetailResponse struct {
	ID            string `json:"id"`
	OrderNumber   string `json:"order_number"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	PaymentMode   string `json:"payment_mode"`
	PackageSize   string `json:"package_size"`

	PickupAddress string  `json:"pickup_address"`
	DropAddress   string  `json:"drop_address"`
	DistanceKM    float64 `json:"distance_km"`

	BaseCost             decimal.Decimal `json:"base_cost"`
	SurgeMultiplier      decimal.Decimal `json:"surge_multiplier"`
	AddonsCost           decimal.Decimal `json:"addons_cost"`
	BatchDiscount        decimal.Decimal `json:"batch_discount"`
	SubscriptionDiscount decimal.Decimal `json:"subscription_discount"`
	TotalCost            decimal.Decimal `json:"total_cost"`

	PickupVerified bool `json:"pickup_verified"`
	DropVerified   bool `json:"drop_verified"`

	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	Events []OrderEventResponse `json:"events"`
}

// OrderEventResponse is one audit trail entry.
type OrderEventResponse struct {
	FromStatus *string   `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Actor      string    `json:"actor"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TransitionRequest moves an order to a new status on behalf of an
// actor. Metadata carries edge-specific references, for example the
// rider to assign.
type TransitionRequest struct {
	Target   string            `json:"target"`
	Actor    string            `json:"actor"`
	ActorID  string            `json:"actor_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IntakeRequest records a hub intake scan.
type IntakeRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

// OTPResponse carries a freshly issued handoff code. The code is
// returned exactly once; only its hash is stored.
type OTPResponse struct {
	Phase string `json:"phase"`
	Code  string `json:"code"`
}

// VerifyOTPRequest is a handoff code check.
type VerifyOTPRequest struct {
	Code string `json:"code"`
}

// RiderLocationRequest is a rider position report.
type RiderLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RiderStatusRequest moves a rider on or off shift.
type RiderStatusRequest struct {
	Status string `json:"status"`
}

// FleetSummaryResponse is one warehouse's slice of the ops dashboard.
type FleetSummaryResponse struct {
	WarehouseID      string `json:"warehouse_id"`
	WarehouseName    string `json:"warehouse_name"`
	Capacity         int    `json:"capacity"`
	CurrentLoad      int    `json:"current_load"`
	HeldOrders       int    `json:"held_orders"`
	RidersAvailable  int    `json:"riders_available"`
	RidersOnPickup   int    `json:"riders_on_pickup"`
	RidersOnDelivery int    `json:"riders_on_delivery"`
	RidersOffline    int    `json:"riders_offline"`
}

// RevenueSummaryResponse totals the revenue streams over a window.
type RevenueSummaryResponse struct {
	From                  time.Time       `json:"from"`
	To                    time.Time       `json:"to"`
	OrdersDelivered       int             `json:"orders_delivered"`
	GrossRevenue          decimal.Decimal `json:"gross_revenue"`
	BaseRevenue           decimal.Decimal `json:"base_revenue"`
	AddonsRevenue         decimal.Decimal `json:"addons_revenue"`
	BatchDiscounts        decimal.Decimal `json:"batch_discounts"`
	SubscriptionDiscounts decimal.Decimal `json:"subscription_discounts"`
	RiderSurgeBonuses     decimal.Decimal `json:"rider_surge_bonuses"`
}

// BatchRunResponse reports the outcome of a dispatch run.
type BatchRunResponse struct {
	RoutesPlanned   int      `json:"routes_planned"`
	OrdersAssigned  int      `json:"orders_assigned"`
	OrdersLeftOver  int      `json:"orders_left_over"`
	UnassignedOrder []string `json:"unassigned_orders,omitempty"`
}
