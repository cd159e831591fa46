// Package http exposes the application use cases as a JSON API. Handlers
// parse and validate transport inputs, delegate to command and query
// handlers, and translate domain errors into HTTP statuses.
package http

import (
	"net/http"
	"time"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/rider"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionHandler      commands.RequestTransitionCommandHandler
	intakeHandler          commands.MarkReceivedAtWarehouseCommandHandler
	issueOTPHandler        commands.IssueOTPCommandHandler
	verifyOTPHandler       commands.VerifyOTPCommandHandler
	riderLocationHandler   commands.UpdateRiderLocationCommandHandler
	riderStatusHandler     commands.UpdateRiderStatusCommandHandler
	routeBatchHandler      commands.RunRouteBatchCommandHandler
	estimateHandler        queries.EstimatePriceQueryHandler
	getOrdersHandler       queries.GetOrdersQueryHandler
	getOrderDetailHandler  queries.GetOrderDetailQueryHandler
	getFleetSummaryHandler queries.GetFleetSummaryQueryHandler
	getRevenueHandler      queries.GetRevenueSummaryQueryHandler
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionHandler commands.RequestTransitionCommandHandler,
	intakeHandler commands.MarkReceivedAtWarehouseCommandHandler,
	issueOTPHandler commands.IssueOTPCommandHandler,
	verifyOTPHandler commands.VerifyOTPCommandHandler,
	riderLocationHandler commands.UpdateRiderLocationCommandHandler,
	riderStatusHandler commands.UpdateRiderStatusCommandHandler,
	routeBatchHandler commands.RunRouteBatchCommandHandler,
	estimateHandler queries.EstimatePriceQueryHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getOrderDetailHandler queries.GetOrderDetailQueryHandler,
	getFleetSummaryHandler queries.GetFleetSummaryQueryHandler,
	getRevenueHandler queries.GetRevenueSummaryQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionHandler:      transitionHandler,
		intakeHandler:          intakeHandler,
		issueOTPHandler:        issueOTPHandler,
		verifyOTPHandler:       verifyOTPHandler,
		riderLocationHandler:   riderLocationHandler,
		riderStatusHandler:     riderStatusHandler,
		routeBatchHandler:      routeBatchHandler,
		estimateHandler:        estimateHandler,
		getOrdersHandler:       getOrdersHandler,
		getOrderDetailHandler:  getOrderDetailHandler,
		getFleetSummaryHandler: getFleetSummaryHandler,
		getRevenueHandler:      getRevenueHandler,
	}
}

// RegisterRoutes mounts every endpoint under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.CreateOrder)
	v1.POST("/orders/estimate", s.EstimatePrice)
	v1.GET("/orders", s.GetOrders)
	v1.GET("/orders/:id", s.GetOrderDetail)
	v1.POST("/orders/:id/transition", s.RequestTransition)
	v1.POST("/orders/:id/intake", s.MarkReceivedAtWarehouse)
	v1.POST("/orders/:id/otp/:phase", s.IssueOTP)
	v1.POST("/orders/:id/otp/:phase/verify", s.VerifyOTP)

	v1.PUT("/riders/:id/location", s.UpdateRiderLocation)
	v1.PUT("/riders/:id/status", s.UpdateRiderStatus)

	v1.POST("/warehouses/:id/dispatch", s.RunRouteBatch)
	v1.GET("/fleet/summary", s.GetFleetSummary)
	v1.GET("/reports/revenue", s.GetRevenueSummary)
}

// CreateOrder handles POST /api/v1/orders - books a new delivery.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID := kernel.NewUUID()
	if req.OrderID != "" {
		parsed, err := kernel.UUIDFromString(req.OrderID)
		if err != nil {
			return respondError(ctx, err)
		}
		orderID = parsed
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return respondError(ctx, err)
	}
	packageSize, err := kernel.PackageSizeFromString(req.PackageSize)
	if err != nil {
		return respondError(ctx, err)
	}
	timing, err := order.TimingWindowFromString(req.Timing)
	if err != nil {
		return respondError(ctx, err)
	}
	paymentMode, err := order.PaymentModeFromString(req.PaymentMode)
	if err != nil {
		return respondError(ctx, err)
	}

	addons := make([]order.Addon, 0, len(req.Addons))
	for _, raw := range req.Addons {
		addon, addonErr := order.AddonFromString(raw)
		if addonErr != nil {
			return respondError(ctx, addonErr)
		}
		addons = append(addons, addon)
	}

	cmd, err := commands.NewCreateOrderCommand(
		orderID, req.IdempotencyKey, customerID,
		req.PickupAddress, req.DropAddress,
		packageSize, timing, addons, paymentMode)
	if err != nil {
		return respondError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	price := created.Price()
	return ctx.JSON(http.StatusCreated, OrderResponse{
		ID:              created.ID().String(),
		OrderNumber:     created.OrderNumber(),
		Status:          created.Status().String(),
		PaymentStatus:   created.PaymentStatus().String(),
		DistanceKM:      created.DistanceKM(),
		BaseCost:        price.BaseCost(),
		SurgeMultiplier: price.SurgeMultiplier(),
		TotalCost:       price.TotalCost(),
		CreatedAt:       created.CreatedAt(),
	})
}

// EstimatePrice handles POST /api/v1/orders/estimate - quotes a price
// without booking anything.
func (s *Server) EstimatePrice(ctx echo.Context) error {
	var req EstimateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	packageSize, err := kernel.PackageSizeFromString(req.PackageSize)
	if err != nil {
		return respondError(ctx, err)
	}
	timing, err := order.TimingWindowFromString(req.Timing)
	if err != nil {
		return respondError(ctx, err)
	}
	addons := make([]order.Addon, 0, len(req.Addons))
	for _, raw := range req.Addons {
		addon, addonErr := order.AddonFromString(raw)
		if addonErr != nil {
			return respondError(ctx, addonErr)
		}
		addons = append(addons, addon)
	}

	query, err := queries.NewEstimatePriceQuery(
		req.PickupAddress, req.DropAddress, packageSize, timing, addons)
	if err != nil {
		return respondError(ctx, err)
	}

	estimate, err := s.estimateHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, EstimateResponse{
		DistanceKM:           estimate.DistanceKM,
		EstimatedDurationMin: estimate.EstimatedDurationMin,
		BaseCost:             estimate.BaseCost,
		SurgeMultiplier:      estimate.SurgeMultiplier,
		AddonsCost:           estimate.AddonsCost,
		BatchDiscount:        estimate.BatchDiscount,
		SubscriptionDiscount: estimate.SubscriptionDiscount,
		TotalCost:            estimate.TotalCost,
	})
}

// GetOrders handles GET /api/v1/orders - lists orders, optionally
// filtered by customer_id and status.
func (s *Server) GetOrders(ctx echo.Context) error {
	var customerID *kernel.UUID
	if raw := ctx.QueryParam("customer_id"); raw != "" {
		parsed, err := kernel.UUIDFromString(raw)
		if err != nil {
			return respondError(ctx, err)
		}
		customerID = &parsed
	}

	var status *order.Status
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := order.StatusFromString(raw)
		if err != nil {
			return respondError(ctx, err)
		}
		status = &parsed
	}

	query, err := queries.NewGetOrdersQuery(customerID, status)
	if err != nil {
		return respondError(ctx, err)
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]OrderSummaryResponse, len(orders))
	for i, o := range orders {
		response[i] = OrderSummaryResponse{
			ID:            o.ID.String(),
			OrderNumber:   o.OrderNumber,
			Status:        o.Status,
			PaymentStatus: o.PaymentStatus,
			TotalCost:     o.TotalCost,
			CreatedAt:     o.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderDetail handles GET /api/v1/orders/:id - one order with its
// price breakdown and audit trail.
func (s *Server) GetOrderDetail(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderDetailQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	detail, err := s.getOrderDetailHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	events := make([]OrderEventResponse, len(detail.Events))
	for i, e := range detail.Events {
		events[i] = OrderEventResponse{
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Actor:      e.Actor,
			ActorID:    e.ActorID,
			OccurredAt: e.OccurredAt,
		}
	}

	return ctx.JSON(http.StatusOK, OrderDetailResponse{
		ID:                   detail.ID.String(),
		OrderNumber:          detail.OrderNumber,
		Status:               detail.Status,
		PaymentStatus:        detail.PaymentStatus,
		PaymentMode:          detail.PaymentMode,
		PackageSize:          detail.PackageSize,
		PickupAddress:        detail.PickupAddress,
		DropAddress:          detail.DropAddress,
		DistanceKM:           detail.DistanceKM,
		BaseCost:             detail.BaseCost,
		SurgeMultiplier:      detail.SurgeMultiplier,
		AddonsCost:           detail.AddonsCost,
		BatchDiscount:        detail.BatchDiscount,
		SubscriptionDiscount: detail.SubscriptionDiscount,
		TotalCost:            detail.TotalCost,
		PickupVerified:       detail.PickupVerified,
		DropVerified:         detail.DropVerified,
		CreatedAt:            detail.CreatedAt,
		DeliveredAt:          detail.DeliveredAt,
		Events:               events,
	})
}

// RequestTransition handles POST /api/v1/orders/:id/transition - moves
// an order along its lifecycle on behalf of an actor.
func (s *Server) RequestTransition(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req TransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	target, err := order.StatusFromString(req.Target)
	if err != nil {
		return respondError(ctx, err)
	}
	actor, err := order.ActorFromString(req.Actor)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRequestTransitionCommand(
		orderID, target, actor, req.ActorID, req.Metadata)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.transitionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkReceivedAtWarehouse handles POST /api/v1/orders/:id/intake - a hub
// intake scan.
func (s *Server) MarkReceivedAtWarehouse(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req IntakeRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	warehouseID, err := kernel.UUIDFromString(req.WarehouseID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewMarkReceivedAtWarehouseCommand(orderID, warehouseID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.intakeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// IssueOTP handles POST /api/v1/orders/:id/otp/:phase - issues a handoff
// code. The plain code appears in this response and nowhere else.
func (s *Server) IssueOTP(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	phase, err := order.HandoffPhaseFromString(ctx.Param("phase"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewIssueOTPCommand(orderID, phase)
	if err != nil {
		return respondError(ctx, err)
	}

	code, err := s.issueOTPHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OTPResponse{
		Phase: phase.String(),
		Code:  code,
	})
}

// VerifyOTP handles POST /api/v1/orders/:id/otp/:phase/verify - checks a
// handoff code at a custody transfer.
func (s *Server) VerifyOTP(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	phase, err := order.HandoffPhaseFromString(ctx.Param("phase"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req VerifyOTPRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewVerifyOTPCommand(orderID, phase, req.Code)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.verifyOTPHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateRiderLocation handles PUT /api/v1/riders/:id/location - a rider
// position report.
func (s *Server) UpdateRiderLocation(ctx echo.Context) error {
	riderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req RiderLocationRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	location, err := kernel.NewGeoPoint(req.Lat, req.Lng)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateRiderLocationCommand(riderID, location)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.riderLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateRiderStatus handles PUT /api/v1/riders/:id/status - moves a
// rider on or off shift.
func (s *Server) UpdateRiderStatus(ctx echo.Context) error {
	riderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var req RiderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	status, err := rider.StatusFromString(req.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateRiderStatusCommand(riderID, status)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.riderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RunRouteBatch handles POST /api/v1/warehouses/:id/dispatch - runs one
// dispatch pass over the warehouse's held orders.
func (s *Server) RunRouteBatch(ctx echo.Context) error {
	warehouseID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRunRouteBatchCommand(warehouseID)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.routeBatchHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	assigned := 0
	for _, route := range result.Routes {
		assigned += len(route.Stops)
	}
	unassigned := make([]string, len(result.Unassigned))
	for i, id := range result.Unassigned {
		unassigned[i] = id.String()
	}

	return ctx.JSON(http.StatusOK, BatchRunResponse{
		RoutesPlanned:   len(result.Routes),
		OrdersAssigned:  assigned,
		OrdersLeftOver:  len(result.Unassigned),
		UnassignedOrder: unassigned,
	})
}

// GetFleetSummary handles GET /api/v1/fleet/summary - the ops dashboard
// view of every hub.
func (s *Server) GetFleetSummary(ctx echo.Context) error {
	summaries, err := s.getFleetSummaryHandler.Handle(
		ctx.Request().Context(), queries.NewGetFleetSummaryQuery())
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]FleetSummaryResponse, len(summaries))
	for i, summary := range summaries {
		response[i] = FleetSummaryResponse{
			WarehouseID:      summary.WarehouseID.String(),
			WarehouseName:    summary.WarehouseName,
			Capacity:         summary.Capacity,
			CurrentLoad:      summary.CurrentLoad,
			HeldOrders:       summary.HeldOrders,
			RidersAvailable:  summary.RidersAvailable,
			RidersOnPickup:   summary.RidersOnPickup,
			RidersOnDelivery: summary.RidersOnDelivery,
			RidersOffline:    summary.RidersOffline,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetRevenueSummary handles GET /api/v1/reports/revenue - revenue totals
// over [from, to), both bounds RFC 3339.
func (s *Server) GetRevenueSummary(ctx echo.Context) error {
	from, err := time.Parse(time.RFC3339, ctx.QueryParam("from"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "from must be an RFC 3339 timestamp",
		})
	}
	to, err := time.Parse(time.RFC3339, ctx.QueryParam("to"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "to must be an RFC 3339 timestamp",
		})
	}

	query, err := queries.NewGetRevenueSummaryQuery(from, to)
	if err != nil {
		return respondError(ctx, err)
	}

	summary, err := s.getRevenueHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, RevenueSummaryResponse{
		From:                  from,
		To:                    to,
		OrdersDelivered:       summary.OrdersDelivered,
		GrossRevenue:          summary.GrossRevenue,
		BaseRevenue:           summary.BaseRevenue,
		AddonsRevenue:         summary.AddonsRevenue,
		BatchDiscounts:        summary.BatchDiscounts,
		SubscriptionDiscounts: summary.SubscriptionDiscounts,
		RiderSurgeBonuses:     summary.RiderSurgeBonuses,
	})
}
