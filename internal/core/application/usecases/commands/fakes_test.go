package commands_test

import (
	"context"
	"testing"
	"time"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/domain/model/handoff"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/rider"
	"parcelhub/internal/core/domain/model/route"
	"parcelhub/internal/core/domain/model/subscription"
	"parcelhub/internal/core/domain/model/warehouse"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// In-memory fakes for the handler tests. They honor the repository
// contracts (not-found errors, duplicate-key signaling) without a
// database; transactional behavior is asserted through the commit and
// rollback counters on fakeUoW.

type fakeOrderRepo struct {
	orders  map[string]*order.Order
	byKey   map[string]*order.Order
	created int

	// onAdd, when set, runs before the insert and can fail it. Used to
	// simulate losing the idempotency-key insert race.
	onAdd func(o *order.Order) error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[string]*order.Order{},
		byKey:  map[string]*order.Order{},
	}
}

func (f *fakeOrderRepo) Add(_ context.Context, o *order.Order) error {
	if f.onAdd != nil {
		if err := f.onAdd(o); err != nil {
			return err
		}
	}
	f.orders[o.ID().String()] = o
	f.byKey[o.IdempotencyKey()] = o
	o.TakeEvents()
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	f.orders[o.ID().String()] = o
	o.TakeEvents()
	return nil
}

func (f *fakeOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := f.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order_id", id.String())
	}
	return o, nil
}

func (f *fakeOrderRepo) GetByIdempotencyKey(_ context.Context, key string) (*order.Order, error) {
	o, ok := f.byKey[key]
	if !ok {
		return nil, errs.NewObjectNotFoundError("idempotency_key", key)
	}
	return o, nil
}

func (f *fakeOrderRepo) GetAllAtWarehouse(_ context.Context, warehouseID kernel.UUID) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range f.orders {
		if o.Status() == order.StatusAtWarehouse &&
			o.Warehouse() != nil && o.Warehouse().IsEqual(warehouseID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) GetAllActive(_ context.Context) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range f.orders {
		if !o.Status().IsTerminal() && o.Status() != order.StatusAtWarehouse {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) GetEvents(_ context.Context, _ kernel.UUID) ([]order.Event, error) {
	return nil, nil
}

func (f *fakeOrderRepo) CountCreatedOn(_ context.Context, _ time.Time) (int, error) {
	return f.created, nil
}

type fakeRiderRepo struct {
	riders map[string]*rider.Rider
}

func newFakeRiderRepo() *fakeRiderRepo {
	return &fakeRiderRepo{riders: map[string]*rider.Rider{}}
}

func (f *fakeRiderRepo) Add(_ context.Context, r *rider.Rider) error {
	f.riders[r.ID().String()] = r
	return nil
}

func (f *fakeRiderRepo) Update(_ context.Context, r *rider.Rider) error {
	f.riders[r.ID().String()] = r
	return nil
}

func (f *fakeRiderRepo) Get(_ context.Context, id kernel.UUID) (*rider.Rider, error) {
	r, ok := f.riders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("rider_id", id.String())
	}
	return r, nil
}

func (f *fakeRiderRepo) GetAllAvailableAtWarehouse(
	_ context.Context, warehouseID kernel.UUID,
) ([]*rider.Rider, error) {
	var out []*rider.Rider
	for _, r := range f.riders {
		if r.IsAvailable() && r.HomeWarehouse().IsEqual(warehouseID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRiderRepo) GetAllAvailable(_ context.Context) ([]*rider.Rider, error) {
	var out []*rider.Rider
	for _, r := range f.riders {
		if r.IsAvailable() {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeWarehouseRepo struct {
	warehouses map[string]*warehouse.Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: map[string]*warehouse.Warehouse{}}
}

func (f *fakeWarehouseRepo) Add(_ context.Context, w *warehouse.Warehouse) error {
	f.warehouses[w.ID().String()] = w
	return nil
}

func (f *fakeWarehouseRepo) Update(_ context.Context, w *warehouse.Warehouse) error {
	f.warehouses[w.ID().String()] = w
	return nil
}

func (f *fakeWarehouseRepo) Get(_ context.Context, id kernel.UUID) (*warehouse.Warehouse, error) {
	w, ok := f.warehouses[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("warehouse_id", id.String())
	}
	return w, nil
}

func (f *fakeWarehouseRepo) GetAll(_ context.Context) ([]*warehouse.Warehouse, error) {
	var out []*warehouse.Warehouse
	for _, w := range f.warehouses {
		out = append(out, w)
	}
	return out, nil
}

type fakeRouteRepo struct {
	routes map[string]*route.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: map[string]*route.Route{}}
}

func (f *fakeRouteRepo) Add(_ context.Context, r *route.Route) error {
	f.routes[r.ID().String()] = r
	return nil
}

func (f *fakeRouteRepo) Update(_ context.Context, r *route.Route) error {
	f.routes[r.ID().String()] = r
	return nil
}

func (f *fakeRouteRepo) Get(_ context.Context, id kernel.UUID) (*route.Route, error) {
	r, ok := f.routes[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("route_id", id.String())
	}
	return r, nil
}

type fakeSubscriptionRepo struct {
	byCustomer map[string]*subscription.Subscription
	updated    int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byCustomer: map[string]*subscription.Subscription{}}
}

func (f *fakeSubscriptionRepo) Add(_ context.Context, s *subscription.Subscription) error {
	f.byCustomer[s.Customer().String()] = s
	return nil
}

func (f *fakeSubscriptionRepo) Update(_ context.Context, s *subscription.Subscription) error {
	f.byCustomer[s.Customer().String()] = s
	f.updated++
	return nil
}

func (f *fakeSubscriptionRepo) GetActiveByCustomer(
	_ context.Context, customerID kernel.UUID,
) (*subscription.Subscription, error) {
	s, ok := f.byCustomer[customerID.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("customer_id", customerID.String())
	}
	return s, nil
}

type fakeOTPStore struct {
	records map[string]*handoff.Record
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{records: map[string]*handoff.Record{}}
}

func otpKey(orderID kernel.UUID, phase order.HandoffPhase) string {
	return orderID.String() + "/" + phase.String()
}

func (f *fakeOTPStore) Save(_ context.Context, record *handoff.Record) error {
	f.records[otpKey(record.OrderID(), record.Phase())] = record
	return nil
}

func (f *fakeOTPStore) Get(
	_ context.Context, orderID kernel.UUID, phase order.HandoffPhase,
) (*handoff.Record, error) {
	r, ok := f.records[otpKey(orderID, phase)]
	if !ok {
		return nil, errs.NewObjectNotFoundError("otp", otpKey(orderID, phase))
	}
	return r, nil
}

func (f *fakeOTPStore) Delete(_ context.Context, orderID kernel.UUID, phase order.HandoffPhase) error {
	delete(f.records, otpKey(orderID, phase))
	return nil
}

type fakeGeocoder struct {
	points map[string]kernel.GeoPoint
}

func (f *fakeGeocoder) Resolve(_ context.Context, address string) (ports.ResolvedAddress, error) {
	p, ok := f.points[address]
	if !ok {
		return ports.ResolvedAddress{}, errs.NewObjectNotFoundError("address", address)
	}
	return ports.ResolvedAddress{Point: p, Formatted: address}, nil
}

type fakeDistanceSource struct{}

func (fakeDistanceSource) Estimate(
	_ context.Context, origin kernel.GeoPoint, destination kernel.GeoPoint,
) (ports.TravelEstimate, error) {
	d, err := origin.RoadDistanceKM(destination)
	if err != nil {
		return ports.TravelEstimate{}, err
	}
	return ports.TravelEstimate{
		DistanceKM:  d,
		DurationMin: kernel.EstimateDurationMin(d),
	}, nil
}

// fakeUoW satisfies every unit-of-work composition in the package.
type fakeUoW struct {
	orders     *fakeOrderRepo
	riders     *fakeRiderRepo
	warehouses *fakeWarehouseRepo
	routes     *fakeRouteRepo
	subs       *fakeSubscriptionRepo

	commits   int
	rollbacks int
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{
		orders:     newFakeOrderRepo(),
		riders:     newFakeRiderRepo(),
		warehouses: newFakeWarehouseRepo(),
		routes:     newFakeRouteRepo(),
		subs:       newFakeSubscriptionRepo(),
	}
}

func (u *fakeUoW) Begin(_ context.Context) error    { return nil }
func (u *fakeUoW) Commit(_ context.Context) error   { u.commits++; return nil }
func (u *fakeUoW) Rollback(_ context.Context) error { u.rollbacks++; return nil }

func (u *fakeUoW) OrderRepository() ports.OrderRepository             { return u.orders }
func (u *fakeUoW) RiderRepository() ports.RiderRepository             { return u.riders }
func (u *fakeUoW) WarehouseRepository() ports.WarehouseRepository     { return u.warehouses }
func (u *fakeUoW) RouteRepository() ports.RouteRepository             { return u.routes }
func (u *fakeUoW) SubscriptionRepository() ports.SubscriptionRepository {
	return u.subs
}

type orderUoWFactory struct{ uow *fakeUoW }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.uow }

type riderUoWFactory struct{ uow *fakeUoW }

func (f riderUoWFactory) Create() commands.RiderUoW { return f.uow }

type createOrderUoWFactory struct{ uow *fakeUoW }

func (f createOrderUoWFactory) Create() commands.CreateOrderUoW { return f.uow }

type transitionUoWFactory struct{ uow *fakeUoW }

func (f transitionUoWFactory) Create() commands.TransitionUoW { return f.uow }

type batchUoWFactory struct{ uow *fakeUoW }

func (f batchUoWFactory) Create() commands.BatchUoW { return f.uow }

type fleetScanUoWFactory struct{ uow *fakeUoW }

func (f fleetScanUoWFactory) Create() commands.FleetScanUoW { return f.uow }

// Test data helpers.

func point(t *testing.T, lat float64, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func flatPrice(t *testing.T) order.PriceBreakdown {
	t.Helper()
	price, err := order.NewPriceBreakdown(
		dec("100"), dec("1"), decimal.Zero, decimal.Zero, decimal.Zero, dec("0.30"))
	require.NoError(t, err)
	return price
}

type orderSeed struct {
	pickupRider    *kernel.UUID
	deliveryRider  *kernel.UUID
	warehouseID    *kernel.UUID
	routeID        *kernel.UUID
	pickupVerified bool
	dropVerified   bool
}

// seedOrder restores an order in the given status with plausible fixed
// booking data.
func seedOrder(t *testing.T, status order.Status, seed orderSeed) *order.Order {
	t.Helper()
	return order.RestoreOrder(
		kernel.NewUUID(),
		"DLV-250823-0007",
		"seed-"+kernel.NewUUID().String(),
		kernel.NewUUID(),
		"12 Hill Road",
		"3 Lake View",
		point(t, 12.9716, 77.5946),
		point(t, 12.9352, 77.6245),
		7.5,
		kernel.PackageSizeSmall,
		seed.pickupRider,
		seed.deliveryRider,
		seed.warehouseID,
		seed.routeID,
		status,
		order.PaymentPaid,
		order.PaymentPrepaid,
		flatPrice(t),
		seed.pickupVerified,
		seed.dropVerified,
		1,
		time.Now().Add(-time.Hour),
		nil, nil, nil, nil,
	)
}

func seedRider(
	t *testing.T,
	home kernel.UUID,
	class kernel.VehicleClass,
	status rider.Status,
	load int,
	capacity int,
) *rider.Rider {
	t.Helper()
	return rider.RestoreRider(
		kernel.NewUUID(), "Asha", home, class, status, load, capacity, nil, nil, 1)
}

func seedWarehouse(t *testing.T, load int, capacity int) *warehouse.Warehouse {
	t.Helper()
	return warehouse.RestoreWarehouse(
		kernel.NewUUID(), "Central Hub", point(t, 12.9600, 77.6000), capacity, load, 1)
}
