package orderrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"parcelhub/internal/adapters/out/postgres/orderrepo"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker
// interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite exercises the order repository
// against a real PostgreSQL container: persistence round-trips, the
// version guard, the idempotency-key race and the audit trail.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	seq        int
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	// TranslateError turns the driver's unique-violation into
	// gorm.ErrDuplicatedKey, which Add maps onto the idempotency error.
	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.EventDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_events").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_PersistsOrderAndCreationEvent() {
	ctx := context.Background()

	testOrder := suite.newOrder("add-1")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.assertOrderCount(1)

	events, err := suite.repository.GetEvents(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(events, 1)
	suite.Nil(events[0].FromStatus())
	suite.Equal(order.StatusOrderPlaced, events[0].ToStatus())
	suite.Equal(order.ActorCustomer, events[0].Actor())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateIdempotencyKey() {
	ctx := context.Background()

	winner := suite.newOrder("same-key")
	suite.tracker.On("TrackAggregate", winner.ID(), winner).Once()
	suite.Require().NoError(suite.repository.Add(ctx, winner))

	loser := suite.newOrder("same-key")
	err := suite.repository.Add(ctx, loser)
	suite.Require().ErrorIs(err, errs.ErrDuplicateIdempotencyKey)

	suite.assertOrderCount(1)

	found, err := suite.repository.GetByIdempotencyKey(ctx, "same-key")
	suite.Require().NoError(err)
	suite.True(found.IsEqual(winner))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripsAllFields() {
	ctx := context.Background()

	testOrder := suite.newOrder("round-trip")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal(testOrder.OrderNumber(), retrieved.OrderNumber())
	suite.Equal(testOrder.CustomerID(), retrieved.CustomerID())
	suite.Equal(order.StatusOrderPlaced, retrieved.Status())
	suite.Equal(order.PaymentPending, retrieved.PaymentStatus())
	suite.Equal(order.PaymentPrepaid, retrieved.PaymentMode())
	suite.Equal(kernel.PackageSizeSmall, retrieved.PackageSize())
	suite.InDelta(testOrder.DistanceKM(), retrieved.DistanceKM(), 0.001)
	suite.InDelta(testOrder.PickupPoint().Lat(), retrieved.PickupPoint().Lat(), 0.000001)
	suite.True(testOrder.Price().TotalCost().Equal(retrieved.Price().TotalCost()))
	suite.Equal(1, retrieved.Version())
	suite.Nil(retrieved.PickupRider())
	suite.Nil(retrieved.Warehouse())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_BumpsVersionAndAppendsEvents() {
	ctx := context.Background()

	testOrder := suite.newOrder("update-1")
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(loaded.RequestTransition(
		order.StatusPaymentConfirmed, order.ActorSystem, "payment-gw", nil, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	reloaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusPaymentConfirmed, reloaded.Status())
	suite.Equal(order.PaymentPaid, reloaded.PaymentStatus())
	suite.Equal(2, reloaded.Version())
	suite.NotNil(reloaded.ConfirmedAt())

	events, err := suite.repository.GetEvents(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Len(events, 2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersionRejected() {
	ctx := context.Background()

	testOrder := suite.newOrder("stale-1")
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.RequestTransition(
		order.StatusPaymentConfirmed, order.ActorSystem, "payment-gw", nil, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	// The second loader still holds version 1; its write must lose.
	suite.Require().NoError(second.RequestTransition(
		order.StatusPaymentConfirmed, order.ActorSystem, "payment-gw", nil, time.Now()))
	err = suite.repository.Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrStaleState)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllAtWarehouse_OldestIntakeFirst() {
	ctx := context.Background()

	warehouseID := kernel.NewUUID()
	otherWarehouseID := kernel.NewUUID()
	base := time.Now().Add(-3 * time.Hour).Truncate(time.Second)

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	newest := suite.heldOrder("held-newest", warehouseID, base.Add(2*time.Hour))
	oldest := suite.heldOrder("held-oldest", warehouseID, base)
	elsewhere := suite.heldOrder("held-elsewhere", otherWarehouseID, base.Add(time.Hour))

	suite.Require().NoError(suite.repository.Add(ctx, newest))
	suite.Require().NoError(suite.repository.Add(ctx, oldest))
	suite.Require().NoError(suite.repository.Add(ctx, elsewhere))

	held, err := suite.repository.GetAllAtWarehouse(ctx, warehouseID)
	suite.Require().NoError(err)
	suite.Require().Len(held, 2)
	suite.True(held[0].IsEqual(oldest), "oldest intake must come first")
	suite.True(held[1].IsEqual(newest))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCountCreatedOn_DayBoundaries() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	today := time.Now()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("count-1")))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("count-2")))

	yesterday := suite.restoredOrderCreatedAt("count-old", today.AddDate(0, 0, -1))
	suite.Require().NoError(suite.repository.Add(ctx, yesterday))

	count, err := suite.repository.CountCreatedOn(ctx, today)
	suite.Require().NoError(err)
	suite.Equal(2, count)

	suite.tracker.AssertExpectations(suite.T())
}

// newOrder creates a fresh ORDER_PLACED order with a unique order number
// and the given idempotency key.
func (suite *OrderRepositoryIntegrationTestSuite) newOrder(key string) *order.Order {
	suite.seq++

	pickup, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)
	drop, err := kernel.NewGeoPoint(12.9352, 77.6245)
	suite.Require().NoError(err)

	price, err := order.NewPriceBreakdown(
		decimal.NewFromInt(100), decimal.NewFromInt(1),
		decimal.Zero, decimal.Zero, decimal.Zero,
		decimal.RequireFromString("0.30"))
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		fmt.Sprintf("DLV-%s-%04d", time.Now().Format("060102"), suite.seq),
		key,
		kernel.NewUUID(),
		"12 Hill Road", "3 Lake View",
		pickup, drop,
		7.5, kernel.PackageSizeSmall,
		order.PaymentPrepaid, price,
		time.Now())
	suite.Require().NoError(err)
	return o
}

// heldOrder restores an AT_WAREHOUSE order with the given intake time.
func (suite *OrderRepositoryIntegrationTestSuite) heldOrder(
	key string, warehouseID kernel.UUID, receivedAt time.Time,
) *order.Order {
	suite.seq++

	pickup, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)
	drop, err := kernel.NewGeoPoint(12.9352, 77.6245)
	suite.Require().NoError(err)

	price, err := order.NewPriceBreakdown(
		decimal.NewFromInt(100), decimal.NewFromInt(1),
		decimal.Zero, decimal.Zero, decimal.Zero,
		decimal.RequireFromString("0.30"))
	suite.Require().NoError(err)

	wID := warehouseID
	return order.RestoreOrder(
		kernel.NewUUID(),
		fmt.Sprintf("DLV-%s-%04d", time.Now().Format("060102"), suite.seq),
		key, kernel.NewUUID(),
		"12 Hill Road", "3 Lake View",
		pickup, drop,
		7.5, kernel.PackageSizeSmall,
		nil, nil, &wID, nil,
		order.StatusAtWarehouse, order.PaymentPaid, order.PaymentPrepaid,
		price, true, false, 2,
		receivedAt.Add(-time.Hour), nil, &receivedAt, nil, nil)
}

// restoredOrderCreatedAt restores an order stamped with an arbitrary
// creation time.
func (suite *OrderRepositoryIntegrationTestSuite) restoredOrderCreatedAt(
	key string, createdAt time.Time,
) *order.Order {
	suite.seq++

	pickup, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)
	drop, err := kernel.NewGeoPoint(12.9352, 77.6245)
	suite.Require().NoError(err)

	price, err := order.NewPriceBreakdown(
		decimal.NewFromInt(100), decimal.NewFromInt(1),
		decimal.Zero, decimal.Zero, decimal.Zero,
		decimal.RequireFromString("0.30"))
	suite.Require().NoError(err)

	return order.RestoreOrder(
		kernel.NewUUID(),
		fmt.Sprintf("DLV-%s-%04d", createdAt.Format("060102"), suite.seq),
		key, kernel.NewUUID(),
		"12 Hill Road", "3 Lake View",
		pickup, drop,
		7.5, kernel.PackageSizeSmall,
		nil, nil, nil, nil,
		order.StatusOrderPlaced, order.PaymentPending, order.PaymentPrepaid,
		price, false, false, 1,
		createdAt, nil, nil, nil, nil)
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
