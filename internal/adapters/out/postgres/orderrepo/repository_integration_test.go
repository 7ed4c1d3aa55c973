package orderrepo_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	tenantID   kernel.UUID
	now        time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())

	suite.tracker = &MockAggregateTracker{}
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
	suite.repository = orderrepo.NewGormOrderRepository(suite.database.DB, suite.tracker)
	suite.tenantID = kernel.NewUUID()
	// PostgreSQL keeps microseconds.
	suite.now = time.Now().UTC().Truncate(time.Millisecond)
}

func (suite *OrderRepositoryIntegrationTestSuite) addOrder(tenantID kernel.UUID, reference string) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), tenantID, reference, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(suite.T().Context(), o))
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assign(o *order.Order, at time.Time) {
	driverID, vehicleID := kernel.NewUUID(), kernel.NewUUID()
	expected := o.Version()
	suite.Require().NoError(o.ApplyTransition(order.Assigned, order.TransitionDetails{
		DriverID:  &driverID,
		VehicleID: &vehicleID,
	}, at))
	suite.Require().NoError(suite.repository.Update(suite.T().Context(), o, expected))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RestoresAggregate() {
	// Given
	created := suite.addOrder(suite.tenantID, "ORD-1")

	// When
	loaded, err := suite.repository.Get(suite.T().Context(), suite.tenantID, created.ID())

	// Then
	suite.Require().NoError(err)
	suite.True(created.IsEqual(loaded))
	suite.Equal("ORD-1", loaded.Reference())
	suite.Equal(order.Pending, loaded.Status())
	suite.Equal(int64(1), loaded.Version())
	suite.Nil(loaded.DriverID())
	suite.Nil(loaded.VehicleID())
	suite.True(suite.now.Equal(loaded.UpdatedAt()))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", created.ID(), created)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateReferenceInTenant() {
	// Given
	suite.addOrder(suite.tenantID, "ORD-1")
	duplicate, err := order.NewOrder(kernel.NewUUID(), suite.tenantID, "ORD-1", suite.now)
	suite.Require().NoError(err)

	// When
	err = suite.repository.Add(suite.T().Context(), duplicate)

	// Then
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectExists)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_SameReferenceInOtherTenant() {
	// Given
	suite.addOrder(suite.tenantID, "ORD-1")
	other, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "ORD-1", suite.now)
	suite.Require().NoError(err)

	// When
	err = suite.repository.Add(suite.T().Context(), other)

	// Then
	suite.NoError(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_IsTenantScoped() {
	// Given
	created := suite.addOrder(suite.tenantID, "ORD-1")

	// When
	_, err := suite.repository.Get(suite.T().Context(), kernel.NewUUID(), created.ID())

	// Then
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_InvalidIdentifiers() {
	_, err := suite.repository.Get(suite.T().Context(), kernel.UUID{}, kernel.NewUUID())
	suite.ErrorIs(err, kernel.ErrUUIDIsNotConstructed)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsTransition() {
	// Given
	created := suite.addOrder(suite.tenantID, "ORD-1")

	// When
	suite.assign(created, suite.now.Add(time.Minute))

	// Then
	loaded, err := suite.repository.Get(suite.T().Context(), suite.tenantID, created.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, loaded.Status())
	suite.Equal(int64(2), loaded.Version())
	suite.Require().NotNil(loaded.DriverID())
	suite.True(created.DriverID().IsEqual(*loaded.DriverID()))
	suite.Require().NotNil(loaded.VehicleID())
	suite.True(created.VehicleID().IsEqual(*loaded.VehicleID()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsFailureReason() {
	// Given
	created := suite.addOrder(suite.tenantID, "ORD-1")
	suite.assign(created, suite.now.Add(time.Minute))
	expected := created.Version()
	suite.Require().NoError(created.ApplyTransition(order.InProgress, order.TransitionDetails{}, suite.now.Add(2*time.Minute)))
	suite.Require().NoError(suite.repository.Update(suite.T().Context(), created, expected))
	expected = created.Version()
	suite.Require().NoError(created.ApplyTransition(order.Failed, order.TransitionDetails{
		Reason: "recipient absent",
	}, suite.now.Add(3*time.Minute)))

	// When
	err := suite.repository.Update(suite.T().Context(), created, expected)

	// Then
	suite.Require().NoError(err)
	loaded, err := suite.repository.Get(suite.T().Context(), suite.tenantID, created.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Failed, loaded.Status())
	suite.Equal("recipient absent", loaded.FailureReason())
	suite.Equal(int64(4), loaded.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersionIsRejected() {
	// Given
	created := suite.addOrder(suite.tenantID, "ORD-1")
	first, err := suite.repository.Get(suite.T().Context(), suite.tenantID, created.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(suite.T().Context(), suite.tenantID, created.ID())
	suite.Require().NoError(err)

	suite.assign(first, suite.now.Add(time.Minute))
	suite.Require().NoError(second.ApplyTransition(order.Cancelled, order.TransitionDetails{}, suite.now.Add(time.Minute)))

	// When
	err = suite.repository.Update(suite.T().Context(), second, 1)

	// Then
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrVersionIsInvalid)
	loaded, err := suite.repository.Get(suite.T().Context(), suite.tenantID, created.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, loaded.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_VersionMustAdvance() {
	// Given
	created := suite.addOrder(suite.tenantID, "ORD-1")

	// When
	err := suite.repository.Update(suite.T().Context(), created, created.Version())

	// Then
	suite.ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_OtherTenantMatchesNothing() {
	// Given
	created := suite.addOrder(suite.tenantID, "ORD-1")
	foreign, err := order.RestoreOrder(
		created.ID(), kernel.NewUUID(), created.Reference(),
		nil, nil, order.Cancelled, "", 2, suite.now,
	)
	suite.Require().NoError(err)

	// When
	err = suite.repository.Update(suite.T().Context(), foreign, 1)

	// Then
	suite.ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ConcurrentWritersHaveOneWinner() {
	// Given
	created := suite.addOrder(suite.tenantID, "ORD-1")
	const writers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	// When
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repository := orderrepo.NewGormOrderRepository(suite.database.DB, suite.tracker)
			o, err := repository.Get(context.Background(), suite.tenantID, created.ID())
			if err != nil {
				return
			}
			if err = o.ApplyTransition(order.Cancelled, order.TransitionDetails{}, time.Now()); err != nil {
				return
			}
			err = repository.Update(context.Background(), o, 1)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, errs.ErrVersionIsInvalid):
				conflicts++
			}
		}()
	}
	wg.Wait()

	// Then
	suite.Equal(1, succeeded)
	suite.Equal(writers-1, conflicts)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByStatus() {
	// Given
	pending := suite.addOrder(suite.tenantID, "ORD-1")
	assigned := suite.addOrder(suite.tenantID, "ORD-2")
	suite.assign(assigned, suite.now.Add(time.Minute))
	suite.addOrder(kernel.NewUUID(), "ORD-3")

	// When
	orders, err := suite.repository.ListByStatus(suite.T().Context(), suite.tenantID, []order.Status{order.Pending, order.Assigned})

	// Then
	suite.Require().NoError(err)
	suite.Require().Len(orders, 2)
	suite.True(orders[0].IsEqual(pending))
	suite.True(orders[1].IsEqual(assigned))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByStatus_NoStatuses() {
	suite.addOrder(suite.tenantID, "ORD-1")

	orders, err := suite.repository.ListByStatus(suite.T().Context(), suite.tenantID, nil)

	suite.Require().NoError(err)
	suite.Empty(orders)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListAssignedBefore() {
	// Given
	stale := suite.addOrder(suite.tenantID, "ORD-1")
	suite.assign(stale, suite.now.Add(-time.Hour))
	otherTenant := suite.addOrder(kernel.NewUUID(), "ORD-2")
	suite.assign(otherTenant, suite.now.Add(-30*time.Minute))
	fresh := suite.addOrder(suite.tenantID, "ORD-3")
	suite.assign(fresh, suite.now)
	suite.addOrder(suite.tenantID, "ORD-4")

	// When
	orders, err := suite.repository.ListAssignedBefore(suite.T().Context(), suite.now.Add(-time.Minute), 10)

	// Then
	suite.Require().NoError(err)
	suite.Require().Len(orders, 2)
	suite.True(orders[0].IsEqual(stale))
	suite.True(orders[1].IsEqual(otherTenant))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListAssignedBefore_RespectsLimit() {
	for i := range 3 {
		o := suite.addOrder(suite.tenantID, "ORD-"+strings.Repeat("X", i+1))
		suite.assign(o, suite.now.Add(-time.Hour))
	}

	orders, err := suite.repository.ListAssignedBefore(suite.T().Context(), suite.now, 2)

	suite.Require().NoError(err)
	suite.Len(orders, 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListAssignedBefore_InvalidLimit() {
	_, err := suite.repository.ListAssignedBefore(suite.T().Context(), suite.now, 0)

	suite.ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func TestOrderRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
