package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "dronedelivery/internal/adapters/out/postgres"
	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/ports"
	"dronedelivery/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the journal against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres_adapter.OpenDB(postgres_adapter.DriverPostgres, dsn)
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE delivery_records, allocation_passes").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitPersistsBothRepositories() {
	ctx := context.Background()
	record := newTestRecord(suite.T())
	pass := newTestPass(suite.T())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "a second Begin is a no-op")
	suite.Require().NoError(uow.DeliveryRecordRepository().Add(ctx, record))
	suite.Require().NoError(uow.AllocationPassRepository().Add(ctx, pass))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	gotRecord, err := reader.DeliveryRecordRepository().Get(ctx, record.ID())
	suite.Require().NoError(err)
	suite.Equal(record.OrderID(), gotRecord.OrderID())
	suite.Equal(record.WaitMinutes(), gotRecord.WaitMinutes())
	suite.True(record.DeliveredAt().Equal(gotRecord.DeliveredAt()))

	gotPass, err := reader.AllocationPassRepository().Get(ctx, pass.ID())
	suite.Require().NoError(err)
	suite.Equal(pass.Strategy(), gotPass.Strategy())
	suite.Equal(pass.Allocated(), gotPass.Allocated())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsWrites() {
	ctx := context.Background()
	record := newTestRecord(suite.T())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DeliveryRecordRepository().Add(ctx, record))

	_, err := uow.DeliveryRecordRepository().Get(ctx, record.ID())
	suite.Require().NoError(err, "visible inside the transaction")

	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().DeliveryRecordRepository().Get(ctx, record.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDuplicateRecordIsRejected() {
	ctx := context.Background()
	record := newTestRecord(suite.T())
	repo := suite.factory.Create().DeliveryRecordRepository()

	suite.Require().NoError(repo.Add(ctx, record))
	suite.Require().Error(repo.Add(ctx, record))
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func newTestRecord(t *testing.T) delivery.Record {
	t.Helper()
	r, err := delivery.NewRecord("P1", "D1", 7.5, time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC), 42)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func newTestPass(t *testing.T) delivery.AllocationPass {
	t.Helper()
	p, err := delivery.NewAllocationPass(time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC), delivery.StrategyMultiRound, 2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
