package commands_test

import (
	"context"

	"dronedelivery/internal/core/application/usecases/commands"
	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockDeliveryRecordRepository struct{ mock.Mock }

func (m *MockDeliveryRecordRepository) Add(ctx context.Context, r delivery.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDeliveryRecordRepository) Get(ctx context.Context, id kernel.UUID) (delivery.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(delivery.Record), args.Error(1)
}

type MockAllocationPassRepository struct{ mock.Mock }

func (m *MockAllocationPassRepository) Add(ctx context.Context, p delivery.AllocationPass) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockAllocationPassRepository) Get(ctx context.Context, id kernel.UUID) (delivery.AllocationPass, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(delivery.AllocationPass), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) DeliveryRecordRepository() ports.DeliveryRecordRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRecordRepository)
}

func (m *MockUoW) AllocationPassRepository() ports.AllocationPassRepository {
	args := m.Called()
	return args.Get(0).(ports.AllocationPassRepository)
}

type MockDeliveryRecordUoWFactory struct{ mock.Mock }

func (m *MockDeliveryRecordUoWFactory) Create() commands.DeliveryRecordUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryRecordUoW)
}

type MockAllocationPassUoWFactory struct{ mock.Mock }

func (m *MockAllocationPassUoWFactory) Create() commands.AllocationPassUoW {
	args := m.Called()
	return args.Get(0).(commands.AllocationPassUoW)
}
