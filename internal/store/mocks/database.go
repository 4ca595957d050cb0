package mocks

import (
	context "context"
	time "time"

	mock "github.com/stretchr/testify/mock"
	store "github.com/ugcgo/ugcgo-backend/internal/store"
)

// Database is a mock type for the Database type
type Database struct {
	mock.Mock
}

// GetSubscriptionByUser provides a mock function with given fields: ctx, userID
func (_m *Database) GetSubscriptionByUser(ctx context.Context, userID string) (*store.Subscription, error) {
	ret := _m.Called(ctx, userID)

	var r0 *store.Subscription
	if rf, ok := ret.Get(0).(func(context.Context, string) *store.Subscription); ok {
		r0 = rf(ctx, userID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*store.Subscription)
	}

	return r0, ret.Error(1)
}

// CountCompletedVideos provides a mock function with given fields: ctx, userID, from, to
func (_m *Database) CountCompletedVideos(ctx context.Context, userID string, from time.Time, to time.Time) (int64, error) {
	ret := _m.Called(ctx, userID, from, to)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context, string, time.Time, time.Time) int64); ok {
		r0 = rf(ctx, userID, from, to)
	} else {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}

// GetCredits provides a mock function with given fields: ctx, userID
func (_m *Database) GetCredits(ctx context.Context, userID string) (*store.UserCredits, error) {
	ret := _m.Called(ctx, userID)

	var r0 *store.UserCredits
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*store.UserCredits)
	}

	return r0, ret.Error(1)
}

// GetCreditsByEmail provides a mock function with given fields: ctx, email
func (_m *Database) GetCreditsByEmail(ctx context.Context, email string) (*store.UserCredits, error) {
	ret := _m.Called(ctx, email)

	var r0 *store.UserCredits
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*store.UserCredits)
	}

	return r0, ret.Error(1)
}

// ListCredits provides a mock function with given fields: ctx
func (_m *Database) ListCredits(ctx context.Context) ([]*store.UserCredits, error) {
	ret := _m.Called(ctx)

	var r0 []*store.UserCredits
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*store.UserCredits)
	}

	return r0, ret.Error(1)
}

// InsertCredits provides a mock function with given fields: ctx, credits
func (_m *Database) InsertCredits(ctx context.Context, credits *store.UserCredits) error {
	ret := _m.Called(ctx, credits)
	return ret.Error(0)
}

// UpdateCredits provides a mock function with given fields: ctx, userID, balance
func (_m *Database) UpdateCredits(ctx context.Context, userID string, balance int) error {
	ret := _m.Called(ctx, userID, balance)
	return ret.Error(0)
}

// CompareAndSetCredits provides a mock function with given fields: ctx, userID, expected, balance
func (_m *Database) CompareAndSetCredits(ctx context.Context, userID string, expected int, balance int) (bool, error) {
	ret := _m.Called(ctx, userID, expected, balance)
	return ret.Bool(0), ret.Error(1)
}

// InsertCreditTransaction provides a mock function with given fields: ctx, tx
func (_m *Database) InsertCreditTransaction(ctx context.Context, tx *store.CreditTransaction) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

// ListAuthUsers provides a mock function with given fields: ctx
func (_m *Database) ListAuthUsers(ctx context.Context) ([]*store.AuthUser, error) {
	ret := _m.Called(ctx)

	var r0 []*store.AuthUser
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*store.AuthUser)
	}

	return r0, ret.Error(1)
}

// Close provides a mock function with no fields
func (_m *Database) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

// NewDatabase creates a new instance of Database. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewDatabase(t interface {
	mock.TestingT
	Cleanup(func())
}) *Database {
	m := &Database{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
