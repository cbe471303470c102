// internal/workers/order/create-mandi-order/handler_test.go
package createmandiorder

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/mandi"
	"mandi-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2026, 10, 18, 10, 35, 0, 0, time.UTC)

func createTestConfig() *Config {
	return &Config{
		DefaultDeliveryHours: 24,
		Timeout:              5 * time.Second,
	}
}

func createTestInput() *Input {
	return &Input{
		RequestID:        "req-001",
		RetailerID:       "retailer-001",
		RetailerName:     "Fresh Mart",
		ProductName:      "tomatoes",
		RequiredQuantity: 100,
		SelectedMandi: &mandi.MarketMetrics{
			QualifiedMarket: mandi.QualifiedMarket{
				Market: mandi.Market{
					ID:       "m2",
					Name:     "Madiwala Market",
					Location: "Madiwala, Bangalore",
				},
				MatchedProduct: mandi.ProductListing{ProductName: "Tomatoes", AvailableQuantity: 400, PricePerKg: 32, ShelfLifeDays: 4},
			},
			Distance:   1.6,
			PricePerKg: 32,
			ShelfLife:  4,
			TotalCost:  3200,
			Profit:     1800,
		},
		DeliveryTimeHours: 4,
		Scenario:          "scenario1",
	}
}

func newHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h, mock
}

func expectNoDuplicate(mock sqlmock.Sqlmock, requestID string) {
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(requestID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	handler, mock := newHandler(t)

	expectNoDuplicate(mock, "req-001")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO mandi_orders`).
		WithArgs(
			sqlmock.AnyArg(), // order ID (UUID)
			"req-001",
			"retailer-001",
			"m2",
			"Tomatoes",
			100.0,
			32.0,
			3200.0,
			1800.0,
			1.6,
			4,
			4,
			"scenario1",
			models.OrderStatusConfirmed,
			sqlmock.AnyArg(), // details JSON
			"2026-10-18T10:35:00Z",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO mandi_notifications`).
		WithArgs(
			sqlmock.AnyArg(),
			"m2",
			sqlmock.AnyArg(),
			models.NotificationTypeNewOrder,
			"New order from Fresh Mart: 100 kg Tomatoes for ₹3,200",
			"Fresh Mart",
			"Tomatoes",
			100.0,
			3200.0,
			1.6,
			"2026-10-18T10:35:00Z",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("mandi_order", sqlmock.AnyArg(), "order_created", sqlmock.AnyArg(), "2026-10-18T10:35:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.NotEmpty(t, output.OrderID)
	assert.NotEmpty(t, output.NotificationID)
	assert.Equal(t, output.OrderID, output.Order.ID)
	assert.Equal(t, models.OrderStatusConfirmed, output.OrderStatus)
	assert.Equal(t, "2026-10-18T10:35:00Z", output.CreatedAt)
	assert.Equal(t, models.OrderMandi{ID: "m2", Name: "Madiwala Market", Location: "Madiwala, Bangalore"}, output.Order.Mandi)
	assert.Equal(t, 4, output.Order.DeliveryTimeHours)

	_, err = time.Parse(time.RFC3339, output.Order.OrderDate)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DefaultDeliveryWindow(t *testing.T) {
	handler, mock := newHandler(t)
	input := createTestInput()
	input.DeliveryTimeHours = 0
	input.RetailerName = ""

	expectNoDuplicate(mock, "req-001")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO mandi_orders`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO mandi_notifications`).
		WithArgs(sqlmock.AnyArg(), "m2", sqlmock.AnyArg(), models.NotificationTypeNewOrder,
			"New order from retailer-001: 100 kg Tomatoes for ₹3,200", "retailer-001",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 24, output.Order.DeliveryTimeHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AuditFailureIsNonFatal(t *testing.T) {
	handler, mock := newHandler(t)

	expectNoDuplicate(mock, "req-001")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO mandi_orders`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO mandi_notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnError(stderrors.New("audit table locked"))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, output.OrderStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_DuplicateOrder(t *testing.T) {
	handler, mock := newHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("req-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := handler.Execute(context.Background(), createTestInput())
	requireCode(t, err, errors.ErrCodeDuplicateOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UniqueViolationRace(t *testing.T) {
	handler, mock := newHandler(t)

	expectNoDuplicate(mock, "req-001")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO mandi_orders`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err := handler.Execute(context.Background(), createTestInput())
	requireCode(t, err, errors.ErrCodeDuplicateOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InsertFailureRollsBack(t *testing.T) {
	handler, mock := newHandler(t)

	expectNoDuplicate(mock, "req-001")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO mandi_orders`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO mandi_notifications`).WillReturnError(stderrors.New("connection reset"))
	mock.ExpectRollback()

	_, err := handler.Execute(context.Background(), createTestInput())
	requireCode(t, err, errors.ErrCodeDatabaseInsertFailed)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.True(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_BeginFailure(t *testing.T) {
	handler, mock := newHandler(t)

	expectNoDuplicate(mock, "req-001")
	mock.ExpectBegin().WillReturnError(stderrors.New("connection refused"))

	_, err := handler.Execute(context.Background(), createTestInput())
	requireCode(t, err, errors.ErrCodeDatabaseConnectionFailed)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.True(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing request id", func(in *Input) { in.RequestID = "" }},
		{"blank product", func(in *Input) { in.ProductName = "  " }},
		{"zero quantity", func(in *Input) { in.RequiredQuantity = 0 }},
		{"no mandi selected", func(in *Input) { in.SelectedMandi = nil }},
		{"mandi without id", func(in *Input) { in.SelectedMandi.ID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mock := newHandler(t)
			input := createTestInput()
			tt.mutate(input)

			_, err := handler.Execute(context.Background(), input)
			requireCode(t, err, errors.ErrCodeInvalidPurchaseRequest)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
