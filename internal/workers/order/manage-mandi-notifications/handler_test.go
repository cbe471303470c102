// internal/workers/order/manage-mandi-notifications/handler_test.go
package managemandinotifications

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/validation"
	"mandi-workers/pkg/registry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var listColumns = []string{
	"id", "mandi_id", "order_id", "type", "message", "retailer_name",
	"product_name", "quantity", "total_cost", "distance_km", "is_read", "created_at",
}

func createTestConfig(t *testing.T) *Config {
	t.Helper()
	reg, err := registry.LoadRegistry("../../../../configs/activity-registry.json")
	require.NoError(t, err)
	activity, err := reg.FindByTaskType(TaskType)
	require.NoError(t, err)
	schema, err := validation.Compile(activity.InputSchema)
	require.NoError(t, err)

	return &Config{
		ListLimit:   100,
		Timeout:     5 * time.Second,
		InputSchema: schema,
	}
}

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(createTestConfig(t), db, logger.NewTestLogger(t)), mock
}

func expectUnread(mock sqlmock.Sqlmock, mandiID string, count int) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM mandi_notifications WHERE mandi_id = \$1 AND is_read = FALSE`).
		WithArgs(mandiID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// List Tests
// ==========================

func TestHandler_Execute_List(t *testing.T) {
	newer := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	older := newer.Add(-2 * time.Hour)

	tests := []struct {
		name        string
		filter      string
		queryRegex  string
		rows        *sqlmock.Rows
		unread      int
		validateOut func(t *testing.T, output *Output)
	}{
		{
			name:       "all notifications newest first",
			filter:     "",
			queryRegex: `FROM mandi_notifications WHERE mandi_id = \$1 ORDER BY created_at DESC LIMIT \$2`,
			rows: sqlmock.NewRows(listColumns).
				AddRow("n2", "m2", "o2", "new_order", "New order from Fresh Mart", "Fresh Mart", "Onions", 50.0, 1400.0, 3.2, false, newer).
				AddRow("n1", "m2", nil, "new_order", "New order from Daily Needs", "Daily Needs", "Tomatoes", 100.0, 3200.0, 1.6, true, older),
			unread: 1,
			validateOut: func(t *testing.T, output *Output) {
				require.Len(t, output.Notifications, 2)
				assert.Equal(t, "n2", output.Notifications[0].ID)
				assert.Equal(t, "2026-10-18T09:00:00Z", output.Notifications[0].CreatedAt)
				assert.False(t, output.Notifications[0].Read)
				assert.Equal(t, "", output.Notifications[1].OrderID)
				assert.True(t, output.Notifications[1].Read)
				assert.Equal(t, 1, output.UnreadCount)
			},
		},
		{
			name:       "unread only",
			filter:     FilterUnread,
			queryRegex: `WHERE mandi_id = \$1 AND is_read = FALSE ORDER BY created_at DESC`,
			rows: sqlmock.NewRows(listColumns).
				AddRow("n2", "m2", "o2", "new_order", "New order", "Fresh Mart", "Onions", 50.0, 1400.0, 3.2, false, newer),
			unread: 1,
			validateOut: func(t *testing.T, output *Output) {
				require.Len(t, output.Notifications, 1)
				assert.False(t, output.Notifications[0].Read)
			},
		},
		{
			name:       "read only with empty inbox",
			filter:     FilterRead,
			queryRegex: `WHERE mandi_id = \$1 AND is_read = TRUE ORDER BY created_at DESC`,
			rows:       sqlmock.NewRows(listColumns),
			unread:     0,
			validateOut: func(t *testing.T, output *Output) {
				assert.Empty(t, output.Notifications)
				assert.Equal(t, 0, output.UnreadCount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mock := createTestHandler(t)
			mock.ExpectQuery(tt.queryRegex).WithArgs("m2", 100).WillReturnRows(tt.rows)
			expectUnread(mock, "m2", tt.unread)

			output, err := handler.Execute(context.Background(), &Input{MandiID: "m2", Action: ActionList, Filter: tt.filter})
			require.NoError(t, err)

			assert.Equal(t, ActionList, output.Action)
			tt.validateOut(t, output)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ==========================
// Mark Read Tests
// ==========================

func TestHandler_Execute_MarkRead(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectExec(`UPDATE mandi_notifications SET is_read = TRUE WHERE id = \$1 AND mandi_id = \$2`).
		WithArgs("n2", "m2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectUnread(mock, "m2", 0)

	output, err := handler.Execute(context.Background(), &Input{MandiID: "m2", Action: ActionMarkRead, NotificationID: "n2"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), output.Updated)
	assert.Equal(t, 0, output.UnreadCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_MarkRead_OtherMandi(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectExec(`UPDATE mandi_notifications SET is_read = TRUE`).
		WithArgs("n2", "m5").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := handler.Execute(context.Background(), &Input{MandiID: "m5", Action: ActionMarkRead, NotificationID: "n2"})
	requireCode(t, err, errors.ErrCodeNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_MarkAllRead(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectExec(`UPDATE mandi_notifications SET is_read = TRUE WHERE mandi_id = \$1 AND is_read = FALSE`).
		WithArgs("m2").
		WillReturnResult(sqlmock.NewResult(0, 3))
	expectUnread(mock, "m2", 0)

	output, err := handler.Execute(context.Background(), &Input{MandiID: "m2", Action: ActionMarkAllRead})
	require.NoError(t, err)

	assert.Equal(t, int64(3), output.Updated)
	assert.Equal(t, 0, output.UnreadCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InvalidRequests(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
	}{
		{"unknown action", &Input{MandiID: "m2", Action: "delete"}},
		{"unknown filter", &Input{MandiID: "m2", Action: ActionList, Filter: "archived"}},
		{"mark read without id", &Input{MandiID: "m2", Action: ActionMarkRead}},
		{"missing mandi", &Input{Action: ActionMarkAllRead}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mock := createTestHandler(t)
			_, err := handler.Execute(context.Background(), tt.input)
			requireCode(t, err, errors.ErrCodeInvalidNotificationAction)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_InvalidRequests_WithoutSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(&Config{ListLimit: 10, Timeout: time.Second}, db, logger.NewTestLogger(t))

	_, err = handler.Execute(context.Background(), &Input{MandiID: "m2", Action: "archive"})
	requireCode(t, err, errors.ErrCodeInvalidNotificationAction)

	_, err = handler.Execute(context.Background(), &Input{MandiID: "m2", Action: ActionList, Filter: "archived"})
	requireCode(t, err, errors.ErrCodeInvalidNotificationAction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DatabaseFailure(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectExec(`UPDATE mandi_notifications`).
		WithArgs("m2").
		WillReturnError(stderrors.New("connection reset by peer"))

	_, err := handler.Execute(context.Background(), &Input{MandiID: "m2", Action: ActionMarkAllRead})
	requireCode(t, err, errors.ErrCodeQueryExecutionFailed)
}
