// internal/workers/order/manage-mandi-notifications/store.go
package managemandinotifications

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mandi-workers/internal/models"
)

const notificationColumns = `id, mandi_id, order_id, type, message, retailer_name,
	product_name, quantity, total_cost, distance_km, is_read, created_at`

type store struct {
	db *sql.DB
}

func (s *store) list(ctx context.Context, mandiID, filter string, limit int) ([]models.MandiNotification, error) {
	query := `SELECT ` + notificationColumns + ` FROM mandi_notifications WHERE mandi_id = $1`
	args := []interface{}{mandiID}
	switch filter {
	case FilterUnread:
		query += ` AND is_read = FALSE`
	case FilterRead:
		query += ` AND is_read = TRUE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.MandiNotification, 0)
	for rows.Next() {
		var (
			n         models.MandiNotification
			orderID   sql.NullString
			createdAt time.Time
		)
		if err := rows.Scan(&n.ID, &n.MandiID, &orderID, &n.Type, &n.Message, &n.RetailerName,
			&n.ProductName, &n.Quantity, &n.TotalCost, &n.Distance, &n.Read, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.OrderID = orderID.String
		n.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *store) unreadCount(ctx context.Context, mandiID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mandi_notifications WHERE mandi_id = $1 AND is_read = FALSE`,
		mandiID).Scan(&count)
	return count, err
}

// markRead reports false when no notification with id belongs to mandiID.
func (s *store) markRead(ctx context.Context, mandiID, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE mandi_notifications SET is_read = TRUE WHERE id = $1 AND mandi_id = $2`,
		id, mandiID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *store) markAllRead(ctx context.Context, mandiID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE mandi_notifications SET is_read = TRUE WHERE mandi_id = $1 AND is_read = FALSE`,
		mandiID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
