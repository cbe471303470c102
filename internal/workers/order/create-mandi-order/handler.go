// internal/workers/order/create-mandi-order/handler.go
package createmandiorder

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"
	"mandi-workers/internal/mandi"
	"mandi-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "create-mandi-order"

	pqUniqueViolation = "23505"
)

var errBeginTx = stderrors.New("begin transaction")

type Handler struct {
	config     *Config
	db         *sql.DB
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	now        func() time.Time
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	timer := metrics.StartJob(TaskType)

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		timer.Fail(string(errors.ErrCodeParseError))
		h.errHandler.HandleJobError(context.Background(), client, job, errors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		timer.Fail(string(errors.Normalize(err).Code))
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	timer.Complete()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var exists bool
	err := h.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM mandi_orders WHERE request_id = $1)`,
		input.RequestID).Scan(&exists)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(fmt.Errorf("duplicate check: %w", err))
	}
	if exists {
		return nil, errors.NewDuplicateOrderError(input.RequestID)
	}

	order := h.buildOrder(input)
	notification := newOrderNotification(order, input.RetailerName)

	if err := h.insert(ctx, order, notification); err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, errors.NewDuplicateOrderError(input.RequestID)
		}
		if stderrors.Is(err, errBeginTx) {
			return nil, errors.NewDatabaseConnectionFailedError(err)
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	h.writeAudit(ctx, order)
	metrics.MandiOrdersCreated.WithLabelValues(strings.ToLower(order.ProductName)).Inc()

	h.logger.Info("mandi order created", map[string]interface{}{
		"orderId":   order.ID,
		"requestId": order.RequestID,
		"mandiId":   order.Mandi.ID,
		"totalCost": order.TotalCost,
	})

	return &Output{
		Order:          *order,
		OrderID:        order.ID,
		OrderStatus:    order.Status,
		NotificationID: notification.ID,
		CreatedAt:      order.OrderDate,
	}, nil
}

func validateInput(input *Input) error {
	switch {
	case input.RequestID == "":
		return errors.NewInvalidPurchaseRequestError("requestId is required")
	case strings.TrimSpace(input.ProductName) == "":
		return errors.NewInvalidPurchaseRequestError("productName is required")
	case input.RequiredQuantity <= 0:
		return errors.NewInvalidPurchaseRequestError("requiredQuantity must be greater than 0")
	case input.SelectedMandi == nil || input.SelectedMandi.ID == "":
		return errors.NewInvalidPurchaseRequestError("selectedMandi is required")
	}
	return nil
}

func (h *Handler) buildOrder(input *Input) *models.MandiOrder {
	m := input.SelectedMandi
	delivery := input.DeliveryTimeHours
	if delivery <= 0 {
		delivery = h.config.DefaultDeliveryHours
	}
	return &models.MandiOrder{
		ID:          uuid.New().String(),
		RequestID:   input.RequestID,
		RetailerID:  input.RetailerID,
		ProductName: productName(input.ProductName, m),
		Quantity:    input.RequiredQuantity,
		Mandi: models.OrderMandi{
			ID:       m.ID,
			Name:     m.Name,
			Location: m.Location,
		},
		PricePerKg:        m.PricePerKg,
		TotalCost:         m.TotalCost,
		Profit:            m.Profit,
		Distance:          m.Distance,
		ShelfLife:         m.ShelfLife,
		DeliveryTimeHours: delivery,
		Scenario:          input.Scenario,
		Status:            models.OrderStatusConfirmed,
		OrderDate:         h.now().UTC().Format(time.RFC3339),
	}
}

// productName prefers the listing's spelling over the request's.
func productName(requested string, m *mandi.MarketMetrics) string {
	if m.MatchedProduct.ProductName != "" {
		return m.MatchedProduct.ProductName
	}
	return strings.TrimSpace(requested)
}

func newOrderNotification(order *models.MandiOrder, retailerName string) *models.MandiNotification {
	if retailerName == "" {
		retailerName = order.RetailerID
	}
	return &models.MandiNotification{
		ID:      uuid.New().String(),
		MandiID: order.Mandi.ID,
		OrderID: order.ID,
		Type:    models.NotificationTypeNewOrder,
		Message: fmt.Sprintf("New order from %s: %s kg %s for %s",
			retailerName,
			strconv.FormatFloat(order.Quantity, 'f', -1, 64),
			order.ProductName,
			mandi.FormatINR(order.TotalCost)),
		RetailerName: retailerName,
		ProductName:  order.ProductName,
		Quantity:     order.Quantity,
		TotalCost:    order.TotalCost,
		Distance:     order.Distance,
		CreatedAt:    order.OrderDate,
	}
}

// insert writes the order and the mandi's inbox entry in one transaction.
func (h *Handler) insert(ctx context.Context, order *models.MandiOrder, n *models.MandiNotification) error {
	details, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order details: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", errBeginTx, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mandi_orders (
			id, request_id, retailer_id, mandi_id, product_name, quantity,
			price_per_kg, total_cost, profit, distance_km, shelf_life_days,
			delivery_time_hours, scenario, status, details, order_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		order.ID,
		order.RequestID,
		order.RetailerID,
		order.Mandi.ID,
		order.ProductName,
		order.Quantity,
		order.PricePerKg,
		order.TotalCost,
		order.Profit,
		order.Distance,
		order.ShelfLife,
		order.DeliveryTimeHours,
		order.Scenario,
		order.Status,
		details,
		order.OrderDate,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mandi_notifications (
			id, mandi_id, order_id, type, message, retailer_name,
			product_name, quantity, total_cost, distance_km, is_read, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, $11)`,
		n.ID,
		n.MandiID,
		n.OrderID,
		n.Type,
		n.Message,
		n.RetailerName,
		n.ProductName,
		n.Quantity,
		n.TotalCost,
		n.Distance,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return tx.Commit()
}

// writeAudit is best effort; a failure is logged and the order stands.
func (h *Handler) writeAudit(ctx context.Context, order *models.MandiOrder) {
	details, err := json.Marshal(map[string]interface{}{
		"requestId":  order.RequestID,
		"retailerId": order.RetailerID,
		"mandiId":    order.Mandi.ID,
		"product":    order.ProductName,
		"quantity":   order.Quantity,
		"totalCost":  order.TotalCost,
	})
	if err != nil {
		details = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (entity_type, entity_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"mandi_order",
		order.ID,
		"order_created",
		details,
		order.OrderDate,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":   err,
			"orderId": order.ID,
		})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
