// internal/workers/order/send-order-notification/handler.go
package sendordernotification

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"
	"mandi-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-order-notification"
)

// EmailSender delivers a rendered email and returns the provider message id.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender delivers a text message and returns the provider message id.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config     *Config
	db         *sql.DB
	email      EmailSender
	sms        SMSSender
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

// NewHandler builds the handler. A nil sender disables its channel.
func NewHandler(config *Config, db *sql.DB, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		email:      email,
		sms:        sms,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
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
	order := input.Order
	if order.ID == "" || order.RetailerID == "" {
		return nil, errors.NewInvalidPurchaseRequestError("order.id and order.retailerId are required")
	}

	notificationType := input.NotificationType
	if notificationType == "" {
		notificationType = TypeOrderConfirmed
	}
	tmpl, ok := templates[notificationType]
	if !ok {
		return nil, errors.NewInvalidNotificationActionError(notificationType)
	}

	retailer, err := h.getRetailer(ctx, order.RetailerID)
	if err != nil {
		return nil, err
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		Channels:       []string{},
		Urgent:         h.isUrgent(order),
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	data := templateData(order, retailer.Name)
	failed := false

	if h.config.EmailEnabled && h.email != nil && retailer.Email != "" {
		subject := renderTemplate(tmpl.Subject, data)
		body := renderTemplate(tmpl.Body, data)
		if _, err := h.email.Send(ctx, retailer.Email, subject, body); err != nil {
			output.Failures = append(output.Failures, h.sendFailure(ChannelEmail, order.ID, err))
			failed = true
		} else {
			output.Channels = append(output.Channels, ChannelEmail)
		}
	}

	if output.Urgent && h.config.SMSEnabled && h.sms != nil && retailer.Phone != "" {
		if _, err := h.sms.Send(ctx, retailer.Phone, renderTemplate(tmpl.SMS, data)); err != nil {
			output.Failures = append(output.Failures, h.sendFailure(ChannelSMS, order.ID, err))
			failed = true
		} else {
			output.Channels = append(output.Channels, ChannelSMS)
		}
	}

	switch {
	case failed:
		output.Status = StatusFailed
	case len(output.Channels) > 0:
		output.Status = StatusSent
	}

	h.logger.Info("order notification processed", map[string]interface{}{
		"orderId":  order.ID,
		"status":   output.Status,
		"channels": output.Channels,
		"urgent":   output.Urgent,
	})
	return output, nil
}

// isUrgent reports whether the delivery window is short enough for SMS.
func (h *Handler) isUrgent(order models.MandiOrder) bool {
	return order.DeliveryTimeHours > 0 && order.DeliveryTimeHours <= h.config.UrgentWithinHours
}

func (h *Handler) getRetailer(ctx context.Context, retailerID string) (*models.Retailer, error) {
	var name, email, phone sql.NullString
	err := h.db.QueryRowContext(ctx,
		`SELECT name, email, phone FROM retailers WHERE id = $1`, retailerID).
		Scan(&name, &email, &phone)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewRetailerNotFoundError(retailerID)
	}
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewQueryTimeoutError("retailer_lookup")
		}
		return nil, errors.NewQueryExecutionFailedError("retailer_lookup", err)
	}
	return &models.Retailer{
		ID:    retailerID,
		Name:  name.String,
		Email: email.String,
		Phone: phone.String,
	}, nil
}

// sendFailure logs a failed delivery and describes it for the job output.
func (h *Handler) sendFailure(channel, orderID string, err error) ChannelFailure {
	stdErr := errors.NewNotificationSendFailedError(channel, err)
	h.logger.Error("notification send failed", map[string]interface{}{
		"channel": channel,
		"orderId": orderID,
		"error":   stdErr,
	})
	return ChannelFailure{
		Channel: channel,
		Code:    string(stdErr.Code),
		Message: stdErr.Details,
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
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
