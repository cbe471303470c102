// internal/workers/order/manage-mandi-notifications/handler.go
package managemandinotifications

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "manage-mandi-notifications"

	queryType = "mandi_notifications"
)

type Handler struct {
	config     *Config
	store      *store
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      &store{db: db},
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
	if err := h.validate(input); err != nil {
		return nil, err
	}

	output := &Output{Action: input.Action, MandiID: input.MandiID}

	switch input.Action {
	case ActionList:
		filter := input.Filter
		if filter == "" {
			filter = FilterAll
		}
		notifications, err := h.store.list(ctx, input.MandiID, filter, h.config.ListLimit)
		if err != nil {
			return nil, h.queryError(ctx, err)
		}
		output.Notifications = notifications

	case ActionMarkRead:
		found, err := h.store.markRead(ctx, input.MandiID, input.NotificationID)
		if err != nil {
			return nil, h.queryError(ctx, err)
		}
		if !found {
			return nil, errors.NewNotificationNotFoundError(input.NotificationID, input.MandiID)
		}
		output.Updated = 1

	case ActionMarkAllRead:
		updated, err := h.store.markAllRead(ctx, input.MandiID)
		if err != nil {
			return nil, h.queryError(ctx, err)
		}
		output.Updated = updated
	}

	unread, err := h.store.unreadCount(ctx, input.MandiID)
	if err != nil {
		return nil, h.queryError(ctx, err)
	}
	output.UnreadCount = unread

	h.logger.Info("notifications handled", map[string]interface{}{
		"mandiId":     input.MandiID,
		"action":      input.Action,
		"updated":     output.Updated,
		"unreadCount": output.UnreadCount,
	})
	return output, nil
}

func (h *Handler) validate(input *Input) error {
	if h.config.InputSchema != nil {
		result, err := h.config.InputSchema.Validate(input)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if !result.Valid {
			return errors.NewInvalidNotificationActionError(input.Action).
				WithMetadata("validationErrors", result.Errors)
		}
	}

	switch input.Action {
	case ActionList:
		switch input.Filter {
		case "", FilterAll, FilterUnread, FilterRead:
		default:
			return errors.NewInvalidNotificationActionError(input.Action + " (filter: " + input.Filter + ")")
		}
	case ActionMarkRead:
		if input.NotificationID == "" {
			return errors.NewInvalidNotificationActionError(input.Action + " (notificationId is required)")
		}
	case ActionMarkAllRead:
	default:
		return errors.NewInvalidNotificationActionError(input.Action)
	}

	if input.MandiID == "" {
		return errors.NewInvalidNotificationActionError(input.Action + " (mandiId is required)")
	}
	return nil
}

func (h *Handler) queryError(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(queryType)
	}
	return errors.NewQueryExecutionFailedError(queryType, err)
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
