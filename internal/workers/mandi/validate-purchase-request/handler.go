// internal/workers/mandi/validate-purchase-request/handler.go
package validatepurchaserequest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"
	"mandi-workers/internal/mandi"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "validate-purchase-request"
)

type Handler struct {
	config     *Config
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		timer.Fail(string(errors.ErrCodeParseError))
		h.errHandler.HandleJobError(ctx, client, job, errors.NewParseError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		timer.Fail(string(errors.Normalize(err).Code))
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	timer.Complete()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	result, err := h.config.InputSchema.Validate(input)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		h.logger.Info("validation completed", map[string]interface{}{
			"isValid":    false,
			"errorCount": len(result.Errors),
		})
		return nil, errors.NewInvalidPurchaseRequestError(result.Summary()).
			WithMetadata("validationErrors", result.Errors)
	}

	productName := strings.TrimSpace(input.ProductName)
	if input.RequiredQuantity <= 0 {
		return nil, errors.NewInvalidPurchaseRequestError(
			fmt.Sprintf("requiredQuantity must be positive, got %v", input.RequiredQuantity))
	}

	mode := h.config.DefaultMode
	if input.Mode != "" {
		parsed, err := mandi.ParseRankMode(input.Mode)
		if err != nil {
			return nil, errors.NewInvalidPurchaseRequestError(err.Error())
		}
		mode = parsed
	}

	resale := input.ResalePrice
	if resale <= 0 {
		price, ok := h.config.Retailer.ResalePrice(productName)
		if !ok {
			return nil, errors.NewInvalidPurchaseRequestError(
				fmt.Sprintf("no resale price given or configured for %q", productName))
		}
		resale = price
	}

	requester := h.config.Retailer.Point()
	if input.Requester != nil {
		requester = *input.Requester
	}

	requestID := input.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	h.logger.Info("validation completed", map[string]interface{}{
		"isValid":   true,
		"requestId": requestID,
		"product":   productName,
		"mode":      string(mode),
	})

	return &Output{
		IsValid:          true,
		RequestID:        requestID,
		RetailerID:       input.RetailerID,
		ProductName:      productName,
		RequiredQuantity: input.RequiredQuantity,
		ResalePrice:      resale,
		Requester:        requester,
		Mode:             mode,
		Scenario:         input.Scenario,
	}, nil
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
