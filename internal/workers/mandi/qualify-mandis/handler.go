// internal/workers/mandi/qualify-mandis/handler.go
package qualifymandis

import (
	"context"
	"encoding/json"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"
	"mandi-workers/internal/mandi"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "qualify-mandis"
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

// execute never fails on an empty result; the process routes on
// qualifiedCount instead.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.ProductName == "" {
		return nil, errors.NewInvalidPurchaseRequestError("productName is required")
	}

	qualified := mandi.Qualify(input.Mandis, input.ProductName, input.RequiredQuantity)
	metrics.MandiQualifiedMarkets.Observe(float64(len(qualified)))

	h.logger.Info("qualification completed", map[string]interface{}{
		"product":        input.ProductName,
		"totalMandis":    len(input.Mandis),
		"qualifiedCount": len(qualified),
	})

	return &Output{
		QualifiedMandis: qualified,
		QualifiedCount:  len(qualified),
		TotalMandis:     len(input.Mandis),
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
