// internal/workers/mandi/calculate-mandi-metrics/handler.go
package calculatemandimetrics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"
	"mandi-workers/internal/mandi"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-mandi-metrics"
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
	if input.RequiredQuantity <= 0 {
		return nil, errors.NewInvalidPurchaseRequestError(
			fmt.Sprintf("requiredQuantity must be positive, got %v", input.RequiredQuantity))
	}

	req := mandi.PurchaseRequest{
		RequiredQuantity: input.RequiredQuantity,
		ResalePrice:      input.ResalePrice,
		Requester:        input.Requester,
	}
	computed := mandi.ComputeAll(input.QualifiedMandis, req)

	h.logger.Debug("metrics computed", map[string]interface{}{
		"count": len(computed),
	})

	return &Output{
		MandiMetrics: computed,
		Summary:      summarize(computed),
	}, nil
}

func summarize(computed []mandi.MarketMetrics) Summary {
	s := Summary{Count: len(computed)}
	if len(computed) == 0 {
		return s
	}
	s.MinDistance, s.MinPrice = math.Inf(1), math.Inf(1)
	s.MaxDistance, s.MaxProfit = math.Inf(-1), math.Inf(-1)
	for _, m := range computed {
		s.MinDistance = math.Min(s.MinDistance, m.Distance)
		s.MaxDistance = math.Max(s.MaxDistance, m.Distance)
		s.MinPrice = math.Min(s.MinPrice, m.PricePerKg)
		s.MaxProfit = math.Max(s.MaxProfit, m.Profit)
	}
	return s
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
