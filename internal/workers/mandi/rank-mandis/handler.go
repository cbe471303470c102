// internal/workers/mandi/rank-mandis/handler.go
package rankmandis

import (
	"context"
	"encoding/json"
	"time"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"
	"mandi-workers/internal/mandi"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-mandis"

	slowRankingThreshold = 500 * time.Millisecond
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
	mode := h.config.DefaultMode
	if input.Mode != "" {
		parsed, err := mandi.ParseRankMode(input.Mode)
		if err != nil {
			return nil, errors.NewInvalidRankModeError(input.Mode)
		}
		mode = parsed
	}

	start := time.Now()

	ranked := mandi.RankWithWeights(input.MandiMetrics, mode, h.config.Weights)
	recommendations := mandi.Explained(ranked)

	truncated := false
	if h.config.MaxItems > 0 && len(recommendations) > h.config.MaxItems {
		recommendations = recommendations[:h.config.MaxItems]
		truncated = true
	}

	output := &Output{
		RankedMandis: recommendations,
		Mode:         mode,
		TotalRanked:  len(ranked),
		Truncated:    truncated,
	}
	if len(recommendations) > 0 {
		output.BestMandiID = recommendations[0].ID
	}

	metrics.MandiRankings.WithLabelValues(string(mode)).Inc()

	duration := time.Since(start)
	h.logger.Info("ranking completed", map[string]interface{}{
		"mode":        string(mode),
		"inputCount":  len(input.MandiMetrics),
		"outputCount": len(recommendations),
		"durationMs":  duration.Milliseconds(),
	})
	if duration > slowRankingThreshold {
		h.logger.Warn("ranking exceeded 500ms", map[string]interface{}{
			"durationMs": duration.Milliseconds(),
		})
	}

	return output, nil
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
