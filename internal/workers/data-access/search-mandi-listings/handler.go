// internal/workers/data-access/search-mandi-listings/handler.go
package searchmandilistings

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"
	"mandi-workers/internal/workers/data-access/search-mandi-listings/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "search-mandi-listings"

	queryType = "mandi_listings"
)

type Handler struct {
	config     *Config
	client     *elasticsearch.Client
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		client:     client,
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
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	timer.Complete()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	lq := queries.ListingQuery{
		Index:       h.config.Index,
		ProductName: input.ProductName,
		Size:        h.config.MaxHits,
	}
	radius := h.config.SearchRadiusKm
	if input.RadiusKm != 0 {
		radius = input.RadiusKm
	}
	if input.Requester != nil && radius > 0 {
		lq.Center = input.Requester
		lq.RadiusKm = radius
	}

	result, err := queries.Execute(ctx, h.client, lq)
	if err != nil {
		return nil, h.mapError(ctx, err)
	}

	markets := queries.GroupByMandi(result.Docs)

	h.logger.Info("search completed", map[string]interface{}{
		"product":   input.ProductName,
		"radiusKm":  lq.RadiusKm,
		"totalHits": result.TotalHits,
		"mandis":    len(markets),
		"tookMs":    result.Took,
	})

	return &Output{
		Mandis:    markets,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
		Source:    "elasticsearch",
	}, nil
}

func (h *Handler) mapError(ctx context.Context, err error) error {
	switch {
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return errors.NewSearchTimeoutError(queryType)
	case stderrors.Is(err, queries.ErrUnreachable):
		return errors.NewElasticsearchConnectionFailedError(err)
	case stderrors.Is(err, queries.ErrIndexNotFound):
		return errors.NewIndexNotFoundError(h.config.Index)
	case stderrors.Is(err, queries.ErrMissingProduct), stderrors.Is(err, queries.ErrMissingIndex):
		return errors.NewInvalidPurchaseRequestError(err.Error())
	default:
		return errors.NewSearchQueryFailedError(queryType, err)
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
