// internal/workers/data-access/load-mandi-snapshot/handler.go
package loadmandisnapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"mandi-workers/internal/common/database"
	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"
	"mandi-workers/internal/mandi"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "load-mandi-snapshot"

	queryType = "mandi_snapshot"
)

type Handler struct {
	config     *Config
	store      *Store
	cache      *database.RedisClient
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

// NewHandler builds the handler. cache may be nil to always read postgres.
func NewHandler(config *Config, db *sql.DB, cache *database.RedisClient, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      NewStore(db),
		cache:      cache,
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
	if input.Scenario != "" {
		return h.fromCatalog(input.Scenario)
	}
	if input.ProductName == "" {
		return nil, errors.NewInvalidPurchaseRequestError("productName is required")
	}

	key := CacheKey(input.ProductName)
	if markets, ok := h.fromCache(ctx, key); ok {
		return newOutput(markets, SourceCache, ""), nil
	}

	markets, err := h.store.MarketsByProduct(ctx, input.ProductName)
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewQueryTimeoutError(queryType)
		}
		return nil, errors.NewQueryExecutionFailedError(queryType, err)
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, key, markets, h.config.CacheTTL); err != nil {
			h.logger.Warn("snapshot cache write failed", map[string]interface{}{
				"key":   key,
				"error": err,
			})
		}
	}

	h.logger.Info("snapshot loaded", map[string]interface{}{
		"product": input.ProductName,
		"mandis":  len(markets),
		"source":  SourcePostgres,
	})
	return newOutput(markets, SourcePostgres, ""), nil
}

func (h *Handler) fromCatalog(key string) (*Output, error) {
	if h.config.Catalog == nil {
		return nil, errors.NewScenarioNotFoundError(key)
	}
	sc, err := h.config.Catalog.Scenario(key)
	if err != nil {
		if stderrors.Is(err, mandi.ErrScenarioNotFound) {
			return nil, errors.NewScenarioNotFoundError(key)
		}
		return nil, errors.NewSnapshotLoadFailedError(key, err)
	}
	return newOutput(sc.Markets, SourceSeed, sc.Key), nil
}

// fromCache reports a hit only for a decodable entry. Redis errors are
// logged and treated as a miss.
func (h *Handler) fromCache(ctx context.Context, key string) ([]mandi.Market, bool) {
	if h.cache == nil {
		return nil, false
	}

	var markets []mandi.Market
	err := h.cache.GetJSON(ctx, key, &markets)
	switch {
	case err == nil:
		metrics.MandiSnapshotCache.WithLabelValues("hit").Inc()
		return markets, true
	case stderrors.Is(err, database.ErrCacheMiss):
		metrics.MandiSnapshotCache.WithLabelValues("miss").Inc()
	default:
		metrics.MandiSnapshotCache.WithLabelValues("error").Inc()
		h.logger.Warn("snapshot cache read failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
	return nil, false
}

func newOutput(markets []mandi.Market, source, scenario string) *Output {
	if markets == nil {
		markets = []mandi.Market{}
	}
	return &Output{
		Mandis:     markets,
		MandiCount: len(markets),
		Source:     source,
		Scenario:   scenario,
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
