// internal/workers/mandi/rank-mandis/handler_test.go
package rankmandis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"mandi-workers/internal/common/config"
	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/mandi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		MaxItems:    50,
		DefaultMode: mandi.ModeBalanced,
		Weights:     mandi.DefaultWeights(),
		Timeout:     5 * time.Second,
	}
}

func tomatoMarket(id string, lat float64, price float64, shelf int) mandi.Market {
	return mandi.Market{
		ID:        id,
		Name:      "Mandi " + id,
		Location:  id + ", Test City",
		Latitude:  lat,
		Longitude: 0,
		Products: []mandi.ProductListing{
			{ProductName: "Tomatoes", AvailableQuantity: 500, PricePerKg: price, ShelfLifeDays: shelf},
		},
	}
}

func createTestInput(mode string, markets ...mandi.Market) *Input {
	req := mandi.PurchaseRequest{
		ProductName:      "Tomatoes",
		RequiredQuantity: 100,
		ResalePrice:      45,
	}
	qualified := mandi.Qualify(markets, req.ProductName, req.RequiredQuantity)
	return &Input{
		MandiMetrics: mandi.ComputeAll(qualified, req),
		Mode:         mode,
	}
}

func rankedIDs(out *Output) []string {
	ids := make([]string, len(out.RankedMandis))
	for i, r := range out.RankedMandis {
		ids[i] = r.ID
	}
	return ids
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Modes(t *testing.T) {
	near := tomatoMarket("A", 0, 30, 5)
	far := tomatoMarket("B", 0.09, 20, 2)

	tests := []struct {
		name           string
		mode           string
		expectedOrder  []string
		expectedMode   mandi.RankMode
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:          "balanced scores both markets",
			mode:          "balanced",
			expectedOrder: []string{"A", "B"},
			expectedMode:  mandi.ModeBalanced,
			validateOutput: func(t *testing.T, output *Output) {
				require.NotNil(t, output.RankedMandis[0].Score)
				assert.Equal(t, 66, *output.RankedMandis[0].Score)
				assert.Equal(t, 28, *output.RankedMandis[1].Score)
				assert.Equal(t, 1, output.RankedMandis[0].Rank)
				assert.Equal(t, 2, output.RankedMandis[1].Rank)
			},
		},
		{
			name:          "empty mode falls back to configured default",
			mode:          "",
			expectedOrder: []string{"A", "B"},
			expectedMode:  mandi.ModeBalanced,
		},
		{
			name:          "price mode is case-insensitive",
			mode:          "PRICE",
			expectedOrder: []string{"B", "A"},
			expectedMode:  mandi.ModePrice,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Nil(t, output.RankedMandis[0].Score)
			},
		},
		{
			name:          "shelf life mode",
			mode:          "shelfLife",
			expectedOrder: []string{"A", "B"},
			expectedMode:  mandi.ModeShelfLife,
		},
		{
			name:          "profit mode",
			mode:          "profit",
			expectedOrder: []string{"B", "A"},
			expectedMode:  mandi.ModeProfit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), createTestInput(tt.mode, near, far))
			require.NoError(t, err)

			assert.Equal(t, tt.expectedOrder, rankedIDs(output))
			assert.Equal(t, tt.expectedMode, output.Mode)
			assert.Equal(t, 2, output.TotalRanked)
			assert.Equal(t, tt.expectedOrder[0], output.BestMandiID)
			assert.False(t, output.Truncated)
			for _, r := range output.RankedMandis {
				assert.Len(t, r.ReasonTexts, len(r.Reasons))
			}

			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestHandler_Execute_MaxItems(t *testing.T) {
	cfg := createTestConfig()
	cfg.MaxItems = 1
	handler := NewHandler(cfg, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput("distance",
		tomatoMarket("A", 0, 30, 5),
		tomatoMarket("B", 0.09, 20, 2),
		tomatoMarket("C", 0.18, 25, 3),
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, rankedIDs(output))
	assert.Equal(t, 3, output.TotalRanked)
	assert.True(t, output.Truncated)
}

// ==========================
// Edge Cases
// ==========================

func TestHandler_Execute_EmptyInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Empty(t, output.RankedMandis)
	assert.Equal(t, 0, output.TotalRanked)
	assert.Empty(t, output.BestMandiID)
}

func TestHandler_Execute_InvalidMode(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), createTestInput("cheapest", tomatoMarket("A", 0, 30, 5)))
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInvalidRankMode, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestHandler_Execute_SingleMarketScoresFull(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput("balanced", tomatoMarket("A", 0, 30, 5)))
	require.NoError(t, err)

	require.Len(t, output.RankedMandis, 1)
	assert.Equal(t, 100, *output.RankedMandis[0].Score)
}

func TestHandler_Execute_ConfiguredWeights(t *testing.T) {
	near := tomatoMarket("near", 0, 30, 5)
	cheap := tomatoMarket("cheap", 0.09, 20, 2)

	output, err := NewHandler(createTestConfig(), logger.NewTestLogger(t)).
		Execute(context.Background(), createTestInput("balanced", near, cheap))
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "cheap"}, rankedIDs(output))

	cfg := createTestConfig()
	cfg.Weights = mandi.Weights{Price: 1}
	output, err = NewHandler(cfg, logger.NewTestLogger(t)).
		Execute(context.Background(), createTestInput("balanced", near, cheap))
	require.NoError(t, err)

	// Only price counts: cheap scores (30-20)/30*100, near scores 0.
	assert.Equal(t, []string{"cheap", "near"}, rankedIDs(output))
	assert.Equal(t, 33, *output.RankedMandis[0].Score)
	assert.Equal(t, 0, *output.RankedMandis[1].Score)
}

func TestLoadConfig_Weights(t *testing.T) {
	appCfg := &config.Config{Mandi: config.MandiConfig{MaxItems: 10, DefaultMode: "price"}}
	cfg := LoadConfig(appCfg)
	assert.Equal(t, mandi.DefaultWeights(), cfg.Weights)
	assert.Equal(t, mandi.ModePrice, cfg.DefaultMode)

	appCfg.Mandi.Weights = config.WeightsConfig{Distance: 0.5, Price: 0.5}
	assert.Equal(t, mandi.Weights{Distance: 0.5, Price: 0.5}, LoadConfig(appCfg).Weights)
}
