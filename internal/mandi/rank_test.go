// internal/mandi/rank_test.go
package mandi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Balanced Mode
// ==========================

func TestRank_BalancedTwoMarkets(t *testing.T) {
	ranked := Rank(metricsFor(twoMarkets(), tomatoRequest(100, ModeBalanced)), ModeBalanced)
	require.Len(t, ranked, 2)

	// A: 0.4*100 + 0.3*0 + 0.2*100 + 0.1*60 = 66
	// B: 0.4*0 + 0.3*33.3 + 0.2*40 + 0.1*100 = 28
	assert.Equal(t, []string{"A", "B"}, ids(ranked))

	require.NotNil(t, ranked[0].Score)
	assert.Equal(t, 66, *ranked[0].Score)
	assert.Equal(t, ComponentScores{Distance: 100, Price: 0, ShelfLife: 100, Profit: 60}, *ranked[0].Scores)

	require.NotNil(t, ranked[1].Score)
	assert.Equal(t, 28, *ranked[1].Score)
	assert.Equal(t, ComponentScores{Distance: 0, Price: 33, ShelfLife: 40, Profit: 100}, *ranked[1].Scores)
}

func TestRank_SingleMarket(t *testing.T) {
	metrics := metricsFor([]Market{tomatoMarket("A", 0, 0, 500, 30, 5)}, tomatoRequest(100, ModeBalanced))
	ranked := Rank(metrics, ModeBalanced)

	require.Len(t, ranked, 1)
	require.NotNil(t, ranked[0].Score)
	assert.Equal(t, 100, *ranked[0].Score)
	assert.Equal(t, ComponentScores{Distance: 100, Price: 100, ShelfLife: 100, Profit: 100}, *ranked[0].Scores)
}

func TestRank_ZeroMaxima(t *testing.T) {
	// Free produce with no shelf life at the requester: every maximum is zero.
	markets := []Market{
		tomatoMarket("A", 0, 0, 500, 0, 0),
		tomatoMarket("B", 0, 0, 500, 0, 0),
	}
	req := tomatoRequest(100, ModeBalanced)
	req.ResalePrice = 0

	ranked := Rank(metricsFor(markets, req), ModeBalanced)
	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.Equal(t, 100, *r.Score)
	}
	assert.Equal(t, []string{"A", "B"}, ids(ranked))
}

func TestRank_BalancedBoundsAndOrder(t *testing.T) {
	markets := []Market{
		tomatoMarket("A", 0.01, 0.02, 900, 24, 3),
		tomatoMarket("B", 0.12, -0.05, 900, 30, 5),
		tomatoMarket("C", -0.2, 0.11, 900, 27, 6),
		tomatoMarket("D", 0.05, 0.3, 900, 32, 6),
		tomatoMarket("E", -0.07, -0.07, 900, 26, 4),
	}
	ranked := Rank(metricsFor(markets, tomatoRequest(200, ModeBalanced)), ModeBalanced)
	require.Len(t, ranked, 5)

	for i, r := range ranked {
		require.NotNil(t, r.Score)
		assert.GreaterOrEqual(t, *r.Score, 0)
		assert.LessOrEqual(t, *r.Score, 100)
		if i > 0 {
			assert.GreaterOrEqual(t, *ranked[i-1].Score, *r.Score)
		}
	}
}

func TestRank_BalancedNegativeProfitNotClamped(t *testing.T) {
	markets := []Market{
		tomatoMarket("A", 0, 0, 500, 40, 5),
		tomatoMarket("B", 0.09, 0, 500, 50, 5),
	}
	ranked := Rank(metricsFor(markets, tomatoRequest(100, ModeBalanced)), ModeBalanced)
	require.Len(t, ranked, 2)

	// A profits 500, B loses 500.
	assert.Equal(t, "B", ranked[1].ID)
	assert.Equal(t, -100, ranked[1].Scores.Profit)
}

func TestRank_BalancedAllLosses(t *testing.T) {
	// Both at the requester with equal shelf life, resale 20/kg for 100 kg.
	markets := []Market{
		tomatoMarket("bigLoss", 0, 0, 500, 30, 5),
		tomatoMarket("smallLoss", 0, 0, 500, 21, 5),
	}
	req := tomatoRequest(100, ModeBalanced)
	req.ResalePrice = 20

	ranked := Rank(metricsFor(markets, req), ModeBalanced)
	require.Len(t, ranked, 2)
	assert.Equal(t, []string{"smallLoss", "bigLoss"}, ids(ranked))
	assert.Equal(t, -100.0, ranked[0].Profit)
	assert.Equal(t, -1000.0, ranked[1].Profit)

	// smallLoss: 0.4*100 + 0.3*30 + 0.2*100 + 0.1*100 = 79
	// bigLoss:   0.4*100 + 0.3*0  + 0.2*100 + 0.1*0   = 60
	assert.Equal(t, 79, *ranked[0].Score)
	assert.Equal(t, ComponentScores{Distance: 100, Price: 30, ShelfLife: 100, Profit: 100}, *ranked[0].Scores)
	assert.Equal(t, 60, *ranked[1].Score)
	assert.Equal(t, ComponentScores{Distance: 100, Price: 0, ShelfLife: 100, Profit: 0}, *ranked[1].Scores)
}

func TestRank_BalancedNonPositiveMaxProfit(t *testing.T) {
	tests := []struct {
		name        string
		prices      []float64
		wantOrder   []string
		wantProfits []int
	}{
		{
			name:        "break-even and loss",
			prices:      []float64{50, 45},
			wantOrder:   []string{"M1", "M0"},
			wantProfits: []int{100, 0},
		},
		{
			name:        "three losses",
			prices:      []float64{46, 55, 50},
			wantOrder:   []string{"M0", "M2", "M1"},
			wantProfits: []int{100, 56, 0},
		},
		{
			name:        "equal losses",
			prices:      []float64{50, 50},
			wantOrder:   []string{"M0", "M1"},
			wantProfits: []int{100, 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var markets []Market
			for i, p := range tt.prices {
				markets = append(markets, tomatoMarket(fmt.Sprintf("M%d", i), 0, 0, 500, p, 5))
			}

			ranked := Rank(metricsFor(markets, tomatoRequest(100, ModeBalanced)), ModeBalanced)
			require.Len(t, ranked, len(tt.prices))
			assert.Equal(t, tt.wantOrder, ids(ranked))
			for i, r := range ranked {
				assert.Equal(t, tt.wantProfits[i], r.Scores.Profit, r.ID)
				assert.GreaterOrEqual(t, *r.Score, 0, r.ID)
				assert.LessOrEqual(t, *r.Score, 100, r.ID)
			}
		})
	}
}

// ==========================
// Single-Criterion Modes
// ==========================

func TestRank_Modes(t *testing.T) {
	markets := []Market{
		tomatoMarket("A", 0.05, 0, 900, 30, 5),
		tomatoMarket("B", 0.01, 0, 900, 25, 2),
		tomatoMarket("C", 0.09, 0, 900, 22, 7),
		tomatoMarket("D", 0.01, 0, 900, 25, 7),
	}
	metrics := metricsFor(markets, tomatoRequest(100, ModeBalanced))

	tests := []struct {
		mode RankMode
		want []string
	}{
		{ModeDistance, []string{"B", "D", "A", "C"}},
		{ModePrice, []string{"C", "B", "D", "A"}},
		{ModeProfit, []string{"C", "B", "D", "A"}},
		{ModeShelfLife, []string{"C", "D", "A", "B"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			ranked := Rank(metrics, tt.mode)
			assert.Equal(t, tt.want, ids(ranked))
			for _, r := range ranked {
				assert.Nil(t, r.Score)
				assert.Nil(t, r.Scores)
			}
		})
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	metrics := metricsFor(twoMarkets(), tomatoRequest(100, ModeBalanced))
	before := []string{metrics[0].ID, metrics[1].ID}

	Rank(metrics, ModePrice)
	Rank(metrics, ModeBalanced)

	assert.Equal(t, before, []string{metrics[0].ID, metrics[1].ID})
}

func TestRank_Idempotent(t *testing.T) {
	metrics := metricsFor(twoMarkets(), tomatoRequest(100, ModeBalanced))
	for _, mode := range RankModes() {
		assert.Equal(t, Rank(metrics, mode), Rank(metrics, mode), mode)
	}
}

func TestRank_Empty(t *testing.T) {
	for _, mode := range RankModes() {
		ranked := Rank(nil, mode)
		assert.NotNil(t, ranked)
		assert.Empty(t, ranked)
	}
}

func TestRank_UnknownModeIsBalanced(t *testing.T) {
	metrics := metricsFor(twoMarkets(), tomatoRequest(100, ModeBalanced))
	assert.Equal(t, Rank(metrics, ModeBalanced), Rank(metrics, RankMode("weird")))
}

func TestParseRankMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RankMode
		wantErr bool
	}{
		{"", ModeBalanced, false},
		{"balanced", ModeBalanced, false},
		{"Distance", ModeDistance, false},
		{"price", ModePrice, false},
		{"PROFIT", ModeProfit, false},
		{"shelflife", ModeShelfLife, false},
		{"cheapest", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRankMode(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownRankMode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
