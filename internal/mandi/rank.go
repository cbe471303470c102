// internal/mandi/rank.go
package mandi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// RankMode selects the ordering applied by Rank.
type RankMode string

const (
	ModeBalanced  RankMode = "balanced"
	ModeDistance  RankMode = "distance"
	ModePrice     RankMode = "price"
	ModeProfit    RankMode = "profit"
	ModeShelfLife RankMode = "shelfLife"
)

var ErrUnknownRankMode = errors.New("unknown rank mode")

// RankModes lists every supported mode, balanced first.
func RankModes() []RankMode {
	return []RankMode{ModeBalanced, ModeDistance, ModePrice, ModeProfit, ModeShelfLife}
}

// ParseRankMode maps a mode name to a RankMode. Matching ignores case and the
// empty string selects balanced.
func ParseRankMode(s string) (RankMode, error) {
	if strings.TrimSpace(s) == "" {
		return ModeBalanced, nil
	}
	for _, m := range RankModes() {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRankMode, s)
}

// Weights are the balanced-mode factor weights.
type Weights struct {
	Distance  float64 `json:"distance"`
	Price     float64 `json:"price"`
	ShelfLife float64 `json:"shelfLife"`
	Profit    float64 `json:"profit"`
}

// DefaultWeights favour proximity, then price, then freshness, then profit.
func DefaultWeights() Weights {
	return Weights{
		Distance:  0.4,
		Price:     0.3,
		ShelfLife: 0.2,
		Profit:    0.1,
	}
}

// Rank orders a copy of metrics by mode with DefaultWeights. Ties keep their
// input order. Unknown modes fall back to balanced.
func Rank(metrics []MarketMetrics, mode RankMode) []RankedMarket {
	return RankWithWeights(metrics, mode, DefaultWeights())
}

// RankWithWeights is Rank with caller-supplied balanced weights.
func RankWithWeights(metrics []MarketMetrics, mode RankMode, w Weights) []RankedMarket {
	ranked := make([]RankedMarket, len(metrics))
	for i, m := range metrics {
		ranked[i] = RankedMarket{MarketMetrics: m}
	}
	if len(ranked) == 0 {
		return ranked
	}

	switch mode {
	case ModeDistance:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Distance < ranked[j].Distance })
	case ModePrice:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].PricePerKg < ranked[j].PricePerKg })
	case ModeProfit:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Profit > ranked[j].Profit })
	case ModeShelfLife:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].ShelfLife > ranked[j].ShelfLife })
	default:
		scoreBalanced(ranked, w)
		sort.SliceStable(ranked, func(i, j int) bool { return *ranked[i].Score > *ranked[j].Score })
	}
	return ranked
}

func scoreBalanced(ranked []RankedMarket, w Weights) {
	var distance, price, shelf, profit extent
	for i, r := range ranked {
		distance.add(i, r.Distance)
		price.add(i, r.PricePerKg)
		shelf.add(i, float64(r.ShelfLife))
		profit.add(i, r.Profit)
	}

	for i := range ranked {
		r := &ranked[i]
		ds := safeRatio(distance.max-r.Distance, distance.scale())
		ps := safeRatio(price.max-r.PricePerKg, price.scale())
		ss := safeRatio(float64(r.ShelfLife), shelf.scale())
		pr := profitScore(r.Profit, profit)

		total := roundHalfUp(ds*w.Distance + ps*w.Price + ss*w.ShelfLife + pr*w.Profit)
		r.Score = &total
		r.Scores = &ComponentScores{
			Distance:  roundHalfUp(ds),
			Price:     roundHalfUp(ps),
			ShelfLife: roundHalfUp(ss),
			Profit:    roundHalfUp(pr),
		}
	}
}

// extent tracks the range of one dimension across a result set.
type extent struct {
	min, max float64
}

func (e *extent) add(i int, v float64) {
	if i == 0 {
		e.min, e.max = v, v
		return
	}
	e.min = min(e.min, v)
	e.max = max(e.max, v)
}

// scale is the normalisation denominator: the set maximum, or zero when every
// value is the same and the dimension cannot rank anything.
func (e extent) scale() float64 {
	if e.min == e.max {
		return 0
	}
	return e.max
}

// profitScore scores p against the set maximum. When no market makes a
// profit the maximum cannot anchor the scale, so p is placed within the
// range instead: the smallest loss scores 100 and the largest 0.
func profitScore(p float64, e extent) float64 {
	if e.max > 0 || e.min == e.max {
		return safeRatio(p, e.scale())
	}
	return safeRatio(p-e.min, e.max-e.min)
}

// safeRatio returns num/den as a percentage, or 100 when den is zero.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 100
	}
	return num / den * 100
}
