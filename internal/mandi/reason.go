// internal/mandi/reason.go
package mandi

// ReasonKind identifies one explanation outcome. Values are stable and safe to
// persist or send over the wire.
type ReasonKind string

const (
	NearestDistance ReasonKind = "nearest_distance"
	CloseDistance   ReasonKind = "close_distance"
	FarDistance     ReasonKind = "far_distance"

	LowestPrice       ReasonKind = "lowest_price"
	BelowAveragePrice ReasonKind = "below_average_price"
	PremiumPrice      ReasonKind = "premium_price"

	ExcellentFreshness ReasonKind = "excellent_freshness"
	GoodShelfLife      ReasonKind = "good_shelf_life"
	ShortShelfLife     ReasonKind = "short_shelf_life"

	HighProfit     ReasonKind = "high_profit"
	GoodProfit     ReasonKind = "good_profit"
	ModerateProfit ReasonKind = "moderate_profit"
)

// Factor names the dimension a reason talks about.
type Factor string

const (
	FactorDistance  Factor = "distance"
	FactorPrice     Factor = "price"
	FactorShelfLife Factor = "shelfLife"
	FactorProfit    Factor = "profit"
)

// Factor returns the dimension k belongs to.
func (k ReasonKind) Factor() Factor {
	switch k {
	case NearestDistance, CloseDistance, FarDistance:
		return FactorDistance
	case LowestPrice, BelowAveragePrice, PremiumPrice:
		return FactorPrice
	case ExcellentFreshness, GoodShelfLife, ShortShelfLife:
		return FactorShelfLife
	default:
		return FactorProfit
	}
}

// Warning reports whether k should be flagged to the buyer.
func (k ReasonKind) Warning() bool {
	return k == ShortShelfLife
}

// Reason is one structured explanation with the value it refers to.
type Reason struct {
	Kind  ReasonKind `json:"kind"`
	Value float64    `json:"value"`
}

// goodShelfLifeDays is the absolute freshness floor, independent of the set.
const goodShelfLifeDays = 3

// setStats holds the extrema and averages each reason compares against.
type setStats struct {
	minDistance float64
	minPrice    float64
	avgPrice    float64
	maxShelf    int
	maxProfit   float64
}

func statsOf(all []RankedMarket) setStats {
	var s setStats
	if len(all) == 0 {
		return s
	}
	s.minDistance = all[0].Distance
	s.minPrice = all[0].PricePerKg
	s.maxShelf = all[0].ShelfLife
	s.maxProfit = all[0].Profit
	sum := 0.0
	for _, m := range all {
		s.minDistance = min(s.minDistance, m.Distance)
		s.minPrice = min(s.minPrice, m.PricePerKg)
		s.maxShelf = max(s.maxShelf, m.ShelfLife)
		s.maxProfit = max(s.maxProfit, m.Profit)
		sum += m.PricePerKg
	}
	s.avgPrice = sum / float64(len(all))
	return s
}

// Explain returns the four reasons (distance, price, shelf life, profit) for
// market relative to all. rank is the 1-based position of market and does not
// change the outcome. When all is empty market is compared with itself.
func Explain(market RankedMarket, rank int, all []RankedMarket) []Reason {
	if len(all) == 0 {
		all = []RankedMarket{market}
	}
	return explainWith(market, statsOf(all))
}

// ExplainAll explains every entry of ranked, computing the set statistics once.
func ExplainAll(ranked []RankedMarket) [][]Reason {
	stats := statsOf(ranked)
	out := make([][]Reason, len(ranked))
	for i, m := range ranked {
		out[i] = explainWith(m, stats)
	}
	return out
}

func explainWith(m RankedMarket, s setStats) []Reason {
	reasons := make([]Reason, 0, 4)

	switch {
	case m.Distance == s.minDistance:
		reasons = append(reasons, Reason{Kind: NearestDistance, Value: m.Distance})
	case m.Distance < s.minDistance*1.5:
		reasons = append(reasons, Reason{Kind: CloseDistance, Value: m.Distance})
	default:
		reasons = append(reasons, Reason{Kind: FarDistance, Value: m.Distance})
	}

	switch {
	case m.PricePerKg == s.minPrice:
		reasons = append(reasons, Reason{Kind: LowestPrice, Value: m.PricePerKg})
	case m.PricePerKg < s.avgPrice:
		reasons = append(reasons, Reason{Kind: BelowAveragePrice, Value: m.PricePerKg})
	default:
		reasons = append(reasons, Reason{Kind: PremiumPrice, Value: m.PricePerKg})
	}

	shelf := float64(m.ShelfLife)
	switch {
	case shelf >= float64(s.maxShelf)*0.8:
		reasons = append(reasons, Reason{Kind: ExcellentFreshness, Value: shelf})
	case m.ShelfLife >= goodShelfLifeDays:
		reasons = append(reasons, Reason{Kind: GoodShelfLife, Value: shelf})
	default:
		reasons = append(reasons, Reason{Kind: ShortShelfLife, Value: shelf})
	}

	switch {
	case m.Profit >= s.maxProfit*0.9:
		reasons = append(reasons, Reason{Kind: HighProfit, Value: m.Profit})
	case m.Profit >= s.maxProfit*0.7:
		reasons = append(reasons, Reason{Kind: GoodProfit, Value: m.Profit})
	default:
		reasons = append(reasons, Reason{Kind: ModerateProfit, Value: m.Profit})
	}

	return reasons
}
