// internal/mandi/recommend.go
package mandi

// Recommendation is one ranked market with its explanation.
type Recommendation struct {
	Rank int `json:"rank"`
	RankedMarket
	Reasons     []Reason `json:"reasons"`
	ReasonTexts []string `json:"reasonTexts"`
}

// Recommend runs the whole pipeline for req over markets: qualify, compute
// metrics, rank by req.Mode, then explain. The result is empty when no market
// qualifies.
func Recommend(markets []Market, req PurchaseRequest) []Recommendation {
	qualified := Qualify(markets, req.ProductName, req.RequiredQuantity)
	ranked := Rank(ComputeAll(qualified, req), req.Mode)
	return Explained(ranked)
}

// Explained pairs each ranked market with its reasons.
func Explained(ranked []RankedMarket) []Recommendation {
	reasons := ExplainAll(ranked)
	out := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		out[i] = Recommendation{
			Rank:         i + 1,
			RankedMarket: r,
			Reasons:      reasons[i],
			ReasonTexts:  RenderReasons(reasons[i]),
		}
	}
	return out
}
