// internal/workers/mandi/rank-mandis/models.go
package rankmandis

import "mandi-workers/internal/mandi"

type Input struct {
	MandiMetrics []mandi.MarketMetrics `json:"mandiMetrics"`
	Mode         string                `json:"mode"`
}

type Output struct {
	RankedMandis []mandi.Recommendation `json:"rankedMandis"`
	Mode         mandi.RankMode         `json:"mode"`
	TotalRanked  int                    `json:"totalRanked"`
	Truncated    bool                   `json:"truncated"`
	BestMandiID  string                 `json:"bestMandiId,omitempty"`
}
