// internal/workers/data-access/load-mandi-snapshot/models.go
package loadmandisnapshot

import "mandi-workers/internal/mandi"

type Input struct {
	ProductName string `json:"productName"`
	Scenario    string `json:"scenario,omitempty"`
}

// Snapshot sources.
const (
	SourceSeed     = "seed"
	SourceCache    = "cache"
	SourcePostgres = "postgres"
)

type Output struct {
	Mandis     []mandi.Market `json:"mandis"`
	MandiCount int            `json:"mandiCount"`
	Source     string         `json:"source"`
	Scenario   string         `json:"scenario,omitempty"`
}
