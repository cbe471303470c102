// internal/workers/mandi/validate-purchase-request/models.go
package validatepurchaserequest

import "mandi-workers/internal/mandi"

type Input struct {
	RequestID        string          `json:"requestId,omitempty"`
	RetailerID       string          `json:"retailerId,omitempty"`
	ProductName      string          `json:"productName"`
	RequiredQuantity float64         `json:"requiredQuantity"`
	ResalePrice      float64         `json:"resalePrice,omitempty"`
	Requester        *mandi.GeoPoint `json:"requester,omitempty"`
	Mode             string          `json:"mode,omitempty"`
	Scenario         string          `json:"scenario,omitempty"`
}

// Output is the normalised request. Its fields become process variables
// read by the downstream workers.
type Output struct {
	IsValid          bool           `json:"isValid"`
	RequestID        string         `json:"requestId"`
	RetailerID       string         `json:"retailerId,omitempty"`
	ProductName      string         `json:"productName"`
	RequiredQuantity float64        `json:"requiredQuantity"`
	ResalePrice      float64        `json:"resalePrice"`
	Requester        mandi.GeoPoint `json:"requester"`
	Mode             mandi.RankMode `json:"mode"`
	Scenario         string         `json:"scenario,omitempty"`
}
