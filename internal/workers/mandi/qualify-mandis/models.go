// internal/workers/mandi/qualify-mandis/models.go
package qualifymandis

import "mandi-workers/internal/mandi"

type Input struct {
	Mandis           []mandi.Market `json:"mandis"`
	ProductName      string         `json:"productName"`
	RequiredQuantity float64        `json:"requiredQuantity"`
}

type Output struct {
	QualifiedMandis []mandi.QualifiedMarket `json:"qualifiedMandis"`
	QualifiedCount  int                     `json:"qualifiedCount"`
	TotalMandis     int                     `json:"totalMandis"`
}
