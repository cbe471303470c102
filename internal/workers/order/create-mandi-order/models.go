// internal/workers/order/create-mandi-order/models.go
package createmandiorder

import (
	"mandi-workers/internal/mandi"
	"mandi-workers/internal/models"
)

type Input struct {
	RequestID         string               `json:"requestId"`
	RetailerID        string               `json:"retailerId"`
	RetailerName      string               `json:"retailerName,omitempty"`
	ProductName       string               `json:"productName"`
	RequiredQuantity  float64              `json:"requiredQuantity"`
	SelectedMandi     *mandi.MarketMetrics `json:"selectedMandi"`
	DeliveryTimeHours int                  `json:"deliveryTimeHours,omitempty"`
	Scenario          string               `json:"scenario,omitempty"`
}

type Output struct {
	Order          models.MandiOrder `json:"order"`
	OrderID        string            `json:"orderId"`
	OrderStatus    string            `json:"orderStatus"`
	NotificationID string            `json:"notificationId"`
	CreatedAt      string            `json:"createdAt"` // ISO 8601
}
