// internal/models/notification.go
package models

const (
	NotificationTypeNewOrder = "new_order"
)

// MandiNotification is an inbox entry shown to a mandi operator.
type MandiNotification struct {
	ID           string  `json:"id"`
	MandiID      string  `json:"mandiId"`
	OrderID      string  `json:"orderId,omitempty"`
	Type         string  `json:"type"`
	Message      string  `json:"message"`
	RetailerName string  `json:"retailerName,omitempty"`
	ProductName  string  `json:"product"`
	Quantity     float64 `json:"quantity"`
	TotalCost    float64 `json:"totalCost"`
	Distance     float64 `json:"distance"`
	Read         bool    `json:"read"`
	CreatedAt    string  `json:"createdAt"` // RFC3339
}

type NotificationTemplate struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	SMS     string `json:"sms,omitempty"`
}
