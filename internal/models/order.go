// internal/models/order.go
package models

const (
	OrderStatusConfirmed = "confirmed"
)

// OrderMandi is the market an order was placed with.
type OrderMandi struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type MandiOrder struct {
	ID                string     `json:"id"`
	RequestID         string     `json:"requestId"`
	RetailerID        string     `json:"retailerId"`
	ProductName       string     `json:"product"`
	Quantity          float64    `json:"quantity"`
	Mandi             OrderMandi `json:"mandi"`
	PricePerKg        float64    `json:"pricePerKg"`
	TotalCost         float64    `json:"totalCost"`
	Profit            float64    `json:"profit"`
	Distance          float64    `json:"distance"`
	ShelfLife         int        `json:"shelfLife"`
	DeliveryTimeHours int        `json:"deliveryTimeHours"`
	Scenario          string     `json:"scenario,omitempty"`
	Status            string     `json:"status"`
	OrderDate         string     `json:"orderDate"` // RFC3339
}

type Retailer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
