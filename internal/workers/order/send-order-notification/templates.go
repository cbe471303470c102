// internal/workers/order/send-order-notification/templates.go
package sendordernotification

import (
	"strconv"
	"strings"
	"time"

	"mandi-workers/internal/mandi"
	"mandi-workers/internal/models"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

var templates = map[string]models.NotificationTemplate{
	TypeOrderConfirmed: {
		Type:    TypeOrderConfirmed,
		Subject: "Order confirmed: {{quantity}} kg {{product}} from {{mandiName}}",
		Body: "Hello {{retailerName}},\n\n" +
			"Your order {{orderId}} is confirmed.\n" +
			"Product: {{product}} ({{quantity}} kg at {{pricePerKg}}/kg)\n" +
			"Mandi: {{mandiName}}, {{mandiLocation}} ({{distance}} km away)\n" +
			"Total cost: {{totalCost}}\n" +
			"Expected profit: {{profit}}\n" +
			"Ordered on: {{orderDate}}\n" +
			"Delivery within {{deliveryTimeHours}} hours.",
		SMS: "Order {{orderId}} confirmed: {{quantity}} kg {{product}} from {{mandiName}} for {{totalCost}}. Delivery in {{deliveryTimeHours}}h.",
	},
}

func templateData(order models.MandiOrder, retailerName string) map[string]string {
	data := map[string]string{
		"orderId":           order.ID,
		"retailerName":      retailerName,
		"product":           order.ProductName,
		"quantity":          strconv.FormatFloat(order.Quantity, 'f', -1, 64),
		"pricePerKg":        mandi.FormatINR(order.PricePerKg),
		"mandiName":         order.Mandi.Name,
		"mandiLocation":     order.Mandi.Location,
		"distance":          strconv.FormatFloat(order.Distance, 'f', 1, 64),
		"totalCost":         mandi.FormatINR(order.TotalCost),
		"profit":            mandi.FormatINR(order.Profit),
		"deliveryTimeHours": strconv.Itoa(order.DeliveryTimeHours),
	}
	if t, err := time.Parse(time.RFC3339, order.OrderDate); err == nil {
		data["orderDate"] = mandi.FormatOrderDate(t.In(ist))
	}
	return data
}

// renderTemplate substitutes {{key}} placeholders and drops any left unresolved.
func renderTemplate(tmpl string, data map[string]string) string {
	result := tmpl
	for k, v := range data {
		result = strings.ReplaceAll(result, "{{"+k+"}}", v)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}
	return result
}
