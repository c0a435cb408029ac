package processor

import (
	"customer-analytics/internal/dataset"
)

// join computes orders ⋈ items ⋈ products ⋈ customers ⋈ reviews with inner
// join semantics. Duplicate keys on either side multiply rows; output order
// follows orders, then items, then reviews.
func join(orders []dataset.Order, tables *dataset.Tables) []dataset.JoinedRecord {
	items := make(map[string][]dataset.OrderItem)
	for _, it := range tables.OrderItems {
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	products := make(map[string][]dataset.Product)
	for _, p := range tables.Products {
		products[p.ID] = append(products[p.ID], p)
	}
	customers := make(map[string]int)
	for _, c := range tables.Customers {
		customers[c.ID]++
	}
	reviews := make(map[string][]dataset.Review)
	for _, r := range tables.Reviews {
		reviews[r.OrderID] = append(reviews[r.OrderID], r)
	}

	var out []dataset.JoinedRecord
	for _, o := range orders {
		customerMatches := customers[o.CustomerID]
		if customerMatches == 0 {
			continue
		}
		orderReviews := reviews[o.ID]
		if len(orderReviews) == 0 {
			continue
		}
		for _, it := range items[o.ID] {
			for _, p := range products[it.ProductID] {
				for c := 0; c < customerMatches; c++ {
					for _, r := range orderReviews {
						out = append(out, dataset.JoinedRecord{
							OrderID:      o.ID,
							CustomerID:   o.CustomerID,
							ProductID:    it.ProductID,
							Category:     p.Category,
							Price:        it.Price,
							ReviewScore:  r.Score,
							PurchasedAt:  o.PurchasedAt,
							DeliveryDays: o.DeliveryDays,
							DelayDays:    o.DelayDays,
						})
					}
				}
			}
		}
	}
	return out
}
