package dataset

import (
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
)

// Dropped counts rows discarded while converting a frame to records.
type Dropped struct {
	MissingKey int
	BadPrice   int
	BadScore   int
	OutOfRange int
}

func (d Dropped) Total() int {
	return d.MissingKey + d.BadPrice + d.BadScore + d.OutOfRange
}

// IsMissing reports whether a cell holds no value. Frames loaded with type
// detection off render missing cells as "NaN".
func IsMissing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NaN", "NA", "<nil>", "NULL", "null":
		return true
	}
	return false
}

func cell(v string) string {
	if IsMissing(v) {
		return ""
	}
	return strings.TrimSpace(v)
}

func column(df dataframe.DataFrame, name string) []string {
	for _, n := range df.Names() {
		if strings.TrimSpace(n) == name {
			return df.Col(n).Records()
		}
	}
	return make([]string, df.Nrow())
}

func ParseOrders(df dataframe.DataFrame) ([]RawOrder, Dropped) {
	var dropped Dropped
	ids := column(df, ColOrderID)
	customers := column(df, ColCustomerID)
	statuses := column(df, ColOrderStatus)
	purchase := column(df, ColPurchaseTimestamp)
	approved := column(df, ColApprovedAt)
	carrier := column(df, ColDeliveredCarrierDate)
	delivered := column(df, ColDeliveredCustomerDate)
	estimated := column(df, ColEstimatedDeliveryDate)

	out := make([]RawOrder, 0, len(ids))
	for i := range ids {
		// Orders without a customer still count; they drop out at the join.
		id := cell(ids[i])
		if id == "" {
			dropped.MissingKey++
			continue
		}
		out = append(out, RawOrder{
			ID:                    id,
			CustomerID:            cell(customers[i]),
			Status:                cell(statuses[i]),
			PurchaseTimestamp:     cell(purchase[i]),
			ApprovedAt:            cell(approved[i]),
			DeliveredCarrierDate:  cell(carrier[i]),
			DeliveredCustomerDate: cell(delivered[i]),
			EstimatedDeliveryDate: cell(estimated[i]),
		})
	}
	return out, dropped
}

func ParseOrderItems(df dataframe.DataFrame) ([]OrderItem, Dropped) {
	var dropped Dropped
	orders := column(df, ColOrderID)
	products := column(df, ColProductID)
	prices := column(df, ColPrice)

	out := make([]OrderItem, 0, len(orders))
	for i := range orders {
		orderID, productID := cell(orders[i]), cell(products[i])
		if orderID == "" || productID == "" {
			dropped.MissingKey++
			continue
		}
		price, err := decimal.NewFromString(cell(prices[i]))
		if err != nil {
			dropped.BadPrice++
			continue
		}
		out = append(out, OrderItem{OrderID: orderID, ProductID: productID, Price: price})
	}
	return out, dropped
}

func ParseProducts(df dataframe.DataFrame) ([]Product, Dropped) {
	var dropped Dropped
	ids := column(df, ColProductID)
	categories := column(df, ColCategory)

	out := make([]Product, 0, len(ids))
	for i := range ids {
		id := cell(ids[i])
		if id == "" {
			dropped.MissingKey++
			continue
		}
		out = append(out, Product{ID: id, Category: cell(categories[i])})
	}
	return out, dropped
}

func ParseCustomers(df dataframe.DataFrame) ([]Customer, Dropped) {
	var dropped Dropped
	ids := column(df, ColCustomerID)

	out := make([]Customer, 0, len(ids))
	for i := range ids {
		id := cell(ids[i])
		if id == "" {
			dropped.MissingKey++
			continue
		}
		out = append(out, Customer{ID: id})
	}
	return out, dropped
}

func ParseReviews(df dataframe.DataFrame) ([]Review, Dropped) {
	var dropped Dropped
	orders := column(df, ColOrderID)
	scores := column(df, ColReviewScore)

	out := make([]Review, 0, len(orders))
	for i := range orders {
		orderID := cell(orders[i])
		if orderID == "" {
			dropped.MissingKey++
			continue
		}
		score, ok := parseScore(cell(scores[i]))
		if !ok {
			dropped.BadScore++
			continue
		}
		if score < 1 || score > 5 {
			dropped.OutOfRange++
			continue
		}
		out = append(out, Review{OrderID: orderID, Score: score})
	}
	return out, dropped
}

// parseScore accepts integral values written either as "4" or "4.0".
func parseScore(v string) (int, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
