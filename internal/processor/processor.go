package processor

import (
	"time"

	"customer-analytics/internal/dataset"
)

const secondsPerDay = 86400

// Result is the processed view of one snapshot of the source tables.
type Result struct {
	// Orders are in source order with parsed timestamps and delivery metrics.
	Orders []dataset.Order
	Joined []dataset.JoinedRecord
	// Issues holds recovered row-level problems, currently only
	// *dataset.MalformedTimestampError values.
	Issues []error
}

// Process parses timestamps, derives delivery metrics and builds the joined
// table. The input tables are not modified.
func Process(tables *dataset.Tables) *Result {
	res := &Result{Orders: make([]dataset.Order, 0, len(tables.Orders))}
	for _, raw := range tables.Orders {
		order, issues := parseOrder(raw)
		res.Issues = append(res.Issues, issues...)
		res.Orders = append(res.Orders, order)
	}
	res.Joined = join(res.Orders, tables)
	return res
}

func parseOrder(raw dataset.RawOrder) (dataset.Order, []error) {
	order := dataset.Order{
		ID:         raw.ID,
		CustomerID: raw.CustomerID,
		Status:     raw.Status,
	}

	var issues []error
	fields := []struct {
		column string
		value  string
		dst    **time.Time
	}{
		{dataset.ColPurchaseTimestamp, raw.PurchaseTimestamp, &order.PurchasedAt},
		{dataset.ColApprovedAt, raw.ApprovedAt, &order.ApprovedAt},
		{dataset.ColDeliveredCarrierDate, raw.DeliveredCarrierDate, &order.DeliveredCarrierAt},
		{dataset.ColDeliveredCustomerDate, raw.DeliveredCustomerDate, &order.DeliveredCustomerAt},
		{dataset.ColEstimatedDeliveryDate, raw.EstimatedDeliveryDate, &order.EstimatedDeliveryAt},
	}
	for _, f := range fields {
		ts, err := dataset.ParseTimestamp(f.value)
		if err != nil {
			issues = append(issues, &dataset.MalformedTimestampError{
				OrderID: raw.ID,
				Column:  f.column,
				Value:   f.value,
				Err:     err,
			})
			continue
		}
		*f.dst = ts
	}

	order.DeliveryDays = daysBetween(order.PurchasedAt, order.DeliveredCustomerAt)
	order.DelayDays = daysBetween(order.EstimatedDeliveryAt, order.DeliveredCustomerAt)
	return order, issues
}

// daysBetween returns to - from in fractional days, or nil if either is nil.
func daysBetween(from, to *time.Time) *float64 {
	if from == nil || to == nil {
		return nil
	}
	days := to.Sub(*from).Seconds() / secondsPerDay
	return &days
}
