package insights

import (
	"errors"

	"customer-analytics/internal/config"
	"customer-analytics/internal/dataset"
	"customer-analytics/internal/processor"

	"github.com/shopspring/decimal"
)

// ErrEmptyJoinResult is returned when no row survives the join chain.
var ErrEmptyJoinResult = errors.New("joined table is empty after inner joins")

type Options struct {
	TopN int
	// MissingCategory is config.MissingCategoryExclude or config.MissingCategoryBucket.
	MissingCategory string
	UnknownLabel    string
}

func OptionsFromConfig(a config.Analysis) Options {
	return Options{
		TopN:            a.TopCategories,
		MissingCategory: a.MissingCategory,
		UnknownLabel:    a.UnknownCategoryLabel,
	}
}

type Summary struct {
	TotalCustomers      int             `json:"total_customers"`
	TotalOrders         int             `json:"total_orders"`
	AverageOrderValue   decimal.Decimal `json:"average_order_value"`
	AverageSatisfaction float64         `json:"average_satisfaction"`
	TopCategory         string          `json:"top_category"`
}

type Insights struct {
	Summary Summary      `json:"summary"`
	Monthly []MonthCount `json:"monthly_orders"`
	// Categories is the full grouping in category order.
	Categories    []CategorySales        `json:"categories"`
	TopCategories []CategorySales        `json:"top_categories"`
	Satisfaction  []CategorySatisfaction `json:"satisfaction"`
	Delivery      DeliveryStats          `json:"delivery"`

	topN int
}

// Generate aggregates the processed tables into the report metrics.
func Generate(tables *dataset.Tables, processed *processor.Result, opts Options) (*Insights, error) {
	if len(processed.Joined) == 0 {
		return nil, ErrEmptyJoinResult
	}

	groups := groupByCategory(processed.Joined, opts)
	top := topBySales(groups, opts.TopN)

	ins := &Insights{
		Monthly:       monthlyCounts(processed.Orders),
		Categories:    groups.sales(),
		TopCategories: top,
		Satisfaction:  groups.satisfaction(),
		Delivery:      deliveryStats(processed.Orders),
		topN:          opts.TopN,
	}

	ins.Summary = Summary{
		TotalCustomers:      distinctCustomers(tables.Customers),
		TotalOrders:         len(tables.Orders),
		AverageOrderValue:   meanPrice(tables.OrderItems),
		AverageSatisfaction: meanScore(tables.Reviews),
	}
	if len(top) > 0 {
		ins.Summary.TopCategory = top[0].Category
	}
	return ins, nil
}

// SatisfactionPanel returns the first N satisfaction entries in category
// order. They are not necessarily the top sales categories.
func (ins *Insights) SatisfactionPanel() []CategorySatisfaction {
	if ins.topN <= 0 || ins.topN >= len(ins.Satisfaction) {
		return ins.Satisfaction
	}
	return ins.Satisfaction[:ins.topN]
}

func distinctCustomers(customers []dataset.Customer) int {
	seen := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		seen[c.ID] = struct{}{}
	}
	return len(seen)
}

func meanPrice(items []dataset.OrderItem) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price)
	}
	return sum.Div(decimal.NewFromInt(int64(len(items))))
}

func meanScore(reviews []dataset.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Score
	}
	return float64(sum) / float64(len(reviews))
}
