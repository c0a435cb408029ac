package insights

import (
	"sort"

	"customer-analytics/internal/config"
	"customer-analytics/internal/dataset"

	"github.com/shopspring/decimal"
)

type CategorySales struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Sum      decimal.Decimal `json:"sum"`
	Mean     decimal.Decimal `json:"mean"`
}

type CategorySatisfaction struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
}

type categoryGroup struct {
	name     string
	count    int
	sum      decimal.Decimal
	scoreSum int
}

// categoryGroups is sorted by category name.
type categoryGroups []*categoryGroup

// groupByCategory applies the missing-category policy and groups the joined
// rows. Every category aggregate is derived from the same grouping.
func groupByCategory(joined []dataset.JoinedRecord, opts Options) categoryGroups {
	index := make(map[string]*categoryGroup)
	for _, r := range joined {
		name := r.Category
		if name == "" {
			if opts.MissingCategory != config.MissingCategoryBucket {
				continue
			}
			name = opts.UnknownLabel
		}
		g, ok := index[name]
		if !ok {
			g = &categoryGroup{name: name, sum: decimal.Zero}
			index[name] = g
		}
		g.count++
		g.sum = g.sum.Add(r.Price)
		g.scoreSum += r.ReviewScore
	}

	groups := make(categoryGroups, 0, len(index))
	for _, g := range index {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

func (gs categoryGroups) sales() []CategorySales {
	out := make([]CategorySales, len(gs))
	for i, g := range gs {
		out[i] = CategorySales{
			Category: g.name,
			Count:    g.count,
			Sum:      g.sum,
			Mean:     g.sum.Div(decimal.NewFromInt(int64(g.count))),
		}
	}
	return out
}

func (gs categoryGroups) satisfaction() []CategorySatisfaction {
	out := make([]CategorySatisfaction, len(gs))
	for i, g := range gs {
		out[i] = CategorySatisfaction{
			Category: g.name,
			Count:    g.count,
			Mean:     float64(g.scoreSum) / float64(g.count),
		}
	}
	return out
}

// topBySales orders categories by total sales, descending, keeping category
// order among equal sums, and truncates to n.
func topBySales(gs categoryGroups, n int) []CategorySales {
	sales := gs.sales()
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].Sum.GreaterThan(sales[j].Sum)
	})
	if n > 0 && len(sales) > n {
		sales = sales[:n]
	}
	return sales
}
