package report

import (
	"fmt"
	"os"

	"customer-analytics/internal/abtest"
	"customer-analytics/internal/insights"

	"github.com/dustin/go-humanize"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// BuildPDF renders the summary and the top category table as a PDF document.
func BuildPDF(ins *insights.Insights, ab *abtest.Result, abErr error) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, "Customer Behavior Analysis", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	summary := [][2]string{
		{"Total Customers", humanize.Comma(int64(ins.Summary.TotalCustomers))},
		{"Total Orders", humanize.Comma(int64(ins.Summary.TotalOrders))},
		{"Average Order Value", "$" + ins.Summary.AverageOrderValue.StringFixed(2)},
		{"Average Satisfaction Score", fmt.Sprintf("%.2f/5.0", ins.Summary.AverageSatisfaction)},
		{"Top Performing Category", ins.Summary.TopCategory},
	}
	for _, kv := range summary {
		m.AddRow(7,
			text.NewCol(6, kv[0], props.Text{Size: 10, Style: fontstyle.Bold}),
			text.NewCol(6, kv[1], props.Text{Size: 10}),
		)
	}

	m.AddRow(15,
		text.NewCol(12, "A/B Test Results", props.Text{Size: 14, Style: fontstyle.Bold, Top: 5}),
	)
	if abErr != nil {
		m.AddRow(10, text.NewCol(12, "A/B test could not be run: "+abErr.Error(), props.Text{Size: 10}))
	} else if ab != nil {
		for _, kv := range [][2]string{
			{"Test Metric", ab.TestMetric},
			{"t-statistic", fmt.Sprintf("%.4f", ab.TStatistic)},
			{"p-value", fmt.Sprintf("%.4f", ab.PValue)},
			{"Significant Difference", yesNo(ab.Significant)},
			{"Groups (A / B)", fmt.Sprintf("%d / %d", ab.GroupASize, ab.GroupBSize)},
		} {
			m.AddRow(7,
				text.NewCol(6, kv[0], props.Text{Size: 10, Style: fontstyle.Bold}),
				text.NewCol(6, kv[1], props.Text{Size: 10}),
			)
		}
	}

	m.AddRow(15,
		text.NewCol(12, "Top Categories by Total Sales", props.Text{Size: 14, Style: fontstyle.Bold, Top: 5}),
	)
	m.AddRow(8,
		text.NewCol(6, "Category", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Items", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Average", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, c := range ins.TopCategories {
		m.AddRow(6,
			text.NewCol(6, c.Category, props.Text{Size: 9}),
			text.NewCol(2, humanize.Comma(int64(c.Count)), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, c.Sum.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, c.Mean.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	d := ins.Delivery
	m.AddRow(15,
		text.NewCol(12, "Delivery", props.Text{Size: 14, Style: fontstyle.Bold, Top: 5}),
	)
	m.AddRow(20,
		col.New(12).Add(
			text.New(fmt.Sprintf("Delivered orders: %s", humanize.Comma(int64(d.Delivered))), props.Text{Size: 9}),
			text.New(fmt.Sprintf("Delivery days: mean %.1f, median %.1f, p95 %.1f, max %.1f", d.MeanDays, d.P50Days, d.P95Days, d.MaxDays), props.Text{Size: 9, Top: 5}),
			text.New(fmt.Sprintf("Late deliveries: %.1f%%", d.LateShare*100), props.Text{Size: 9, Top: 10}),
		),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func SavePDF(path string, ins *insights.Insights, ab *abtest.Result, abErr error) error {
	data, err := BuildPDF(ins, ab, abErr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
