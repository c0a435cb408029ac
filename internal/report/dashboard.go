package report

import (
	"io"
	"os"

	"customer-analytics/internal/insights"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const dashboardTitle = "Customer Behavior Dashboard"

// WriteDashboard renders the four dashboard panels as a single HTML page.
func WriteDashboard(w io.Writer, ins *insights.Insights) error {
	page := components.NewPage()
	page.PageTitle = dashboardTitle
	page.AddCharts(
		monthlyChart(ins.Monthly),
		salesChart(ins.TopCategories),
		orderValueChart(ins.TopCategories),
		satisfactionChart(ins.SatisfactionPanel()),
	)
	return page.Render(w)
}

// SaveDashboard writes the dashboard to path.
func SaveDashboard(path string, ins *insights.Insights) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDashboard(f, ins); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func title(text string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{Title: text})
}

func monthlyChart(monthly []insights.MonthCount) *charts.Line {
	labels := make([]string, len(monthly))
	data := make([]opts.LineData, len(monthly))
	for i, m := range monthly {
		labels[i] = m.Label()
		data[i] = opts.LineData{Value: m.Count}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(title("Orders per Month"))
	line.SetXAxis(labels).AddSeries("Orders", data)
	return line
}

func salesChart(top []insights.CategorySales) *charts.Bar {
	labels := make([]string, len(top))
	data := make([]opts.BarData, len(top))
	for i, c := range top {
		labels[i] = c.Category
		data[i] = opts.BarData{Value: c.Sum.Round(2).InexactFloat64()}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(title("Top Categories by Total Sales"))
	bar.SetXAxis(labels).AddSeries("Total sales", data)
	return bar
}

func orderValueChart(top []insights.CategorySales) *charts.Bar {
	labels := make([]string, len(top))
	data := make([]opts.BarData, len(top))
	for i, c := range top {
		labels[i] = c.Category
		data[i] = opts.BarData{Value: c.Mean.Round(2).InexactFloat64()}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(title("Average Order Value by Category"))
	bar.SetXAxis(labels).AddSeries("Average order value", data)
	return bar
}

func satisfactionChart(panel []insights.CategorySatisfaction) *charts.Bar {
	labels := make([]string, len(panel))
	data := make([]opts.BarData, len(panel))
	for i, c := range panel {
		labels[i] = c.Category
		data[i] = opts.BarData{Value: c.Mean}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(title("Customer Satisfaction by Category"))
	bar.SetXAxis(labels).AddSeries("Mean review score", data)
	return bar
}
