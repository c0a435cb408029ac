package report

import (
	"fmt"
	"io"
	"strings"

	"customer-analytics/internal/abtest"
	"customer-analytics/internal/insights"

	"github.com/dustin/go-humanize"
)

// WriteSummary prints the console summary. abErr replaces the test block when
// the A/B test could not run.
func WriteSummary(w io.Writer, ins *insights.Insights, ab *abtest.Result, abErr error) error {
	var b strings.Builder

	b.WriteString("=== Customer Behavior Analysis Summary ===\n")
	fmt.Fprintf(&b, "Total Customers: %s\n", humanize.Comma(int64(ins.Summary.TotalCustomers)))
	fmt.Fprintf(&b, "Total Orders: %s\n", humanize.Comma(int64(ins.Summary.TotalOrders)))
	fmt.Fprintf(&b, "Average Order Value: $%s\n", ins.Summary.AverageOrderValue.StringFixed(2))
	fmt.Fprintf(&b, "Average Satisfaction Score: %.2f/5.0\n", ins.Summary.AverageSatisfaction)
	fmt.Fprintf(&b, "Top Performing Category: %s\n", ins.Summary.TopCategory)

	b.WriteString("\n=== A/B Test Results ===\n")
	switch {
	case abErr != nil:
		fmt.Fprintf(&b, "A/B test could not be run: %v\n", abErr)
	case ab != nil:
		fmt.Fprintf(&b, "Test Metric: %s\n", ab.TestMetric)
		fmt.Fprintf(&b, "t-statistic: %.4f\n", ab.TStatistic)
		fmt.Fprintf(&b, "p-value: %.4f\n", ab.PValue)
		fmt.Fprintf(&b, "Significant Difference: %s\n", yesNo(ab.Significant))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
