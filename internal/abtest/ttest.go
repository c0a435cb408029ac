package abtest

import (
	"errors"
	"math"

	"customer-analytics/internal/config"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var errTooFewObservations = errors.New("t-test needs at least two observations per group")

// TTest runs an independent two-sample t-test of a against b and returns the
// t statistic, the two-tailed p-value and the degrees of freedom. variance is
// config.VarianceWelch or config.VariancePooled. A zero standard error yields
// NaN for t and p.
func TTest(a, b []float64, variance string) (t, p, df float64, err error) {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return math.NaN(), math.NaN(), math.NaN(), errTooFewObservations
	}

	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)

	var se float64
	switch variance {
	case config.VariancePooled:
		df = n1 + n2 - 2
		pooled := ((n1-1)*v1 + (n2-1)*v2) / df
		se = math.Sqrt(pooled * (1/n1 + 1/n2))
	default:
		s1, s2 := v1/n1, v2/n2
		se = math.Sqrt(s1 + s2)
		df = (s1 + s2) * (s1 + s2) / (s1*s1/(n1-1) + s2*s2/(n2-1))
	}

	if se == 0 || math.IsNaN(se) {
		return math.NaN(), math.NaN(), df, nil
	}

	t = (m1 - m2) / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(t))
	return t, p, df, nil
}
