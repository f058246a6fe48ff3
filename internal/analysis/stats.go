package analysis

import (
	"math"
)

// Max returns the largest finite value, or NaN when there is none
func Max(values []float64) float64 {
	max := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// PearsonCorrelation returns the Pearson coefficient of x and y, or NaN when
// it is undefined (mismatched lengths, fewer than two points, zero variance)
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}

	n := float64(len(x))

	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0
	sumY2 := 0.0

	for i := 0; i < len(x); i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))

	if denominator == 0 {
		return math.NaN()
	}

	return numerator / denominator
}

// Interpret labels a correlation coefficient
func Interpret(corr float64) string {
	switch {
	case math.IsNaN(corr):
		return "Undefined"
	case corr > 0.7:
		return "Strong positive"
	case corr < -0.7:
		return "Strong negative"
	case corr > 0.3:
		return "Moderate positive"
	case corr < -0.3:
		return "Moderate negative"
	}
	return "Weak/None"
}
