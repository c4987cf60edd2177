package common

// CalculateVariance returns the population variance of data, 0 for no data.
func CalculateVariance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	var sum float64
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))

	var squaredDiffs float64
	for _, v := range data {
		squaredDiffs += (v - mean) * (v - mean)
	}
	return squaredDiffs / float64(len(data))
}
