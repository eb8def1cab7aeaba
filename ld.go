package polyld

import "math"

// R2 returns the squared Pearson correlation between two dosage vectors.
// Only individuals called at both sites enter the sums (pairwise-complete
// observations); an individual missing at either site is excluded from the
// effective sample size for that pair alone.
//
// When the exclusion leaves one or both sites monomorphic the denominator is
// zero and the result is NaN. Callers compare the result against a maximum
// threshold, and NaN compares false, so a degenerate pair never causes a
// rejection. That behavior is relied upon.
func R2(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var m int
	var sumX, sumY, sumXY, sqSumX, sqSumY float64
	for i := 0; i < n; i++ {
		if a[i] == MissingDosage || b[i] == MissingDosage {
			continue
		}
		m++
		sumX += a[i]
		sumY += b[i]
		sumXY += a[i] * b[i]
		sqSumX += a[i] * a[i]
		sqSumY += b[i] * b[i]
	}

	fm := float64(m)
	r := (fm*sumXY - sumX*sumY) / math.Sqrt((fm*sqSumX-sumX*sumX)*(fm*sqSumY-sumY*sumY))

	return r * r
}
