package stats

import (
	"github.com/montanaflynn/stats"
)

// TiTvSummary aggregates the finalized Ti/Tv ratios across all samples,
// the usual cohort-level quality readout.
type TiTvSummary struct {
	Mean   float64
	Median float64
	StdDev float64
}

// SummarizeTiTv computes cohort Ti/Tv summary statistics over finalized
// sample records. Samples whose ratio is zero (no transversion evidence)
// are included as-is. Returns a zero summary when there are no samples.
func SummarizeTiTv(samples []*SampleStats) TiTvSummary {
	if len(samples) == 0 {
		return TiTvSummary{}
	}

	ratios := make([]float64, len(samples))
	for i, s := range samples {
		ratios[i] = s.TiTv
	}

	mean, err := stats.Mean(ratios)
	if err != nil {
		return TiTvSummary{}
	}
	median, err := stats.Median(ratios)
	if err != nil {
		return TiTvSummary{}
	}
	stdDev, err := stats.StandardDeviation(ratios)
	if err != nil {
		return TiTvSummary{}
	}

	return TiTvSummary{Mean: mean, Median: median, StdDev: stdDev}
}
