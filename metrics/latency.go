package metrics

import "sort"

// LatencySummary condenses per-operation latencies from one run.
type LatencySummary struct {
	P50Ns     float64 `json:"p50_ns"`
	P90Ns     float64 `json:"p90_ns"`
	P99Ns     float64 `json:"p99_ns"`
	MeanNs    float64 `json:"mean_ns"`
	OpsPerSec float64 `json:"ops_per_sec"`
	Samples   int     `json:"samples"`
}

// SummarizeLatency computes p50/p90/p99, the mean, and throughput from raw
// nanosecond samples. Zero samples yield a zero summary.
func SummarizeLatency(ns []int64) LatencySummary {
	if len(ns) == 0 {
		return LatencySummary{}
	}
	sorted := make([]int64, len(ns))
	copy(sorted, ns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	for _, v := range sorted {
		sum += v
	}
	mean := float64(sum) / float64(len(sorted))

	s := LatencySummary{
		P50Ns:   percentile(sorted, 50),
		P90Ns:   percentile(sorted, 90),
		P99Ns:   percentile(sorted, 99),
		MeanNs:  mean,
		Samples: len(sorted),
	}
	if mean > 0 {
		s.OpsPerSec = 1e9 / mean
	}
	return s
}

// percentile interpolates linearly between closest ranks, matching the
// numpy default.
func percentile(sorted []int64, p float64) float64 {
	if len(sorted) == 1 {
		return float64(sorted[0])
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
