package engine

import (
	"textguard/internal/core/detector"
	"textguard/internal/core/policy"
)

// combine folds per-detector results under rules.Combine. Timed out
// detectors carry a zero metric so they never move the verdict
func combine(rules policy.Rules, results []DetectorResult, n int) Result {
	var (
		metric  float64
		reasons []detector.Reason
	)
	for _, r := range results {
		switch rules.Combine {
		case policy.CombineMax:
			metric = max(metric, r.Metric)
		case policy.CombineAny:
			if r.Reject {
				metric++
			}
		default:
			metric += r.Metric
		}
		reasons = append(reasons, r.Reasons...)
	}
	return Result{
		Metric:    metric,
		Reasons:   detector.Compact(reasons, n),
		Reject:    metric > rules.Threshold,
		Detectors: results,
	}
}
