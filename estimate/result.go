package estimate

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/block/bitcoin-augur/sim"
)

// Result is the fee estimate table produced by a Calculate call:
// fee rates in sat/vB keyed by block target and confidence level,
// stamped with the latest input snapshot's timestamp.
//
// An entry is absent when its fee rate reaches the representable
// ceiling sim.MaxFeeRate, so callers can distinguish "no data" from a
// computed value. A horizon whose simulation finds no sufficient fee
// rate enters the blend as bucket 0 and does not by itself make the
// entry absent.
type Result struct {
	Time time.Time

	rows map[int]map[float64]float64
}

// newResult rounds targets to integers and drops entries at or above
// the representable fee-rate ceiling.
func newResult(t time.Time, targets, confidence []float64, fees [][]float64) *Result {
	rows := make(map[int]map[float64]float64)
	for i, target := range targets {
		row := make(map[float64]float64)
		for j, p := range confidence {
			if fees[i][j] < sim.MaxFeeRate {
				row[p] = fees[i][j]
			}
		}
		rows[int(math.Round(target))] = row
	}
	return &Result{Time: t, rows: rows}
}

func emptyResult(t time.Time) *Result {
	return &Result{Time: t, rows: make(map[int]map[float64]float64)}
}

// FeeRate returns the estimate for an exact (target, confidence) pair.
func (r *Result) FeeRate(target int, confidence float64) (float64, bool) {
	fee, ok := r.rows[target][confidence]
	return fee, ok
}

// Entries returns the confidence row for an exact target.
func (r *Result) Entries(target int) (map[float64]float64, bool) {
	row, ok := r.rows[target]
	if !ok {
		return nil, false
	}
	out := make(map[float64]float64, len(row))
	for p, fee := range row {
		out[p] = fee
	}
	return out, true
}

// NearestTarget returns the tabulated target closest to target, ties
// going to the smaller one.
func (r *Result) NearestTarget(target int) (int, bool) {
	best, bestDist := 0, math.MaxInt
	for _, t := range r.Targets() {
		d := t - target
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = t, d
		}
	}
	if bestDist == math.MaxInt {
		return 0, false
	}
	return best, true
}

// Targets returns the tabulated block targets in ascending order.
func (r *Result) Targets() []int {
	targets := make([]int, 0, len(r.rows))
	for t := range r.rows {
		targets = append(targets, t)
	}
	sort.Ints(targets)
	return targets
}

// ConfidenceLevels returns the ascending union of confidence levels
// present in the table.
func (r *Result) ConfidenceLevels() []float64 {
	set := make(map[float64]struct{})
	for _, row := range r.rows {
		for p := range row {
			set[p] = struct{}{}
		}
	}
	levels := make([]float64, 0, len(set))
	for p := range set {
		levels = append(levels, p)
	}
	sort.Float64s(levels)
	return levels
}

// String renders the table with targets as rows and confidence levels
// as columns, "-" marking absent entries.
func (r *Result) String() string {
	levels := r.ConfidenceLevels()
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s", "target")
	for _, p := range levels {
		fmt.Fprintf(&b, "%12.2f", p)
	}
	b.WriteString("\n")
	for _, t := range r.Targets() {
		fmt.Fprintf(&b, "%-8d", t)
		for _, p := range levels {
			if fee, ok := r.rows[t][p]; ok {
				fmt.Fprintf(&b, "%12.4f", fee)
			} else {
				fmt.Fprintf(&b, "%12s", "-")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
