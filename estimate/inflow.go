/*
Package estimate derives fee-rate estimates from an ordered series of
mempool snapshots. The Estimator runs the sim package's mining
simulation under a Poisson block budget for every configured
(block target, confidence) pair, over a short and a long inflow
horizon, and blends the two into a single fee-estimate table.
*/
package estimate

import (
	"sort"
	"time"

	"github.com/block/bitcoin-augur/sim"
)

// Inflow is normalized to weight per 10 minutes, the mean inter-block
// interval.
const inflowInterval = 10 * time.Minute

// snapshot is the internal, densified form of a mempool.Snapshot.
type snapshot struct {
	height int64
	time   time.Time
	hist   sim.Vector
}

// inflowRate derives the expected new weight arriving per 10 minutes
// per bucket, from the snapshots within window of the latest one.
//
// Snapshots are grouped by block height, and only the first-to-last
// delta within each group counts: a new block removes weight, so deltas
// across a height change mix confirmations into the arrival signal,
// while intra-group dips (confirmed or evicted weight) are clamped to
// zero per bucket. The summed deltas are scaled from the total observed
// span to the 10-minute rate.
//
// The observed span is returned alongside the rate; a zero span means
// no group had two samples, so there is no arrival-rate signal at all.
func inflowRate(snaps []snapshot, window time.Duration) (sim.Vector, time.Duration) {
	rate := sim.NewVector()
	if len(snaps) == 0 {
		return rate, 0
	}

	// Callers pass time-sorted snapshots, but sort defensively; the
	// grouping below depends on it.
	sorted := make([]snapshot, len(snaps))
	copy(sorted, snaps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].time.Before(sorted[j].time)
	})

	cutoff := sorted[len(sorted)-1].time.Add(-window)

	type group struct{ first, last snapshot }
	groups := make(map[int64]*group)
	var heights []int64
	for _, s := range sorted {
		if s.time.Before(cutoff) {
			continue
		}
		g := groups[s.height]
		if g == nil {
			groups[s.height] = &group{first: s, last: s}
			heights = append(heights, s.height)
		} else {
			g.last = s
		}
	}

	var span time.Duration
	for _, h := range heights {
		g := groups[h]
		span += g.last.time.Sub(g.first.time)
		for i := range rate {
			if d := g.last.hist[i] - g.first.hist[i]; d > 0 {
				rate[i] += d
			}
		}
	}

	if span > 0 {
		rate.Scale(inflowInterval.Seconds() / span.Seconds())
	}
	return rate, span
}
