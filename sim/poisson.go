package sim

import "math"

// ExpectedBlocks returns the largest k in [0, 4*target) such that at
// least k blocks will be found, with probability >= confidence, in the
// time normally taken to mine target blocks; i.e. the largest k with
// P[N >= k] >= confidence where N ~ Poisson(target). Returns 0 if no
// such k exists.
//
// The 4*target limit is a finite-precision sentinel; the tail above it
// is negligible for any realistic target and confidence.
func ExpectedBlocks(target, confidence float64) int {
	if target <= 0 {
		panic("sim: target must be positive")
	}
	// P[N >= k] is computed by peeling pmf terms off a running tail.
	// The pmf is evaluated in log space so large targets don't
	// underflow exp(-target).
	var (
		blocks int
		tail   = 1.0
		logT   = math.Log(target)
	)
	for k := 0; float64(k) < 4*target; k++ {
		if tail < confidence {
			break
		}
		blocks = k
		lg, _ := math.Lgamma(float64(k + 1))
		tail -= math.Exp(-target + float64(k)*logT - lg)
	}
	return blocks
}
