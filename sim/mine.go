package sim

// MineBlocks simulates numBlocks rounds of greedy mining over a
// reverse-ordered weight histogram. Each round adds one block's worth of
// inflow, then mines up to maxBlockSize weight units starting from the
// highest fee rate (index 0).
//
// inflow is the measured weight arriving per 10 minutes. numBlocks is
// the Poisson block budget (see ExpectedBlocks) and meanBlocks the
// target it was derived from: when numBlocks blocks arrive in the time
// normally taken to mine meanBlocks, each inter-block interval carries
// meanBlocks/numBlocks of the measured 10-minute inflow.
//
// The return value is the bucket index of the lowest fee rate that was
// still fully mined, in normal (not reverse) bucket order. If the
// final histogram is empty, the cheapest rate sufficed and 0 is
// returned. If not even the highest-fee bucket was emptied, there is no
// estimate and the out-of-range sentinel len(mempool) is returned.
func MineBlocks(mempool, inflow Vector, numBlocks, meanBlocks int, maxBlockSize float64) int {
	if numBlocks <= 0 {
		return len(mempool)
	}

	perBlock := inflow.Copy()
	perBlock.Scale(float64(meanBlocks) / float64(numBlocks))

	w := mempool.Copy()
	for b := 0; b < numBlocks; b++ {
		w.Add(perBlock)
		mineBlock(w, maxBlockSize)
	}

	// The first nonzero entry marks the boundary between mined and
	// unmined weight.
	q := -1
	for i, x := range w {
		if x > 0 {
			q = i
			break
		}
	}
	switch {
	case q < 0:
		return 0
	case q == 0:
		return len(w)
	default:
		return len(w) - q
	}
}

// mineBlock deducts up to maxBlockSize weight units from w, fully
// emptying buckets left to right and partially emptying the last
// touched bucket.
func mineBlock(w Vector, maxBlockSize float64) {
	remaining := maxBlockSize
	for i := 0; i < len(w) && remaining > 0; i++ {
		if w[i] > remaining {
			w[i] -= remaining
			return
		}
		remaining -= w[i]
		w[i] = 0
	}
}
