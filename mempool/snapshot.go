package mempool

import (
	"encoding/json"
	"math"
	"time"

	"github.com/btcsuite/btcd/btcjson"

	"github.com/block/bitcoin-augur/sim"
)

const satPerBTC = 1e8

// Snapshot is a point-in-time census of the mempool: total unconfirmed
// weight grouped by fee-rate bucket, stamped with the chain tip height
// and the local observation time.
//
// Buckets maps bucket index (see sim.ToBucket) to weight units.
// Negative indices (fee rates below 1 sat/vB) are dropped when the
// snapshot is built and ignored by Histogram; Histogram counts indices
// above sim.BucketMax in the top bucket.
type Snapshot struct {
	Height  int64
	Time    time.Time
	Buckets map[int]int64
}

// New bucketizes txs into a Snapshot. Transactions with non-positive
// weight or a non-positive derived fee rate are dropped; rates below
// 1 sat/vB map to negative buckets and are dropped too.
func New(txs []Tx, height int64, t time.Time) *Snapshot {
	buckets := make(map[int]int64)
	for _, tx := range txs {
		if tx.Weight <= 0 {
			continue
		}
		r := tx.FeeRate()
		if r <= 0 {
			continue
		}
		if b := sim.ToBucket(r); b >= 0 {
			buckets[b] += tx.Weight
		}
	}
	return &Snapshot{Height: height, Time: t, Buckets: buckets}
}

// Empty returns a snapshot with no transactions.
func Empty(height int64, t time.Time) *Snapshot {
	return &Snapshot{Height: height, Time: t, Buckets: make(map[int]int64)}
}

// SnapshotFromRawMempool builds a Snapshot from the entries of a
// getrawmempool verbose result. Entry sizes are taken as virtual bytes
// and fees are converted from BTC to satoshis.
func SnapshotFromRawMempool(pool map[string]btcjson.GetRawMempoolVerboseResult, height int64, t time.Time) *Snapshot {
	txs := make([]Tx, 0, len(pool))
	for _, entry := range pool {
		txs = append(txs, Tx{
			Weight: int64(entry.Size) * WeightPerVByte,
			Fee:    int64(math.Round(entry.Fee * satPerBTC)),
		})
	}
	return New(txs, height, t)
}

// Histogram returns the snapshot as a dense vector in reverse bucket
// order: index 0 holds the weight at the highest fee rate, so that
// "mine highest fee first" is a left-to-right sweep.
func (s *Snapshot) Histogram() sim.Vector {
	h := sim.NewVector()
	for b, w := range s.Buckets {
		if b < 0 {
			continue
		}
		i := b
		if i > sim.BucketMax {
			i = sim.BucketMax
		}
		h[sim.BucketMax-i] += float64(w)
	}
	return h
}

// snapshotJSON is the portable form: block height, epoch-millisecond
// timestamp and the sparse bucket map.
type snapshotJSON struct {
	Height  int64         `json:"height"`
	Time    int64         `json:"time"`
	Buckets map[int]int64 `json:"buckets"`
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		Height:  s.Height,
		Time:    s.Time.UnixMilli(),
		Buckets: s.Buckets,
	})
}

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var v snapshotJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s.Height = v.Height
	s.Time = time.UnixMilli(v.Time).UTC()
	s.Buckets = v.Buckets
	if s.Buckets == nil {
		s.Buckets = make(map[int]int64)
	}
	return nil
}
