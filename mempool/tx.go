/*
Package mempool contains the public data holders of the estimator: the
unconfirmed transaction and the bucketed mempool snapshot that callers
feed into estimate.Estimator.
*/
package mempool

// WeightPerVByte is Bitcoin's ratio of weight units to virtual bytes.
const WeightPerVByte = 4.0

// Tx is an unconfirmed transaction, reduced to the two fields the
// estimator cares about. Weight must be positive; Fee is in satoshis.
type Tx struct {
	Weight int64 `json:"weight"`
	Fee    int64 `json:"fee"`
}

// FeeRate returns the fee rate in satoshis per virtual byte.
func (t Tx) FeeRate() float64 {
	return float64(t.Fee) * WeightPerVByte / float64(t.Weight)
}
