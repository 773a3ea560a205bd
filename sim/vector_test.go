package sim

import (
	"testing"

	"github.com/block/bitcoin-augur/testutil"
)

func TestVector(t *testing.T) {
	v := Vector{1, 2, 3}
	u := v.Copy()
	u.Add(Vector{10, 10, 10})
	u.Scale(2)
	if err := testutil.CheckEqual(u, Vector{22, 24, 26}); err != nil {
		t.Error(err)
	}
	if err := testutil.CheckEqual(v, Vector{1, 2, 3}); err != nil {
		t.Error(err)
	}
	if err := testutil.CheckEqual(u.Sum(), float64(72)); err != nil {
		t.Error(err)
	}
	if err := testutil.CheckEqual(len(NewVector()), BucketCount); err != nil {
		t.Error(err)
	}
}
