package estimate

import (
	"strings"
	"testing"

	"github.com/block/bitcoin-augur/sim"
	"github.com/block/bitcoin-augur/testutil"
)

func testResult() *Result {
	return newResult(t0,
		[]float64{3, 6, 9.4},
		[]float64{0.5, 0.95},
		[][]float64{
			{20.5, 45.25},
			{10, sim.MaxFeeRate}, // at the ceiling: reported absent
			{1, 2},
		})
}

func TestResultLookups(t *testing.T) {
	r := testResult()

	fee, ok := r.FeeRate(3, 0.95)
	if !ok {
		t.Fatal("missing entry (3, 0.95)")
	}
	if err := testutil.CheckEqual(fee, 45.25); err != nil {
		t.Error(err)
	}
	if _, ok := r.FeeRate(6, 0.95); ok {
		t.Error("entry at MaxFeeRate should be absent")
	}
	if _, ok := r.FeeRate(7, 0.5); ok {
		t.Error("unknown target should not be ok")
	}

	// Fractional targets round to the nearest integer row.
	if _, ok := r.Entries(9); !ok {
		t.Error("target 9.4 should be tabulated as 9")
	}

	row, ok := r.Entries(6)
	if !ok {
		t.Fatal("missing row for target 6")
	}
	if err := testutil.CheckEqual(row, map[float64]float64{0.5: 10}); err != nil {
		t.Error(err)
	}
	// The returned row is a copy.
	row[0.5] = 99
	if fee, _ := r.FeeRate(6, 0.5); fee != 10 {
		t.Error("Entries should not alias the table")
	}

	if err := testutil.CheckEqual(r.Targets(), []int{3, 6, 9}); err != nil {
		t.Error(err)
	}
	if err := testutil.CheckEqual(r.ConfidenceLevels(), []float64{0.5, 0.95}); err != nil {
		t.Error(err)
	}
}

func TestNearestTarget(t *testing.T) {
	r := testResult()

	ref := []struct{ query, want int }{
		{1, 3},
		{3, 3},
		{5, 6}, // |6-5| < |3-5|
		{100, 9},
	}
	for _, c := range ref {
		got, ok := r.NearestTarget(c.query)
		if !ok {
			t.Fatalf("NearestTarget(%d) not ok", c.query)
		}
		if err := testutil.CheckEqual(got, c.want); err != nil {
			t.Errorf("NearestTarget(%d): %v", c.query, err)
		}
	}

	// Ties go to the smaller target: 3 and 9 are equidistant from 6,
	// but 6 itself wins; remove it first.
	r2 := newResult(t0, []float64{3, 9}, []float64{0.5}, [][]float64{{1}, {1}})
	got, _ := r2.NearestTarget(6)
	if err := testutil.CheckEqual(got, 3); err != nil {
		t.Error(err)
	}
}

func TestResultString(t *testing.T) {
	s := testResult().String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if err := testutil.CheckEqual(len(lines), 4); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(lines[0], "target") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(s, "45.2500") {
		t.Errorf("missing formatted fee in:\n%s", s)
	}
	if !strings.Contains(lines[2], "-") {
		t.Errorf("missing '-' for absent entry in: %q", lines[2])
	}
}
