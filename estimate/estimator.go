package estimate

import (
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"time"

	"github.com/rcrowley/go-metrics"

	"github.com/block/bitcoin-augur/mempool"
	"github.com/block/bitcoin-augur/sim"
)

// MinTarget is the lowest block target accepted by CalculateForTarget.
const MinTarget = 3

// ConfigError is returned when an Estimator is constructed with an
// invalid configuration.
type ConfigError struct {
	Field string
	Msg   string
}

func (err ConfigError) Error() string {
	return fmt.Sprintf("estimate config: %s %s", err.Field, err.Msg)
}

// Estimator turns an ordered series of mempool snapshots into a fee
// estimate table. Its configuration is fixed at construction, so a
// single Estimator is safe for concurrent Calculate calls.
type Estimator struct {
	cfg    Config
	budget [][]int // blocks to mine, per (target, confidence)
	timer  metrics.Timer
	logger *log.Logger
}

// New validates cfg and precomputes the Poisson block budget for the
// configured targets and confidence levels.
func New(cfg Config) (*Estimator, error) {
	if len(cfg.Confidence) == 0 {
		return nil, ConfigError{"confidence", "must not be empty"}
	}
	for _, p := range cfg.Confidence {
		if p < 0 || p > 1 {
			return nil, ConfigError{"confidence", fmt.Sprintf("level %v outside [0, 1]", p)}
		}
	}
	if len(cfg.Targets) == 0 {
		return nil, ConfigError{"targets", "must not be empty"}
	}
	for _, t := range cfg.Targets {
		if t <= 0 {
			return nil, ConfigError{"targets", fmt.Sprintf("target %v must be positive", t)}
		}
	}
	if cfg.ShortWindow <= 0 {
		return nil, ConfigError{"shortwindow", "must be positive"}
	}
	if cfg.LongWindow <= 0 {
		return nil, ConfigError{"longwindow", "must be positive"}
	}
	if cfg.MaxBlockSize <= 0 {
		return nil, ConfigError{"maxblocksize", "must be positive"}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Estimator{
		cfg:    cfg,
		budget: blockBudget(cfg.Targets, cfg.Confidence),
		timer:  metrics.GetOrRegisterTimer("augur.calc", nil),
		logger: logger,
	}, nil
}

// Reconfigure returns a new Estimator with the non-zero fields of cfg
// replacing the current configuration.
func (e *Estimator) Reconfigure(cfg Config) (*Estimator, error) {
	merged := e.cfg
	if cfg.Confidence != nil {
		merged.Confidence = cfg.Confidence
	}
	if cfg.Targets != nil {
		merged.Targets = cfg.Targets
	}
	if cfg.ShortWindow != 0 {
		merged.ShortWindow = cfg.ShortWindow
	}
	if cfg.LongWindow != 0 {
		merged.LongWindow = cfg.LongWindow
	}
	if cfg.MaxBlockSize != 0 {
		merged.MaxBlockSize = cfg.MaxBlockSize
	}
	if cfg.Logger != nil {
		merged.Logger = cfg.Logger
	}
	return New(merged)
}

func blockBudget(targets, confidence []float64) [][]int {
	budget := make([][]int, len(targets))
	for i, t := range targets {
		budget[i] = make([]int, len(confidence))
		for j, p := range confidence {
			budget[i][j] = sim.ExpectedBlocks(t, p)
		}
	}
	return budget
}

// Calculate produces the fee estimate table for the configured targets
// and confidence levels. snapshots may arrive in any order; the result
// is stamped with the latest snapshot's timestamp. Degenerate input
// (no snapshots, or no measurable arrival rate) yields an empty table.
func (e *Estimator) Calculate(snapshots []*mempool.Snapshot) (*Result, error) {
	return e.calculate(snapshots, e.cfg.Targets, e.budget)
}

// CalculateForTarget is Calculate for a single custom block target,
// which must be at least MinTarget.
func (e *Estimator) CalculateForTarget(snapshots []*mempool.Snapshot, target float64) (*Result, error) {
	if target < MinTarget {
		return nil, fmt.Errorf("estimate: target %v below minimum %d", target, MinTarget)
	}
	targets := []float64{target}
	return e.calculate(snapshots, targets, blockBudget(targets, e.cfg.Confidence))
}

func (e *Estimator) calculate(snapshots []*mempool.Snapshot, targets []float64, budget [][]int) (*Result, error) {
	start := time.Now()
	defer e.timer.UpdateSince(start)

	if len(snapshots) == 0 {
		return emptyResult(time.Now()), nil
	}

	snaps := make([]snapshot, len(snapshots))
	for i, s := range snapshots {
		snaps[i] = snapshot{height: s.Height, time: s.Time, hist: s.Histogram()}
	}
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].time.Before(snaps[j].time)
	})
	latest := snaps[len(snaps)-1]

	shortWindow := time.Duration(e.cfg.ShortWindow) * time.Second
	longWindow := time.Duration(e.cfg.LongWindow) * time.Second
	shortInflow, shortSpan := inflowRate(snaps, shortWindow)
	longInflow, longSpan := inflowRate(snaps, longWindow)
	if longSpan == 0 {
		// No block height was sampled twice, so there is no arrival
		// rate to simulate against.
		e.logger.Println("[DEBUG] No sampling span; returning empty table.")
		return emptyResult(latest.time), nil
	}
	e.logger.Printf("[DEBUG] Inflow spans: short %v, long %v.", shortSpan, longSpan)

	// Half the short-window inflow is added to the latest histogram as
	// a margin against an undersampled latest state.
	buffer := latest.hist.Copy()
	margin := shortInflow.Copy()
	margin.Scale(0.5)
	buffer.Add(margin)

	fees := make([][]float64, len(targets))
	for i, target := range targets {
		meanBlocks := int(target)
		fees[i] = make([]float64, len(e.cfg.Confidence))
		for j := range e.cfg.Confidence {
			short := simIndex(buffer, shortInflow, budget[i][j], meanBlocks, e.cfg.MaxBlockSize)
			long := simIndex(buffer, longInflow, budget[i][j], meanBlocks, e.cfg.MaxBlockSize)
			fees[i][j] = math.Exp(blend(short, long, target) / 100)
		}
	}

	// Longer targets must not demand higher fees than shorter ones;
	// scan each confidence column in the given target order.
	for j := range e.cfg.Confidence {
		prev := math.Inf(1)
		for i := range targets {
			if fees[i][j] > prev {
				fees[i][j] = prev
			}
			prev = fees[i][j]
		}
	}

	return newResult(latest.time, targets, e.cfg.Confidence, fees), nil
}

// simIndex runs the mining simulation and converts the "no estimate"
// sentinel to bucket index 0, so that a missing horizon contributes
// the lowest fee rate to the blend rather than propagating.
func simIndex(buffer, inflow sim.Vector, numBlocks, meanBlocks int, maxBlockSize float64) float64 {
	idx := sim.MineBlocks(buffer, inflow, numBlocks, meanBlocks, maxBlockSize)
	if idx > sim.BucketMax {
		return 0
	}
	return float64(idx)
}

// blend mixes the short- and long-horizon bucket indices. The long
// horizon's share grows quadratically with the target and dominates
// exactly at one day's worth of blocks (144).
func blend(short, long, target float64) float64 {
	w := 1 - (1-target/144)*(1-target/144)
	if w < 0 {
		w = 0
	} else if w > 1 {
		w = 1
	}
	return short*(1-w) + long*w
}
