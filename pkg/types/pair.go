package types

import (
	"fmt"
	"time"
)

// Pair is one (asset, timeframe) combination, the unit of independent work.
type Pair struct {
	Asset    string   `json:"asset"`
	Interval Interval `json:"interval"`
}

func (p Pair) String() string {
	return fmt.Sprintf("%s@%s", p.Asset, p.Interval)
}

// Pairs builds the cross product of the assets and intervals, assets first.
func Pairs(assets []string, intervals []Interval) (pairs []Pair) {
	for _, asset := range assets {
		for _, interval := range intervals {
			pairs = append(pairs, Pair{Asset: asset, Interval: interval})
		}
	}

	return pairs
}

// PairState is the lifecycle state of a pair worker.
type PairState string

const (
	PairStateFetching  PairState = "fetching"
	PairStateMerging   PairState = "merging"
	PairStateComputing PairState = "computing"
	PairStateUpserting PairState = "upserting"
	PairStateSleeping  PairState = "sleeping"
	PairStateDrained   PairState = "drained"
	PairStateFailed    PairState = "failed"
)

// PairStatus is the observable progress of a pair worker.
type PairStatus struct {
	Pair       Pair      `json:"pair"`
	RunID      string    `json:"runID,omitempty"`
	State      PairState `json:"state"`
	Checkpoint time.Time `json:"checkpoint"`
	LastClose  time.Time `json:"lastClose"`
	WindowSize int       `json:"windowSize"`
	Cycles     int64     `json:"cycles"`
	Restarts   int64     `json:"restarts"`
	LastError  string    `json:"lastError,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
