package window

import (
	"sort"
	"time"

	"github.com/c9s/indicalc/pkg/types"
)

// Window is the ordered set of candles of one pair, unique by close time.
// It is owned by a single worker and is not safe for concurrent use.
type Window struct {
	candles []types.Candle
}

func New() *Window {
	return &Window{}
}

func (w *Window) search(closeTime time.Time) int {
	return sort.Search(len(w.candles), func(i int) bool {
		return !w.candles[i].CloseTime.Before(closeTime)
	})
}

func (w *Window) insert(c types.Candle) {
	i := w.search(c.CloseTime)
	if i < len(w.candles) && w.candles[i].CloseTime.Equal(c.CloseTime) {
		w.candles[i] = c
		return
	}

	w.candles = append(w.candles, types.Candle{})
	copy(w.candles[i+1:], w.candles[i:])
	w.candles[i] = c
}

// Merge replaces the candles sharing a close time with the batch and inserts the rest.
// Merging the same batch again leaves the window unchanged.
func (w *Window) Merge(batch []types.Candle) {
	for _, c := range batch {
		w.insert(c)
	}
}

// EvictBefore drops the candles that closed strictly before the checkpoint.
func (w *Window) EvictBefore(checkpoint time.Time) int {
	i := w.search(checkpoint)
	if i == 0 {
		return 0
	}

	w.candles = append(w.candles[:0:0], w.candles[i:]...)
	return i
}

// Snapshot returns a copy of the ordered candles.
func (w *Window) Snapshot() []types.Candle {
	out := make([]types.Candle, len(w.candles))
	copy(out, w.candles)
	return out
}

func (w *Window) Len() int {
	return len(w.candles)
}

func (w *Window) Last() (types.Candle, bool) {
	if len(w.candles) == 0 {
		return types.Candle{}, false
	}

	return w.candles[len(w.candles)-1], true
}
