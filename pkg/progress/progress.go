package progress

import (
	"io"
	"sync"

	"github.com/cheggaaa/pb/v3"

	"github.com/c9s/indicalc/pkg/types"
)

const barTemplate = `{{ string . "pair" | green }} {{ counters . }} {{ bar . }} {{ percent . }} {{ string . "state" }}`

type counts struct {
	current, total int64
}

// Tracker renders the candles computed by every worker against the candle count of all
// pairs on a single bar, labelled with the pair that reported last.
type Tracker struct {
	// Output is the terminal by default.
	Output io.Writer

	mu     sync.Mutex
	bar    *pb.ProgressBar
	counts map[types.Pair]counts
}

func NewTracker() *Tracker {
	return &Tracker{
		counts: make(map[types.Pair]counts),
	}
}

func (t *Tracker) sum() (current, total int64) {
	for _, c := range t.counts {
		current += c.current
		total += c.total
	}

	return current, total
}

// Start begins rendering.
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bar != nil {
		return nil
	}

	current, total := t.sum()
	bar := pb.New64(total)
	bar.SetTemplateString(barTemplate)
	bar.SetCurrent(current)
	if t.Output != nil {
		bar.SetWriter(t.Output)
	}

	if err := bar.Err(); err != nil {
		return err
	}

	t.bar = bar.Start()
	return nil
}

func (t *Tracker) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bar == nil {
		return nil
	}

	t.bar.Finish()
	err := t.bar.Err()
	t.bar = nil
	return err
}

// Update sets the processed and total candle counts of the pair. A restarted worker
// reports from zero again.
func (t *Tracker) Update(pair types.Pair, state types.PairState, current, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if total < current {
		total = current
	}

	t.counts[pair] = counts{current: current, total: total}

	if t.bar == nil {
		return
	}

	sumCurrent, sumTotal := t.sum()
	t.bar.SetTotal(sumTotal)
	t.bar.SetCurrent(sumCurrent)
	t.bar.Set("pair", pair.String())
	t.bar.Set("state", string(state))
}

// Current returns the processed count and total of the pair.
func (t *Tracker) Current(pair types.Pair) (current, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.counts[pair]
	return c.current, c.total
}

// Overall returns the processed count and total summed over every pair.
func (t *Tracker) Overall() (current, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sum()
}
