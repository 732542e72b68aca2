package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/indicalc/pkg/types"
)

func TestTracker_Update(t *testing.T) {
	tracker := NewTracker()
	pair := types.Pair{Asset: "BTCUSDT", Interval: types.Interval1h}

	current, total := tracker.Current(pair)
	assert.Zero(t, current)
	assert.Zero(t, total)

	tracker.Update(pair, types.PairStateSleeping, 100, 1000)
	current, total = tracker.Current(pair)
	assert.Equal(t, int64(100), current)
	assert.Equal(t, int64(1000), total)

	// the count may lag behind freshly ingested candles
	tracker.Update(pair, types.PairStateDrained, 1200, 1000)
	current, total = tracker.Current(pair)
	assert.Equal(t, int64(1200), current)
	assert.Equal(t, int64(1200), total)

	assert.NoError(t, tracker.Stop())
}

func TestTracker_RendersAllPairs(t *testing.T) {
	var out bytes.Buffer
	tracker := NewTracker()
	tracker.Output = &out

	btc := types.Pair{Asset: "BTCUSDT", Interval: types.Interval1h}
	eth := types.Pair{Asset: "ETHUSDT", Interval: types.Interval4h}

	tracker.Update(btc, types.PairStateSleeping, 10, 100)
	require.NoError(t, tracker.Start())
	tracker.Update(eth, types.PairStateDrained, 50, 50)

	current, total := tracker.Overall()
	assert.Equal(t, int64(60), current)
	assert.Equal(t, int64(150), total)

	require.NoError(t, tracker.Stop())
	assert.Contains(t, out.String(), "ETHUSDT@4h")
	assert.NoError(t, tracker.Stop(), "stopping twice is fine")
}
