package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/indicalc/pkg/service"
	"github.com/c9s/indicalc/pkg/supervisor"
	"github.com/c9s/indicalc/pkg/types"
)

func TestLoadAndRenderStatuses(t *testing.T) {
	persistence := &service.JsonPersistenceService{Directory: t.TempDir()}
	btc := types.Pair{Asset: "BTCUSDT", Interval: types.Interval1h}
	eth := types.Pair{Asset: "ETHUSDT", Interval: types.Interval1h}

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	saved := types.PairStatus{
		Pair:       btc,
		State:      types.PairStateSleeping,
		Checkpoint: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		WindowSize: 1000,
		Cycles:     42,
		UpdatedAt:  now.Add(-3 * time.Second),
	}
	require.NoError(t, supervisor.StatusStore(persistence, btc).Save(&saved))

	statuses, err := loadStatuses(persistence, []types.Pair{btc, eth})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, types.PairStateSleeping, statuses[0].State)
	assert.Equal(t, eth, statuses[1].Pair, "pairs without a status are still listed")

	var buf bytes.Buffer
	renderStatuses(&buf, statuses, now)

	out := buf.String()
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "2024-03-01 00:00:00")
	assert.Contains(t, out, "3s ago")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "2 pairs, no failures")

	buf.Reset()
	statuses[1].State = types.PairStateFailed
	renderStatuses(&buf, statuses, now)
	assert.Contains(t, buf.String(), "1 of 2 pairs failed")
}
