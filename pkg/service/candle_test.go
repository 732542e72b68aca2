package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/indicalc/pkg/types"
)

func Test_queryCandlesSQL(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := queryCandlesSQL("BTCUSDT", types.Interval1h, since, 1000)
	require.NoError(t, err)
	assert.Equal(t, "SELECT asset_name, `interval`, open_time, close_time, `open`, high, low, `close`, volume FROM candles WHERE (asset_name = ? AND `interval` = ?) AND close_time >= ? ORDER BY open_time ASC LIMIT 1000", sql)
	assert.Equal(t, []interface{}{"BTCUSDT", "1h", since}, args)

	sql, args, err = queryCandlesSQL("BTCUSDT", types.Interval1h, time.Time{}, 1000)
	require.NoError(t, err)
	assert.Equal(t, "SELECT asset_name, `interval`, open_time, close_time, `open`, high, low, `close`, volume FROM candles WHERE (asset_name = ? AND `interval` = ?) ORDER BY open_time ASC LIMIT 1000", sql)
	assert.Len(t, args, 2)
}

func TestCandleService(t *testing.T) {
	db, err := prepareDB(t)
	if err != nil {
		t.Fatal(err)
	}

	defer db.Close()

	ctx := context.Background()
	service := &CandleService{DB: db}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := hourlyCandles("BTCUSDT", from, 10)
	require.NoError(t, service.Insert(ctx, candles...))
	require.NoError(t, service.Insert(ctx, hourlyCandles("ETHUSDT", from, 3)...))

	count, err := service.CountCandles(ctx, "BTCUSDT", types.Interval1h)
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)

	t.Run("cold start reads from the beginning", func(t *testing.T) {
		got, err := service.QueryCandles(ctx, "BTCUSDT", types.Interval1h, time.Time{}, 4)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.True(t, got[0].CloseTime.Equal(candles[0].CloseTime))
		assert.True(t, got[3].CloseTime.Equal(candles[3].CloseTime))
		assert.Equal(t, "BTCUSDT", got[0].Asset)
		assert.Equal(t, types.Interval1h, got[0].Interval)
		assert.True(t, got[0].Close.Equal(candles[0].Close), "close %s", got[0].Close)
	})

	t.Run("since is inclusive", func(t *testing.T) {
		got, err := service.QueryCandles(ctx, "BTCUSDT", types.Interval1h, candles[7].CloseTime, 100)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.True(t, got[0].CloseTime.Equal(candles[7].CloseTime))
	})

	t.Run("other intervals are not mixed in", func(t *testing.T) {
		got, err := service.QueryCandles(ctx, "BTCUSDT", types.Interval4h, time.Time{}, 100)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
