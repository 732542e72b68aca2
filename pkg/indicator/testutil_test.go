package indicator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/c9s/indicalc/pkg/types"
)

var testStartTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func buildCandles(highs, lows, closes []float64) (candles []types.Candle) {
	for i, c := range closes {
		openTime := testStartTime.Add(time.Duration(i) * time.Hour)
		candle := types.Candle{
			Asset:     "BTCUSDT",
			Interval:  types.Interval1h,
			OpenTime:  openTime,
			CloseTime: openTime.Add(time.Hour - time.Millisecond),
			Open:      decimal.NewFromFloat(c),
			High:      decimal.NewFromFloat(c),
			Low:       decimal.NewFromFloat(c),
			Close:     decimal.NewFromFloat(c),
		}

		if highs != nil {
			candle.High = decimal.NewFromFloat(highs[i])
		}

		if lows != nil {
			candle.Low = decimal.NewFromFloat(lows[i])
		}

		candles = append(candles, candle)
	}

	return candles
}

func nullFloat(v decimal.NullDecimal) *float64 {
	if !v.Valid {
		return nil
	}

	f := v.Decimal.InexactFloat64()
	return &f
}
