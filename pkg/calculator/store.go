package calculator

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks . CandleStore,IndicatorWriter

import (
	"context"
	"time"

	"github.com/c9s/indicalc/pkg/types"
)

// CandleStore reads the candles of a pair.
type CandleStore interface {
	QueryCandles(ctx context.Context, asset string, interval types.Interval, since time.Time, limit int) ([]types.Candle, error)
	CountCandles(ctx context.Context, asset string, interval types.Interval) (int64, error)
}

// IndicatorWriter merges computed rows into the indicator tables.
type IndicatorWriter interface {
	UpsertIndicators(ctx context.Context, kind types.IndicatorKind, rows []types.CandleIndicators) error
}

// ProgressReporter receives the processed candle count of a pair after each cycle.
type ProgressReporter interface {
	Update(pair types.Pair, state types.PairState, current, total int64)
}
