package indicator

import (
	"fmt"

	"github.com/c9s/indicalc/pkg/types"
)

var DefaultMovingAveragePeriods = []int{5, 9, 12, 20, 26, 50, 75, 200}

var DefaultATRPeriods = []int{14}

// Config is the set of lookback periods computed per indicator kind.
type Config struct {
	EMAPeriods []int `json:"ema" yaml:"ema"`
	SMAPeriods []int `json:"sma" yaml:"sma"`
	ATRPeriods []int `json:"atr" yaml:"atr"`
}

func DefaultConfig() Config {
	return Config{
		EMAPeriods: append([]int(nil), DefaultMovingAveragePeriods...),
		SMAPeriods: append([]int(nil), DefaultMovingAveragePeriods...),
		ATRPeriods: append([]int(nil), DefaultATRPeriods...),
	}
}

func (c Config) Periods(kind types.IndicatorKind) []int {
	switch kind {
	case types.IndicatorKindEMA:
		return c.EMAPeriods
	case types.IndicatorKindSMA:
		return c.SMAPeriods
	case types.IndicatorKindATR:
		return c.ATRPeriods
	}

	return nil
}

func (c Config) Validate() error {
	for _, kind := range types.IndicatorKinds {
		seen := map[int]struct{}{}
		for _, p := range c.Periods(kind) {
			if p <= 0 {
				return fmt.Errorf("%s period must be greater than 0, got %d", kind, p)
			}

			if _, ok := seen[p]; ok {
				return fmt.Errorf("duplicated %s period %d", kind, p)
			}

			seen[p] = struct{}{}
		}
	}

	return nil
}

// Result carries the indicator values of one candle of the window.
type Result struct {
	Candle types.Candle

	EMA types.PeriodValues
	SMA types.PeriodValues
	ATR types.PeriodValues
}

func (r Result) Values(kind types.IndicatorKind) types.PeriodValues {
	switch kind {
	case types.IndicatorKindEMA:
		return r.EMA
	case types.IndicatorKindSMA:
		return r.SMA
	case types.IndicatorKindATR:
		return r.ATR
	}

	return nil
}

func newUpdater(kind types.IndicatorKind, window int) interface {
	CandlePusher
	Series
} {
	switch kind {
	case types.IndicatorKindEMA:
		return &EWMA{Window: window}
	case types.IndicatorKindSMA:
		return &SMA{Window: window}
	case types.IndicatorKindATR:
		return &ATR{Window: window}
	}

	panic(fmt.Errorf("%w: %d", types.ErrUnknownIndicatorKind, int(kind)))
}

// Compute calculates every configured series over the whole window, so each value is
// built from all the history the window holds. The window must be ordered by close time
// and unique by it, so the i-th value of each series belongs to the i-th candle.
func Compute(window []types.Candle, conf Config) []Result {
	results := make([]Result, len(window))
	for i, c := range window {
		results[i] = Result{
			Candle: c,
			EMA:    make(types.PeriodValues, len(conf.EMAPeriods)),
			SMA:    make(types.PeriodValues, len(conf.SMAPeriods)),
			ATR:    make(types.PeriodValues, len(conf.ATRPeriods)),
		}
	}

	for _, kind := range types.IndicatorKinds {
		for _, period := range conf.Periods(kind) {
			series := newUpdater(kind, period)
			for _, c := range window {
				series.PushCandle(c)
			}

			for i := range results {
				results[i].Values(kind)[period] = series.Index(i)
			}
		}
	}

	return results
}

// Select projects the results onto one indicator kind for persistence.
func Select(results []Result, kind types.IndicatorKind) []types.CandleIndicators {
	rows := make([]types.CandleIndicators, 0, len(results))
	for _, r := range results {
		rows = append(rows, types.CandleIndicators{
			Candle: r.Candle,
			Values: r.Values(kind),
		})
	}

	return rows
}
