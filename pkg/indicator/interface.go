package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/c9s/indicalc/pkg/types"
)

// CandlePusher is implemented by the updaters that derive their input from a whole candle.
type CandlePusher interface {
	PushCandle(c types.Candle)
}

// Series exposes the per-candle values of an updater.
type Series interface {
	Last() decimal.NullDecimal
	Index(i int) decimal.NullDecimal
	Length() int
}
