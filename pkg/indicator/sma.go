package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/c9s/indicalc/pkg/types"
)

// SMA is the simple moving average of the close price.
// The first valid value is emitted on the Window-th update.
type SMA struct {
	Window int
	Values NullSlice

	rawValues []decimal.Decimal
	sum       decimal.Decimal
}

func (inc *SMA) Update(value decimal.Decimal) {
	if inc.Window <= 0 {
		panic("window must be greater than 0")
	}

	inc.rawValues = append(inc.rawValues, value)
	inc.sum = inc.sum.Add(value)

	if len(inc.rawValues) > inc.Window {
		inc.sum = inc.sum.Sub(inc.rawValues[0])
		inc.rawValues = inc.rawValues[1:]
	}

	if len(inc.rawValues) < inc.Window {
		inc.Values.PushNull()
		return
	}

	inc.Values.Push(inc.sum.Div(decimal.NewFromInt(int64(inc.Window))))
}

func (inc *SMA) PushCandle(c types.Candle) {
	inc.Update(c.Close)
}

func (inc *SMA) Last() decimal.NullDecimal {
	return inc.Values.Last()
}

func (inc *SMA) Index(i int) decimal.NullDecimal {
	return inc.Values.Index(i)
}

func (inc *SMA) Length() int {
	return inc.Values.Length()
}

var _ Series = &SMA{}
var _ CandlePusher = &SMA{}
