package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/c9s/indicalc/pkg/types"
)

// ATR is the average true range smoothed with Wilder's RMA.
// The true range needs a previous close, so the first candle never has a value and
// the first valid ATR is emitted on the (Window+1)-th update.
type ATR struct {
	Window int
	Values NullSlice

	previousClose decimal.NullDecimal
	rma           *RMA
}

func (inc *ATR) Update(high, low, cloze decimal.Decimal) {
	if inc.Window <= 0 {
		panic("window must be greater than 0")
	}

	if inc.rma == nil {
		inc.rma = &RMA{Window: inc.Window}
	}

	if !inc.previousClose.Valid {
		inc.previousClose = decimal.NewNullDecimal(cloze)
		inc.Values.PushNull()
		return
	}

	// calculate true range
	trueRange := decimal.Max(
		high.Sub(low),
		high.Sub(inc.previousClose.Decimal).Abs(),
		low.Sub(inc.previousClose.Decimal).Abs(),
	)

	inc.previousClose = decimal.NewNullDecimal(cloze)

	// apply rolling moving average
	inc.rma.Update(trueRange)
	inc.Values = append(inc.Values, inc.rma.Last())
}

func (inc *ATR) PushCandle(c types.Candle) {
	inc.Update(c.High, c.Low, c.Close)
}

func (inc *ATR) Last() decimal.NullDecimal {
	return inc.Values.Last()
}

func (inc *ATR) Index(i int) decimal.NullDecimal {
	return inc.Values.Index(i)
}

func (inc *ATR) Length() int {
	return inc.Values.Length()
}

var _ Series = &ATR{}
var _ CandlePusher = &ATR{}
