package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/c9s/indicalc/pkg/types"
)

var one = decimal.NewFromInt(1)
var two = decimal.NewFromInt(2)

// EWMA is the exponential moving average of the close price, seeded with the
// simple average of the first Window closes.
// see https://www.investopedia.com/ask/answers/122314/what-exponential-moving-average-ema-formula-and-how-ema-calculated.asp
type EWMA struct {
	Window int
	Values NullSlice

	seed SMA
	last decimal.NullDecimal
}

func (inc *EWMA) multiplier() decimal.Decimal {
	return two.Div(decimal.NewFromInt(int64(inc.Window + 1)))
}

func (inc *EWMA) Update(value decimal.Decimal) {
	if inc.Window <= 0 {
		panic("window must be greater than 0")
	}

	if !inc.last.Valid {
		inc.seed.Window = inc.Window
		inc.seed.Update(value)
		inc.last = inc.seed.Last()
		inc.Values = append(inc.Values, inc.last)
		return
	}

	k := inc.multiplier()
	// the products would otherwise grow the coefficient on every update
	ema := value.Mul(k).Add(inc.last.Decimal.Mul(one.Sub(k))).Round(int32(decimal.DivisionPrecision))
	inc.last = decimal.NewNullDecimal(ema)
	inc.Values.Push(ema)
}

func (inc *EWMA) PushCandle(c types.Candle) {
	inc.Update(c.Close)
}

func (inc *EWMA) Last() decimal.NullDecimal {
	return inc.Values.Last()
}

func (inc *EWMA) Index(i int) decimal.NullDecimal {
	return inc.Values.Index(i)
}

func (inc *EWMA) Length() int {
	return inc.Values.Length()
}

var _ Series = &EWMA{}
var _ CandlePusher = &EWMA{}
