package indicator

import (
	"github.com/shopspring/decimal"
)

// RMA is Wilder's running moving average: the first value is the simple average of
// the first Window inputs, then ((Window-1) * previous + x) / Window.
type RMA struct {
	Window int
	Values NullSlice

	seed SMA
	last decimal.NullDecimal
}

func (inc *RMA) Update(x decimal.Decimal) {
	if inc.Window <= 0 {
		panic("window must be greater than 0")
	}

	if !inc.last.Valid {
		inc.seed.Window = inc.Window
		inc.seed.Update(x)
		inc.last = inc.seed.Last()
		inc.Values = append(inc.Values, inc.last)
		return
	}

	window := decimal.NewFromInt(int64(inc.Window))
	rma := inc.last.Decimal.Mul(window.Sub(one)).Add(x).Div(window)
	inc.last = decimal.NewNullDecimal(rma)
	inc.Values.Push(rma)
}

func (inc *RMA) Last() decimal.NullDecimal {
	return inc.Values.Last()
}

func (inc *RMA) Index(i int) decimal.NullDecimal {
	return inc.Values.Index(i)
}

func (inc *RMA) Length() int {
	return inc.Values.Length()
}

var _ Series = &RMA{}
