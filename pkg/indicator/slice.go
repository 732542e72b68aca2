package indicator

import (
	"github.com/shopspring/decimal"
)

// NullSlice holds one entry per pushed candle; entries inside the warm-up are invalid.
type NullSlice []decimal.NullDecimal

func (s *NullSlice) Push(v decimal.Decimal) {
	*s = append(*s, decimal.NullDecimal{Decimal: v, Valid: true})
}

func (s *NullSlice) PushNull() {
	*s = append(*s, decimal.NullDecimal{})
}

func (s NullSlice) Last() decimal.NullDecimal {
	if len(s) == 0 {
		return decimal.NullDecimal{}
	}

	return s[len(s)-1]
}

func (s NullSlice) Index(i int) decimal.NullDecimal {
	if i < 0 || i >= len(s) {
		return decimal.NullDecimal{}
	}

	return s[i]
}

func (s NullSlice) Length() int {
	return len(s)
}
