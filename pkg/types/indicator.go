package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// IndicatorKind is the closed set of persisted indicator types.
type IndicatorKind int

const (
	IndicatorKindEMA IndicatorKind = iota + 1
	IndicatorKindSMA
	IndicatorKindATR
)

// IndicatorKinds is the order in which a cycle persists its results.
var IndicatorKinds = []IndicatorKind{IndicatorKindEMA, IndicatorKindSMA, IndicatorKindATR}

func (k IndicatorKind) String() string {
	switch k {
	case IndicatorKindEMA:
		return "EMA"
	case IndicatorKindSMA:
		return "SMA"
	case IndicatorKindATR:
		return "ATR"
	}

	return fmt.Sprintf("IndicatorKind(%d)", int(k))
}

func (k IndicatorKind) Valid() bool {
	switch k {
	case IndicatorKindEMA, IndicatorKindSMA, IndicatorKindATR:
		return true
	}

	return false
}

func ParseIndicatorKind(s string) (IndicatorKind, error) {
	switch strings.ToUpper(s) {
	case "EMA":
		return IndicatorKindEMA, nil
	case "SMA":
		return IndicatorKindSMA, nil
	case "ATR":
		return IndicatorKindATR, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownIndicatorKind, s)
}

func (k IndicatorKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// PeriodValues maps a lookback period to its value; invalid entries are nulls.
type PeriodValues map[int]decimal.NullDecimal

// Periods returns the periods in ascending order.
func (v PeriodValues) Periods() []int {
	periods := make([]int, 0, len(v))
	for p := range v {
		periods = append(periods, p)
	}

	sort.Ints(periods)
	return periods
}

// CandleIndicators pairs a candle with the values of one indicator kind.
type CandleIndicators struct {
	Candle Candle
	Values PeriodValues
}
