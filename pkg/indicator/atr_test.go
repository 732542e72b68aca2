package indicator

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	testHighs  = []float64{40145.0, 40186.36, 40196.39, 40344.6, 40245.48, 40273.24, 40464.0, 40699.0, 40627.48, 40436.31, 40370.0, 40376.8, 40227.03, 40056.52, 39721.7, 39597.94, 39750.15, 39927.0, 40289.02, 40189.0}
	testLows   = []float64{39870.71, 39834.98, 39866.31, 40108.31, 40016.09, 40094.66, 40105.0, 40196.48, 40154.99, 39800.0, 39959.21, 39922.98, 39940.02, 39632.0, 39261.39, 39254.63, 39473.91, 39555.51, 39819.0, 40006.84}
	testCloses = []float64{40105.78, 39935.23, 40183.97, 40182.03, 40212.26, 40149.99, 40378.0, 40618.37, 40401.03, 39990.39, 40179.13, 40097.23, 40014.72, 39667.85, 39303.1, 39519.99, 39693.79, 39827.96, 40074.94, 40059.84}
)

func referenceATR(highs, lows, closes []float64, window int) []*float64 {
	out := make([]*float64, len(closes))
	var trueRanges []float64
	var atr float64
	for i := 1; i < len(closes); i++ {
		tr := math.Max(highs[i]-lows[i], math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))
		trueRanges = append(trueRanges, tr)

		switch {
		case len(trueRanges) < window:
			continue

		case len(trueRanges) == window:
			sum := 0.0
			for _, v := range trueRanges {
				sum += v
			}
			atr = sum / float64(window)

		default:
			atr = (atr*float64(window-1) + tr) / float64(window)
		}

		v := atr
		out[i] = &v
	}

	return out
}

func TestATR(t *testing.T) {
	atr := &ATR{Window: 14}
	for _, c := range buildCandles(testHighs, testLows, testCloses) {
		atr.PushCandle(c)
	}

	want := referenceATR(testHighs, testLows, testCloses, 14)
	assert.Equal(t, len(testCloses), atr.Length())

	for i := 0; i < 14; i++ {
		assert.False(t, atr.Index(i).Valid, "index %d should be in warm-up", i)
	}

	for i := 14; i < len(testCloses); i++ {
		got := nullFloat(atr.Index(i))
		if assert.NotNil(t, got, "index %d", i) {
			assert.InDelta(t, *want[i], *got, 1e-6, "index %d", i)
		}
	}
}

func TestATR_PanicOnZeroWindow(t *testing.T) {
	assert.Panics(t, func() {
		atr := &ATR{}
		atr.Update(decimal.NewFromFloat(testHighs[0]), decimal.NewFromFloat(testLows[0]), decimal.NewFromFloat(testCloses[0]))
	})
}
