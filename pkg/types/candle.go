package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one closed OHLCV bar of an asset. The close time is the ordering key.
type Candle struct {
	Asset    string   `json:"asset" db:"asset_name"`
	Interval Interval `json:"interval" db:"interval"`

	OpenTime  time.Time `json:"openTime" db:"open_time"`
	CloseTime time.Time `json:"closeTime" db:"close_time"`

	Open   decimal.Decimal `json:"open" db:"open"`
	High   decimal.Decimal `json:"high" db:"high"`
	Low    decimal.Decimal `json:"low" db:"low"`
	Close  decimal.Decimal `json:"close" db:"close"`
	Volume decimal.Decimal `json:"volume" db:"volume"`
}

// CandleKey is the composite key shared by candles and indicator rows.
type CandleKey struct {
	Asset     string
	Interval  Interval
	OpenTime  int64
	CloseTime int64
}

func (k CandleKey) String() string {
	return fmt.Sprintf("%s %s %d-%d", k.Asset, k.Interval, k.OpenTime, k.CloseTime)
}

func (c Candle) Key() CandleKey {
	return CandleKey{
		Asset:     c.Asset,
		Interval:  c.Interval,
		OpenTime:  c.OpenTime.UnixMilli(),
		CloseTime: c.CloseTime.UnixMilli(),
	}
}

// Duplicates reports whether both candles describe the same bar.
func (c Candle) Duplicates(o Candle) bool {
	return c.Key() == o.Key()
}

func (c Candle) String() string {
	return fmt.Sprintf("%s %s %s O: %s H: %s L: %s C: %s V: %s",
		c.Asset, c.Interval, c.CloseTime.Format(time.RFC3339),
		c.Open, c.High, c.Low, c.Close, c.Volume)
}
