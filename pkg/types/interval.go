package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Interval is the timeframe label of a candle, e.g. "5m" or "1d".
type Interval string

func (i Interval) Minutes() int {
	return SupportedIntervals[i]
}

// Duration returns the nominal period length, zero for unsupported intervals.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.Minutes()) * time.Minute
}

// Period returns the nominal period length and whether the interval is recognized.
func (i Interval) Period() (time.Duration, bool) {
	minutes, ok := SupportedIntervals[i]
	if !ok {
		return 0, false
	}

	return time.Duration(minutes) * time.Minute, true
}

func (i Interval) IsSupported() bool {
	_, ok := SupportedIntervals[i]
	return ok
}

func (i *Interval) UnmarshalJSON(b []byte) (err error) {
	var a string
	err = json.Unmarshal(b, &a)
	if err != nil {
		return err
	}

	*i = Interval(a)
	return
}

func (i Interval) String() string {
	return string(i)
}

type IntervalSlice []Interval

func (s IntervalSlice) Sort() {
	sort.Slice(s, func(i, j int) bool {
		return s[i].Duration() < s[j].Duration()
	})
}

func (s IntervalSlice) StringSlice() (slice []string) {
	for _, interval := range s {
		slice = append(slice, interval.String())
	}
	return slice
}

var Interval5m = Interval("5m")
var Interval15m = Interval("15m")
var Interval1h = Interval("1h")
var Interval4h = Interval("4h")
var Interval1d = Interval("1d")

// SupportedIntervals maps the recognized timeframes to their length in minutes.
var SupportedIntervals = map[Interval]int{
	Interval5m:  5,
	Interval15m: 15,
	Interval1h:  60,
	Interval4h:  60 * 4,
	Interval1d:  60 * 24,
}

// ParseInterval validates the given timeframe label.
func ParseInterval(s string) (Interval, error) {
	i := Interval(s)
	if !i.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedInterval, s)
	}

	return i, nil
}
