package continuity

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/c9s/indicalc/pkg/types"
)

// Classifier truncates a freshly fetched batch where its tail looks like the still
// settling live edge of the series rather than closed history.
type Classifier struct {
	// Now returns the current time; the calendar checks use its location.
	Now func() time.Time

	logger log.FieldLogger
}

func New() *Classifier {
	return &Classifier{
		Now:    time.Now,
		logger: log.WithField("component", "continuity"),
	}
}

func (c *Classifier) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}

	return c.Now()
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// isRecent reports whether t falls in the current or the immediately preceding month
// of the current year.
func isRecent(t, now time.Time) bool {
	if t.Year() != now.Year() {
		return false
	}

	return t.Month() == now.Month() || t.Month() == now.Month()-1
}

// Classify returns the prefix of rows that is safe to compute on. The rows must be
// ascending by open time; checkpoint is the close time the fetch started from, zero on a
// cold start.
func (c *Classifier) Classify(interval types.Interval, rows []types.Candle, checkpoint time.Time) []types.Candle {
	logger := c.logger
	if logger == nil {
		logger = log.WithField("component", "continuity")
	}

	logger = logger.WithField("interval", interval)

	period, ok := interval.Period()
	if !ok {
		logger.WithField("checkpoint", checkpoint).Warnf("timeframe %q could not be translated", interval)
		return nil
	}

	now := c.now()
	previousClose := checkpoint
	for i, candle := range rows {
		closeTime := candle.CloseTime.In(now.Location())

		if previousClose.IsZero() {
			// without a checkpoint, do not start the computation on data that may still settle
			if isRecent(closeTime, now) {
				logger.Debugf("%s first candle closes at %s, too recent to start computing", candle.Asset, closeTime)
				return rows[:i]
			}
		} else {
			previous := previousClose.In(now.Location())
			gap := closeTime.Sub(previous) > period
			if gap && sameMonth(closeTime, now) && !sameMonth(previous, now) {
				logger.Debugf("%s gap at the live edge: %s - %s = %s",
					candle.Asset, closeTime, previous, closeTime.Sub(previous))
				return rows[:i]
			}
		}

		previousClose = candle.CloseTime
	}

	return rows
}
