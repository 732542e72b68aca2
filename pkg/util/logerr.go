package util

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// LogErr logs the error with the message and arguments if the error is not nil.
// It returns true if the error is not nil.
// Examples:
// LogErr(err)
// LogErr(err, "error message")
// LogErr(err, "error message %s", "with argument")
func LogErr(err error, msgAndArgs ...interface{}) bool {
	if err == nil {
		return false
	}

	if len(msgAndArgs) == 0 {
		log.WithError(err).Error(err.Error())
	} else if len(msgAndArgs) == 1 {
		msg := msgAndArgs[0].(string)
		log.WithError(err).Error(msg)
	} else if len(msgAndArgs) > 1 {
		msg := msgAndArgs[0].(string)
		log.WithError(err).Errorf(msg, msgAndArgs[1:]...)
	}

	return true
}

// WarnFirstLogger logs the first failures of a burst as warnings and escalates to
// errors once more than threshold failures happen within the window.
type WarnFirstLogger struct {
	logger    log.FieldLogger
	threshold int
	window    time.Duration

	mu          sync.Mutex
	warnLimiter *rate.Limiter
	failures    int
}

func NewWarnFirstLogger(threshold int, window time.Duration, logger log.FieldLogger) *WarnFirstLogger {
	return &WarnFirstLogger{
		logger:      logger,
		threshold:   threshold,
		window:      window,
		warnLimiter: rate.NewLimiter(rate.Every(window), threshold),
	}
}

func (w *WarnFirstLogger) WarnOrError(err error, msg string, args ...interface{}) {
	w.mu.Lock()
	w.failures++
	allow := w.warnLimiter.Allow()
	failures := w.failures
	w.mu.Unlock()

	logger := w.logger.WithField("failures", failures)
	if err != nil {
		logger = logger.WithError(err)
	}

	if allow {
		logger.Warnf(msg, args...)
	} else {
		logger.Errorf(msg, args...)
	}
}

// Reset starts a new burst, the next failures are warnings again.
func (w *WarnFirstLogger) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.failures == 0 {
		return
	}

	w.failures = 0
	w.warnLimiter = rate.NewLimiter(rate.Every(w.window), w.threshold)
}

// Failures returns the number of failures logged since the last reset.
func (w *WarnFirstLogger) Failures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failures
}
