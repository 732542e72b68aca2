package calculator

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/c9s/indicalc/pkg/continuity"
	"github.com/c9s/indicalc/pkg/indicator"
	"github.com/c9s/indicalc/pkg/metrics"
	"github.com/c9s/indicalc/pkg/types"
	"github.com/c9s/indicalc/pkg/util"
	"github.com/c9s/indicalc/pkg/util/backoff"
	"github.com/c9s/indicalc/pkg/window"
)

const (
	DefaultAmountOfData = 1000
	DefaultSleep        = 2 * time.Second
	DefaultRetryDelay   = time.Second
)

type Options struct {
	// AmountOfData is the page size of a fetch.
	AmountOfData int

	// Sleep is the pause between two cycles.
	Sleep time.Duration

	// RetryDelay is the fixed delay between the attempts of a failed store call.
	RetryDelay time.Duration

	Indicators indicator.Config
}

func (o Options) withDefaults() Options {
	if o.AmountOfData <= 0 {
		o.AmountOfData = DefaultAmountOfData
	}

	if o.Sleep <= 0 {
		o.Sleep = DefaultSleep
	}

	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}

	return o
}

// Worker runs the fetch, merge, compute, upsert and sleep cycle of one pair. It owns its
// window and checkpoint exclusively; a worker is not reusable once Run returned.
type Worker struct {
	Pair    types.Pair
	Options Options

	Store      CandleStore
	Writer     IndicatorWriter
	Classifier *continuity.Classifier

	// Progress is optional.
	Progress ProgressReporter

	// OnStatus is called with a copy of the status on every state change.
	OnStatus func(types.PairStatus)

	window     *window.Window
	checkpoint time.Time
	status     types.PairStatus

	processed int64
	total     int64

	logger      log.FieldLogger
	retryLogger *util.WarnFirstLogger
}

func NewWorker(pair types.Pair, store CandleStore, writer IndicatorWriter, options Options) *Worker {
	logger := log.WithFields(log.Fields{
		"asset":    pair.Asset,
		"interval": pair.Interval,
	})

	return &Worker{
		Pair:        pair,
		Options:     options.withDefaults(),
		Store:       store,
		Writer:      writer,
		Classifier:  continuity.New(),
		window:      window.New(),
		status:      types.PairStatus{Pair: pair},
		logger:      logger,
		retryLogger: util.NewWarnFirstLogger(3, time.Minute, logger),
	}
}

// Checkpoint returns the close time of the newest candle known to be final, zero when
// no full page was fetched yet.
func (w *Worker) Checkpoint() time.Time {
	return w.checkpoint
}

func (w *Worker) WindowSize() int {
	return w.window.Len()
}

func (w *Worker) Status() types.PairStatus {
	return w.status
}

func (w *Worker) setState(state types.PairState) {
	w.status.State = state
	w.status.Checkpoint = w.checkpoint
	w.status.WindowSize = w.window.Len()
	w.status.UpdatedAt = time.Now()
	if last, ok := w.window.Last(); ok {
		w.status.LastClose = last.CloseTime
	}

	if w.OnStatus != nil {
		w.OnStatus(w.status)
	}
}

func (w *Worker) retry(ctx context.Context, operation string, op func() error) error {
	notify := func(err error, d time.Duration) {
		metrics.RetryTotalMetrics.WithLabelValues(w.Pair.Asset, string(w.Pair.Interval), operation).Inc()
		w.retryLogger.WarnOrError(err, "%s of %s failed, retrying in %s", operation, w.Pair, d)
	}

	err := backoff.RetryConstant(ctx, w.Options.RetryDelay, op, notify,
		types.ErrUnknownIndicatorKind, types.ErrUnsupportedInterval)
	if err == nil && w.retryLogger.Failures() > 0 {
		w.logger.Infof("%s of %s recovered after %d failures", operation, w.Pair, w.retryLogger.Failures())
		w.retryLogger.Reset()
	}

	return err
}

// Run loops over the cycles until the pair drains, a permanent error occurs or the
// context is cancelled. A drained pair returns nil.
func (w *Worker) Run(ctx context.Context) (err error) {
	w.logger.Infof("starting worker of %s", w.Pair)

	defer func() {
		if err != nil {
			w.status.LastError = err.Error()
			w.setState(types.PairStateFailed)
		}
	}()

	if w.Progress != nil {
		if err := w.retry(ctx, "count", func() (err error) {
			w.total, err = w.Store.CountCandles(ctx, w.Pair.Asset, w.Pair.Interval)
			return err
		}); err != nil {
			return err
		}
	}

	for {
		drained, err := w.Cycle(ctx)
		if err != nil {
			return err
		}

		if drained {
			w.setState(types.PairStateDrained)
			w.reportProgress(types.PairStateDrained)
			w.logger.Infof("%s drained after %d cycles, checkpoint %s", w.Pair, w.status.Cycles, w.checkpoint)
			return nil
		}

		w.setState(types.PairStateSleeping)
		w.reportProgress(types.PairStateSleeping)

		timer := time.NewTimer(w.Options.Sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case <-timer.C:
		}
	}
}

func (w *Worker) reportProgress(state types.PairState) {
	if w.Progress != nil {
		w.Progress.Update(w.Pair, state, w.processed, w.total)
	}
}

func (w *Worker) fetch(ctx context.Context) ([]types.Candle, error) {
	w.setState(types.PairStateFetching)

	var rows []types.Candle
	err := w.retry(ctx, "fetch", func() (err error) {
		rows, err = w.Store.QueryCandles(ctx, w.Pair.Asset, w.Pair.Interval, w.checkpoint, w.Options.AmountOfData)
		return err
	})
	if err != nil {
		return nil, err
	}

	return w.Classifier.Classify(w.Pair.Interval, rows, w.checkpoint), nil
}

// merge folds the batch into the window. A full page evicts the candles before the
// current checkpoint and advances the checkpoint to the last close of the batch.
func (w *Worker) merge(batch []types.Candle) {
	w.setState(types.PairStateMerging)

	last, hasLast := w.window.Last()
	for _, c := range batch {
		if !hasLast || c.CloseTime.After(last.CloseTime) {
			w.processed++
		}
	}

	w.window.Merge(batch)

	if len(batch) == w.Options.AmountOfData {
		if !w.checkpoint.IsZero() {
			if evicted := w.window.EvictBefore(w.checkpoint); evicted > 0 {
				w.logger.Debugf("evicted %d candles before %s", evicted, w.checkpoint)
			}
		}

		if closeTime := batch[len(batch)-1].CloseTime; closeTime.After(w.checkpoint) {
			w.checkpoint = closeTime
		}
	}

	metrics.WindowSizeMetrics.WithLabelValues(w.Pair.Asset, string(w.Pair.Interval)).Set(float64(w.window.Len()))
}

func (w *Worker) upsert(ctx context.Context, results []indicator.Result) error {
	w.setState(types.PairStateUpserting)

	for _, kind := range types.IndicatorKinds {
		rows := indicator.Select(results, kind)
		err := w.retry(ctx, "upsert "+kind.String(), func() error {
			return w.Writer.UpsertIndicators(ctx, kind, rows)
		})
		if err != nil {
			return errors.Wrapf(err, "upsert %s of %s", kind, w.Pair)
		}

		metrics.UpsertedRowsMetrics.WithLabelValues(w.Pair.Asset, string(w.Pair.Interval), kind.String()).Add(float64(len(rows)))
	}

	return nil
}

// Cycle runs one fetch, merge, compute and upsert pass and reports whether the fetch
// came back empty.
func (w *Worker) Cycle(ctx context.Context) (drained bool, err error) {
	batch, err := w.fetch(ctx)
	if err != nil {
		return false, errors.Wrapf(err, "fetch %s", w.Pair)
	}

	if len(batch) == 0 {
		return true, nil
	}

	metrics.FetchedCandlesMetrics.WithLabelValues(w.Pair.Asset, string(w.Pair.Interval)).Add(float64(len(batch)))

	w.merge(batch)

	w.setState(types.PairStateComputing)
	started := time.Now()
	results := indicator.Compute(w.window.Snapshot(), w.Options.Indicators)
	metrics.ComputeDurationMetrics.WithLabelValues(string(w.Pair.Interval)).Observe(time.Since(started).Seconds())

	if err := w.upsert(ctx, results); err != nil {
		return false, err
	}

	w.status.Cycles++
	metrics.CycleTotalMetrics.WithLabelValues(w.Pair.Asset, string(w.Pair.Interval)).Inc()
	w.logger.Debugf("cycle %d of %s: %d candles fetched, window %d, checkpoint %s",
		w.status.Cycles, w.Pair, len(batch), w.window.Len(), w.checkpoint)
	return false, nil
}

func (w *Worker) String() string {
	return fmt.Sprintf("Worker(%s)", w.Pair)
}
