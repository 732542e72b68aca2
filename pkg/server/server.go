package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/c9s/indicalc/pkg/types"
)

const defaultIndicatorLimit = 100

// StatusProvider returns the live status of every pair.
type StatusProvider interface {
	Snapshot() []types.PairStatus
}

// IndicatorQuerier reads the stored indicator rows of a pair.
type IndicatorQuerier interface {
	QueryIndicators(ctx context.Context, kind types.IndicatorKind, asset string, interval types.Interval, limit int) ([]types.CandleIndicators, error)
}

type Server struct {
	Bind       string
	Status     StatusProvider
	Indicators IndicatorQuerier

	// StreamInterval is the push interval of the pair stream, defaults to 1s.
	StreamInterval time.Duration

	srv  *http.Server
	stop chan struct{}
}

func (s *Server) done() <-chan struct{} {
	if s.stop == nil {
		s.stop = make(chan struct{})
	}

	return s.stop
}

type indicatorRow struct {
	OpenTime  time.Time                   `json:"openTime"`
	CloseTime time.Time                   `json:"closeTime"`
	Values    map[int]decimal.NullDecimal `json:"values"`
}

func (s *Server) newEngine() *gin.Engine {
	s.done()

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/api/pairs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pairs": s.Status.Snapshot()})
	})

	r.GET("/api/pairs/stream", s.streamPairs)

	r.GET("/api/indicators/:kind/:asset/:interval", func(c *gin.Context) {
		if s.Indicators == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "indicator query is not enabled"})
			return
		}

		kind, err := types.ParseIndicatorKind(c.Param("kind"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		interval, err := types.ParseInterval(c.Param("interval"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		limit := defaultIndicatorLimit
		if l := c.Query("limit"); l != "" {
			limit, err = strconv.Atoi(l)
			if err != nil || limit <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q", l)})
				return
			}
		}

		rows, err := s.Indicators.QueryIndicators(c.Request.Context(), kind, c.Param("asset"), interval, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		result := make([]indicatorRow, 0, len(rows))
		for _, row := range rows {
			result = append(result, indicatorRow{
				OpenTime:  row.Candle.OpenTime,
				CloseTime: row.Candle.CloseTime,
				Values:    row.Values,
			})
		}

		c.JSON(http.StatusOK, gin.H{"indicator": kind, "rows": result})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Run serves until the context is cancelled, then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:    s.Bind,
		Handler: s.newEngine(),
	}

	errC := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", s.Bind)
		errC <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return err

	case <-ctx.Done():
	}

	logrus.Info("shutting down web server...")
	close(s.stop)

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
		return err
	}

	if err := <-errC; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logrus.Info("server shutdown completed")
	return nil
}
