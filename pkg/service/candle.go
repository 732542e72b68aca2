package service

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/c9s/indicalc/pkg/types"
)

var candleColumns = []string{
	"asset_name", "`interval`", "open_time", "close_time",
	"`open`", "high", "low", "`close`", "volume",
}

// CandleService reads the candles written by the ingestion side.
type CandleService struct {
	DB *sqlx.DB
}

func pairCondition(asset string, interval types.Interval) sq.And {
	return sq.And{
		sq.Eq{"asset_name": asset},
		sq.Eq{"`interval`": string(interval)},
	}
}

func queryCandlesSQL(asset string, interval types.Interval, since time.Time, limit int) (string, []interface{}, error) {
	sel := sq.Select(candleColumns...).
		From("candles").
		Where(pairCondition(asset, interval))

	if !since.IsZero() {
		sel = sel.Where(sq.GtOrEq{"close_time": since})
	}

	sel = sel.OrderBy("open_time ASC")
	if limit > 0 {
		sel = sel.Limit(uint64(limit))
	}

	return sel.ToSql()
}

// QueryCandles returns up to limit candles of the pair whose close time is at or after
// since, ascending by open time. A zero since selects from the beginning.
func (s *CandleService) QueryCandles(ctx context.Context, asset string, interval types.Interval, since time.Time, limit int) ([]types.Candle, error) {
	sql, args, err := queryCandlesSQL(asset, interval, since, limit)
	if err != nil {
		return nil, err
	}

	var candles []types.Candle
	if err := s.DB.SelectContext(ctx, &candles, sql, args...); err != nil {
		return nil, errors.Wrapf(err, "query candles %s %s since %s", asset, interval, since)
	}

	return candles, nil
}

// CountCandles returns how many candles the pair has in total.
func (s *CandleService) CountCandles(ctx context.Context, asset string, interval types.Interval) (int64, error) {
	sql, args, err := sq.Select("COUNT(*)").
		From("candles").
		Where(pairCondition(asset, interval)).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.DB.GetContext(ctx, &count, sql, args...); err != nil {
		return 0, errors.Wrapf(err, "count candles %s %s", asset, interval)
	}

	return count, nil
}

// Insert writes candles, mostly for seeding local databases.
func (s *CandleService) Insert(ctx context.Context, candles ...types.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	insert := sq.Insert("candles").Columns(candleColumns...)
	for _, c := range candles {
		insert = insert.Values(c.Asset, string(c.Interval), c.OpenTime, c.CloseTime,
			c.Open, c.High, c.Low, c.Close, c.Volume)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, sql, args...)
	return errors.Wrap(err, "insert candles")
}
