package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/c9s/indicalc/pkg/indicator"
	"github.com/c9s/indicalc/pkg/migrations"
	"github.com/c9s/indicalc/pkg/types"
)

// IndicatorPrecision is the number of decimal places persisted.
const IndicatorPrecision = 12

// IndicatorTable maps the periods of one indicator kind onto the columns of its table.
type IndicatorTable struct {
	Name    string
	Columns map[int]string
}

// Periods returns the mapped periods in ascending order.
func (t IndicatorTable) Periods() []int {
	periods := make([]int, 0, len(t.Columns))
	for p := range t.Columns {
		periods = append(periods, p)
	}

	sort.Ints(periods)
	return periods
}

// IndicatorSchema is the period -> column mapping of every persisted indicator kind.
type IndicatorSchema map[types.IndicatorKind]IndicatorTable

// NewIndicatorSchema maps every configured period to its column and fails when the
// schema has no column for it.
func NewIndicatorSchema(conf indicator.Config) (IndicatorSchema, error) {
	schema := IndicatorSchema{}
	for _, kind := range types.IndicatorKinds {
		name := strings.ToLower(kind.String())

		available := map[string]struct{}{}
		for _, column := range migrations.IndicatorColumns[name] {
			available[column] = struct{}{}
		}

		table := IndicatorTable{Name: name, Columns: map[int]string{}}
		for _, period := range conf.Periods(kind) {
			column := fmt.Sprintf("%s%d", name, period)
			if _, ok := available[column]; !ok {
				return nil, fmt.Errorf("table %s has no column for period %d", name, period)
			}

			table.Columns[period] = column
		}

		schema[kind] = table
	}

	return schema, nil
}

// IndicatorService merges computed indicator rows into the per-kind tables.
type IndicatorService struct {
	DB     *sqlx.DB
	Schema IndicatorSchema
}

type timeKey struct {
	openTime, closeTime int64
}

func rowKey(c types.Candle) timeKey {
	return timeKey{openTime: c.OpenTime.UnixMilli(), closeTime: c.CloseTime.UnixMilli()}
}

func (s *IndicatorService) table(kind types.IndicatorKind) (IndicatorTable, error) {
	table, ok := s.Schema[kind]
	if !ok || !kind.Valid() {
		return IndicatorTable{}, fmt.Errorf("%w: %s", types.ErrUnknownIndicatorKind, kind)
	}

	return table, nil
}

func columnValue(values types.PeriodValues, period int) interface{} {
	v, ok := values[period]
	if !ok || !v.Valid {
		return nil
	}

	return v.Decimal.Round(IndicatorPrecision)
}

// UpsertIndicators updates the rows that already exist for the candles and inserts the
// others, all inside one transaction. Null values overwrite stored ones.
func (s *IndicatorService) UpsertIndicators(ctx context.Context, kind types.IndicatorKind, rows []types.CandleIndicators) (err error) {
	table, err := s.table(kind)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.WithError(rbErr).Errorf("unable to rollback %s upsert", table.Name)
			}
		}
	}()

	existing, err := s.existingKeys(ctx, tx, table, rows)
	if err != nil {
		return err
	}

	periods := table.Periods()
	for _, row := range rows {
		key := rowKey(row.Candle)

		var query string
		var args []interface{}
		if _, ok := existing[key]; ok {
			set := make(map[string]interface{}, len(periods))
			for _, period := range periods {
				set[table.Columns[period]] = columnValue(row.Values, period)
			}

			query, args, err = sq.Update(table.Name).
				SetMap(set).
				Where(sq.And{
					sq.Eq{"asset_name": row.Candle.Asset},
					sq.Eq{"`interval`": string(row.Candle.Interval)},
					sq.Eq{"open_time": row.Candle.OpenTime},
					sq.Eq{"close_time": row.Candle.CloseTime},
				}).
				ToSql()
		} else {
			columns := []string{"asset_name", "`interval`", "open_time", "close_time"}
			values := []interface{}{row.Candle.Asset, string(row.Candle.Interval), row.Candle.OpenTime, row.Candle.CloseTime}
			for _, period := range periods {
				columns = append(columns, table.Columns[period])
				values = append(values, columnValue(row.Values, period))
			}

			query, args, err = sq.Insert(table.Name).Columns(columns...).Values(values...).ToSql()
			existing[key] = struct{}{}
		}

		if err != nil {
			return err
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "write %s row %s", table.Name, row.Candle.Key())
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit %s upsert", table.Name)
	}

	return nil
}

// existingKeys selects the keys already stored for the pairs of rows within the close
// time range the rows span.
func (s *IndicatorService) existingKeys(ctx context.Context, tx *sqlx.Tx, table IndicatorTable, rows []types.CandleIndicators) (map[timeKey]struct{}, error) {
	type pairRange struct {
		from, to time.Time
	}

	ranges := map[types.Pair]*pairRange{}
	var pairs []types.Pair
	for _, row := range rows {
		pair := types.Pair{Asset: row.Candle.Asset, Interval: row.Candle.Interval}
		r, ok := ranges[pair]
		if !ok {
			ranges[pair] = &pairRange{from: row.Candle.CloseTime, to: row.Candle.CloseTime}
			pairs = append(pairs, pair)
			continue
		}

		if row.Candle.CloseTime.Before(r.from) {
			r.from = row.Candle.CloseTime
		}

		if row.Candle.CloseTime.After(r.to) {
			r.to = row.Candle.CloseTime
		}
	}

	keys := map[timeKey]struct{}{}
	for _, pair := range pairs {
		r := ranges[pair]
		query, args, err := sq.Select("open_time", "close_time").
			From(table.Name).
			Where(pairCondition(pair.Asset, pair.Interval)).
			Where(sq.GtOrEq{"close_time": r.from}).
			Where(sq.LtOrEq{"close_time": r.to}).
			ToSql()
		if err != nil {
			return nil, err
		}

		var stored []struct {
			OpenTime  time.Time `db:"open_time"`
			CloseTime time.Time `db:"close_time"`
		}

		if err := tx.SelectContext(ctx, &stored, query, args...); err != nil {
			return nil, errors.Wrapf(err, "query existing %s rows of %s", table.Name, pair)
		}

		for _, k := range stored {
			keys[timeKey{openTime: k.OpenTime.UnixMilli(), closeTime: k.CloseTime.UnixMilli()}] = struct{}{}
		}
	}

	return keys, nil
}

// QueryIndicators returns the latest stored rows of the pair, ascending by close time.
func (s *IndicatorService) QueryIndicators(ctx context.Context, kind types.IndicatorKind, asset string, interval types.Interval, limit int) ([]types.CandleIndicators, error) {
	table, err := s.table(kind)
	if err != nil {
		return nil, err
	}

	periods := table.Periods()
	columns := []string{"open_time", "close_time"}
	for _, period := range periods {
		columns = append(columns, table.Columns[period])
	}

	sel := sq.Select(columns...).
		From(table.Name).
		Where(pairCondition(asset, interval)).
		OrderBy("close_time DESC")
	if limit > 0 {
		sel = sel.Limit(uint64(limit))
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s rows", table.Name)
	}

	defer rows.Close()

	var result []types.CandleIndicators
	for rows.Next() {
		row := types.CandleIndicators{
			Candle: types.Candle{Asset: asset, Interval: interval},
			Values: make(types.PeriodValues, len(periods)),
		}

		values := make([]decimal.NullDecimal, len(periods))
		dest := []interface{}{&row.Candle.OpenTime, &row.Candle.CloseTime}
		for i := range values {
			dest = append(dest, &values[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		for i, period := range periods {
			row.Values[period] = values[i]
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// newest first from the query
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return result, nil
}
