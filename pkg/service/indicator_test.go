package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/indicalc/pkg/indicator"
	"github.com/c9s/indicalc/pkg/types"
)

func defaultSchema(t *testing.T) IndicatorSchema {
	schema, err := NewIndicatorSchema(indicator.DefaultConfig())
	require.NoError(t, err)
	return schema
}

func TestNewIndicatorSchema(t *testing.T) {
	schema, err := NewIndicatorSchema(indicator.DefaultConfig())
	require.NoError(t, err)

	ema := schema[types.IndicatorKindEMA]
	assert.Equal(t, "ema", ema.Name)
	assert.Equal(t, "ema5", ema.Columns[5])
	assert.Equal(t, "ema75", ema.Columns[75])
	assert.Equal(t, []int{5, 9, 12, 20, 26, 50, 75, 200}, ema.Periods())
	assert.Equal(t, "atr14", schema[types.IndicatorKindATR].Columns[14])

	_, err = NewIndicatorSchema(indicator.Config{EMAPeriods: []int{7}})
	assert.Error(t, err)
}

func emaRows(candles []types.Candle, value func(i, period int) decimal.NullDecimal) (rows []types.CandleIndicators) {
	for i, c := range candles {
		values := types.PeriodValues{}
		for _, period := range indicator.DefaultMovingAveragePeriods {
			values[period] = value(i, period)
		}

		rows = append(rows, types.CandleIndicators{Candle: c, Values: values})
	}

	return rows
}

func TestIndicatorService_UpsertIndicators(t *testing.T) {
	db, err := prepareDB(t)
	if err != nil {
		t.Fatal(err)
	}

	defer db.Close()

	ctx := context.Background()
	service := &IndicatorService{DB: db, Schema: defaultSchema(t)}
	candles := hourlyCandles("BTCUSDT", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 3)

	first := emaRows(candles, func(i, period int) decimal.NullDecimal {
		if period == 5 {
			return decimal.NewNullDecimal(decimal.NewFromFloat(1.5 + float64(i)))
		}
		return decimal.NullDecimal{}
	})
	require.NoError(t, service.UpsertIndicators(ctx, types.IndicatorKindEMA, first))

	stored, err := service.QueryIndicators(ctx, types.IndicatorKindEMA, "BTCUSDT", types.Interval1h, 0)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.InDelta(t, 1.5, stored[0].Values[5].Decimal.InexactFloat64(), 1e-9)
	assert.False(t, stored[0].Values[75].Valid, "ema75 must not pick up the ema5 value")

	// second pass updates in place and nulls overwrite values
	second := emaRows(candles, func(i, period int) decimal.NullDecimal {
		if period == 75 {
			return decimal.NewNullDecimal(decimal.NewFromFloat(7.25))
		}
		return decimal.NullDecimal{}
	})
	require.NoError(t, service.UpsertIndicators(ctx, types.IndicatorKindEMA, second))
	require.NoError(t, service.UpsertIndicators(ctx, types.IndicatorKindEMA, second))

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM ema"))
	assert.Equal(t, 3, count, "one row per candle")

	stored, err = service.QueryIndicators(ctx, types.IndicatorKindEMA, "BTCUSDT", types.Interval1h, 0)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, row := range stored {
		assert.False(t, row.Values[5].Valid)
		assert.InDelta(t, 7.25, row.Values[75].Decimal.InexactFloat64(), 1e-9)
	}

	// other indicator tables are untouched
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sma"))
	assert.Equal(t, 0, count)
}

func TestIndicatorService_UnknownKind(t *testing.T) {
	service := &IndicatorService{Schema: IndicatorSchema{}}
	err := service.UpsertIndicators(context.Background(), types.IndicatorKind(9), []types.CandleIndicators{{}})
	assert.ErrorIs(t, err, types.ErrUnknownIndicatorKind)
}

func newMockService(t *testing.T) (*IndicatorService, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &IndicatorService{
		DB:     sqlx.NewDb(mockDB, "mysql"),
		Schema: defaultSchema(t),
	}, mock
}

func TestIndicatorService_UpsertCommitsOnce(t *testing.T) {
	service, mock := newMockService(t)
	candles := hourlyCandles("BTCUSDT", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	rows := emaRows(candles, func(i, period int) decimal.NullDecimal {
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(period)))
	})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT open_time, close_time FROM ema").
		WillReturnRows(sqlmock.NewRows([]string{"open_time", "close_time"}).
			AddRow(candles[0].OpenTime, candles[0].CloseTime))
	mock.ExpectExec("UPDATE ema SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO ema").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, service.UpsertIndicators(context.Background(), types.IndicatorKindEMA, rows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIndicatorService_UpsertRollsBack(t *testing.T) {
	service, mock := newMockService(t)
	candles := hourlyCandles("BTCUSDT", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	rows := emaRows(candles, func(i, period int) decimal.NullDecimal {
		return decimal.NullDecimal{}
	})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT open_time, close_time FROM ema").
		WillReturnRows(sqlmock.NewRows([]string{"open_time", "close_time"}))
	mock.ExpectExec("INSERT INTO ema").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO ema").WillReturnError(errors.New("deadlock found"))
	mock.ExpectRollback()

	err := service.UpsertIndicators(context.Background(), types.IndicatorKindEMA, rows)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
