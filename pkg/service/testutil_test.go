package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/c9s/indicalc/pkg/migrations"
	"github.com/c9s/indicalc/pkg/types"
)

func prepareDB(t *testing.T) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, migrations.CandlesTableSQL("sqlite3")); err != nil {
		return nil, err
	}

	for _, table := range migrations.IndicatorTables {
		if _, err := db.ExecContext(ctx, migrations.IndicatorTableSQL("sqlite3", table, migrations.IndicatorColumns[table])); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func hourlyCandles(asset string, from time.Time, n int) (candles []types.Candle) {
	for i := 0; i < n; i++ {
		openTime := from.Add(time.Duration(i) * time.Hour)
		price := decimal.NewFromInt(int64(100 + i))
		candles = append(candles, types.Candle{
			Asset:     asset,
			Interval:  types.Interval1h,
			OpenTime:  openTime,
			CloseTime: openTime.Add(time.Hour),
			Open:      price,
			High:      price.Add(decimal.NewFromInt(2)),
			Low:       price.Sub(decimal.NewFromInt(2)),
			Close:     price.Add(decimal.NewFromInt(1)),
			Volume:    decimal.NewFromInt(10),
		})
	}

	return candles
}
