package migrations

import (
	"context"

	"github.com/c9s/rockhopper"
)

func init() {
	rockhopper.AddMigration(upAddIndicatorTables, downAddIndicatorTables)
}

func upAddIndicatorTables(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	for _, table := range IndicatorTables {
		_, err = tx.ExecContext(ctx, IndicatorTableSQL(Driver, table, IndicatorColumns[table]))
		if err != nil {
			return err
		}
	}

	return err
}

func downAddIndicatorTables(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	for i := len(IndicatorTables) - 1; i >= 0; i-- {
		_, err = tx.ExecContext(ctx, DropTableSQL(IndicatorTables[i]))
		if err != nil {
			return err
		}
	}

	return err
}
