package migrations

import (
	"context"

	"github.com/c9s/rockhopper"
)

func init() {
	rockhopper.AddMigration(upAddCandlesTable, downAddCandlesTable)
}

func upAddCandlesTable(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	// This code is executed when the migration is applied.

	_, err = tx.ExecContext(ctx, CandlesTableSQL(Driver))
	if err != nil {
		return err
	}

	return err
}

func downAddCandlesTable(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	// This code is executed when the migration is rolled back.

	_, err = tx.ExecContext(ctx, DropTableSQL("candles"))
	if err != nil {
		return err
	}

	return err
}
