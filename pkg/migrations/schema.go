package migrations

import (
	"fmt"
	"strings"
)

// Driver selects the column types the migrations emit. DatabaseService sets it before
// running the migrations.
var Driver = "mysql"

// IndicatorColumns lists the period columns created per indicator table.
var IndicatorColumns = map[string][]string{
	"ema": {"ema5", "ema9", "ema12", "ema20", "ema26", "ema50", "ema75", "ema200"},
	"sma": {"sma5", "sma9", "sma12", "sma20", "sma26", "sma50", "sma75", "sma200"},
	"atr": {"atr14"},
}

// IndicatorTables is the creation order of the indicator tables.
var IndicatorTables = []string{"ema", "sma", "atr"}

// sqlite3 only converts DATETIME columns declared without a precision back into time.Time.
func datetimeType(driver string) string {
	if driver == "sqlite3" {
		return "DATETIME"
	}

	return "DATETIME(3)"
}

func CandlesTableSQL(driver string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `candles`\n(\n"+
		"    `asset_name` VARCHAR(32)    NOT NULL,\n"+
		"    `interval`   VARCHAR(8)     NOT NULL,\n"+
		"    `open_time`  %[1]s    NOT NULL,\n"+
		"    `close_time` %[1]s    NOT NULL,\n"+
		"    `open`       DECIMAL(30, 12) NOT NULL,\n"+
		"    `high`       DECIMAL(30, 12) NOT NULL,\n"+
		"    `low`        DECIMAL(30, 12) NOT NULL,\n"+
		"    `close`      DECIMAL(30, 12) NOT NULL,\n"+
		"    `volume`     DECIMAL(30, 12) NOT NULL DEFAULT 0,\n"+
		"    PRIMARY KEY (`asset_name`, `interval`, `open_time`, `close_time`)\n"+
		");", datetimeType(driver))
}

func IndicatorTableSQL(driver, table string, columns []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS `%s`\n(\n", table)
	b.WriteString("    `asset_name` VARCHAR(32) NOT NULL,\n")
	b.WriteString("    `interval`   VARCHAR(8)  NOT NULL,\n")
	fmt.Fprintf(&b, "    `open_time`  %s NOT NULL,\n", datetimeType(driver))
	fmt.Fprintf(&b, "    `close_time` %s NOT NULL,\n", datetimeType(driver))
	for _, column := range columns {
		fmt.Fprintf(&b, "    `%s` DECIMAL(30, 12) NULL,\n", column)
	}
	b.WriteString("    PRIMARY KEY (`asset_name`, `interval`, `open_time`, `close_time`)\n);")
	return b.String()
}

func DropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS `%s`;", table)
}
