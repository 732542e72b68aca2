package cmdutil

import "github.com/spf13/pflag"

// PersistentFlags defines the flags shared by every command
func PersistentFlags(flags *pflag.FlagSet) {
	flags.String("config", "indicalc.yaml", "config file")
	flags.Bool("debug", false, "debug flag")
	flags.String("dotenv", ".env.local", "the dotenv file you want to load")
	flags.String("log-formatter", "", "log formatter: prefixed, text or json")
	flags.String("db-driver", "", "database driver, overrides database.driver (mysql or sqlite3)")
	flags.String("db-dsn", "", "database dsn, overrides database.dsn")
}
