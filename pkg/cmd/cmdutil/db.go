package cmdutil

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/c9s/indicalc/pkg/config"
	"github.com/c9s/indicalc/pkg/service"
	"github.com/c9s/indicalc/pkg/util/backoff"
)

// LoadConfig loads the config file given by the --config flag and applies the
// database flag overrides.
func LoadConfig() (*config.Config, error) {
	conf, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}

	if driver := viper.GetString("db-driver"); driver != "" {
		conf.Database.Driver = driver
	}

	if dsn := viper.GetString("db-dsn"); dsn != "" {
		conf.Database.DSN = dsn
	}

	return conf, conf.Validate()
}

// ConnectDatabase opens the configured database, retrying while the server is not
// reachable yet.
func ConnectDatabase(ctx context.Context, conf config.DatabaseConfig) (*service.DatabaseService, error) {
	db, err := service.NewDatabaseService(conf.Driver, conf.DSN)
	if err != nil {
		return nil, err
	}

	attempt := 0
	err = backoff.RetryGeneral(ctx, func() error {
		attempt++
		err := db.Connect(ctx)
		if err != nil {
			log.WithError(err).Warnf("database connection attempt %d failed", attempt)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}
