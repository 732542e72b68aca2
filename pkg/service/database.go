package service

import (
	"context"

	"github.com/c9s/rockhopper"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/c9s/indicalc/pkg/migrations"
)

type DatabaseService struct {
	Driver string
	DSN    string
	DB     *sqlx.DB
}

func NewDatabaseService(driver, dsn string) (*DatabaseService, error) {
	if driver == "mysql" {
		var err error
		dsn, err = ReformatMysqlDSN(dsn)
		if err != nil {
			return nil, errors.Wrap(err, "invalid mysql dsn")
		}
	}

	return &DatabaseService{
		Driver: driver,
		DSN:    dsn,
	}, nil
}

func (s *DatabaseService) Connect(ctx context.Context) error {
	var err error
	s.DB, err = sqlx.ConnectContext(ctx, s.Driver, s.DSN)
	if err != nil {
		return errors.Wrapf(err, "unable to connect to the %s database", s.Driver)
	}

	// an in-memory sqlite database lives in a single connection
	if s.Driver == "sqlite3" {
		s.DB.SetMaxOpenConns(1)
	}

	return nil
}

func (s *DatabaseService) Close() error {
	if s.DB == nil {
		return nil
	}

	return s.DB.Close()
}

// Upgrade applies the pending schema migrations.
func (s *DatabaseService) Upgrade(ctx context.Context) error {
	migrations.Driver = s.Driver

	dialect, err := rockhopper.LoadDialect(s.Driver)
	if err != nil {
		return err
	}

	loader := &rockhopper.GoMigrationLoader{}
	migrationList, err := loader.Load()
	if err != nil {
		return err
	}

	// sqlx.DB is different from sql.DB
	rh := rockhopper.New(s.Driver, dialect, s.DB.DB)

	currentVersion, err := rh.CurrentVersion()
	if err != nil {
		return err
	}

	if err := rockhopper.Up(ctx, rh, migrationList, currentVersion, 0); err != nil {
		return errors.Wrap(err, "migration failed")
	}

	return nil
}

func ReformatMysqlDSN(dsn string) (string, error) {
	config, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}

	config.ParseTime = true
	dsn = config.FormatDSN()
	return dsn, nil
}
