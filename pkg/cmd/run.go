package cmd

import (
	"context"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/c9s/indicalc/pkg/calculator"
	"github.com/c9s/indicalc/pkg/cmd/cmdutil"
	"github.com/c9s/indicalc/pkg/progress"
	"github.com/c9s/indicalc/pkg/server"
	"github.com/c9s/indicalc/pkg/service"
	"github.com/c9s/indicalc/pkg/supervisor"
	"github.com/c9s/indicalc/pkg/types"
	"github.com/c9s/indicalc/pkg/util"
)

func init() {
	RunCmd.Flags().Bool("migrate", false, "apply the pending migrations before starting")
	RootCmd.AddCommand(RunCmd)
}

var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "run the indicator workers of every configured pair",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}

		setupFileLogging(conf.Logging)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go func() {
			if sig := cmdutil.WaitForSignal(ctx, syscall.SIGINT, syscall.SIGTERM); sig != nil {
				log.Infof("%s received, shutting down...", sig)
			}
			cancel()
		}()

		db, err := cmdutil.ConnectDatabase(ctx, conf.Database)
		if err != nil {
			return err
		}

		defer func() {
			util.LogErr(db.Close(), "unable to close the database")
		}()

		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := db.Upgrade(ctx); err != nil {
				return err
			}
		}

		schema, err := service.NewIndicatorSchema(conf.Indicators)
		if err != nil {
			return err
		}

		candleService := &service.CandleService{DB: db.DB}
		indicatorService := &service.IndicatorService{DB: db.DB, Schema: schema}

		facade := service.NewPersistenceServiceFacade(conf.Persistence.Redis, conf.Persistence.Json)
		persistence, err := facade.Get(conf.Status.Persistence)
		if err != nil {
			return err
		}

		if facade.Redis != nil && conf.Status.Persistence == "redis" {
			if err := facade.Redis.Ping(ctx); err != nil {
				return errors.Wrap(err, "redis status store is not reachable")
			}
		}

		var tracker *progress.Tracker
		if conf.Progress {
			tracker = progress.NewTracker()
			if err := tracker.Start(); err != nil {
				return errors.Wrap(err, "unable to start the progress display")
			}

			defer func() {
				if err := tracker.Stop(); err != nil {
					log.WithError(err).Warn("unable to stop the progress display")
				}
			}()
		}

		options := conf.WorkerOptions()
		factory := func(pair types.Pair, onStatus func(types.PairStatus)) supervisor.Worker {
			w := calculator.NewWorker(pair, candleService, indicatorService, options)
			w.OnStatus = onStatus
			if tracker != nil {
				w.Progress = tracker
			}

			return w
		}

		sup := supervisor.New(conf.Pairs(), factory)
		sup.StartupDelay = conf.Supervisor.StartupDelay
		sup.PollInterval = conf.Supervisor.PollInterval
		sup.Persistence = persistence

		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			return sup.Run(groupCtx)
		})

		if conf.Server.Bind != "" {
			srv := &server.Server{
				Bind:       conf.Server.Bind,
				Status:     sup,
				Indicators: indicatorService,
			}

			group.Go(func() error {
				return srv.Run(groupCtx)
			})
		}

		log.Infof("indicalc started with %d pairs", len(conf.Pairs()))
		return group.Wait()
	},
}
