package cmd

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/c9s/indicalc/pkg/cmd/cmdutil"
	"github.com/c9s/indicalc/pkg/config"
	"github.com/c9s/indicalc/pkg/envvar"
)

var RootCmd = &cobra.Command{
	Use:   "indicalc",
	Short: "indicalc indicator calculator",
	Long:  "continuously computes EMA, SMA and ATR over the stored candles",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dotenvFile := viper.GetString("dotenv")
		if _, err := os.Stat(dotenvFile); err == nil {
			if err := godotenv.Load(dotenvFile); err != nil {
				return errors.Wrapf(err, "error loading dotenv file %s", dotenvFile)
			}
		}

		if viper.GetBool("debug") {
			log.SetLevel(log.DebugLevel)
		}

		log.SetFormatter(newLogFormatter(viper.GetString("log-formatter")))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	// A flag can be 'persistent' meaning that this flag will be available to
	// the command it's assigned to as well as every command under that command.
	// For global flags, assign a flag as a persistent flag on the root.
	cmdutil.PersistentFlags(RootCmd.PersistentFlags())
}

func isProduction() bool {
	env, _ := envvar.String("INDICALC_ENV")
	switch env {
	case "production", "prod":
		return true
	}

	return false
}

func newLogFormatter(name string) log.Formatter {
	switch name {
	case "json":
		return &log.JSONFormatter{}
	case "text":
		return &log.TextFormatter{FullTimestamp: true}
	case "prefixed":
		return &prefixed.TextFormatter{FullTimestamp: true}
	}

	if isProduction() {
		return &log.JSONFormatter{}
	}

	return &prefixed.TextFormatter{FullTimestamp: true}
}

// setupFileLogging writes json logs into the rolling file configured by logging.file.
func setupFileLogging(conf config.LoggingConfig) {
	if conf.File == "" {
		return
	}

	writer := &lumberjack.Logger{
		Filename:   conf.File,
		MaxSize:    conf.MaxSizeMB,
		MaxAge:     conf.MaxAgeDays,
		MaxBackups: conf.MaxBackups,
	}

	logger := log.StandardLogger()
	logger.AddHook(
		lfshook.NewHook(
			lfshook.WriterMap{
				log.DebugLevel: writer,
				log.InfoLevel:  writer,
				log.WarnLevel:  writer,
				log.ErrorLevel: writer,
				log.FatalLevel: writer,
			},
			&log.JSONFormatter{},
		),
	)
}

func Execute() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	// Once the flags are defined, we can bind config keys with flags.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}

	if err := viper.BindPFlags(RootCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind local flags. please check the flag settings.")
	}

	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatalf("cannot execute command")
	}
}
