package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/c9s/indicalc/pkg/cmd/cmdutil"
	"github.com/c9s/indicalc/pkg/service"
	"github.com/c9s/indicalc/pkg/supervisor"
	"github.com/c9s/indicalc/pkg/types"
)

func init() {
	RootCmd.AddCommand(StatusCmd)
}

var StatusCmd = &cobra.Command{
	Use:          "status",
	Short:        "show the persisted status of every pair",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}

		if conf.Status.Persistence == "memory" {
			return errors.New("pair statuses are kept in memory, configure status.persistence as json or redis")
		}

		facade := service.NewPersistenceServiceFacade(conf.Persistence.Redis, conf.Persistence.Json)
		persistence, err := facade.Get(conf.Status.Persistence)
		if err != nil {
			return err
		}

		statuses, err := loadStatuses(persistence, conf.Pairs())
		if err != nil {
			return err
		}

		renderStatuses(os.Stdout, statuses, time.Now())
		return nil
	},
}

func loadStatuses(persistence service.PersistenceService, pairs []types.Pair) ([]types.PairStatus, error) {
	statuses := make([]types.PairStatus, 0, len(pairs))
	for _, pair := range pairs {
		status := types.PairStatus{Pair: pair}
		err := supervisor.StatusStore(persistence, pair).Load(&status)
		if err != nil && !errors.Is(err, service.ErrPersistenceNotExists) {
			return nil, err
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.UTC().Format("2006-01-02 15:04:05")
}

func renderStatuses(w io.Writer, statuses []types.PairStatus, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Asset", "Interval", "State", "Checkpoint", "Last Close", "Window", "Cycles", "Restarts", "Updated", "Last Error"})

	failed := 0
	for _, s := range statuses {
		if s.State == types.PairStateFailed {
			failed++
		}

		state := string(s.State)
		if state == "" {
			state = "unknown"
		}

		updated := "-"
		if !s.UpdatedAt.IsZero() {
			updated = fmt.Sprintf("%s ago", now.Sub(s.UpdatedAt).Truncate(time.Second))
		}

		t.AppendRow(table.Row{
			s.Pair.Asset, s.Pair.Interval, state,
			formatTime(s.Checkpoint), formatTime(s.LastClose),
			s.WindowSize, s.Cycles, s.Restarts, updated, s.LastError,
		})
	}

	t.Render()

	if failed > 0 {
		color.New(color.FgRed).Fprintf(w, "%d of %d pairs failed\n", failed, len(statuses))
	} else {
		color.New(color.FgGreen).Fprintf(w, "%d pairs, no failures\n", len(statuses))
	}
}
