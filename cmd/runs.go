package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/duelcraft/cardpress/internal/runlog"
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent export runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := runlog.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Run", "Started", "Duration", "Root", "Attempted", "Succeeded", "Failed"})
		for _, r := range runs {
			t.AppendRow(table.Row{
				shortID(r.ID),
				r.StartedAt.Local().Format(time.DateTime),
				r.Duration.Round(10 * time.Millisecond),
				r.Root,
				r.Attempted, r.Succeeded, r.Failed,
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runsCmd)

	runsCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list")
}
