package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/duelcraft/cardpress/internal/catalog"
	"github.com/duelcraft/cardpress/internal/export"
	"github.com/duelcraft/cardpress/internal/logging"
	"github.com/duelcraft/cardpress/internal/notify"
	"github.com/duelcraft/cardpress/internal/render"
	"github.com/duelcraft/cardpress/internal/runlog"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every card in the catalog as PNG images",
	Long: `Export renders each card to a fixed-size PNG under the export directory,
one subdirectory per fighting style. Individual render failures are reported
and skipped; the batch always runs to completion. Ctrl-C stops the run at the
next card boundary.

Examples:
  cardpress export
  cardpress export --style Longsword --out ./cards
  cardpress export --workers 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		catalogPath, _ := cmd.Flags().GetString("catalog")
		if catalogPath == "" {
			catalogPath = cfg.CatalogPath
		}
		root, _ := cmd.Flags().GetString("out")
		if root == "" {
			root = cfg.ExportDir
		}
		styleKey, _ := cmd.Flags().GetString("style")
		workers, _ := cmd.Flags().GetInt("workers")
		if workers == 0 {
			workers = cfg.Workers
		}

		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}
		if styleKey != "" {
			if _, ok := cat[styleKey]; !ok {
				return fmt.Errorf("style not found in catalog: %s", styleKey)
			}
		}

		if err := (export.DirProvisioner{}).Ensure(root); err != nil {
			return fmt.Errorf("export directory: %w", err)
		}

		// One in-flight run per export root.
		lock := flock.New(filepath.Join(root, ".cardpress.lock"))
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquiring export lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another export is already running against %s", root)
		}
		defer lock.Unlock()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		total := cat.TotalCards()
		if styleKey != "" {
			total = len(cat[styleKey].Cards)
		}
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetDescription("exporting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		renderer := render.NewCardRenderer(cfg.CardImagesDir, cfg.RenderScale, logger)
		exporter := export.New(renderer, export.AtomicWriter{}, export.DirProvisioner{}, export.Options{
			Workers: workers,
			Style:   styleKey,
			Logger:  logger,
			OnProgress: func(exported, total int, styleName string) {
				bar.Describe(fmt.Sprintf("exporting %s", styleName))
				bar.Set(exported)
			},
		})

		summary, runErr := exporter.ExportAll(ctx, cat, root)
		bar.Finish()

		printSummary(summary)

		if store, err := runlog.Open(cfg.HistoryDB); err != nil {
			logger.Warn("run history unavailable", logging.Args(logging.Error(err))...)
		} else {
			if err := store.Record(cmd.Context(), summary); err != nil {
				logger.Warn("failed to record run", logging.Args(logging.Error(err))...)
			}
			store.Close()
		}

		if err := notify.NewService(cfg.NotifyTopic).NotifyRunCompleted(cmd.Context(), summary); err != nil {
			logger.Warn("notification failed", logging.Args(logging.Error(err))...)
		}

		if runErr != nil {
			return fmt.Errorf("export interrupted: %w", runErr)
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d cards failed to export", summary.Failed, summary.Attempted)
		}
		return nil
	},
}

func printSummary(summary *export.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run", "Root", "Attempted", "Succeeded", "Failed", "Duration"})
	t.AppendRow(table.Row{
		shortID(summary.RunID), summary.Root,
		summary.Attempted, summary.Succeeded, summary.Failed,
		summary.Duration.Round(10 * time.Millisecond),
	})
	t.Render()

	if len(summary.Failures) > 0 {
		fmt.Println("\nFailed cards:")
		for _, f := range summary.Failures {
			fmt.Printf("  %s/%s: %s failed: %s\n", f.Style, f.CardID, f.Op, f.Reason)
		}
	}
}

func init() {
	RootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("out", "o", "", "Export root directory (default: configured export_dir)")
	exportCmd.Flags().StringP("catalog", "c", "", "Catalog file to export (default: configured catalog_path)")
	exportCmd.Flags().StringP("style", "s", "", "Export only the named style")
	exportCmd.Flags().IntP("workers", "w", 0, "Concurrent render workers (default: one per CPU)")
}
