// Package export walks a decoded catalog and renders every card to a PNG
// artifact on disk. One bad card never stops the batch: render and write
// failures are collected into the run summary and the iteration carries on.
package export

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duelcraft/cardpress/internal/card"
	"github.com/duelcraft/cardpress/internal/catalog"
	"github.com/duelcraft/cardpress/internal/logging"
)

// Renderer turns one card plus its style's icon and accent color into PNG
// bytes. Implementations must be safe to call concurrently for different
// cards and must not mutate the card.
type Renderer interface {
	Render(ctx context.Context, c card.Card, icon string, accent catalog.Color) ([]byte, error)
}

// ProgressFunc receives one event after every attempted card. Events are
// delivered serially in non-decreasing exported order, off the rendering
// goroutines, so a slow observer never corrupts counts or stalls rendering.
type ProgressFunc func(exported, total int, styleName string)

// Options tunes an Exporter.
type Options struct {
	// Workers caps concurrent renders. Zero means one per CPU.
	Workers int
	// Style restricts the run to a single group key.
	Style string
	// OnProgress, when set, observes per-card progress.
	OnProgress ProgressFunc
	Logger     *slog.Logger
}

// Exporter orchestrates a batch export run.
type Exporter struct {
	renderer   Renderer
	writer     Writer
	dirs       Provisioner
	workers    int
	style      string
	onProgress ProgressFunc
	logger     *slog.Logger
}

// New builds an Exporter from its collaborators.
func New(renderer Renderer, writer Writer, dirs Provisioner, opts Options) *Exporter {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Exporter{
		renderer:   renderer,
		writer:     writer,
		dirs:       dirs,
		workers:    workers,
		style:      opts.Style,
		onProgress: opts.OnProgress,
		logger:     logging.WithComponent(opts.Logger, "export"),
	}
}

// Failure records one card that produced no artifact.
type Failure struct {
	CardID string
	Style  string
	Op     string // "render" or "write"
	Reason string
}

// Summary is the terminal result of one export run. Attempted counts every
// card the run reached, including ones that failed to render.
type Summary struct {
	RunID     string
	Root      string
	Attempted int
	Succeeded int
	Failed    int
	Failures  []Failure
	StartedAt time.Time
	Duration  time.Duration
}

type job struct {
	card     card.Card
	style    catalog.FightingStyle
	groupKey string
	path     string

	data      []byte
	renderErr error
	done      chan struct{}
}

// ExportAll renders every card in the catalog under root. Each style gets its
// own subdirectory; when that directory cannot be provisioned the style's
// cards land directly under root and the run continues. The only fatal
// failure is a cancelled context, and even then the summary reflects the
// cards attempted so far.
func (e *Exporter) ExportAll(ctx context.Context, cat catalog.Catalog, root string) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		Root:      root,
		StartedAt: time.Now(),
	}
	logger := e.logger.With(logging.Args(logging.String(logging.FieldRunID, summary.RunID))...)

	jobs := e.plan(cat, root, logger)
	total := len(jobs)

	logger.Info("export started",
		logging.Args(logging.Int("cards", total), logging.String("root", root))...)

	// Renders run on a worker pool; writes and progress delivery stay on
	// this goroutine in catalog walk order, so progress counts are
	// monotonic and no two writes race on the same path.
	work := make(chan *job, total)
	for _, j := range jobs {
		work <- j
	}
	close(work)

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range work {
				if ctx.Err() == nil {
					j.data, j.renderErr = e.renderer.Render(ctx, j.card, j.style.Icon, j.style.Color)
				} else {
					j.renderErr = ctx.Err()
				}
				close(j.done)
			}
		}()
	}

	events := make(chan progressEvent, total)
	var deliveryWG sync.WaitGroup
	deliveryWG.Add(1)
	go func() {
		defer deliveryWG.Done()
		for ev := range events {
			if e.onProgress != nil {
				e.onProgress(ev.exported, ev.total, ev.styleName)
			}
		}
	}()

	var runErr error
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		<-j.done
		e.finishCard(j, summary, total, events, logger)
	}

	close(events)
	deliveryWG.Wait()
	wg.Wait()

	summary.Duration = time.Since(summary.StartedAt)
	logger.Info("export completed",
		logging.Args(
			logging.Int("attempted", summary.Attempted),
			logging.Int("succeeded", summary.Succeeded),
			logging.Int("failed", summary.Failed),
			logging.Duration("duration", summary.Duration),
		)...)
	return summary, runErr
}

type progressEvent struct {
	exported  int
	total     int
	styleName string
}

// plan walks the catalog, provisions per-style directories (falling back to
// root when a directory cannot be provisioned), and lays out one job per card
// in a fixed order. The total is known before any render or write happens.
func (e *Exporter) plan(cat catalog.Catalog, root string, logger *slog.Logger) []*job {
	keys := make([]string, 0, len(cat))
	for key := range cat {
		if e.style != "" && key != e.style {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var jobs []*job
	for _, key := range keys {
		style := cat[key]

		dir := filepath.Join(root, sanitizeName(style.StyleName))
		if err := e.dirs.Ensure(dir); err != nil {
			logger.Warn("style directory unavailable, falling back to root",
				logging.Args(
					logging.String(logging.FieldStyle, key),
					logging.String("dir", dir),
					logging.Error(err),
				)...)
			dir = root
		}

		for _, c := range style.Cards {
			jobs = append(jobs, &job{
				card:     c,
				style:    style,
				groupKey: key,
				path:     filepath.Join(dir, sanitizeName(c.ID)+".png"),
				done:     make(chan struct{}),
			})
		}
	}
	return jobs
}

// finishCard records one attempted card: write on render success, failure
// bookkeeping otherwise, and exactly one progress event either way.
func (e *Exporter) finishCard(j *job, summary *Summary, total int, events chan<- progressEvent, logger *slog.Logger) {
	summary.Attempted++

	if j.renderErr != nil {
		summary.Failed++
		summary.Failures = append(summary.Failures, Failure{
			CardID: j.card.ID, Style: j.groupKey, Op: "render", Reason: j.renderErr.Error(),
		})
		logger.Warn("render failed, skipping card",
			logging.Args(
				logging.String(logging.FieldCardID, j.card.ID),
				logging.String(logging.FieldStyle, j.groupKey),
				logging.Error(j.renderErr),
			)...)
	} else if err := e.writer.Write(j.path, j.data); err != nil {
		summary.Failed++
		summary.Failures = append(summary.Failures, Failure{
			CardID: j.card.ID, Style: j.groupKey, Op: "write", Reason: err.Error(),
		})
		logger.Warn("write failed, skipping card",
			logging.Args(
				logging.String(logging.FieldCardID, j.card.ID),
				logging.String("path", j.path),
				logging.Error(err),
			)...)
	} else {
		summary.Succeeded++
		logger.Debug("card exported",
			logging.Args(
				logging.String(logging.FieldCardID, j.card.ID),
				logging.String("path", j.path),
			)...)
	}

	events <- progressEvent{exported: summary.Attempted, total: total, styleName: j.groupKey}
}

// sanitizeName replaces spaces with underscores. Card ids and style names are
// otherwise used verbatim in artifact paths.
func sanitizeName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
