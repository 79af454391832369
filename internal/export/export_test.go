package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/duelcraft/cardpress/internal/card"
	"github.com/duelcraft/cardpress/internal/catalog"
)

func testCard(id string) card.Card {
	return card.Card{
		ID:               id,
		Name:             "Card " + id,
		Type:             card.TypeAttack,
		Cost:             1,
		FocusDie:         card.FocusD6,
		Effect:           "Deal 1 damage.",
		FlavorText:       "A test card.",
		RangeRestriction: card.RangeAny,
	}
}

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		"Longsword": {
			StyleName: "Longsword",
			StyleType: catalog.StyleMartial,
			Icon:      "bolt.horizontal.fill",
			Color:     catalog.Color{Blue: 0.8},
			Cards:     []card.Card{testCard("LS-01"), testCard("LS-02"), testCard("LS-03")},
		},
		"Battle Axe": {
			StyleName: "Battle Axe",
			StyleType: catalog.StyleMartial,
			Icon:      "hammer.fill",
			Color:     catalog.Color{Red: 0.6},
			Cards:     []card.Card{testCard("BA-01"), testCard("BA 02")},
		},
	}
}

// fakeRenderer renders deterministic bytes, failing for ids in failIDs.
type fakeRenderer struct {
	mu      sync.Mutex
	failIDs map[string]bool
	calls   int
}

func (r *fakeRenderer) Render(_ context.Context, c card.Card, _ string, _ catalog.Color) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.failIDs[c.ID] {
		return nil, errors.New("render exploded")
	}
	return []byte("png:" + c.ID), nil
}

type failingProvisioner struct {
	failDirs map[string]bool
	inner    Provisioner
}

func (p failingProvisioner) Ensure(path string) error {
	if p.failDirs[filepath.Base(path)] {
		return errors.New("provision refused")
	}
	return p.inner.Ensure(path)
}

type event struct {
	exported, total int
	style           string
}

func runExport(t *testing.T, renderer Renderer, dirs Provisioner, opts Options) (*Summary, []event, string) {
	t.Helper()
	root := t.TempDir()

	var mu sync.Mutex
	var events []event
	opts.OnProgress = func(exported, total int, style string) {
		mu.Lock()
		events = append(events, event{exported, total, style})
		mu.Unlock()
	}

	exp := New(renderer, AtomicWriter{}, dirs, opts)
	summary, err := exp.ExportAll(context.Background(), testCatalog(), root)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	return summary, events, root
}

func TestExportProgressMonotonic(t *testing.T) {
	summary, events, _ := runExport(t, &fakeRenderer{}, DirProvisioner{}, Options{Workers: 3})

	if len(events) != 5 {
		t.Fatalf("got %d progress events, want 5", len(events))
	}
	for i, ev := range events {
		if ev.exported != i+1 {
			t.Errorf("event %d: exported = %d, want %d", i, ev.exported, i+1)
		}
		if ev.total != 5 {
			t.Errorf("event %d: total = %d, want 5", i, ev.total)
		}
	}
	if summary.Attempted != 5 || summary.Succeeded != 5 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestExportArtifactLayout(t *testing.T) {
	_, _, root := runExport(t, &fakeRenderer{}, DirProvisioner{}, Options{})

	// Style directories use sanitized style names; files use sanitized ids.
	expected := []string{
		"Longsword/LS-01.png",
		"Longsword/LS-02.png",
		"Longsword/LS-03.png",
		"Battle_Axe/BA-01.png",
		"Battle_Axe/BA_02.png",
	}
	for _, rel := range expected {
		path := filepath.Join(root, rel)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("missing artifact %s: %v", rel, err)
			continue
		}
		if !strings.HasPrefix(string(data), "png:") {
			t.Errorf("%s: unexpected content %q", rel, data)
		}
	}
}

func TestExportIsolatesRenderFailures(t *testing.T) {
	renderer := &fakeRenderer{failIDs: map[string]bool{"LS-02": true}}
	summary, events, root := runExport(t, renderer, DirProvisioner{}, Options{Workers: 2})

	if len(events) != 5 {
		t.Fatalf("got %d progress events, want 5 despite the failure", len(events))
	}
	if summary.Attempted != 5 || summary.Succeeded != 4 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 4 succeeded / 1 failed", summary)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].CardID != "LS-02" || summary.Failures[0].Op != "render" {
		t.Errorf("failures = %+v", summary.Failures)
	}
	if _, err := os.Stat(filepath.Join(root, "Longsword", "LS-02.png")); !os.IsNotExist(err) {
		t.Error("failed card must not produce an artifact")
	}
	if _, err := os.Stat(filepath.Join(root, "Longsword", "LS-03.png")); err != nil {
		t.Errorf("later card missing: %v", err)
	}
}

func TestExportFallsBackToRootOnProvisionFailure(t *testing.T) {
	dirs := failingProvisioner{
		failDirs: map[string]bool{"Battle_Axe": true},
		inner:    DirProvisioner{},
	}
	summary, events, root := runExport(t, &fakeRenderer{}, dirs, Options{})

	if summary.Failed != 0 || summary.Attempted != 5 {
		t.Errorf("summary = %+v, provisioning failure must not fail cards", summary)
	}
	if len(events) != 5 {
		t.Errorf("got %d progress events, want 5", len(events))
	}
	// Battle Axe cards land directly under root.
	for _, name := range []string{"BA-01.png", "BA_02.png"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("fallback artifact %s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "Longsword", "LS-01.png")); err != nil {
		t.Errorf("unaffected style broken: %v", err)
	}
}

func TestExportSingleStyle(t *testing.T) {
	summary, events, root := runExport(t, &fakeRenderer{}, DirProvisioner{}, Options{Style: "Longsword"})

	if summary.Attempted != 3 {
		t.Errorf("attempted = %d, want 3", summary.Attempted)
	}
	for _, ev := range events {
		if ev.total != 3 || ev.style != "Longsword" {
			t.Errorf("unexpected event %+v", ev)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "Battle_Axe")); !os.IsNotExist(err) {
		t.Error("filtered style should not be provisioned")
	}
}

// cancelRenderer cancels the run while rendering a specific card.
type cancelRenderer struct {
	cancelOn string
	cancel   context.CancelFunc
}

func (r *cancelRenderer) Render(_ context.Context, c card.Card, _ string, _ catalog.Color) ([]byte, error) {
	if c.ID == r.cancelOn {
		r.cancel()
		return nil, errors.New("cancelled mid-run")
	}
	return []byte("png:" + c.ID), nil
}

func TestExportCancellationBetweenCards(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	// Styles are walked in sorted key order, so LS-01 is the third job.
	renderer := &cancelRenderer{cancelOn: "LS-01", cancel: cancel}

	// With one worker the catalog walk is strictly sequential, so the
	// cancellation lands before the last two cards are attempted.
	exp := New(renderer, AtomicWriter{}, DirProvisioner{}, Options{Workers: 1})
	summary, err := exp.ExportAll(ctx, testCatalog(), t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if summary.Attempted >= 5 {
		t.Errorf("attempted = %d, cancellation should stop the walk early", summary.Attempted)
	}
}

func TestDirProvisionerIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	p := DirProvisioner{}

	if err := p.Ensure(path); err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	if err := p.Ensure(path); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
}

func TestDirProvisionerRejectsFileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	p := DirProvisioner{}
	first := p.Ensure(path)
	if first == nil {
		t.Fatal("expected error for non-directory path")
	}
	// Never destructive: the file must still exist, and a second call fails
	// the same way.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("provisioner deleted the file: %v", err)
	}
	second := p.Ensure(path)
	if second == nil || second.Error() != first.Error() {
		t.Errorf("second Ensure = %v, want same failure as %v", second, first)
	}
}

func TestDirProvisionerRejectsUnwritableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root writes everywhere, permission bits have no effect")
	}
	path := filepath.Join(t.TempDir(), "readonly")
	if err := os.Mkdir(path, 0o555); err != nil {
		t.Fatal(err)
	}
	p := DirProvisioner{}

	first := p.Ensure(path)
	if !errors.Is(first, os.ErrPermission) {
		t.Fatalf("first Ensure = %v, want permission error", first)
	}
	second := p.Ensure(path)
	if !errors.Is(second, os.ErrPermission) {
		t.Fatalf("second Ensure = %v, want same permission failure", second)
	}

	// Never destructive: the directory stays, untouched.
	entries, err := os.ReadDir(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("probe left %d entries behind", len(entries))
	}
}

func TestAtomicWriterLeavesNoPartials(t *testing.T) {
	dir := t.TempDir()
	w := AtomicWriter{}

	path := filepath.Join(dir, "card.png")
	if err := w.Write(path, []byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "data" {
		t.Fatalf("read back: %q %v", data, err)
	}

	// Writing into a missing directory fails without leaving temp droppings.
	if err := w.Write(filepath.Join(dir, "missing", "card.png"), []byte("data")); err == nil {
		t.Fatal("expected failure for missing directory")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".cardpress-tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestExportConcurrentRendersStillOrdered(t *testing.T) {
	// A large worker count must not reorder or duplicate progress events.
	renderer := &fakeRenderer{}
	summary, events, _ := runExport(t, renderer, DirProvisioner{}, Options{Workers: 16})

	if renderer.calls != 5 {
		t.Errorf("renderer calls = %d, want 5", renderer.calls)
	}
	for i := 1; i < len(events); i++ {
		if events[i].exported != events[i-1].exported+1 {
			t.Fatalf("non-monotonic progress: %+v", events)
		}
	}
	if summary.Attempted != 5 {
		t.Errorf("attempted = %d", summary.Attempted)
	}
}
