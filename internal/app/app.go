// # internal/app/app.go
package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"condense/internal/config"
	errs "condense/internal/core/errors"
	"condense/internal/data/cache"
	"condense/internal/output"
	"condense/internal/parser"
	"condense/internal/shared/observability"
	"condense/internal/shared/util"
	"condense/internal/summary"
	"condense/internal/watcher"
)

// Update describes the state after a scan or watch-triggered refresh.
type Update struct {
	FilesSummarized int
	Warnings        []string
}

type App struct {
	Config *config.Config
	Parser *parser.Parser
	Cache  *cache.Store // nil when caching is disabled

	budget  summary.Budget
	runID   string
	limiter *util.Limiter
	watch   *watcher.Watcher

	summariesMu sync.RWMutex
	summaries   map[string]output.FileSummary

	updateMu sync.RWMutex
	onUpdate func(Update)
}

func New(cfg *config.Config) (*App, error) {
	budget, err := budgetFromConfig(cfg.Budget)
	if err != nil {
		return nil, err
	}

	registry := parser.ApplyOverrides(parser.DefaultLanguageRegistry(), overridesFromConfig(cfg.Languages))

	a := &App{
		Config:    cfg,
		Parser:    parser.NewParser(registry),
		budget:    budget,
		runID:     uuid.NewString(),
		limiter:   util.NewLimiter(cfg.Limits.FilesPerSecond, 10),
		summaries: make(map[string]output.FileSummary),
	}

	if cfg.Cache.Path != "" {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		a.Cache = store
	}

	return a, nil
}

func budgetFromConfig(b config.Budget) (summary.Budget, error) {
	switch b.Unit {
	case "", "lines":
		return summary.Budget{Limit: b.Limit, Unit: summary.UnitLines}, nil
	case "tokens":
		return summary.Budget{Limit: b.Limit, Unit: summary.UnitTokens}, nil
	default:
		return summary.Budget{}, errs.Newf(errs.CodeValidationError, "unknown budget unit %q", b.Unit)
	}
}

func overridesFromConfig(in map[string]config.LanguageOverride) map[string]parser.LanguageOverride {
	out := make(map[string]parser.LanguageOverride, len(in))
	for name, ov := range in {
		out[name] = parser.LanguageOverride{
			Enabled:    ov.Enabled,
			Extensions: ov.Extensions,
		}
	}
	return out
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) notify(u Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(u)
	}
}

// InitialScan summarizes every supported file under the configured paths.
// Files are independent, so they are processed in parallel; each call to
// the summarizer is stateless.
func (a *App) InitialScan(ctx context.Context) error {
	ctx, span := observability.Tracer.Start(ctx, "app.InitialScan")
	defer span.End()

	files, err := a.ScanDirectories(a.Config.Paths)
	if err != nil {
		return errs.AddContext(err, errs.CtxOperation, "scan_directories")
	}

	var warnings []string
	var warnMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, filePath := range files {
		g.Go(func() error {
			if err := a.limiter.Wait(gctx, 1); err != nil {
				return err
			}
			if err := a.ProcessFile(gctx, filePath); err != nil {
				warnMu.Lock()
				warnings = append(warnings, filePath+": "+err.Error())
				warnMu.Unlock()
				slog.Warn("failed to process file", "path", filePath, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if heap := util.HeapAllocMB(); heap > uint64(a.Config.Limits.MaxHeapMB) {
		slog.Warn("heap allocation above configured limit", "heap_mb", heap, "limit_mb", a.Config.Limits.MaxHeapMB)
	}

	a.notify(Update{FilesSummarized: a.SummaryCount(), Warnings: warnings})
	return nil
}

// ScanDirectories walks the roots collecting supported files, honoring
// exclude globs. Returned paths are sorted for deterministic processing.
func (a *App) ScanDirectories(roots []string) ([]string, error) {
	dirGlobs, err := compileGlobs(a.Config.Exclude.Dirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(a.Config.Exclude.Files)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if matchAny(dirGlobs, filepath.Base(path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if matchAny(fileGlobs, filepath.Base(path)) {
				return nil
			}
			if !a.Parser.IsSupportedPath(path) {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// ProcessFile summarizes one file, consulting the cache first. The cache
// key includes the content hash and budget, so a stale entry can never be
// served for changed input.
func (a *App) ProcessFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(err, errs.CodeNotFound, "read file")
	}

	lang := a.Parser.GetLanguage(path)
	if lang == "" {
		return errs.Newf(errs.CodeNotSupported, "unsupported file type: %s", path)
	}

	hash := util.ContentHash(content)
	if a.Cache != nil {
		if cached, ok, err := a.Cache.Get(path, hash, a.budget.Limit, a.budget.Unit.String()); err != nil {
			slog.Warn("cache lookup failed", "path", path, "error", err)
		} else if ok {
			a.record(path, lang, cached)
			return nil
		}
	}

	tree, err := a.Parser.ParseFile(path, content)
	if err != nil {
		return err
	}

	text, err := summary.Summarize(tree, a.budget)
	if err != nil {
		return errs.AddContext(err, errs.CtxPath, path)
	}

	observability.FilesSummarized.WithLabelValues(lang).Inc()
	a.record(path, lang, text)

	if a.Cache != nil {
		entry := cache.Entry{
			Path:        path,
			ContentHash: hash,
			BudgetLimit: a.budget.Limit,
			BudgetUnit:  a.budget.Unit.String(),
			Language:    lang,
			Summary:     text,
			RunID:       a.runID,
		}
		if err := a.Cache.Put(entry); err != nil {
			slog.Warn("cache write failed", "path", path, "error", err)
		}
	}
	return nil
}

func (a *App) record(path, lang, text string) {
	a.summariesMu.Lock()
	defer a.summariesMu.Unlock()
	a.summaries[path] = output.FileSummary{Path: path, Language: lang, Summary: text}
}

// forget retires the summary for path. A removed directory arrives as a
// single event, so anything beneath it is retired too.
func (a *App) forget(path string) {
	a.summariesMu.Lock()
	defer a.summariesMu.Unlock()
	delete(a.summaries, path)
	for key := range a.summaries {
		if util.HasPathPrefix(key, path) {
			delete(a.summaries, key)
		}
	}
}

// Summaries returns a snapshot of all current summaries.
func (a *App) Summaries() []output.FileSummary {
	a.summariesMu.RLock()
	defer a.summariesMu.RUnlock()
	out := make([]output.FileSummary, 0, len(a.summaries))
	for _, key := range util.SortedStringKeys(a.summaries) {
		out = append(out, a.summaries[key])
	}
	return out
}

func (a *App) SummaryCount() int {
	a.summariesMu.RLock()
	defer a.summariesMu.RUnlock()
	return len(a.summaries)
}

// GenerateOutputs writes the per-file summaries and the markdown report,
// as configured.
func (a *App) GenerateOutputs() error {
	summaries := a.Summaries()

	if a.Config.Output.Dir != "" {
		for _, fs := range summaries {
			if _, err := output.WriteSummary(a.Config.Output.Dir, a.Config.Output.Suffix, fs.Path, fs.Summary); err != nil {
				return errs.AddContext(err, errs.CtxPath, fs.Path)
			}
		}
	}

	if a.Config.Output.Report != "" {
		md := output.NewMarkdownGenerator(summaries).Generate()
		if err := util.WriteStringWithDirs(a.Config.Output.Report, md, 0o644); err != nil {
			return errs.AddContext(err, errs.CtxPath, a.Config.Output.Report)
		}
	}
	return nil
}

// StartWatcher begins re-summarizing on file changes.
func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.handleWatchEvent,
	)
	if err != nil {
		return err
	}
	a.watch = w
	return w.Watch(a.Config.Paths)
}

func (a *App) handleWatchEvent(ev watcher.Event) {
	ctx := context.Background()

	var warnings []string
	for _, path := range ev.Changed {
		if !a.Parser.IsSupportedPath(path) {
			continue
		}
		if err := a.ProcessFile(ctx, path); err != nil {
			warnings = append(warnings, path+": "+err.Error())
			slog.Warn("failed to re-summarize file", "path", path, "error", err)
		}
	}

	for _, path := range ev.Removed {
		a.forget(path)
		if a.Cache != nil {
			if err := a.Cache.PurgePath(path); err != nil {
				slog.Warn("cache purge failed", "path", path, "error", err)
			}
		}
	}

	if err := a.GenerateOutputs(); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	a.notify(Update{FilesSummarized: a.SummaryCount(), Warnings: warnings})
}

func (a *App) Close() error {
	var first error
	if a.watch != nil {
		if err := a.watch.Close(); err != nil {
			first = err
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errs.Wrap(err, errs.CodeValidationError, "invalid exclude pattern "+pattern)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, value string) bool {
	for _, g := range globs {
		if g.Match(value) {
			return true
		}
	}
	return false
}
