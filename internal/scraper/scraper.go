package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"bd2mods/internal/catalog"
	"bd2mods/internal/config"
	"bd2mods/internal/logging"
	"bd2mods/internal/services"
)

// smallPageBytes flags static responses that are probably script shells.
const smallPageBytes = 5000

// SourceReport describes how one source was read.
type SourceReport struct {
	URL         string `json:"url"`
	Method      string `json:"method"`
	SelectorSet string `json:"selector_set"`
	Characters  int    `json:"characters"`
	Costumes    int    `json:"costumes"`
}

// Report aggregates a scrape over every configured source.
type Report struct {
	Sources    []SourceReport            `json:"sources"`
	Characters int                       `json:"characters"`
	Costumes   int                       `json:"costumes"`
	Records    []catalog.CharacterRecord `json:"-"`
}

// Scraper reads the catalog from the configured sources.
type Scraper struct {
	sources []string
	render  Fetcher
	static  Fetcher
	sets    []*compiledSet
	logger  *slog.Logger
}

// Option customizes a Scraper.
type Option func(*options)

type options struct {
	render    Fetcher
	renderSet bool
	static    Fetcher
	sets      []SelectorSet
	sources   []string
}

// WithRenderFetcher replaces the headless fetcher. A nil fetcher disables
// rendering.
func WithRenderFetcher(f Fetcher) Option {
	return func(o *options) {
		o.render = f
		o.renderSet = true
	}
}

// WithStaticFetcher replaces the plain HTTP fetcher.
func WithStaticFetcher(f Fetcher) Option {
	return func(o *options) { o.static = f }
}

// WithSelectorSets replaces the default selector cascade.
func WithSelectorSets(sets ...SelectorSet) Option {
	return func(o *options) { o.sets = append([]SelectorSet(nil), sets...) }
}

// WithSources replaces the configured source URLs.
func WithSources(urls ...string) Option {
	return func(o *options) { o.sources = append([]string(nil), urls...) }
}

// New builds a scraper from configuration. Every selector set is compiled
// here; an invalid selector is a parse error.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Scraper, error) {
	var scraperCfg config.Scraper
	if cfg != nil {
		scraperCfg = cfg.Scraper
	} else {
		scraperCfg = config.Default().Scraper
	}

	o := options{sets: DefaultSets(), sources: scraperCfg.Sources}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.renderSet && scraperCfg.RenderEnabled {
		o.render = NewRenderFetcher(scraperCfg)
	}
	if o.static == nil {
		o.static = NewStaticFetcher(scraperCfg)
	}
	if len(o.sets) == 0 {
		return nil, services.Wrap(services.ErrValidation, "scraper", "new", "no selector sets configured", nil)
	}

	compiled := make([]*compiledSet, 0, len(o.sets))
	for _, set := range o.sets {
		cs, err := compileSet(set)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, cs)
	}

	sources := make([]string, 0, len(o.sources))
	for _, src := range o.sources {
		if src = strings.TrimSpace(src); src != "" {
			sources = append(sources, src)
		}
	}

	return &Scraper{
		sources: sources,
		render:  o.render,
		static:  o.static,
		sets:    compiled,
		logger:  logging.NewComponentLogger(logger, "scraper"),
	}, nil
}

// Run scrapes every source in order. The first source that cannot be
// fetched or read aborts the run and nothing is returned for the others.
func (s *Scraper) Run(ctx context.Context) (Report, error) {
	if _, ok := services.RunIDFromContext(ctx); !ok {
		ctx = services.WithRunID(ctx, uuid.NewString())
	}
	ctx = services.WithOperation(ctx, "catalog_scrape")
	logger := logging.WithContext(ctx, s.logger)

	if len(s.sources) == 0 {
		return Report{}, services.Wrap(services.ErrValidation, "scraper", "run", "no sources configured", nil)
	}
	logger.Info("catalog scrape started", logging.Int("sources", len(s.sources)))

	var report Report
	for _, url := range s.sources {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		srcCtx := services.WithSource(ctx, url)
		srcLogger := logging.WithContext(srcCtx, s.logger)

		html, method, err := s.fetch(srcCtx, url, srcLogger)
		if err != nil {
			logging.ErrorWithContext(srcLogger, "catalog source unreachable; scrape aborted", "scrape_source_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network access to the source"),
			)
			return Report{}, fmt.Errorf("source %s: %w", url, err)
		}

		extraction, err := s.Extract(html)
		if err != nil {
			hint := "the page layout may have changed; update the selector sets"
			if method == "static" {
				hint = "the page may need rendering; enable scraper.render_enabled or check chrome_path"
			}
			logging.ErrorWithContext(srcLogger, "catalog source unreadable; scrape aborted", "scrape_no_matches",
				logging.Error(err),
				logging.String("method", method),
				logging.Int("bytes", len(html)),
				logging.String(logging.FieldErrorHint, hint),
			)
			return Report{}, fmt.Errorf("source %s: %w", url, err)
		}

		srcLogger.Info("catalog source scraped",
			logging.String(logging.FieldEventType, "scrape_source_complete"),
			logging.String("method", method),
			logging.String("selector_set", extraction.SetName),
			logging.Int("characters", extraction.Characters),
			logging.Int("costumes", extraction.Costumes),
		)
		report.Sources = append(report.Sources, SourceReport{
			URL:         url,
			Method:      method,
			SelectorSet: extraction.SetName,
			Characters:  extraction.Characters,
			Costumes:    extraction.Costumes,
		})
		report.Characters += extraction.Characters
		report.Costumes += extraction.Costumes
		report.Records = append(report.Records, extraction.Records...)
	}

	logger.Info("catalog scrape complete",
		logging.String(logging.FieldEventType, "catalog_scraped"),
		logging.Int("characters", report.Characters),
		logging.Int("costumes", report.Costumes),
	)
	return report, nil
}

// FetchCatalog runs the scrape and returns only the records.
func (s *Scraper) FetchCatalog(ctx context.Context) ([]catalog.CharacterRecord, error) {
	report, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	return report.Records, nil
}

func (s *Scraper) fetch(ctx context.Context, url string, logger *slog.Logger) (string, string, error) {
	if s.render != nil {
		html, err := s.render.Fetch(ctx, url)
		if err == nil {
			logger.Debug("render fetch succeeded", logging.Int("bytes", len(html)))
			return html, "render", nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", "render", ctxErr
		}
		logging.WarnWithContext(logger, "render fetch failed; falling back to static fetch", "render_fallback",
			logging.Error(err),
			logging.String(logging.FieldImpact, "script-rendered content may be missing"),
			logging.String(logging.FieldErrorHint, "check that Chrome is installed or set scraper.chrome_path"),
		)
	}
	html, err := s.static.Fetch(ctx, url)
	if err != nil {
		return "", "static", err
	}
	if len(html) < smallPageBytes {
		logger.Debug("static page is small; it may be script-rendered", logging.Int("bytes", len(html)))
	}
	return html, "static", nil
}
