package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chronicle-hq/headline-ledger/internal/domain"
	"github.com/chronicle-hq/headline-ledger/pkg/notify"
	"github.com/chronicle-hq/headline-ledger/pkg/targets"
	"go.uber.org/zap"
)

// Service runs the fetch → extract → record pipeline for configured targets.
type Service struct {
	fetcher        PageFetcher
	strategies     *StrategyRegistry
	stores         RecorderProvider
	fanout         *notify.Fanout
	log            *zap.Logger
	defaultLoc     *time.Location
	defaultHeaders map[string]string
	now            func() time.Time
}

// Options tunes the service without widening the constructor signature.
type Options struct {
	Strategies      *StrategyRegistry
	DefaultLocation *time.Location
	DefaultHeaders  map[string]string
	Now             func() time.Time
}

// NewService wires the pipeline with a fetcher, per-target record stores, and
// an optional notification fanout.
func NewService(fetcher PageFetcher, stores RecorderProvider, fanout *notify.Fanout, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Strategies == nil {
		opts.Strategies = DefaultStrategyRegistry()
	}
	if opts.DefaultLocation == nil {
		opts.DefaultLocation = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		fetcher:        fetcher,
		strategies:     opts.Strategies,
		stores:         stores,
		fanout:         fanout,
		log:            log,
		defaultLoc:     opts.DefaultLocation,
		defaultHeaders: opts.DefaultHeaders,
		now:            opts.Now,
	}
}

// RunReport captures the outcome of one target's pipeline pass.
type RunReport struct {
	TargetID string
	Phase    Phase
	Record   domain.Record
	Err      error
}

// Run executes one pipeline pass over all targets, strictly in file order.
// It returns the per-target reports and the joined failures.
func (s *Service) Run(ctx context.Context, cfgs []targets.Target) ([]RunReport, error) {
	if s == nil || s.fetcher == nil || s.stores == nil {
		return nil, fmt.Errorf("scrape service is not initialized")
	}
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no targets configured for scraping")
	}

	reports := make([]RunReport, 0, len(cfgs))
	errs := make([]error, 0, len(cfgs))

	for _, t := range cfgs {
		rep := s.runTarget(ctx, t)
		reports = append(reports, rep)
		if rep.Err != nil {
			errs = append(errs, rep.Err)
			s.log.Error("target scrape failed",
				zap.String("target_id", t.ID),
				zap.String("phase", string(rep.Phase)),
				zap.Error(rep.Err),
			)
			continue
		}
		s.log.Info("target scrape completed",
			zap.String("target_id", t.ID),
			zap.String("date", rep.Record.Date),
			zap.String("headline", rep.Record.Headline),
		)
	}

	if len(errs) > 0 {
		return reports, errors.Join(errs...)
	}
	return reports, nil
}

// runTarget walks one target through the pipeline. On failure nothing is
// appended and the report carries the phase the run died in.
func (s *Service) runTarget(ctx context.Context, t targets.Target) RunReport {
	rep := RunReport{TargetID: t.ID, Phase: PhaseFetching}
	headers := s.requestHeaders(t)

	s.log.Debug("fetching page", zap.String("target_id", t.ID), zap.String("url", t.URL))
	body, err := s.fetcher.FetchPage(ctx, t.URL, headers)
	if err != nil {
		return rep.fail(t, err)
	}

	rep.Phase = PhaseExtracting
	headline, err := s.extractHeadline(ctx, t, body, headers)
	if err != nil {
		return rep.fail(t, err)
	}

	rep.Phase = PhaseRecording
	loc := t.Location()
	if loc == nil {
		loc = s.defaultLoc
	}
	rec := domain.NewRecord(headline, s.now(), loc)

	store, err := s.stores.StoreFor(t)
	if err != nil {
		return rep.fail(t, fmt.Errorf("resolve store: %w", err))
	}
	if err := store.Append(rec); err != nil {
		return rep.fail(t, fmt.Errorf("append record: %w", err))
	}

	rep.Record = rec
	rep.Phase = PhaseDone
	s.notifyAppended(ctx, t, rec)
	return rep
}

func (rep RunReport) fail(t targets.Target, err error) RunReport {
	rep.Err = fmt.Errorf("target %s: %w", t.ID, err)
	rep.Phase = PhaseFailed
	return rep
}

// extractHeadline applies the target's strategy to the fetched page and,
// when a follow hop is configured, reads the headline off the linked article.
func (s *Service) extractHeadline(ctx context.Context, t targets.Target, body []byte, headers map[string]string) (string, error) {
	strat, err := s.strategies.StrategyFor(t.Selector)
	if err != nil {
		return "", &ExtractionError{Target: t.ID, Reason: "resolve strategy", Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", &ExtractionError{Target: t.ID, Reason: "parse html", Err: err}
	}

	sel, err := strat.Select(doc)
	if err != nil {
		return "", &ExtractionError{Target: t.ID, Reason: "selector matched nothing", Err: err}
	}

	if t.Follow != nil {
		return s.followArticle(ctx, t, sel, headers)
	}

	if sel.Text == "" {
		return "", &ExtractionError{Target: t.ID, Reason: "selected element has no text"}
	}
	return sel.Text, nil
}

// followArticle performs the second hop: resolve the selected link against
// the front page URL, fetch the article, and read its headline element.
func (s *Service) followArticle(ctx context.Context, t targets.Target, sel Selection, headers map[string]string) (string, error) {
	if sel.Href == "" {
		return "", &ExtractionError{Target: t.ID, Reason: "selected link has no href"}
	}

	articleURL := resolveURL(sel.Href, t.URL)
	if articleURL == "" {
		return "", &ExtractionError{Target: t.ID, Reason: fmt.Sprintf("cannot resolve link %q", sel.Href)}
	}

	s.log.Debug("following article link", zap.String("target_id", t.ID), zap.String("url", articleURL))
	body, err := s.fetcher.FetchPage(ctx, articleURL, headers)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", &ExtractionError{Target: t.ID, Reason: "parse article html", Err: err}
	}

	headlineSel := t.Follow.HeadlineTag
	node := doc.Find(headlineSel).First()
	if node.Length() == 0 {
		return "", &ExtractionError{Target: t.ID, Reason: fmt.Sprintf("no article element matched %q", headlineSel)}
	}

	text := strings.TrimSpace(node.Text())
	if text == "" {
		return "", &ExtractionError{Target: t.ID, Reason: fmt.Sprintf("article element %q has no text", headlineSel)}
	}
	return text, nil
}

// requestHeaders merges the application defaults under the target's own
// header config (target config wins).
func (s *Service) requestHeaders(t targets.Target) map[string]string {
	headers := make(map[string]string, len(s.defaultHeaders)+4)
	for k, v := range s.defaultHeaders {
		headers[k] = v
	}
	for k, v := range targets.Headers(t) {
		headers[k] = v
	}
	return headers
}

// notifyAppended fans the appended record out to the configured sinks.
// Notification failures are logged but never fail the run.
func (s *Service) notifyAppended(ctx context.Context, t targets.Target, rec domain.Record) {
	if s.fanout == nil || s.fanout.Size() == 0 {
		return
	}

	evt := notify.NewEvent(t.ID, t.Name, rec)
	delivered, err := s.fanout.Notify(ctx, evt)
	if err != nil {
		s.log.Warn("record notification failed",
			zap.String("target_id", t.ID),
			zap.Int("delivered", delivered),
			zap.Error(err),
		)
		return
	}
	s.log.Debug("record notification delivered",
		zap.String("target_id", t.ID),
		zap.Int("delivered", delivered),
	)
}
