package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/kapu/hololive-wiki-scraper/internal/domain"
	"github.com/kapu/hololive-wiki-scraper/internal/service/wiki"
)

// DocumentFetcher retrieves the parsed wiki page of a talent.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, id string) (*goquery.Document, error)
}

// OutfitProcessor downloads gallery images into dir and records their labels.
type OutfitProcessor interface {
	Process(ctx context.Context, dir string, record *domain.TalentRecord, infobox *goquery.Selection)
}

// RecordStore persists records on disk.
type RecordStore interface {
	EnsureTalentDir(group, id string) (string, error)
	WriteRecord(group string, record *domain.TalentRecord) (string, error)
}

// RecordSink receives every record after it has been written to disk.
type RecordSink interface {
	Name() string
	Save(ctx context.Context, group string, record *domain.TalentRecord) error
}

type Dependencies struct {
	Roster  *domain.Roster
	Fetcher DocumentFetcher
	Outfits OutfitProcessor
	Store   RecordStore
	Sinks   []RecordSink
	Logger  *zap.Logger
}

// Summary reports the outcome of one run over the roster.
type Summary struct {
	Processed int
	Outfits   int
	Failed    []domain.RosterEntry
}

// Runner walks the roster one talent at a time.
type Runner struct {
	roster  *domain.Roster
	fetcher DocumentFetcher
	outfits OutfitProcessor
	store   RecordStore
	sinks   []RecordSink
	logger  *zap.Logger
}

func NewRunner(deps *Dependencies) (*Runner, error) {
	if deps == nil {
		return nil, fmt.Errorf("runner dependencies must not be nil")
	}
	if deps.Roster == nil {
		return nil, fmt.Errorf("roster must not be nil")
	}
	if deps.Fetcher == nil || deps.Outfits == nil || deps.Store == nil {
		return nil, fmt.Errorf("fetcher, outfit processor and store are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		roster:  deps.Roster,
		fetcher: deps.Fetcher,
		outfits: deps.Outfits,
		store:   deps.Store,
		sinks:   deps.Sinks,
		logger:  logger,
	}, nil
}

// Run scrapes every roster entry in declaration order. A failing talent is logged and
// counted; only context cancellation stops the run early.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	entries := r.roster.Entries()
	summary := &Summary{Failed: []domain.RosterEntry{}}

	for idx, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		r.logger.Info("Processing talent",
			zap.Int("index", idx+1),
			zap.Int("total", len(entries)),
			zap.String("group", entry.Group),
			zap.String("id", entry.ID),
		)

		record, err := r.scrapeIsolated(ctx, entry)
		if err != nil {
			r.logger.Error("Talent processing failed",
				zap.String("group", entry.Group),
				zap.String("id", entry.ID),
				zap.Error(err),
			)
			summary.Failed = append(summary.Failed, entry)
			continue
		}

		summary.Processed++
		summary.Outfits += len(record.Outfits)
	}

	r.logger.Info("Scrape completed",
		zap.Int("processed", summary.Processed),
		zap.Int("failed", len(summary.Failed)),
		zap.Int("outfits", summary.Outfits),
	)
	return summary, nil
}

func (r *Runner) scrapeIsolated(ctx context.Context, entry domain.RosterEntry) (record *domain.TalentRecord, err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		record, err = r.ScrapeTalent(ctx, entry)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return nil, fmt.Errorf("panic while scraping %s/%s: %w", entry.Group, entry.ID, recovered.AsError())
	}
	return record, err
}

// ScrapeTalent fetches, extracts and persists one talent, then hands the record to the sinks.
func (r *Runner) ScrapeTalent(ctx context.Context, entry domain.RosterEntry) (*domain.TalentRecord, error) {
	dir, err := r.store.EnsureTalentDir(entry.Group, entry.ID)
	if err != nil {
		return nil, err
	}

	doc, err := r.fetcher.FetchDocument(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	record := domain.NewTalentRecord(entry.ID)
	if infobox := wiki.FindInfobox(doc); infobox != nil {
		wiki.ExtractInformation(record, infobox)
		r.outfits.Process(ctx, dir, record, infobox)
		record.Icon = domain.DefaultIcon()
	} else {
		r.logger.Warn("Infobox not found", zap.String("id", entry.ID))
	}

	if _, err := r.store.WriteRecord(entry.Group, record); err != nil {
		return nil, err
	}

	for _, sink := range r.sinks {
		if err := sink.Save(ctx, entry.Group, record); err != nil {
			r.logger.Warn("Record sink failed",
				zap.String("sink", sink.Name()),
				zap.String("id", entry.ID),
				zap.Error(err),
			)
		}
	}

	return record, nil
}
