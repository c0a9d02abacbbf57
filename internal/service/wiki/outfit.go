package wiki

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"

	"github.com/kapu/hololive-wiki-scraper/internal/constants"
	"github.com/kapu/hololive-wiki-scraper/internal/domain"
)

const (
	tabberSelector      = ".tabber"
	tabberPanelSelector = ".tabber__panel"
)

// Downloader fetches raw media bytes.
type Downloader interface {
	Download(ctx context.Context, src string) ([]byte, error)
}

// ImageWriter stores one outfit image inside a talent directory.
type ImageWriter interface {
	WriteImage(dir, label string, data []byte) (string, error)
}

type OutfitConfig struct {
	Strategy   string
	Attempts   uint
	RetryDelay time.Duration
}

// OutfitProcessor downloads the outfit gallery of an infobox, one panel at a time.
type OutfitProcessor struct {
	downloader Downloader
	writer     ImageWriter
	strategy   string
	attempts   uint
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewOutfitProcessor(downloader Downloader, writer ImageWriter, cfg OutfitConfig, logger *zap.Logger) *OutfitProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Strategy == "" {
		cfg.Strategy = constants.TabberStrategy.Content
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = constants.DownloadRetryConfig.MaxAttempts
	}
	return &OutfitProcessor{
		downloader: downloader,
		writer:     writer,
		strategy:   cfg.Strategy,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}
}

// Process appends the label of every resolvable gallery panel to record.Outfits and
// saves its image into dir. Download failures are logged, never returned.
func (p *OutfitProcessor) Process(ctx context.Context, dir string, record *domain.TalentRecord, infobox *goquery.Selection) {
	tabs := SelectTabber(infobox.Find(tabberSelector), p.strategy)
	if tabs.Length() == 0 {
		return
	}

	tabs.Find(tabberPanelSelector).Each(func(_ int, panel *goquery.Selection) {
		if ctx.Err() != nil {
			return
		}
		label, src, ok := resolvePanel(panel)
		if !ok {
			return
		}
		p.download(ctx, dir, label, FullQualityURL(src))
		record.Outfits = append(record.Outfits, label)
	})
}

func (p *OutfitProcessor) download(ctx context.Context, dir, label, src string) {
	p.logger.Info("Downloading outfit", zap.String("outfit", label), zap.String("url", src))

	err := retry.Do(
		func() error {
			data, err := p.downloader.Download(ctx, src)
			if err != nil {
				return err
			}
			_, err = p.writer.WriteImage(dir, label, data)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.retryDelay),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Info("Outfit download attempt failed",
				zap.String("outfit", label),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		p.logger.Warn("Outfit download failed",
			zap.String("outfit", label),
			zap.String("url", src),
			zap.Error(err),
		)
	}
}

func resolvePanel(panel *goquery.Selection) (label, src string, ok bool) {
	title, hasTitle := panel.Attr("title")
	if !hasTitle {
		return "", "", false
	}
	src, hasSrc := panel.Find("img").First().Attr("src")
	if !hasSrc {
		return "", "", false
	}
	return strings.TrimSpace(title), src, true
}

// SelectTabber picks the outfit gallery among the infobox tabbers.
//
// The legacy rule takes the second tabber when there are several (the first is usually
// navigation) and the only one otherwise. The content strategy starts from that pick and
// switches to another tabber only if it has strictly more panels carrying a title and an image.
func SelectTabber(tabbers *goquery.Selection, strategy string) *goquery.Selection {
	count := tabbers.Length()
	if count == 0 {
		return tabbers
	}

	chosen := 0
	if count >= 2 {
		chosen = 1
	}
	if strategy == constants.TabberStrategy.Legacy {
		return tabbers.Eq(chosen)
	}

	bestScore := imagePanelCount(tabbers.Eq(chosen))
	for i := 0; i < count; i++ {
		if score := imagePanelCount(tabbers.Eq(i)); score > bestScore {
			chosen, bestScore = i, score
		}
	}
	return tabbers.Eq(chosen)
}

func imagePanelCount(tabber *goquery.Selection) int {
	count := 0
	tabber.Find(tabberPanelSelector).Each(func(_ int, panel *goquery.Selection) {
		if _, _, ok := resolvePanel(panel); ok {
			count++
		}
	})
	return count
}

// FullQualityURL turns a MediaWiki thumbnail address into the original file address:
// ".../thumb/a/ab/File.png/200px-File.png" becomes ".../a/ab/File.png".
func FullQualityURL(src string) string {
	src = strings.ReplaceAll(src, "/thumb/", "/")
	last := strings.LastIndex(src, "/")
	if last < 0 {
		return src
	}
	return src[:last]
}
