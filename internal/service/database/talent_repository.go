package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/hololive-wiki-scraper/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS wiki_talents (
	group_name  TEXT        NOT NULL,
	talent_id   TEXT        NOT NULL,
	name        TEXT,
	name_en     TEXT,
	quote       TEXT,
	quote_en    TEXT,
	oshi_mark   TEXT,
	socials     JSONB       NOT NULL DEFAULT '[]',
	outfits     JSONB       NOT NULL DEFAULT '[]',
	icon        JSONB,
	scraped_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (group_name, talent_id)
)`

const upsertSQL = `
INSERT INTO wiki_talents (group_name, talent_id, name, name_en, quote, quote_en, oshi_mark, socials, outfits, icon, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (group_name, talent_id) DO UPDATE SET
	name = EXCLUDED.name,
	name_en = EXCLUDED.name_en,
	quote = EXCLUDED.quote,
	quote_en = EXCLUDED.quote_en,
	oshi_mark = EXCLUDED.oshi_mark,
	socials = EXCLUDED.socials,
	outfits = EXCLUDED.outfits,
	icon = EXCLUDED.icon,
	scraped_at = EXCLUDED.scraped_at`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TalentRepository upserts scraped records into the wiki_talents table.
type TalentRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewTalentRepository(db *sql.DB, logger *zap.Logger) *TalentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TalentRepository{db: db, logger: logger, now: time.Now}
}

func (r *TalentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create wiki_talents table: %w", err)
	}
	return nil
}

func (r *TalentRepository) Name() string {
	return "postgres"
}

// Save upserts a single record outside any transaction.
func (r *TalentRepository) Save(ctx context.Context, group string, record *domain.TalentRecord) error {
	return r.upsert(ctx, r.db, group, record)
}

// SaveAll upserts records in one transaction; any failure rolls back the batch.
func (r *TalentRepository) SaveAll(ctx context.Context, records map[domain.RosterEntry]*domain.TalentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for entry, record := range records {
		if err := r.upsert(ctx, tx, entry.Group, record); err != nil {
			return fmt.Errorf("failed to upsert %s/%s: %w", entry.Group, entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.logger.Info("Talent records upserted", zap.Int("count", len(records)))
	return nil
}

func (r *TalentRepository) upsert(ctx context.Context, exec execer, group string, record *domain.TalentRecord) error {
	args, err := upsertArgs(group, record, r.now())
	if err != nil {
		return err
	}
	if _, err := exec.ExecContext(ctx, upsertSQL, args...); err != nil {
		return fmt.Errorf("failed to upsert talent: %w", err)
	}
	return nil
}

func upsertArgs(group string, record *domain.TalentRecord, scrapedAt time.Time) ([]any, error) {
	socials := record.Socials
	if socials == nil {
		socials = []domain.SocialLink{}
	}
	socialsJSON, err := json.Marshal(socials)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal socials: %w", err)
	}

	outfits := record.Outfits
	if outfits == nil {
		outfits = []string{}
	}
	outfitsJSON, err := json.Marshal(outfits)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outfits: %w", err)
	}

	var iconJSON any
	if record.Icon != nil {
		data, err := json.Marshal(record.Icon)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal icon: %w", err)
		}
		iconJSON = data
	}

	return []any{
		group,
		record.ID,
		nullString(record.Name),
		nullString(record.NameEn),
		nullString(record.Quote),
		nullString(record.QuoteEn),
		nullString(record.OshiMark),
		socialsJSON,
		outfitsJSON,
		iconJSON,
		scrapedAt,
	}, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}
