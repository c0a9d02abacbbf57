package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/hololive-wiki-scraper/internal/domain"
	"github.com/kapu/hololive-wiki-scraper/internal/util"
)

func TestUpsertArgs(t *testing.T) {
	scrapedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	record := domain.NewTalentRecord("Sakura_Miko")
	record.Name = util.StringPtr("さくらみこ")
	record.Socials = []domain.SocialLink{{Service: "YouTube", URL: "https://youtube.com/@sakuramiko", Label: "Miko Ch."}}
	record.Outfits = []string{"Original"}
	record.Icon = domain.DefaultIcon()

	args, err := upsertArgs("gen0", record, scrapedAt)
	require.NoError(t, err)
	require.Len(t, args, 11)

	assert.Equal(t, "gen0", args[0])
	assert.Equal(t, "Sakura_Miko", args[1])
	assert.Equal(t, sql.NullString{String: "さくらみこ", Valid: true}, args[2])
	assert.Equal(t, sql.NullString{}, args[3])
	assert.JSONEq(t, `[{"service":"YouTube","url":"https://youtube.com/@sakuramiko","label":"Miko Ch."}]`, string(args[7].([]byte)))
	assert.JSONEq(t, `["Original"]`, string(args[8].([]byte)))
	assert.JSONEq(t, `{"borderColor":"","backgroundColor":""}`, string(args[9].([]byte)))
	assert.Equal(t, scrapedAt, args[10])
}

func TestUpsertArgsSparseRecord(t *testing.T) {
	record := &domain.TalentRecord{ID: "AZKi"}

	args, err := upsertArgs("gen0", record, time.Now())
	require.NoError(t, err)

	assert.Equal(t, `[]`, string(args[7].([]byte)))
	assert.Equal(t, `[]`, string(args[8].([]byte)))
	assert.Nil(t, args[9])
}

func TestPostgresConfigDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "holo", Password: "secret", Database: "wiki"}
	assert.Equal(t, "host=db port=5432 user=holo password=secret dbname=wiki sslmode=disable", cfg.DSN())
}
