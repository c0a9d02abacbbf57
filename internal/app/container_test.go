package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/hololive-wiki-scraper/internal/config"
	"github.com/kapu/hololive-wiki-scraper/internal/constants"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Wiki: config.WikiConfig{
			BaseURL:        "http://127.0.0.1:1",
			Timeout:        time.Second,
			TabberStrategy: constants.TabberStrategy.Content,
		},
		Output: config.OutputConfig{Root: t.TempDir()},
	}
}

func TestBuildWithoutSinks(t *testing.T) {
	container, err := Build(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.Runner)
	assert.Equal(t, 37, container.Roster.Len())
}

func TestBuildWithRosterFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Roster.File = filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(cfg.Roster.File, []byte("groups:\n  - name: gen0\n    talents: [Tokino_Sora]\n"), 0o644))

	container, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer container.Close()

	assert.Equal(t, 1, container.Roster.Len())
}

func TestBuildRejectsMissingInputs(t *testing.T) {
	_, err := Build(context.Background(), nil, zap.NewNop())
	assert.Error(t, err)

	_, err = Build(context.Background(), testConfig(t), nil)
	assert.Error(t, err)

	cfg := testConfig(t)
	cfg.Roster.File = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = Build(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
