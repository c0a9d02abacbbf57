package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/hololive-wiki-scraper/internal/domain"
	"github.com/kapu/hololive-wiki-scraper/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	return client, server
}

func TestEscapeDataString(t *testing.T) {
	assert.Equal(t, "Tokino_Sora", EscapeDataString("Tokino_Sora"))
	assert.Equal(t, "La%2B_Darknesss", EscapeDataString("La+_Darknesss"))
	assert.Equal(t, "A%20B", EscapeDataString("A B"))
	assert.Equal(t, "%E5%85%8E", EscapeDataString("兎"))
}

func TestFetchDocument(t *testing.T) {
	var gotPath, gotAgent string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(pekoraPage))
	}))

	doc, err := client.FetchDocument(context.Background(), "La+_Darknesss")
	require.NoError(t, err)
	assert.Equal(t, "/wiki/La%2B_Darknesss", gotPath)
	assert.Contains(t, gotAgent, "HololiveWikiScraper")
	assert.NotNil(t, FindInfobox(doc))
}

func TestFetchDocumentStatusError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))

	_, err := client.FetchDocument(context.Background(), "Nobody")
	require.Error(t, err)

	var fetchErr *errors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.URL, "/wiki/Nobody")
}

func TestDownloadResolvesRelativeSources(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/a/ab/Casual.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("png-bytes"))
	}))

	data, err := client.Download(context.Background(), "/images/a/ab/Casual.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	data, err = client.Download(context.Background(), server.URL+"/images/a/ab/Casual.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	_, err = client.Download(context.Background(), "/images/missing.png")
	assert.True(t, errors.IsFetchError(err))
}

func TestDownloadRejectsEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	_, err := client.Download(context.Background(), "/images/empty.png")
	assert.Error(t, err)
}

func TestProcessWithHTTPRetry(t *testing.T) {
	hits := 0
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	dir := t.TempDir()
	infobox := parseInfobox(t, infoboxPage(`<tr><td>
		<div class="tabber"><div class="tabber__panel" title="Casual"><img src="`+server.URL+`/thumb/x/y/Casual.png/200px-Casual.png"></div></div>
	</td></tr>`))
	record := domain.NewTalentRecord("Nekomata_Okayu")

	newTestProcessor(client, "").Process(context.Background(), dir, record, infobox)

	assert.Equal(t, 2, hits)
	assert.Equal(t, []string{"Casual"}, record.Outfits)
}
