package wiki

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/kapu/hololive-wiki-scraper/internal/constants"
	"github.com/kapu/hololive-wiki-scraper/pkg/errors"
)

// Client fetches talent pages and media from the wiki.
type Client struct {
	http    *resty.Client
	baseURL *url.URL
	logger  *zap.Logger
}

type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.WikiConfig.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = constants.WikiConfig.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.WikiConfig.RequestTimeout
	}

	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid wiki base url: %w", err)
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &Client{
		http:    client,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// PageURL returns the wiki page address for a talent identifier.
func (c *Client) PageURL(id string) string {
	return c.baseURL.String() + constants.WikiConfig.PagePath + EscapeDataString(id)
}

// EscapeDataString percent-encodes everything except RFC 3986 unreserved characters,
// so "La+_Darknesss" becomes "La%2B_Darknesss".
func EscapeDataString(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// FetchDocument downloads and parses the wiki page of a talent.
func (c *Client) FetchDocument(ctx context.Context, id string) (*goquery.Document, error) {
	pageURL := c.PageURL(id)

	res, err := c.http.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, errors.NewFetchError("wiki request failed", pageURL, 0, err)
	}
	if !res.IsSuccess() {
		return nil, errors.NewFetchError(fmt.Sprintf("unexpected status code: %d", res.StatusCode()), pageURL, res.StatusCode(), nil)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, errors.NewFetchError("HTML parse failed", pageURL, res.StatusCode(), err)
	}

	c.logger.Debug("Fetched wiki page",
		zap.String("id", id),
		zap.String("url", pageURL),
		zap.Int("bytes", len(res.Body())),
	)

	return doc, nil
}

// ResolveURL resolves relative and protocol-relative media sources against the wiki base.
func (c *Client) ResolveURL(src string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return "", fmt.Errorf("invalid media url %q: %w", src, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// Download fetches the raw bytes at src.
func (c *Client) Download(ctx context.Context, src string) ([]byte, error) {
	target, err := c.ResolveURL(src)
	if err != nil {
		return nil, errors.NewFetchError("invalid media url", src, 0, err)
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return nil, errors.NewFetchError("media request failed", target, 0, err)
	}
	if !res.IsSuccess() {
		return nil, errors.NewFetchError(fmt.Sprintf("unexpected status code: %d", res.StatusCode()), target, res.StatusCode(), nil)
	}
	if len(res.Body()) == 0 {
		return nil, errors.NewFetchError("empty media response", target, res.StatusCode(), nil)
	}

	return res.Body(), nil
}
