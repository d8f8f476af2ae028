// Package dictionary looks up kana romanizations and kanji entries from the
// remote Romaji2Kana and KanjiAPI services, caching every successful result.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/jukmisael/japanese-glossary-generator/internal/dictionary/kanjiapi"
	"github.com/jukmisael/japanese-glossary-generator/internal/dictionary/romaji2kana"
	"github.com/jukmisael/japanese-glossary-generator/internal/statistics"
)

// DefaultMaxRetryAttempts is the number of retries after the first failed
// network call.
const DefaultMaxRetryAttempts = 2

const requestTimeout = 10 * time.Second

// ClientConfig configures the lookup client.
type ClientConfig struct {
	Romaji2KanaBaseURL string
	KanjiAPIBaseURL    string
	// PausePerAPICall throttles remote load: the delay is applied before
	// every network call. Cache hits bypass it entirely.
	PausePerAPICall  time.Duration
	MaxRetryAttempts uint
}

// Client fetches lookups through the cache. Every lookup either hits the
// cache or performs one paced network call; failures are logged and surface
// as nil results, never as errors.
type Client struct {
	config      ClientConfig
	kanaClient  *resty.Client
	kanjiClient *resty.Client
	cache       *APICache
	tracker     *statistics.Tracker
	logger      *slog.Logger
}

// NewClient creates a lookup client routing all calls through cache and
// recording hit/call counts on tracker.
func NewClient(config ClientConfig, cache *APICache, tracker *statistics.Tracker, logger *slog.Logger) *Client {
	if config.MaxRetryAttempts == 0 {
		config.MaxRetryAttempts = DefaultMaxRetryAttempts
	}

	kanaClient := resty.New()
	kanaClient.SetBaseURL(config.Romaji2KanaBaseURL)
	kanaClient.SetTimeout(requestTimeout)

	kanjiClient := resty.New()
	kanjiClient.SetBaseURL(config.KanjiAPIBaseURL)
	kanjiClient.SetTimeout(requestTimeout)

	return &Client{
		config:      config,
		kanaClient:  kanaClient,
		kanjiClient: kanjiClient,
		cache:       cache,
		tracker:     tracker,
		logger:      logger,
	}
}

func (c *Client) Close() error {
	if err := c.kanaClient.Close(); err != nil {
		return fmt.Errorf("kanaClient.Close > %w", err)
	}
	if err := c.kanjiClient.Close(); err != nil {
		return fmt.Errorf("kanjiClient.Close > %w", err)
	}
	return nil
}

// Romaji returns the romaji transliteration of text, or nil on failure.
func (c *Client) Romaji(ctx context.Context, text string) *string {
	return c.kana(ctx, romaji2kana.EndpointToRomaji, text)
}

// Hiragana returns the hiragana reading of text, or nil on failure.
func (c *Client) Hiragana(ctx context.Context, text string) *string {
	return c.kana(ctx, romaji2kana.EndpointToHiragana, text)
}

// Katakana returns the katakana reading of text, or nil on failure.
func (c *Client) Katakana(ctx context.Context, text string) *string {
	return c.kana(ctx, romaji2kana.EndpointToKatakana, text)
}

func kanaCacheKey(endpoint romaji2kana.Endpoint, text string) string {
	return "romaji2kana_" + string(endpoint) + "_" + text
}

func kanjiCacheKey(char rune) string {
	return "kanji_" + string(char)
}

func (c *Client) kana(ctx context.Context, endpoint romaji2kana.Endpoint, text string) *string {
	key := kanaCacheKey(endpoint, text)
	if raw, ok := c.cache.Get(key); ok {
		c.tracker.IncrementCacheHit()
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			c.logger.Warn("corrupt cache entry", "key", key, "error", err)
			return nil
		}
		return &value
	}

	c.tracker.IncrementAPICall()
	result := c.fetchKana(ctx, endpoint, text)
	if result != nil {
		raw, err := json.Marshal(*result)
		if err == nil {
			c.cache.Put(key, raw)
		}
	}
	return result
}

func (c *Client) fetchKana(ctx context.Context, endpoint romaji2kana.Endpoint, text string) *string {
	if err := c.pace(ctx); err != nil {
		return nil
	}

	var response romaji2kana.Response
	err := c.withRetry(ctx, func() error {
		res, err := c.kanaClient.R().
			SetContext(ctx).
			SetQueryParam("q", text).
			SetResult(&romaji2kana.Response{}).
			Get(string(endpoint))
		if err != nil {
			return fmt.Errorf("kanaClient.Get > %w", err)
		}
		if res.IsError() {
			return statusError(res.StatusCode(), res.String())
		}
		response = *(res.Result().(*romaji2kana.Response))
		return nil
	})
	if err != nil {
		c.logger.Warn("error calling Romaji2Kana API",
			"endpoint", string(endpoint),
			"text", text,
			"error", err)
		return nil
	}
	return &response.A
}

// KanjiInfo returns the dictionary entry for a kanji character, or nil on
// failure. A missing entry is not an error that halts processing.
func (c *Client) KanjiInfo(ctx context.Context, char rune) *kanjiapi.Response {
	key := kanjiCacheKey(char)
	if raw, ok := c.cache.Get(key); ok {
		c.tracker.IncrementCacheHit()
		var info kanjiapi.Response
		if err := json.Unmarshal(raw, &info); err != nil {
			c.logger.Warn("corrupt cache entry", "key", key, "error", err)
			return nil
		}
		return &info
	}

	c.tracker.IncrementAPICall()
	info := c.fetchKanjiInfo(ctx, char)
	if info != nil {
		raw, err := json.Marshal(info)
		if err == nil {
			c.cache.Put(key, raw)
		}
	}
	return info
}

func (c *Client) fetchKanjiInfo(ctx context.Context, char rune) *kanjiapi.Response {
	if err := c.pace(ctx); err != nil {
		return nil
	}

	var response kanjiapi.Response
	err := c.withRetry(ctx, func() error {
		res, err := c.kanjiClient.R().
			SetContext(ctx).
			SetResult(&kanjiapi.Response{}).
			Get("/v1/kanji/" + string(char))
		if err != nil {
			return fmt.Errorf("kanjiClient.Get > %w", err)
		}
		if res.IsError() {
			return statusError(res.StatusCode(), res.String())
		}
		response = *(res.Result().(*kanjiapi.Response))
		return nil
	})
	if err != nil {
		c.logger.Warn("error calling KanjiAPI",
			"kanji", string(char),
			"error", err)
		return nil
	}
	return &response
}

// pace waits for the configured per-call delay before hitting the network.
func (c *Client) pace(ctx context.Context) error {
	if c.config.PausePerAPICall <= 0 {
		return nil
	}
	timer := time.NewTimer(c.config.PausePerAPICall)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) withRetry(ctx context.Context, call func() error) error {
	return retry.Do(
		call,
		retry.Context(ctx),
		retry.Attempts(c.config.MaxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// statusError marks client errors other than rate limiting as unrecoverable
// so they are not retried.
func statusError(statusCode int, body string) error {
	err := fmt.Errorf("response error %d: %s", statusCode, body)
	if statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError &&
		statusCode != http.StatusTooManyRequests {
		return retry.Unrecoverable(err)
	}
	return err
}
