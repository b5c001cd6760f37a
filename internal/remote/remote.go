package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/instrsync/instrsync/internal/logging"
	"github.com/instrsync/instrsync/internal/model"
)

// Config is the decoded remote configuration document. The toggle fields are
// tri-state: nil means the document does not set them, leaving the decision
// to local configuration or defaults.
type Config struct {
	// Sources are the centrally distributed instruction sources.
	Sources []model.InstructionSource

	// SyncOnOpen asks clients to sync when a watch session starts.
	SyncOnOpen *bool

	// SyncOnConfigChange asks clients to re-sync when configuration changes.
	SyncOnConfigChange *bool

	// ConfirmBeforeSync asks clients to confirm before writing changes.
	ConfirmBeforeSync *bool
}

// document mirrors the raw JSON shape. Sources and toggles stay raw so one
// malformed value cannot fail the whole decode; the document is fetched from
// a URL an administrator controls, but it is still untrusted input.
type document struct {
	Sources            []json.RawMessage `json:"sources"`
	SyncOnOpen         json.RawMessage   `json:"syncOnOpen"`
	SyncOnConfigChange json.RawMessage   `json:"syncOnConfigChange"`
	ConfirmBeforeSync  json.RawMessage   `json:"confirmBeforeSync"`
}

// Parse decodes a remote configuration document. Source entries that are
// not structurally valid are dropped with a debug log; mistyped toggles are
// ignored individually.
func Parse(data []byte) (*Config, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse remote config: %w", err)
	}

	cfg := &Config{}
	for i, raw := range doc.Sources {
		var src model.InstructionSource
		if err := json.Unmarshal(raw, &src); err != nil {
			logging.Debug("dropping malformed remote source",
				slog.Int("index", i),
				logging.Err(err),
			)
			continue
		}
		if strings.TrimSpace(src.Language) == "" || strings.TrimSpace(src.URL) == "" {
			logging.Debug("dropping remote source without language or url",
				slog.Int("index", i),
			)
			continue
		}
		cfg.Sources = append(cfg.Sources, src)
	}

	cfg.SyncOnOpen = decodeToggle(doc.SyncOnOpen)
	cfg.SyncOnConfigChange = decodeToggle(doc.SyncOnConfigChange)
	cfg.ConfirmBeforeSync = decodeToggle(doc.ConfirmBeforeSync)
	return cfg, nil
}

// decodeToggle reads an optional boolean. Anything that is not a JSON bool
// is treated as unset.
func decodeToggle(raw json.RawMessage) *bool {
	if len(raw) == 0 {
		return nil
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// Fetcher retrieves the raw document text. *fetch.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, spec string) (string, error)
}

// Loader fetches the remote configuration document with a local disk cache.
type Loader struct {
	fetcher Fetcher
	cache   *Cache
	ttl     time.Duration
}

// NewLoader creates a Loader. A nil cache disables caching entirely.
func NewLoader(fetcher Fetcher, cache *Cache, ttl time.Duration) *Loader {
	return &Loader{fetcher: fetcher, cache: cache, ttl: ttl}
}

// Load returns the remote configuration behind url. Within ttl of the last
// fetch the cached document is reused; force bypasses that. When the origin
// is unreachable the last cached document is used even past its ttl, and
// with no usable cached copy the result is an empty configuration. Remote
// problems degrade the run, they never abort it, so Load reports no error.
func (l *Loader) Load(ctx context.Context, url string, force bool) *Config {
	if url == "" {
		return &Config{}
	}

	if !force && l.cache != nil && l.cache.Fresh(url, l.ttl) {
		if cfg, ok := l.fromCache(url); ok {
			logging.Debug("using fresh cached remote config",
				logging.URL(url),
				logging.Count(len(cfg.Sources)),
			)
			return cfg
		}
	}

	text, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		logging.Warn("remote config fetch failed",
			logging.URL(url),
			logging.Err(err),
		)
		return l.fallback(url)
	}

	cfg, err := Parse([]byte(text))
	if err != nil {
		logging.Warn("remote config did not parse",
			logging.URL(url),
			logging.Err(err),
		)
		return l.fallback(url)
	}

	if l.cache != nil {
		l.cache.Set(url, text)
		if err := l.cache.Save(); err != nil {
			logging.Warn("failed to persist remote config cache", logging.Err(err))
		}
	}

	logging.Debug("loaded remote config",
		logging.URL(url),
		logging.Count(len(cfg.Sources)),
	)
	return cfg
}

// fallback serves the last cached document regardless of age, or an empty
// configuration when nothing usable is cached.
func (l *Loader) fallback(url string) *Config {
	if l.cache != nil {
		if cfg, ok := l.fromCache(url); ok {
			entry, _ := l.cache.Get(url)
			logging.Info("using cached remote config",
				logging.URL(url),
				slog.String("age", humanize.Time(entry.FetchedAt)),
			)
			return cfg
		}
	}
	logging.Warn("no cached remote config available, continuing with local sources only",
		logging.URL(url),
	)
	return &Config{}
}

func (l *Loader) fromCache(url string) (*Config, bool) {
	entry, ok := l.cache.Get(url)
	if !ok {
		return nil, false
	}
	cfg, err := Parse([]byte(entry.Document))
	if err != nil {
		return nil, false
	}
	return cfg, true
}
