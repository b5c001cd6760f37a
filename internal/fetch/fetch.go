package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/instrsync/instrsync/internal/logging"
	"github.com/instrsync/instrsync/internal/util"
)

// defaultTimeout bounds a single document fetch.
const defaultTimeout = 30 * time.Second

// maxErrorSnippet limits how much of an error body is carried in messages.
const maxErrorSnippet = 200

const userAgent = "instrsync"

// Error describes a failed remote fetch. StatusCode is zero when the
// request never produced a response.
type Error struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

// FileReader reads local-path sources. *store.Disk satisfies it.
type FileReader interface {
	Read(path string) ([]byte, error)
}

// Fetcher retrieves the raw text behind a source spec. Remote URLs go over
// HTTP with provider-selected credentials; local path specs are read through
// the file reader.
type Fetcher struct {
	client *http.Client
	tokens TokenProvider
	files  FileReader
}

// New creates a Fetcher. A nil client falls back to one with a 30-second
// timeout; a nil token provider sends every request unauthenticated.
func New(client *http.Client, tokens TokenProvider, files FileReader) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{client: client, tokens: tokens, files: files}
}

// Fetch retrieves the content behind spec.
func (f *Fetcher) Fetch(ctx context.Context, spec string) (string, error) {
	if IsLocalPath(spec) {
		return f.fetchLocal(spec)
	}
	return f.fetchRemote(ctx, spec)
}

func (f *Fetcher) fetchLocal(spec string) (string, error) {
	path := util.ExpandPath(strings.TrimPrefix(spec, "file://"), "")
	data, err := f.files.Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read local source %s: %w", path, err)
	}
	logging.Debug("read local source", logging.Path(path), logging.Count(len(data)))
	return string(data), nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Message: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/plain, text/markdown;q=0.9, */*;q=0.8")

	kind := ProviderFor(rawURL)
	f.authorize(req, kind)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Message: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Message:    snippet(body),
		}
	}

	logging.Debug("fetched remote source",
		logging.URL(rawURL),
		logging.Count(len(body)),
	)
	return string(body), nil
}

// authorize attaches the provider's credential scheme to the request.
// GitHub expects a bearer token; Azure DevOps expects a PAT as the basic
// auth password with an empty user.
func (f *Fetcher) authorize(req *http.Request, kind ProviderKind) {
	if f.tokens == nil || kind == ProviderNone {
		return
	}
	token, err := f.tokens.Token(kind)
	if err != nil {
		logging.Warn("credential lookup failed", logging.Err(err))
		return
	}
	if token == "" {
		return
	}
	switch kind {
	case ProviderAzureDevOps:
		encoded := base64.StdEncoding.EncodeToString([]byte(":" + token))
		req.Header.Set("Authorization", "Basic "+encoded)
	default:
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// snippet trims an error body to a single short line.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet] + "..."
	}
	if s == "" {
		s = "empty response body"
	}
	return s
}
