// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/clickwheel/internal/models"
)

// JazzCatalog builds the two-playlist catalog used throughout the browser tests.
func JazzCatalog(t *testing.T) *models.Catalog {
	t.Helper()
	return MustCatalog(t, models.Genre{
		Key:  "jazz",
		Name: "Jazz",
		Playlists: []models.Playlist{
			{Name: "Blue Train", URL: "https://music.apple.com/us/playlist/blue-train/pl.u-blue1"},
			{Name: "Kind of Blue", URL: "https://music.apple.com/us/playlist/kind-of-blue/pl.u-kind2"},
		},
	})
}

// SampleCatalog is a multi-genre catalog with subgenres, a single-playlist genre and an empty genre.
func SampleCatalog(t *testing.T) *models.Catalog {
	t.Helper()
	return MustCatalog(t,
		models.Genre{
			Key:  "jazz",
			Name: "Jazz",
			Playlists: []models.Playlist{
				{Name: "Blue Train", URL: "https://music.apple.com/us/playlist/blue-train/pl.u-blue1", GenreTag: "Hard Bop", GenreDesc: "Bluesy bebop.", RYMURL: "https://rateyourmusic.com/genre/hard-bop/"},
				{Name: "Kind of Blue", URL: "https://music.apple.com/us/playlist/kind-of-blue/pl.u-kind2"},
				{Name: "Mingus Ah Um", URL: "https://music.apple.com/us/playlist/mingus/pl.u-ming3"},
			},
			Subgenres: []models.Subgenre{
				{Name: "spiritual", Playlists: []models.Playlist{
					{Name: "A Love Supreme", URL: "https://music.apple.com/us/playlist/supreme/pl.u-love4"},
					{Name: "Karma", URL: "https://music.apple.com/us/playlist/karma/pl.u-karm5"},
				}},
				{Name: "cool", Playlists: []models.Playlist{
					{Name: "Birth of the Cool", URL: "https://music.apple.com/us/playlist/cool/pl.u-cool6"},
				}},
			},
		},
		models.Genre{
			Key:  "soul",
			Name: "Soul",
			Playlists: []models.Playlist{
				{Name: "Sunday Morning", URL: "https://example.com/sunday"},
			},
		},
		models.Genre{Key: "empty", Name: "Empty"},
	)
}

// MustCatalog wraps [models.NewCatalog] and fails the test on error.
func MustCatalog(t *testing.T, genres ...models.Genre) *models.Catalog {
	t.Helper()
	c, err := models.NewCatalog(genres...)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

// MockOpener records opened URLs and optionally fails.
type MockOpener struct {
	mu     sync.Mutex
	Opened []string
	Err    error
}

func (m *MockOpener) Open(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Opened = append(m.Opened, url)
	return nil
}

// Calls returns a copy of the opened URLs.
func (m *MockOpener) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Opened...)
}

// MemoryStore is an in-memory artwork store.
type MemoryStore struct {
	mu     sync.Mutex
	Values map[string]string
	Err    error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Values: map[string]string{}}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.Values[key]
	return v, ok, nil
}

func (m *MemoryStore) Put(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Values[key] = value
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
