package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/shared"
	tu "github.com/desertthunder/clickwheel/internal/testing"
	"github.com/desertthunder/clickwheel/internal/wheel"
)

type testRunner struct {
	*Runner
	out    *bytes.Buffer
	opener *tu.MockOpener
	dir    string
}

func newTestRunner(t *testing.T, c *models.Catalog) *testRunner {
	t.Helper()

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(dir, "clickwheel.db")
	config.UI = shared.UIConfig{}

	out := &bytes.Buffer{}
	opener := &tu.MockOpener{}
	r := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: filepath.Join(dir, "config.toml"),
		Catalog:    c,
		Opener:     opener,
		Logger:     shared.NewLogger(io.Discard),
		Output:     out,
		ErrOutput:  io.Discard,
	})
	t.Cleanup(func() { r.Close() })

	return &testRunner{Runner: r, out: out, opener: opener, dir: dir}
}

func (tr *testRunner) run(args ...string) error {
	argv := append([]string{"clickwheel", "--config", tr.configPath}, args...)
	return tr.app().Run(context.Background(), argv)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			opener := &tu.MockOpener{}
			c := tu.JazzCatalog(t)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Opener:     opener,
				Catalog:    c,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.opener != opener {
				t.Error("expected opener to be set")
			}
			if runner.catalog != c {
				t.Error("expected catalog to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil opener uses the system browser", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if _, ok := runner.opener.(shared.SystemOpener); !ok {
				t.Errorf("expected shared.SystemOpener, got %T", runner.opener)
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("writePlainln appends newline", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("simple text"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "simple text\n" {
				t.Errorf("expected 'simple text\\n', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		seen := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			seen[cmd.Name] = true
		}

		for _, name := range []string{"tui", "genres", "playlists", "search", "open", "artwork", "catalog", "serve", "setup"} {
			if !seen[name] {
				t.Errorf("expected %q to be registered", name)
			}
		}
	})
}

func TestBefore(t *testing.T) {
	t.Run("missing config keeps defaults and injected catalog", func(t *testing.T) {
		c := tu.SampleCatalog(t)
		tr := newTestRunner(t, c)

		if err := tr.run("genres"); err != nil {
			t.Fatalf("genres failed: %v", err)
		}
		if tr.catalog != c {
			t.Error("injected catalog should be kept when no path is configured")
		}
	})

	t.Run("nil catalog falls back to the built-in sample", func(t *testing.T) {
		tr := newTestRunner(t, nil)

		if err := tr.run("genres"); err != nil {
			t.Fatalf("genres failed: %v", err)
		}
		if tr.catalog == nil || tr.catalog.Len() == 0 {
			t.Error("expected the built-in catalog")
		}
	})

	t.Run("config file and catalog flag", func(t *testing.T) {
		tr := newTestRunner(t, nil)

		catalogPath := filepath.Join(tr.dir, "catalog.yaml")
		yamlCatalog := `
genres:
  - key: ambient
    name: Ambient
    playlists:
      - name: Music for Airports
        url: https://music.apple.com/us/playlist/airports/pl.u-air1
`
		if err := os.WriteFile(catalogPath, []byte(yamlCatalog), 0644); err != nil {
			t.Fatalf("failed to write catalog: %v", err)
		}

		configBody := fmt.Sprintf("[database]\npath = %q\n\n[log]\nlevel = \"debug\"\n", filepath.Join(tr.dir, "from-config.db"))
		if err := os.WriteFile(tr.configPath, []byte(configBody), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if err := tr.run("--catalog", catalogPath, "genres"); err != nil {
			t.Fatalf("genres failed: %v", err)
		}

		if !strings.Contains(tr.out.String(), "Ambient") {
			t.Errorf("expected catalog from flag, got %s", tr.out.String())
		}
		if tr.config.Database.Path != filepath.Join(tr.dir, "from-config.db") {
			t.Errorf("expected database path from config file, got %s", tr.config.Database.Path)
		}
		if tr.config.UI.ExitMS != 200 {
			t.Errorf("keys missing from the file should keep defaults, got exit_ms=%d", tr.config.UI.ExitMS)
		}
	})

	t.Run("invalid config file", func(t *testing.T) {
		tr := newTestRunner(t, nil)
		if err := os.WriteFile(tr.configPath, []byte("[ui\nexit_ms = "), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if err := tr.run("genres"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("missing catalog file", func(t *testing.T) {
		tr := newTestRunner(t, nil)
		if err := tr.run("--catalog", filepath.Join(tr.dir, "nope.toml"), "genres"); err == nil {
			t.Error("expected error for missing catalog")
		}
	})
}

func TestBrowseCommands(t *testing.T) {
	t.Run("genres", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("genres"); err != nil {
			t.Fatalf("genres failed: %v", err)
		}

		output := tr.out.String()
		for _, want := range []string{"Genres (3)", "Jazz (6 playlists) [spiritual, cool]", "Soul (1 playlists)", "empty"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("genres json", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("genres", "--json"); err != nil {
			t.Fatalf("genres failed: %v", err)
		}

		var got []genreSummary
		if err := json.Unmarshal(tr.out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 3 || got[0].Key != "jazz" || got[0].Playlists != 6 || len(got[0].Subgenres) != 2 {
			t.Errorf("unexpected summaries: %+v", got)
		}
	})

	t.Run("playlists", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("playlists", "--genre", "jazz", "--subgenre", "spiritual"); err != nil {
			t.Fatalf("playlists failed: %v", err)
		}

		output := tr.out.String()
		if !strings.Contains(output, "Jazz / spiritual (2)") || !strings.Contains(output, " 1. A Love Supreme") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})

	t.Run("playlists json", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("playlists", "--genre", "empty", "--json"); err != nil {
			t.Fatalf("playlists failed: %v", err)
		}
		if strings.TrimSpace(tr.out.String()) != "[]" {
			t.Errorf("expected empty JSON list, got %s", tr.out.String())
		}
	})

	t.Run("playlists unknown genre", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("playlists", "--genre", "polka"); !errors.Is(err, shared.ErrGenreNotFound) {
			t.Errorf("expected ErrGenreNotFound, got %v", err)
		}
	})

	t.Run("playlists suggests a close genre", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		err := tr.run("playlists", "--genre", "jaz")
		if !errors.Is(err, shared.ErrGenreNotFound) || !strings.Contains(err.Error(), `did you mean "jazz"?`) {
			t.Errorf("expected a suggestion, got %v", err)
		}
	})

	t.Run("playlists unknown subgenre", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("playlists", "--genre", "jazz", "--subgenre", "fusion"); !errors.Is(err, shared.ErrSubgenreNotFound) {
			t.Errorf("expected ErrSubgenreNotFound, got %v", err)
		}
	})

	t.Run("search", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("search", "--json", "BLUE"); err != nil {
			t.Fatalf("search failed: %v", err)
		}

		var got wheel.Result
		if err := json.Unmarshal(tr.out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.All || len(got.Genres) != 1 || got.Genres[0] != "jazz" {
			t.Errorf("unexpected genres: %+v", got)
		}
		if len(got.Matches) != 2 || got.Matches[0].Name != "Blue Train" || got.Matches[1].Name != "Kind of Blue" {
			t.Errorf("unexpected matches: %+v", got.Matches)
		}
	})

	t.Run("search subgenre match", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("search", "karma"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "jazz/spiritual") {
			t.Errorf("expected subgenre location, got:\n%s", tr.out.String())
		}
	})

	t.Run("search no matches", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("search", "--json", "zzz"); err != nil {
			t.Fatalf("search failed: %v", err)
		}

		var got wheel.Result
		if err := json.Unmarshal(tr.out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.All || len(got.Genres) != 0 || len(got.Matches) != 0 {
			t.Errorf("expected no matches, got %+v", got)
		}
	})

	t.Run("search blank restores all", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("search"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "All genres: jazz, soul, empty") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})
}

func TestOpenCommand(t *testing.T) {
	t.Run("opens the indexed playlist", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("open", "--genre", "jazz", "--index", "2"); err != nil {
			t.Fatalf("open failed: %v", err)
		}

		calls := tr.opener.Calls()
		if len(calls) != 1 || calls[0] != "https://music.apple.com/us/playlist/kind-of-blue/pl.u-kind2" {
			t.Errorf("unexpected opener calls: %v", calls)
		}
		if !strings.Contains(tr.out.String(), "Opened Kind of Blue") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})

	t.Run("print skips the browser", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("open", "--genre", "jazz", "--subgenre", "spiritual", "--index", "2", "--print"); err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if strings.TrimSpace(tr.out.String()) != "https://music.apple.com/us/playlist/karma/pl.u-karm5" {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
		if len(tr.opener.Calls()) != 0 {
			t.Error("print should not open anything")
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("open", "--genre", "jazz", "--index", "9"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("empty list does nothing", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("open", "--genre", "empty"); err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if len(tr.opener.Calls()) != 0 {
			t.Error("nothing should be opened")
		}
		if !strings.Contains(tr.out.String(), "Nothing to open") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})

	t.Run("opener failure", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		tr.opener.Err = errors.New("no display")
		if err := tr.run("open", "--genre", "soul"); err == nil || !strings.Contains(err.Error(), "no display") {
			t.Errorf("expected opener error, got %v", err)
		}
	})
}

func TestArtworkCommands(t *testing.T) {
	const blueTrain = "https://music.apple.com/us/playlist/blue-train/pl.u-blue1"

	t.Run("set get list delete", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))

		if err := tr.run("artwork", "get", "--json", blueTrain); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		var before artworkResult
		if err := json.Unmarshal(tr.out.Bytes(), &before); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if before.Source != "placeholder" || before.Key != "artwork_pl.u-blue1" || before.Name != "Blue Train" {
			t.Errorf("expected placeholder before set, got %+v", before)
		}

		tr.out.Reset()
		if err := tr.run("artwork", "set", blueTrain, "https://img.example.com/blue.jpg"); err != nil {
			t.Fatalf("set failed: %v", err)
		}

		tr.out.Reset()
		if err := tr.run("artwork", "get", blueTrain); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "https://img.example.com/blue.jpg (cache)") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}

		tr.out.Reset()
		if err := tr.run("artwork", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "artwork_pl.u-blue1 [manual]") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}

		if err := tr.run("artwork", "delete", blueTrain); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := tr.run("artwork", "delete", blueTrain); !errors.Is(err, shared.ErrArtworkNotFound) {
			t.Errorf("expected ErrArtworkNotFound, got %v", err)
		}
	})

	t.Run("set requires a playlist id", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("artwork", "set", "https://example.com/sunday", "ref"); !errors.Is(err, shared.ErrNoPlaylistID) {
			t.Errorf("expected ErrNoPlaylistID, got %v", err)
		}
	})

	t.Run("missing url", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("artwork", "get"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("artwork", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "Artwork cache is empty") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})

	t.Run("resolve fetches and caches", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<meta property="og:image" content="/covers/remote.jpg">`)
		}))
		defer srv.Close()

		tr := newTestRunner(t, tu.SampleCatalog(t))
		tr.httpClient = srv.Client()

		pageURL := srv.URL + "/us/playlist/remote/pl.u-remote"
		if err := tr.run("artwork", "resolve", "--json", pageURL); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}

		var got artworkResult
		if err := json.Unmarshal(tr.out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Source != "remote" || got.Ref != srv.URL+"/covers/remote.jpg" {
			t.Errorf("unexpected result: %+v", got)
		}

		tr.out.Reset()
		if err := tr.run("artwork", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "artwork_pl.u-remote [remote]") {
			t.Errorf("fetched artwork should be cached, got: %s", tr.out.String())
		}
	})

	t.Run("resolve all warms the cache", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "missing") {
				fmt.Fprint(w, "<html></html>")
				return
			}
			fmt.Fprint(w, `<meta property="og:image" content="https://img.example.com/one.jpg">`)
		}))
		defer srv.Close()

		c := tu.MustCatalog(t, models.Genre{
			Key:  "mix",
			Name: "Mix",
			Playlists: []models.Playlist{
				{Name: "One", URL: srv.URL + "/pl/pl.u-one"},
				{Name: "Missing", URL: srv.URL + "/pl/pl.u-missing"},
			},
			Subgenres: []models.Subgenre{
				{Name: "again", Playlists: []models.Playlist{
					{Name: "One Again", URL: srv.URL + "/pl/pl.u-one"},
					{Name: "No ID", URL: "https://example.com/no-id"},
				}},
			},
		})

		tr := newTestRunner(t, c)
		tr.httpClient = srv.Client()
		tr.config.Artwork.RatePerSecond = 100
		tr.config.Artwork.Burst = 10

		if err := tr.run("artwork", "resolve", "--all", "--workers", "2"); err != nil {
			t.Fatalf("resolve --all failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "1 found, 1 missing, 2 skipped") {
			t.Errorf("unexpected summary: %s", tr.out.String())
		}

		tr.out.Reset()
		if err := tr.run("artwork", "get", srv.URL+"/pl/pl.u-one"); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "one.jpg (cache)") {
			t.Errorf("warmed artwork should come from the cache, got: %s", tr.out.String())
		}
	})
}

func TestCatalogCommands(t *testing.T) {
	t.Run("validate ok", func(t *testing.T) {
		tr := newTestRunner(t, tu.JazzCatalog(t))
		if err := tr.run("catalog", "validate"); err != nil {
			t.Fatalf("validate failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "Catalog OK: 1 genres, 2 playlists") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})

	t.Run("validate reports problems", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		err := tr.run("catalog", "validate")
		if !errors.Is(err, models.ErrInvalidCatalog) {
			t.Errorf("expected ErrInvalidCatalog, got %v", err)
		}
		if !strings.Contains(tr.out.String(), "empty: genre has no playlists") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})

	t.Run("export to stdout", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("catalog", "export", "--format", "csv"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.HasPrefix(tr.out.String(), "Genre,Subgenre,Name,URL,Tag\n") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})

	t.Run("export markdown with artwork to file", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("artwork", "set", "https://music.apple.com/us/playlist/karma/pl.u-karm5", "https://img.example.com/karma.jpg"); err != nil {
			t.Fatalf("set failed: %v", err)
		}

		path := filepath.Join(tr.dir, "catalog.md")
		if err := tr.run("catalog", "export", "-f", "markdown", "-o", path, "--artwork"); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "![Karma](https://img.example.com/karma.jpg)") {
			t.Errorf("expected artwork line in export:\n%s", content)
		}
	})

	t.Run("export m3u to stdout", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("catalog", "export", "--format", "m3u"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "Jazz - Blue Train") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})

	t.Run("export unknown format", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("catalog", "export", "--format", "xlsx"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("database", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}

		tu.AssertFileExists(t, tr.config.Database.Path)
		if !strings.Contains(tr.out.String(), "migration 0000 applied") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})

	t.Run("rollback", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		tr.Close()

		if err := tr.run("setup", "rollback"); err != nil {
			t.Fatalf("rollback failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "Rolled back") {
			t.Errorf("unexpected output: %s", tr.out.String())
		}
	})

	t.Run("config", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		path := filepath.Join(tr.dir, "written.toml")

		if err := tr.run("setup", "config", "--output", path); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, path)

		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("written config should load: %v", err)
		}

		if err := tr.run("setup", "config", "--output", path); err == nil {
			t.Error("expected error when the file already exists")
		}
	})
}

func TestServeCommand(t *testing.T) {
	t.Run("handler serves the catalog", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		h, err := tr.handler()
		if err != nil {
			t.Fatalf("handler() error = %v", err)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/genres", nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"key":"jazz"`) {
			t.Errorf("unexpected response %d: %s", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 from /healthz, got %d", rec.Code)
		}
	})

	t.Run("bad address", func(t *testing.T) {
		tr := newTestRunner(t, tu.SampleCatalog(t))
		if err := tr.run("serve", "--addr", "127.0.0.1:not-a-port"); err == nil {
			t.Error("expected listen error")
		}
	})
}
