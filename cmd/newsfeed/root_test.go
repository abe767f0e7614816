package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abelbrown/newsfeed/internal/config"
	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/store"
)

// execute runs the root command with fresh flag values and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagConfig, flagDataDir, flagVerbose, flagTrace = "", "", false, false
	flagFacet, flagJSON, flagAddr = "", false, ""
	flagCategory, flagName, flagWorkers = string(store.CategoryTopStories), "", 4

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	teardown()
	return out.String(), err
}

// isolated returns flags pointing config and data at a temp directory.
func isolated(t *testing.T) (string, []string) {
	t.Helper()
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvPostgresDSN, "")
	dir := t.TempDir()
	return dir, []string{"--data-dir", dir, "--config", filepath.Join(dir, "config.json")}
}

func TestCommandTree(t *testing.T) {
	want := []string{"tui", "search", "serve", "import", "seed", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected subcommand %q, got %v (%v)", name, cmd, err)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "newsfeed dev") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestSearchJSON(t *testing.T) {
	dir, flags := isolated(t)

	out, err := execute(t, append([]string{"search", "--facet", "allnews", "--json", "olympic"}, flags...)...)
	if err != nil {
		t.Fatalf("search: %v\n%s", err, out)
	}

	var results []jsonResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 olympic article, got %d", len(results))
	}
	if results[0].Category != store.CategorySports {
		t.Errorf("expected sports, got %s", results[0].Category)
	}
	if sp := results[0].Fields.Headline; len(sp) == 0 || !sp[0].Match || sp[0].Text != "Olympic" {
		t.Errorf("expected leading Olympic match, got %+v", sp)
	}

	// The empty store was seeded in the data dir, and telemetry landed there too.
	for _, name := range []string{"newsfeed.db", "events.jsonl"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s in data dir: %v", name, err)
		}
	}
}

func TestSearchText(t *testing.T) {
	_, flags := isolated(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"single match", []string{"search", "--facet", "sports", "olympic"}, "1 result in sports"},
		{"no matches", []string{"search", "--facet", "sports", "zzz"}, "No results found"},
		{"empty query lists facet", []string{"search", "--facet", "sports"}, "2 results in sports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append(tt.args, flags...)...)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, out)
			}
		})
	}
}

func TestSearchUnknownFacet(t *testing.T) {
	_, flags := isolated(t)

	_, err := execute(t, append([]string{"search", "--facet", "weather", "ai"}, flags...)...)
	if !errors.Is(err, facet.ErrUnknownFacet) {
		t.Errorf("expected ErrUnknownFacet, got %v", err)
	}
}

const fixtureRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Fixture Wire</title>
<item><title>Quantum chip ships</title><link>https://example.com/q</link>
<description>A &lt;b&gt;new&lt;/b&gt; processor.</description><pubDate>Mon, 06 Jan 2025 10:00:00 GMT</pubDate></item>
<item><title>Rust release notes</title><link>https://example.com/r</link>
<description>Language update.</description><pubDate>Mon, 06 Jan 2025 11:00:00 GMT</pubDate></item>
</channel></rss>`

func TestImportAndSeed(t *testing.T) {
	dir, flags := isolated(t)
	feed := filepath.Join(dir, "wire.xml")
	if err := os.WriteFile(feed, []byte(fixtureRSS), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, append([]string{"import", "--category", "technology", feed}, flags...)...)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "saved 2 new articles (2 total)") {
		t.Errorf("unexpected import output %q", out)
	}

	// Importing again adds nothing.
	out, _ = execute(t, append([]string{"import", "--category", "technology", feed}, flags...)...)
	if !strings.Contains(out, "saved 0 new articles (2 total)") {
		t.Errorf("expected idempotent import, got %q", out)
	}

	out, err = execute(t, append([]string{"seed"}, flags...)...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(12 total)") {
		t.Errorf("expected seed on top of import, got %q", out)
	}

	out, err = execute(t, append([]string{"search", "--facet", "technology", "--json", "quantum"}, flags...)...)
	if err != nil {
		t.Fatal(err)
	}
	var results []jsonResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, r := range results {
		if len(r.Fields.Source) > 0 && r.Fields.Source[0].Text == "Fixture Wire" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the imported quantum article, got %+v", results)
	}
}

func TestImportSources(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Feeds.Sources = []config.Source{{Name: "Wire", URL: "https://example.com/rss", Category: "technology"}}

	tests := []struct {
		name     string
		category string
		args     []string
		wantN    int
		wantErr  bool
	}{
		{"config fallback", "topstories", nil, 1, false},
		{"explicit args", "sports", []string{"a.xml", "https://example.com/b"}, 2, false},
		{"case folded category", " Sports ", []string{"a.xml"}, 1, false},
		{"bad category", "weather", []string{"a.xml"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagCategory, flagName = tt.category, ""
			got, err := importSources(cfg, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected err=%v, got %v", tt.wantErr, err)
			}
			if len(got) != tt.wantN {
				t.Errorf("expected %d sources, got %d", tt.wantN, len(got))
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/rss", true},
		{"http://example.com/rss", true},
		{"feeds/wire.xml", false},
		{"ftp://example.com/rss", false},
	}
	for _, tt := range tests {
		if got := isURL(tt.in); got != tt.want {
			t.Errorf("isURL(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
