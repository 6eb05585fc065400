package main_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	main "github.com/fwojciec/harvest/cmd/harvest"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSite serves a home page linking to a page, a text document, an image
// and an off-site URL.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Inicio</title></head><body>
<p>Bienvenidos</p>
<a href="/about">About</a>
<a href="/plan.txt">Plan</a>
<a href="/logo.jpg">Logo</a>
<a href="https://other.example.org/">Elsewhere</a>
</body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>About</title></head><body><p>Universidad</p><a href="/">Home</a></body></html>`)
	})
	mux.HandleFunc("/plan.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "Plan de estudios\n")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func readFeed(t *testing.T, path string) []map[string]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []map[string]string
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func feedByURL(records []map[string]string) map[string]map[string]string {
	byURL := make(map[string]map[string]string, len(records))
	for _, rec := range records {
		byURL[rec["url"]] = rec
	}
	return byURL
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "harvest")
	assert.Contains(t, stdout.String(), "--domain")
}

func TestMain_Run_InvalidConfig(t *testing.T) {
	t.Parallel()

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"--format", "xml"}, &stdout, &stderr)

		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("seed without scheme", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"www.upr.edu.cu"}, &stdout, &stderr)

		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr)

		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	})
}

func TestMain_Run_JSONFeed(t *testing.T) {
	t.Parallel()

	for _, fetcher := range []string{harvest.FetcherHTTP, harvest.FetcherColly} {
		t.Run(fetcher, func(t *testing.T) {
			t.Parallel()

			srv := newSite(t)
			output := filepath.Join(t.TempDir(), "out", "data.json")

			m := main.NewMain()
			var stdout, stderr bytes.Buffer

			err := m.Run(context.Background(), []string{
				"--domain", "127.0.0.1",
				"--fetcher", fetcher,
				"--output", output,
				srv.URL + "/",
			}, &stdout, &stderr)
			require.NoError(t, err, stderr.String())

			records := feedByURL(readFeed(t, output))
			require.Len(t, records, 3)

			home := records[srv.URL+"/"]
			require.NotNil(t, home)
			assert.Equal(t, "Inicio", home["title"])
			assert.Equal(t, "Bienvenidos About Plan Logo Elsewhere", home["content"])

			about := records[srv.URL+"/about"]
			require.NotNil(t, about)
			assert.Equal(t, "Universidad Home", about["content"])

			plan := records[srv.URL+"/plan.txt"]
			require.NotNil(t, plan)
			assert.Equal(t, "Plan de estudios", plan["content"])
			assert.NotContains(t, plan, "title")

			assert.Contains(t, stdout.String(), "2 pages, 1 documents, 0 failed")
			assert.Contains(t, stdout.String(), "Saved to "+output+" (3 records)")
		})
	}
}

func TestMain_Run_ConfigFile(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "data.json")
	configPath := filepath.Join(dir, "harvest.yaml")

	content := fmt.Sprintf(`allowedDomains: [127.0.0.1]
seeds: [%q]
maxPages: 1
output: %q
`, srv.URL+"/", output)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--config", configPath}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	records := feedByURL(readFeed(t, output))
	assert.Len(t, records, 2)
	assert.Contains(t, records, srv.URL+"/")
	assert.Contains(t, records, srv.URL+"/plan.txt")
	assert.Contains(t, stdout.String(), "1 pages, 1 documents, 0 failed, 1 skipped")
}

func TestMain_Run_SQLite(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	output := filepath.Join(t.TempDir(), "harvest.db")

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"--domain", "127.0.0.1",
		"--format", "sqlite",
		"--output", output,
		srv.URL + "/",
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	db, err := sql.Open("sqlite3", output)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	var websites, documents int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM websites").Scan(&websites))
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&documents))
	assert.Equal(t, 2, websites)
	assert.Equal(t, 1, documents)

	var finishedAt string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT finished_at FROM runs").Scan(&finishedAt))
	assert.NotEmpty(t, finishedAt)

	var runID string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT id FROM runs").Scan(&runID))
	assert.Contains(t, stdout.String(), fmt.Sprintf("Saved to %s (run %s)", output, runID))
}

func TestMain_Run_WarnsOncePerFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body><a href="/missing">Missing</a><a href="/broken.pdf">Broken</a></body></html>`)
	})
	mux.HandleFunc("/broken.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "not a pdf")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	output := filepath.Join(t.TempDir(), "data.json")

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--domain", "127.0.0.1", "--verbose", "--output", output, srv.URL + "/"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	logs := stderr.String()
	assert.Equal(t, 2, strings.Count(logs, "level=WARN"), logs)
	assert.Equal(t, 1, strings.Count(logs, "msg=\"task failed\""), logs)
	assert.Equal(t, 1, strings.Count(logs, "msg=\"document extraction failed\""), logs)
	assert.NotContains(t, logs, "skip ")
	assert.Contains(t, stdout.String(), "1 pages, 1 documents, 1 failed")
}

func TestMain_Run_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The home page is written before /slow is requested; the request for
	// /slow interrupts the run.
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Inicio</title></head><body><a href="/slow">Slow</a></body></html>`)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		cancel()
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	output := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(output, []byte("previous"), 0o600))

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(ctx, []string{"--domain", "127.0.0.1", "-n", "1", "--output", output, srv.URL + "/"}, &stdout, &stderr)
	require.ErrorIs(t, err, context.Canceled)

	records := readFeed(t, output)
	require.Len(t, records, 1)
	assert.Equal(t, srv.URL+"/", records[0]["url"])
	assert.Equal(t, "Inicio", records[0]["title"])
	assert.NoFileExists(t, output+".tmp")
	assert.Contains(t, stdout.String(), "Saved partial output to "+output+" (1 records)")
}
