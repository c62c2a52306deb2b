package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/http/httptest"
	"net/rpc"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergey-dryabzhinsky/options-per-feed/app/fetcher"
	"github.com/sergey-dryabzhinsky/options-per-feed/app/hook"
	"github.com/sergey-dryabzhinsky/options-per-feed/app/settings"
	"github.com/sergey-dryabzhinsky/options-per-feed/lib"
)

const testRSS = `<?xml version="1.0"?><rss version="2.0"><channel><title>Test Feed</title>
<item><title>one</title></item><item><title>two</title></item></channel></rss>`

func Test_Main(t *testing.T) {
	var gotUA atomic.Value
	gotUA.Store("")
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testRSS))
	}))
	defer feedSrv.Close()

	tmp := t.TempDir()
	hostDB := prepHostDB(t, filepath.Join(tmp, "host.db"))
	port, mgmtPort := chooseRandomUnusedPort(), chooseRandomUnusedPort()
	os.Args = []string{"test", "--listen=127.0.0.1:" + strconv.Itoa(port),
		"--store.file=" + filepath.Join(tmp, "settings.yml"), "--directory.db=" + hostDB,
		"--mgmt.enabled", "--mgmt.listen=127.0.0.1:" + strconv.Itoa(mgmtPort),
		"--logger.enabled", "--logger.file=" + filepath.Join(tmp, "access.log"), "--dbg",
	}

	done := make(chan struct{})
	go func() {
		<-done
		e := syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
		require.NoError(t, e)
	}()

	finished := make(chan struct{})
	go func() {
		main()
		close(finished)
	}()

	// defer cleanup because require check below can fail
	defer func() {
		close(done)
		<-finished
	}()

	waitForHTTPServerStart(mgmtPort)
	mgmtURL := fmt.Sprintf("http://127.0.0.1:%d", mgmtPort)

	var client *rpc.Client
	var err error
	for i := 0; i < 50; i++ { // plugin listener starts after mgmt server
		if client, err = rpc.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port)); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	require.NoError(t, err)
	defer client.Close()

	{ // no override, pass-through
		var res lib.FetchResponse
		err = client.Call("options_per_feed.FetchFeed", lib.FetchRequest{FeedID: 1, URL: feedSrv.URL}, &res)
		require.NoError(t, err)
		assert.False(t, res.ClientUsed)
		assert.Equal(t, -1, res.ErrorCode)
		assert.Empty(t, gotUA.Load())
	}

	{ // set user agent for feed 1
		req, err := http.NewRequest("PUT", mgmtURL+"/api/v1/feeds/1",
			strings.NewReader(`{"enabled":true,"user_agent":"custom-agent/1.0"}`))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	{ // fetched by the plugin
		var res lib.FetchResponse
		err = client.Call("options_per_feed.FetchFeed", lib.FetchRequest{FeedID: 1, URL: feedSrv.URL}, &res)
		require.NoError(t, err)
		assert.True(t, res.ClientUsed)
		assert.False(t, res.Failed)
		assert.Equal(t, 200, res.ErrorCode)
		assert.Equal(t, testRSS, string(res.Data))
		assert.Equal(t, "application/rss+xml", res.ContentType)
		assert.Equal(t, "custom-agent/1.0", gotUA.Load())
	}

	{ // list of enabled feeds
		resp, err := http.Get(mgmtURL + "/api/v1/feeds?user=100")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1,"title":"Feed One"}]`, string(body))
	}

	{ // metrics
		resp, err := http.Get(mgmtURL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `fetch_total{outcome="ok"} 1`)
		assert.Contains(t, string(body), `fetch_total{outcome="pass"} 1`)
	}

	accessLog, err := os.ReadFile(filepath.Join(tmp, "access.log"))
	require.NoError(t, err)
	assert.Contains(t, string(accessLog), "PUT /api/v1/feeds/1")
}

func Test_probe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testRSS))
	}))
	defer ts.Close()

	overrides := settings.NewOverrides(settings.NewFile(filepath.Join(t.TempDir(), "settings.yml")))
	require.NoError(t, overrides.Save(5, true, settings.FeedOverride{CalcReferer: true, SSLVerify: true}))
	svc := &hook.Service{Engine: &fetcher.Engine{Overrides: overrides}}

	{ // fetched and parsed
		buf := bytes.Buffer{}
		err := probe(svc, lib.FetchRequest{FeedID: 5, URL: ts.URL + "/rss"}, true, &buf)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `feed 5, fetched: `)
		assert.Contains(t, buf.String(), `rss feed "Test Feed", 2 items`)
	}
	{ // pass-through, nothing to parse
		buf := bytes.Buffer{}
		err := probe(svc, lib.FetchRequest{FeedID: 6, URL: ts.URL + "/rss"}, true, &buf)
		require.NoError(t, err)
		assert.Equal(t, "feed 6, pass-through: 0 bytes\n", buf.String())
	}
	{ // failed
		buf := bytes.Buffer{}
		err := probe(svc, lib.FetchRequest{FeedID: 5, URL: ts.URL + "/missing"}, false, &buf)
		require.EqualError(t, err, fmt.Sprintf("fetch %s/missing failed with code 404", ts.URL))
		assert.Contains(t, buf.String(), "failed: HTTP Code: 404, code 404")
	}
}

func Test_makeAccessLogWriter(t *testing.T) {
	defer func(enabled bool, file string) { opts.Logger.Enabled, opts.Logger.FileName = enabled, file }(
		opts.Logger.Enabled, opts.Logger.FileName)

	opts.Logger.Enabled = false
	w := makeAccessLogWriter()
	_, err := w.Write([]byte("discarded"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	opts.Logger.Enabled, opts.Logger.FileName = true, filepath.Join(t.TempDir(), "access.log")
	w = makeAccessLogWriter()
	_, err = w.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	data, err := os.ReadFile(opts.Logger.FileName)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func Test_makeDirectory(t *testing.T) {
	defer func(db, storeType, storeDB string) {
		opts.Directory.DB, opts.Store.Type, opts.Store.DB = db, storeType, storeDB
	}(opts.Directory.DB, opts.Store.Type, opts.Store.DB)

	opts.Directory.DB, opts.Store.Type, opts.Store.DB = "", "file", ""
	_, err := makeDirectory()
	assert.EqualError(t, err, "no host database defined for feed directory")

	opts.Store.Type, opts.Store.DB = "sqlite", prepHostDB(t, filepath.Join(t.TempDir(), "host.db"))
	opts.Directory.Table = "ttrss_feeds"
	dir, err := makeDirectory()
	require.NoError(t, err)
	defer dir.Close()
	ok, err := dir.FeedExistsAndOwnedBy(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.True(t, ok, "store db used as directory")
}

func prepHostDB(t *testing.T, path string) string {
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("CREATE TABLE ttrss_feeds (id INTEGER PRIMARY KEY, owner_uid INTEGER NOT NULL, title TEXT NOT NULL)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO ttrss_feeds (id, owner_uid, title) VALUES (1, 100, 'Feed One'), (2, 200, 'Feed Two')")
	require.NoError(t, err)
	return path
}

func chooseRandomUnusedPort() (port int) {
	for i := 0; i < 10; i++ {
		port = 40000 + int(rand.Int31n(10000))
		if ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port)); err == nil {
			_ = ln.Close()
			break
		}
	}
	return port
}

func waitForHTTPServerStart(port int) {
	// wait for up to 10 seconds for server to start before returning it
	client := http.Client{Timeout: time.Second}
	for i := 0; i < 100; i++ {
		time.Sleep(time.Millisecond * 100)
		if resp, err := client.Get(fmt.Sprintf("http://localhost:%d/ping", port)); err == nil {
			_ = resp.Body.Close()
			return
		}
	}
}
