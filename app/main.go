package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sergey-dryabzhinsky/options-per-feed/app/cache"
	"github.com/sergey-dryabzhinsky/options-per-feed/app/directory"
	"github.com/sergey-dryabzhinsky/options-per-feed/app/fetcher"
	"github.com/sergey-dryabzhinsky/options-per-feed/app/hook"
	"github.com/sergey-dryabzhinsky/options-per-feed/app/mgmt"
	"github.com/sergey-dryabzhinsky/options-per-feed/app/settings"
	"github.com/sergey-dryabzhinsky/options-per-feed/lib"
)

var opts struct {
	Listen    string `short:"l" long:"listen" env:"LISTEN" default:"127.0.0.1:8091" description:"plugin rpc listen on host:port"`
	Conductor string `short:"c" long:"conductor" env:"CONDUCTOR" description:"host's plugin conductor url"`

	Store struct {
		Type string `long:"type" env:"TYPE" choice:"file" choice:"sqlite" default:"file" description:"settings store type"`
		File string `long:"file" env:"FILE" default:"options_per_feed.yml" description:"settings yaml file"`
		DB   string `long:"db" env:"DB" description:"settings sqlite database"`
	} `group:"store" namespace:"store" env-namespace:"STORE"`

	Directory struct {
		DB    string `long:"db" env:"DB" description:"host sqlite database with feeds, defaults to store db"`
		Table string `long:"table" env:"TABLE" default:"ttrss_feeds" description:"feeds table"`
	} `group:"directory" namespace:"directory" env-namespace:"DIRECTORY"`

	Cache struct {
		Dir    string        `long:"dir" env:"DIR" description:"host cache directory, no cache lookups if empty"`
		MaxAge time.Duration `long:"max-age" env:"MAX_AGE" default:"30s" description:"max age of cached feed"`
	} `group:"cache" namespace:"cache" env-namespace:"CACHE"`

	Fetch struct {
		Timeout        time.Duration `long:"timeout" env:"TIMEOUT" default:"15s" description:"fetch timeout"`
		ConnectTimeout time.Duration `long:"connect-timeout" env:"CONNECT_TIMEOUT" default:"5s" description:"connect timeout"`
		UserAgent      string        `long:"user-agent" env:"USER_AGENT" description:"default user agent"`
		MaxSize        int64         `long:"max-size" env:"MAX_SIZE" default:"0" description:"max feed size, 0 means unlimited"`
	} `group:"fetch" namespace:"fetch" env-namespace:"FETCH"`

	Mgmt struct {
		Enabled   bool     `long:"enabled" env:"ENABLED" description:"enable management api"`
		Listen    string   `long:"listen" env:"LISTEN" default:"127.0.0.1:8092" description:"listen on host:port"`
		Auth      []string `long:"auth" env:"AUTH" env-delim:"," description:"basic auth user:bcrypt-hash pairs"`
		RateLimit float64  `long:"rate" env:"RATE" default:"0" description:"api requests per second, 0 disables"`
		Burst     int      `long:"burst" env:"BURST" default:"10" description:"api requests burst"`
	} `group:"mgmt" namespace:"mgmt" env-namespace:"MGMT"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable access log of management api"`
		StdOut     bool   `long:"stdout" env:"STDOUT" description:"enable stdout access log"`
		FileName   string `long:"file" env:"FILE" default:"access.log" description:"location of access log"`
		MaxSize    int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"maximum size in megabytes before rotation"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Probe struct {
		URL       string `long:"url" env:"URL" description:"fetch this url once, print outcome and exit"`
		Feed      int64  `long:"feed" env:"FEED" description:"feed id of the probed url"`
		AuthLogin string `long:"login" env:"LOGIN" description:"feed auth login"`
		AuthPass  string `long:"password" env:"PASSWORD" description:"feed auth password"`
		Parse     bool   `long:"parse" env:"PARSE" description:"parse fetched feed"`
	} `group:"probe" namespace:"probe" env-namespace:"PROBE"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "unknown"

func main() {
	fmt.Printf("options-per-feed %s\n", revision)

	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	p.SubcommandsOptional = true
	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(1)
	}

	setupLog(opts.Dbg)
	catchSignal()
	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		log.Printf("[ERROR] %v", err)
		cancel()
		os.Exit(1) //nolint gocritic
	}
}

func run(ctx context.Context) error {
	store, err := makeStore()
	if err != nil {
		return fmt.Errorf("failed to make settings store: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	overrides := settings.NewOverrides(store)
	metrics := mgmt.NewMetrics()
	svc := &hook.Service{
		Cache:   cache.File{Dir: opts.Cache.Dir, MaxAge: opts.Cache.MaxAge},
		Engine:  &fetcher.Engine{Overrides: overrides, MaxBodySize: opts.Fetch.MaxSize, Metrics: metrics},
		Metrics: metrics,
		Defaults: hook.Defaults{
			Timeout:        opts.Fetch.Timeout,
			ConnectTimeout: opts.Fetch.ConnectTimeout,
			UserAgent:      opts.Fetch.UserAgent,
		},
	}

	if opts.Probe.URL != "" {
		req := lib.FetchRequest{URL: opts.Probe.URL, FeedID: opts.Probe.Feed,
			AuthLogin: opts.Probe.AuthLogin, AuthPass: opts.Probe.AuthPass}
		return probe(svc, req, opts.Probe.Parse, os.Stdout)
	}

	if opts.Mgmt.Enabled {
		dir, err := makeDirectory()
		if err != nil {
			return fmt.Errorf("failed to make feed directory: %w", err)
		}
		defer dir.Close()

		accessLog := makeAccessLogWriter()
		defer func() {
			if err := accessLog.Close(); err != nil {
				log.Printf("[WARN] can't close access log, %v", err)
			}
		}()

		mgSrv := &mgmt.Server{
			Listen:    opts.Mgmt.Listen,
			Version:   revision,
			Overrides: overrides,
			Directory: dir,
			AuthUsers: opts.Mgmt.Auth,
			RateLimit: opts.Mgmt.RateLimit,
			RateBurst: opts.Mgmt.Burst,
			AccessLog: accessLog,
			Metrics:   metrics,
		}
		go func() {
			if err := mgSrv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[WARN] management server failed, %v", err)
			}
		}()
	}

	plugin := lib.Plugin{Name: settings.PluginName, Address: opts.Listen}
	if err := plugin.Do(ctx, opts.Conductor, svc); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("plugin %s failed: %w", plugin.Name, err)
	}
	log.Printf("[INFO] plugin %s terminated", plugin.Name)
	return nil
}

func makeStore() (settings.Store, error) {
	switch opts.Store.Type {
	case "sqlite":
		if opts.Store.DB == "" {
			return nil, errors.New("no sqlite database defined for settings store")
		}
		log.Printf("[INFO] settings stored in sqlite %s", opts.Store.DB)
		return settings.OpenSQLite(opts.Store.DB)
	default:
		log.Printf("[INFO] settings stored in %s", opts.Store.File)
		return settings.NewFile(opts.Store.File), nil
	}
}

func makeDirectory() (*directory.SQL, error) {
	dbPath := opts.Directory.DB
	if dbPath == "" && opts.Store.Type == "sqlite" {
		dbPath = opts.Store.DB
	}
	if dbPath == "" {
		return nil, errors.New("no host database defined for feed directory")
	}
	return directory.Open(dbPath, opts.Directory.Table)
}

// probe makes a single fetch through the hook and prints the outcome, parses the feed if asked
func probe(svc *hook.Service, req lib.FetchRequest, parse bool, w io.Writer) error {
	var res lib.FetchResponse
	if err := svc.FetchFeed(req, &res); err != nil {
		return fmt.Errorf("fetch hook failed: %w", err)
	}
	fmt.Fprintf(w, "feed %d, %s\n", req.FeedID, hook.String(res))
	if res.Failed {
		return fmt.Errorf("fetch %s failed with code %d", req.URL, res.ErrorCode)
	}
	if !parse || len(res.Data) == 0 {
		return nil
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(res.Data))
	if err != nil {
		return fmt.Errorf("can't parse %s: %w", req.URL, err)
	}
	fmt.Fprintf(w, "%s feed %q, %d items\n", feed.FeedType, feed.Title, len(feed.Items))
	return nil
}

func makeAccessLogWriter() (accessLog io.WriteCloser) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}
	}

	log.Printf("[INFO] logger enabled for %s", opts.Logger.FileName)
	rotator := &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    opts.Logger.MaxSize,
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}
	if !opts.Logger.StdOut {
		return rotator
	}
	return multiWriteCloser{Writer: io.MultiWriter(os.Stdout, rotator), closer: rotator}
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

type multiWriteCloser struct {
	io.Writer
	closer io.Closer
}

func (m multiWriteCloser) Close() error { return m.closer.Close() }

func setupLog(dbg bool) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

func catchSignal() {
	// catch SIGQUIT and print stack traces
	sigChan := make(chan os.Signal, 1)
	go func() {
		for range sigChan {
			log.Print("[INFO] SIGQUIT detected")
			stacktrace := make([]byte, 8192)
			length := runtime.Stack(stacktrace, true)
			if length > 8192 {
				length = 8192
			}
			fmt.Println(string(stacktrace[:length]))
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT)
}
