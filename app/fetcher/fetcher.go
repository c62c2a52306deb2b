// Package fetcher implements per-feed fetch overrides. Engine decides if a feed needs
// a custom fetch and, if so, makes a single GET request with merged defaults and the feed's
// override record. Feeds without active override are passed through to the host untouched.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"

	"github.com/sergey-dryabzhinsky/options-per-feed/app/settings"
)

//go:generate moq -out override_reader_mock.go -fmt goimports . OverrideReader
//go:generate moq -out metrics_mock.go -fmt goimports . Metrics

// default timeouts and user agent, used if not passed by the host
const (
	DefaultTimeout        = 15 * time.Second
	DefaultConnectTimeout = 5 * time.Second
	DefaultUserAgent      = "Mozilla/5.0 (compatible; options-per-feed; +https://github.com/sergey-dryabzhinsky/options-per-feed)"
)

// OverrideReader returns override record of the feed, false if not set
type OverrideReader interface {
	Lookup(feedID int64) (settings.FeedOverride, bool)
}

// Metrics counts compression fallbacks
type Metrics interface {
	IncRetries()
}

// Engine makes fetches for feeds with active overrides. Safe for concurrent use,
// nothing shared between calls except read-only override lookups.
type Engine struct {
	Overrides   OverrideReader
	MaxBodySize int64   // 0 means unlimited
	Metrics     Metrics // optional
}

// Params of a single fetch, as provided by the host
type Params struct {
	FeedID         int64
	URL            string
	AuthLogin      string
	AuthPass       string
	Timeout        time.Duration
	ConnectTimeout time.Duration
	UserAgent      string
}

// Result of a fetch. Handled is false for pass-through, the host should use its own fetch.
type Result struct {
	Handled      bool
	Body         []byte
	ContentType  string
	LastModified string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// Fetch makes request for the feed if it has an active override.
// Returned error is always *Error with Result.Handled set.
func (e *Engine) Fetch(ctx context.Context, p Params) (Result, error) {
	rec, ok := e.Overrides.Lookup(p.FeedID)
	if !ok || !rec.Active() {
		return Result{}, nil
	}
	p = p.withDefaults()

	req, err := newRequest(ctx, p, rec)
	if err != nil {
		return Result{Handled: true}, transportError(err)
	}
	client, err := newClient(p, rec)
	if err != nil {
		return Result{Handled: true}, transportError(err)
	}
	defer client.CloseIdleConnections()

	resp, err := e.do(ctx, client, req)
	if err != nil {
		return Result{Handled: true}, transportError(err)
	}

	contentType := resp.header.Get("Content-Type")
	if resp.status != http.StatusOK {
		log.Printf("[DEBUG] feed %d, %s returned %d, headers %v, body %d bytes",
			p.FeedID, p.URL, resp.status, resp.header, len(resp.body))
		return Result{Handled: true, ContentType: contentType}, &Error{Kind: KindStatus, Code: resp.status,
			Message: fmt.Sprintf("HTTP Code: %d", resp.status), Content: resp.body, ContentType: contentType}
	}
	if len(resp.body) == 0 {
		return Result{Handled: true, ContentType: contentType},
			&Error{Kind: KindEmptyBody, Code: 0, Message: "empty response body", ContentType: contentType}
	}

	return Result{
		Handled:      true,
		Body:         resp.body,
		ContentType:  contentType,
		LastModified: resp.header.Get("Last-Modified"),
	}, nil
}

// do runs the request with compression, and once more without it if the compressed
// response could not be read. The second attempt is final whatever it returns.
func (e *Engine) do(ctx context.Context, client *http.Client, req *http.Request) (resp response, err error) {
	compressed, attempts := true, 0
	rptErr := repeater.NewDefault(2, 0).Do(ctx, func() error {
		attempts++
		resp, err = e.attempt(client, req, compressed)
		if compressed && needsFallback(err) {
			log.Printf("[DEBUG] retry %s without compression, %v", req.URL, err)
			compressed = false
			if e.Metrics != nil {
				e.Metrics.IncRetries()
			}
			return err
		}
		return nil
	})
	if attempts == 0 && rptErr != nil {
		return response{}, rptErr
	}
	return resp, err
}

func (e *Engine) attempt(client *http.Client, req *http.Request, compressed bool) (response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Accept-Encoding", "identity")
	if compressed {
		r.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := client.Do(r)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close() // nolint

	body, err := readBody(resp.Body, e.MaxBodySize)
	if err != nil {
		return response{}, err
	}
	if compressed {
		if body, err = decode(resp.Header.Get("Content-Encoding"), body, e.MaxBodySize); err != nil {
			return response{}, err
		}
	}
	return response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

func (p Params) withDefaults() Params {
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.ConnectTimeout <= 0 {
		p.ConnectTimeout = DefaultConnectTimeout
	}
	if p.UserAgent == "" {
		p.UserAgent = DefaultUserAgent
	}
	return p
}
