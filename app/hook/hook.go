// Package hook implements fetch hook of the plugin, called by the host over rpc before it fetches a feed.
package hook

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/sergey-dryabzhinsky/options-per-feed/app/fetcher"
	"github.com/sergey-dryabzhinsky/options-per-feed/lib"
)

//go:generate moq -out cache_mock.go -fmt goimports . CacheReader
//go:generate moq -out fetcher_mock.go -fmt goimports . Fetcher
//go:generate moq -out metrics_mock.go -fmt goimports . Metrics

// CacheReader returns body cached by the host
type CacheReader interface {
	Lookup(url, authLogin, authPass string, prevBody []byte) ([]byte, bool)
}

// Fetcher makes custom fetch for the feed, Result.Handled false means pass-through
type Fetcher interface {
	Fetch(ctx context.Context, p fetcher.Params) (fetcher.Result, error)
}

// Metrics collects fetch outcomes
type Metrics interface {
	IncCacheHits()
	ObserveFetch(outcome string, d time.Duration)
}

// Defaults used for fields the host didn't pass
type Defaults struct {
	Timeout        time.Duration
	ConnectTimeout time.Duration
	UserAgent      string
}

// fetch outcomes reported to metrics
const (
	OutcomePass = "pass"
	OutcomeOK   = "ok"
)

// Service is the rpc receiver, the only exported method is FetchFeed
type Service struct {
	Cache    CacheReader // optional
	Engine   Fetcher
	Defaults Defaults
	Metrics  Metrics // optional
}

// FetchFeed checks host cache first, then makes custom fetch if the feed has an override.
// Passes previous body back untouched otherwise. Fetch failures reported in res, not as error.
func (s *Service) FetchFeed(req lib.FetchRequest, res *lib.FetchResponse) error {
	*res = lib.FetchResponse{Data: req.PrevBody, ErrorCode: -1}

	if s.Cache != nil {
		if data, ok := s.Cache.Lookup(req.URL, req.AuthLogin, req.AuthPass, req.PrevBody); ok {
			log.Printf("[DEBUG] feed %d served from host cache", req.FeedID)
			res.Data = data
			if s.Metrics != nil {
				s.Metrics.IncCacheHits()
			}
			return nil
		}
	}

	st := time.Now()
	result, err := s.Engine.Fetch(context.Background(), s.params(req))
	if !result.Handled && err == nil {
		s.observe(OutcomePass, st)
		return nil
	}

	res.ClientUsed = true
	res.ContentType = result.ContentType
	if err != nil {
		fe := &fetcher.Error{}
		if !errors.As(err, &fe) {
			fe = &fetcher.Error{Kind: fetcher.KindTransport, Code: fetcher.CodeRecvError, Message: err.Error()}
		}
		log.Printf("[WARN] feed %d, fetch %s failed, %v", req.FeedID, req.URL, fe)
		res.Data = nil
		res.Failed = true
		res.Error = fe.Error()
		res.ErrorCode = fe.Code
		res.ErrorContent = fe.Content
		if fe.ContentType != "" {
			res.ContentType = fe.ContentType
		}
		s.observe(fe.Kind.String(), st)
		return nil
	}

	res.Data = result.Body
	res.LastModified = result.LastModified
	res.ErrorCode = 200
	log.Printf("[DEBUG] feed %d, fetched %s, %d bytes, %s", req.FeedID, req.URL, len(result.Body), time.Since(st))
	s.observe(OutcomeOK, st)
	return nil
}

func (s *Service) params(req lib.FetchRequest) fetcher.Params {
	p := fetcher.Params{
		FeedID:         req.FeedID,
		URL:            req.URL,
		AuthLogin:      req.AuthLogin,
		AuthPass:       req.AuthPass,
		Timeout:        s.Defaults.Timeout,
		ConnectTimeout: s.Defaults.ConnectTimeout,
		UserAgent:      s.Defaults.UserAgent,
	}
	if req.Timeout > 0 {
		p.Timeout = req.Timeout
	}
	if req.ConnectTimeout > 0 {
		p.ConnectTimeout = req.ConnectTimeout
	}
	if req.UserAgent != "" {
		p.UserAgent = req.UserAgent
	}
	return p
}

func (s *Service) observe(outcome string, st time.Time) {
	if s.Metrics != nil {
		s.Metrics.ObserveFetch(outcome, time.Since(st))
	}
}

// String describes the response for logs
func String(res lib.FetchResponse) string {
	switch {
	case res.Failed:
		return fmt.Sprintf("failed: %s, code %d, %d bytes of error content", res.Error, res.ErrorCode, len(res.ErrorContent))
	case res.ClientUsed:
		return fmt.Sprintf("fetched: %d bytes, type %q, last-modified %q", len(res.Data), res.ContentType, res.LastModified)
	}
	return fmt.Sprintf("pass-through: %d bytes", len(res.Data))
}
