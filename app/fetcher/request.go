package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/sergey-dryabzhinsky/options-per-feed/app/settings"
)

const (
	maxRedirects = 20

	acceptHeader   = "application/atom+xml,application/rss+xml;q=0.9,application/rdf+xml;q=0.8,application/xml;q=0.7,text/xml;q=0.7,*/*;q=0.1"
	acceptLanguage = "ru,en;q=0.7,en-US;q=0.3"
	acceptEncoding = "gzip, deflate, zstd"
)

// newRequest makes GET request with static and per-feed headers, Accept-Encoding is set per attempt
func newRequest(ctx context.Context, p Params, rec settings.FeedOverride) (*http.Request, error) {
	u, err := url.Parse(p.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w %q", errBadURL, p.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadURL, err)
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Cache-Control", "max-age=0")

	ua := p.UserAgent
	if rec.UserAgent != "" {
		ua = rec.UserAgent
	}
	req.Header.Set("User-Agent", ua)

	if rec.Cookies != "" {
		req.Header.Set("Cookie", rec.Cookies)
	}
	if p.AuthLogin != "" || p.AuthPass != "" {
		req.SetBasicAuth(p.AuthLogin, p.AuthPass)
	}
	if rec.CalcReferer {
		ref := Referer(u)
		log.Printf("[DEBUG] feed %d, referer %s", p.FeedID, ref)
		req.Header.Set("Referer", ref)
	}
	return req, nil
}

// Referer makes referer for the url, scheme://host[:port] with the path minus its last segment.
// Urls with query keep the full path.
func Referer(u *url.URL) string {
	path := u.EscapedPath()
	if u.RawQuery == "" {
		if i := strings.LastIndex(path, "/"); i >= 0 {
			path = path[:i]
		}
	}
	return u.Scheme + "://" + u.Host + path
}

// proxyURL returns proxy for the override, nil if no proxy set.
// Host may carry scheme, i.e. socks5://proxy.example.com, http is assumed otherwise.
// Port of the record wins over the port of the host.
func proxyURL(rec settings.FeedOverride) (*url.URL, error) {
	if rec.ProxyHost == "" {
		return nil, nil
	}
	host := rec.ProxyHost
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("%w %q", errBadProxy, rec.ProxyHost)
	}
	switch {
	case rec.ProxyPort > 0:
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(rec.ProxyPort))
	case u.Port() == "":
		u.Host = net.JoinHostPort(u.Hostname(), defaultProxyPort(u.Scheme))
	}
	return u, nil
}

// defaultProxyPort used when neither record nor proxy host carries the port
func defaultProxyPort(scheme string) string {
	if scheme == "https" {
		return "443"
	}
	return "1080"
}

// newClient makes http client with transport dedicated to a single fetch
func newClient(p Params, rec settings.FeedOverride) (*http.Client, error) {
	proxy, err := proxyURL(rec)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   p.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: p.ConnectTimeout,
		DisableCompression:  true,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        1,
		IdleConnTimeout:     p.Timeout,
	}
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}
	if !rec.SSLVerify {
		log.Printf("[DEBUG] feed %d, ssl verification disabled", p.FeedID)
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit per-feed opt-in
	}

	return &http.Client{
		Transport: transport,
		Timeout:   p.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}, nil
}
