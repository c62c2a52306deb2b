// Package lib defines rpc contract between feed-reader host and fetch plugins.
// Plugin side uses Plugin.Do to serve, host side uses Conductor to call plugins.
package lib

import (
	"time"
)

// FetchMethod is the rpc method every fetch plugin implements, called as <Plugin.Name>.FetchFeed
const FetchMethod = "FetchFeed"

// FetchRequest sent to plugins before the host fetches a feed
type FetchRequest struct {
	PrevBody             []byte // previously fetched body, empty if none
	URL                  string
	OwnerUID             int64
	FeedID               int64
	LastArticleTimestamp int64
	AuthLogin            string
	AuthPass             string

	// host defaults, zero values mean plugin's own defaults
	Timeout        time.Duration
	ConnectTimeout time.Duration
	UserAgent      string
}

// FetchResponse from plugin's FetchFeed call
type FetchResponse struct {
	Data         []byte // feed body, or PrevBody unchanged if plugin didn't fetch
	Failed       bool
	Error        string // "<code> <message>" or "HTTP Code: <status>"
	ErrorCode    int
	ErrorContent []byte
	ContentType  string
	LastModified string
	ClientUsed   bool // plugin made the request with its own client
}
