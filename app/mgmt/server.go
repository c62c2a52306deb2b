// Package mgmt provides management server. Serves API to list and edit per-feed fetch overrides and prometheus metrics.
package mgmt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sergey-dryabzhinsky/options-per-feed/app/settings"
)

//go:generate moq -out editor_mock.go -fmt goimports . OverrideEditor
//go:generate moq -out directory_mock.go -fmt goimports . FeedDirectory

const maxBodySize = 64 * 1024

// Server represents management server
type Server struct {
	Listen    string
	Version   string
	Overrides OverrideEditor
	Directory FeedDirectory
	AuthUsers []string // user:bcrypt-hash pairs, no auth if empty
	RateLimit float64  // api requests per second per client, 0 disables
	RateBurst int
	AccessLog io.Writer // combined access log, optional
	Metrics   *Metrics  // optional
}

// OverrideEditor reads and changes override records
type OverrideEditor interface {
	Get(feedID int64) (rec settings.FeedOverride, enabled bool, err error)
	Save(feedID int64, enabled bool, rec settings.FeedOverride) error
	Prune(ctx context.Context, dir settings.Directory, userID int64) ([]int64, error)
}

// FeedDirectory gives access to feeds of the host
type FeedDirectory interface {
	FeedExistsAndOwnedBy(ctx context.Context, feedID, userID int64) (bool, error)
	FeedTitle(ctx context.Context, feedID int64) (string, error)
}

// feedForm is the editable state of a single feed
type feedForm struct {
	Enabled bool `json:"enabled"`
	settings.FeedOverride
}

// Run the listener and management router, activate rest server
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[INFO] start management server on %s", s.Listen)

	httpServer := http.Server{
		Addr:              s.Listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		err := httpServer.Shutdown(context.Background())
		log.Printf("[WARN] mgmt server terminated, %v", err)
	}()

	return httpServer.ListenAndServe()
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(rest.Recoverer(log.Default()), rest.AppInfo("options-per-feed", "sergey-dryabzhinsky", s.Version), rest.Ping)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if s.Metrics != nil {
			r.Use(s.Metrics.Middleware) // counts rejected requests too
		}
		if s.RateLimit > 0 {
			r.Use(NewThrottler(s.RateLimit, s.RateBurst).Middleware)
		}
		if len(s.AuthUsers) > 0 {
			r.Use(basicAuth(s.AuthUsers))
		}
		r.Get("/feeds", s.listFeedsCtrl)
		r.Get("/feeds/{id}", s.getFeedCtrl)
		r.Put("/feeds/{id}", s.saveFeedCtrl)
		r.Delete("/feeds/{id}", s.deleteFeedCtrl)
	})

	if s.AccessLog == nil {
		return router
	}
	return handlers.CombinedLoggingHandler(s.AccessLog, router)
}

// listFeedsCtrl - GET /api/v1/feeds?user=<uid>, drops stale overrides of the user and lists enabled feeds
func (s *Server) listFeedsCtrl(w http.ResponseWriter, r *http.Request) {
	type feedInfo struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}

	userID, err := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "invalid user id")
		return
	}

	ids, err := s.Overrides.Prune(r.Context(), s.Directory, userID)
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "can't list feeds")
		return
	}

	res := make([]feedInfo, 0, len(ids))
	for _, id := range ids {
		title, err := s.Directory.FeedTitle(r.Context(), id)
		if err != nil {
			log.Printf("[WARN] can't get title of feed %d, %v", id, err)
		}
		res = append(res, feedInfo{ID: id, Title: title})
	}
	rest.RenderJSON(w, res)
}

// getFeedCtrl - GET /api/v1/feeds/{id}, returns the form state, defaults if override not enabled
func (s *Server) getFeedCtrl(w http.ResponseWriter, r *http.Request) {
	feedID, err := feedParam(r)
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "invalid feed id")
		return
	}
	s.renderFeed(w, r, feedID)
}

// saveFeedCtrl - PUT /api/v1/feeds/{id}, saves the form, enabled=false removes the override
func (s *Server) saveFeedCtrl(w http.ResponseWriter, r *http.Request) {
	feedID, err := feedParam(r)
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "invalid feed id")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "can't read request")
		return
	}

	// decoded twice, FeedOverride has its own unmarshaler applying defaults
	var flag struct {
		Enabled bool `json:"enabled"`
	}
	if err = json.Unmarshal(body, &flag); err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "can't decode request")
		return
	}
	form := feedForm{Enabled: flag.Enabled}
	if err = json.Unmarshal(body, &form.FeedOverride); err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "can't decode request")
		return
	}

	if err = s.Overrides.Save(feedID, form.Enabled, form.FeedOverride); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, settings.ErrInvalid) {
			code = http.StatusBadRequest
		}
		rest.SendErrorJSON(w, r, log.Default(), code, err, "can't save override")
		return
	}
	s.renderFeed(w, r, feedID)
}

// deleteFeedCtrl - DELETE /api/v1/feeds/{id}, disables override of the feed
func (s *Server) deleteFeedCtrl(w http.ResponseWriter, r *http.Request) {
	feedID, err := feedParam(r)
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "invalid feed id")
		return
	}
	if err = s.Overrides.Save(feedID, false, settings.FeedOverride{}); err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "can't delete override")
		return
	}
	rest.RenderJSON(w, rest.JSON{"id": feedID, "enabled": false})
}

func (s *Server) renderFeed(w http.ResponseWriter, r *http.Request, feedID int64) {
	rec, enabled, err := s.Overrides.Get(feedID)
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "can't load override")
		return
	}
	rest.RenderJSON(w, feedForm{Enabled: enabled, FeedOverride: rec})
}

func feedParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad feed id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}
