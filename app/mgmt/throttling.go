package mgmt

import (
	"net/http"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	log "github.com/go-pkgz/lgr"
)

// Throttler limits rate of api requests per client ip
type Throttler struct {
	lmt *limiter.Limiter
}

// NewThrottler makes tollbooth limiter allowing rate requests per second with the given burst
func NewThrottler(rate float64, burst int) *Throttler {
	if burst < 1 {
		burst = 1
	}
	lmt := tollbooth.NewLimiter(rate, nil).
		SetBurst(burst).
		SetStatusCode(http.StatusTooManyRequests).
		SetMessage("Request rate limit exceeded, please retry later").
		SetMessageContentType("text/plain")
	return &Throttler{lmt: lmt}
}

// Middleware rejects requests over the limit
func (t *Throttler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if httpError := tollbooth.LimitByRequest(t.lmt, w, r); httpError != nil {
			t.lmt.ExecOnLimitReached(w, r)
			w.Header().Add("Content-Type", t.lmt.GetMessageContentType())
			w.WriteHeader(httpError.StatusCode)
			if _, err := w.Write([]byte(httpError.Message)); err != nil {
				log.Printf("[WARN] can't write throttle request output content, %v", err)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}
