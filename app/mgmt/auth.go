package mgmt

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/crypto/bcrypt"
)

// basicAuth middleware allows only requests with credentials matching one of user:bcrypt-hash pairs
func basicAuth(users []string) func(http.Handler) http.Handler {
	unauthorized := func(w http.ResponseWriter) {
		w.Header().Set("WWW-Authenticate", `Basic realm="options-per-feed"`)
		w.WriteHeader(http.StatusUnauthorized)
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}
			if !validateCredentials(username, password, users) {
				log.Printf("[INFO] auth rejected for user %q on %s", username, r.URL.String())
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// validateCredentials checks username:password against all allowed pairs in constant time
func validateCredentials(username, password string, allowed []string) bool {
	if username == "" {
		return false
	}
	passed := false
	usernameHash := sha256.Sum256([]byte(username))
	for _, a := range allowed {
		elems := strings.SplitN(strings.TrimSpace(a), ":", 2)
		if len(elems) != 2 || elems[0] == "" {
			continue
		}
		expectedUsernameHash := sha256.Sum256([]byte(elems[0]))
		userMatched := subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:])
		passMatchErr := bcrypt.CompareHashAndPassword([]byte(elems[1]), []byte(password))
		if userMatched == 1 && passMatchErr == nil {
			passed = true // keep checking the rest, same time for any match position
		}
	}
	return passed
}
