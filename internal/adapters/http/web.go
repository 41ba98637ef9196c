package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"volunteerhub/internal/adapters/email"
	"volunteerhub/internal/adapters/http/middleware"
	"volunteerhub/internal/adapters/http/perf"
	accountStore "volunteerhub/internal/adapters/storage/account"
	activityStore "volunteerhub/internal/adapters/storage/activity"
	overrideStore "volunteerhub/internal/adapters/storage/override"
	signupStore "volunteerhub/internal/adapters/storage/signup"
	"volunteerhub/internal/application/projections"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore  accountStore.Store
	ActivityStore activityStore.Store
	SignupStore   signupStore.Store
	OverrideStore overrideStore.Store
}

// loadCSRFKey reads the CSRF secret from VOLUNTEERHUB_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("VOLUNTEERHUB_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("VOLUNTEERHUB_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("VOLUNTEERHUB_ENV") == "production" {
		log.Fatal("VOLUNTEERHUB_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set VOLUNTEERHUB_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global external feed instance (set by NewMux)
var externalFeed projections.ExternalFeed

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, feed projections.ExternalFeed, collector *perf.Collector) http.Handler {
	stores = s
	externalFeed = feed
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("VOLUNTEERHUB_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
