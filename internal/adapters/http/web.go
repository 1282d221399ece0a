package web

import (
	"context"
	"crypto/rand"
	"net/http"
	"time"

	"sigsite/internal/adapters/http/middleware"
	"sigsite/internal/adapters/http/perf"
	"sigsite/internal/adapters/render"
	syncconfigStore "sigsite/internal/adapters/storage/syncconfig"
	syncrunStore "sigsite/internal/adapters/storage/syncrun"
	"sigsite/internal/adapters/view"
	"sigsite/internal/application/orchestrators"
)

// Syncer runs directory sync cycles on demand.
type Syncer interface {
	SyncNow(ctx context.Context, trigger string) (orchestrators.SyncDirectoryResult, error)
	Trigger(trigger string) bool
	InFlight() bool
}

// Deps holds everything the HTTP surface needs.
type Deps struct {
	Surface     *render.Surface
	ConfigStore syncconfigStore.Store
	RunStore    syncrunStore.Store
	Syncer      Syncer
	Perf        *perf.Collector

	Admin          middleware.AdminCredentials
	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string
	// RateLimiter is owned by the caller, which must Close it. Nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
	SlowRequest time.Duration
	// PhotoDir serves local member photos under /assets/members/ when set.
	PhotoDir     string
	BannerWindow time.Duration
	Now          func() time.Time
}

type server struct {
	Deps
}

func (s *server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// NewMux wires HTTP handlers for the directory site.
// PRE: d.Surface, d.ConfigStore, d.RunStore and d.Syncer are non-nil
// POST: Returns the handler wrapped in the middleware chain
func NewMux(d Deps) http.Handler {
	s := &server{Deps: d}
	if len(s.CSRFKey) != 32 {
		s.CSRFKey = make([]byte, 32)
		rand.Read(s.CSRFKey)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/members", http.StatusFound)
	})
	mux.HandleFunc("GET /members", s.handleMembers)
	mux.HandleFunc("GET /members/{category}/{index}", s.handleMemberDetail)
	mux.HandleFunc("GET /admin/sync", s.handleAdminSyncPage)
	mux.HandleFunc("POST /admin/sync", s.handleAdminSyncSave)
	mux.HandleFunc("POST /admin/sync/run", s.handleAdminSyncRun)
	mux.HandleFunc("GET /admin/sync/runs", s.handleAdminSyncRuns)
	mux.HandleFunc("GET /admin/export", s.handleAdminExport)
	mux.HandleFunc("GET /admin/perf", s.handleAdminPerf)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(view.Assets())))
	if s.PhotoDir != "" {
		mux.Handle("GET /assets/members/", http.StripPrefix("/assets/members/", http.FileServer(http.Dir(s.PhotoDir))))
	}

	chain := []func(http.Handler) http.Handler{
		middleware.CSRF(s.CSRFKey, middleware.CSRFOptions{Secure: s.SecureCookies, TrustedOrigins: s.TrustedOrigins}),
		middleware.SecurityHeaders,
		middleware.AdminAuth(s.Admin, "/admin"),
	}
	if s.RateLimiter != nil {
		chain = append(chain, middleware.RateLimit(s.RateLimiter))
	}
	chain = append(chain, middleware.Timing(s.Perf, s.SlowRequest))

	// Timing -> RateLimit -> AdminAuth -> SecurityHeaders -> CSRF -> mux
	return middleware.Chain(mux, chain...)
}
