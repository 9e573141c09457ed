package http

import (
	"net/http"
	"strings"
	"time"

	"bridgerh/internal/http/handlers"
	"bridgerh/internal/http/metrics"
	httpmw "bridgerh/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler      *handlers.AuthHandler
	CandidateHandler *handlers.CandidateHandler
	MetricsHandler   *handlers.MetricsHandler
	AuthMiddleware   *httpmw.AuthMiddleware
	Metrics          *metrics.Collector
	RequestTimeout   time.Duration
}

type Router struct {
	deps RouterDependencies
}

// Large enough for a 5MB résumé plus the rest of the multipart envelope.
const maxBodyBytes = 8 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/login":
			r.deps.AuthHandler.Login(w, req)
			return
		case req.Method == http.MethodGet && path == "/auth/check":
			r.deps.AuthHandler.Check(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/logout":
			r.deps.AuthHandler.Logout(w, req)
			return
		case req.Method == http.MethodPost && path == "/candidates":
			r.deps.CandidateHandler.Submit(w, req)
			return
		}

		if path == "/candidates" || strings.HasPrefix(path, "/candidates/") {
			protected := r.deps.AuthMiddleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && path == "/candidates":
		r.deps.CandidateHandler.List(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/candidates/"):
		r.deps.CandidateHandler.Update(w, req)
		return
	}

	http.NotFound(w, req)
}
