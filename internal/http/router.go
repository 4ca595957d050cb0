package http

import (
	"net/http"

	"github.com/swaggo/swag"

	"github.com/ugcgo/ugcgo-backend/internal/identity"
	"github.com/ugcgo/ugcgo-backend/internal/rbac"
)

const apiPrefix = "/api/subscription"

// SetupRouter creates and configures HTTP router. metricsHandler may be nil.
// Admin routes are authorized by the admin service itself.
func SetupRouter(server *Server, resolver identity.Resolver, policy rbac.Policy, metricsHandler http.Handler, observer HTTPObserver) http.Handler {
	mux := http.NewServeMux()

	auth := func(next http.Handler) http.Handler {
		return AuthMiddleware(resolver, next)
	}
	can := func(p rbac.Permission) func(http.Handler) http.Handler {
		return RequirePermission(policy, p)
	}

	mux.HandleFunc("GET /health", server.Health)
	mux.HandleFunc("GET /openapi.json", serveOpenAPI)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	// Public
	mux.HandleFunc("GET "+apiPrefix+"/plans", server.GetPlans)

	// Subscriber
	mux.HandleFunc("GET "+apiPrefix+"/status",
		chainMiddleware(server.GetStatus, auth, can(rbac.PermissionSubscriptionView)))
	mux.HandleFunc("GET "+apiPrefix+"/check-feature/{feature_id}",
		chainMiddleware(server.CheckFeature, auth, can(rbac.PermissionSubscriptionView)))
	mux.HandleFunc("POST "+apiPrefix+"/can-create-video",
		chainMiddleware(server.CanCreateVideo, ContentTypeMiddleware, auth, can(rbac.PermissionVideoCreate)))
	mux.HandleFunc("POST "+apiPrefix+"/consume-credits",
		chainMiddleware(server.ConsumeCredits, ContentTypeMiddleware, auth, can(rbac.PermissionCreditsConsume)))

	// Admin
	mux.HandleFunc("POST "+apiPrefix+"/admin/gift-token", chainMiddleware(server.GiftToken, ContentTypeMiddleware, auth))
	mux.HandleFunc("GET "+apiPrefix+"/admin/users", chainMiddleware(server.ListUsers, auth))

	return chainMiddleware(mux.ServeHTTP, CORSMiddleware, RequestIDMiddleware, LoggingMiddleware, MetricsMiddleware(observer))
}

// serveOpenAPI serves the registered swagger document
func serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "OpenAPI documentation not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// chainMiddleware applies multiple middleware to a handler function
func chainMiddleware(handler http.HandlerFunc, middleware ...func(http.Handler) http.Handler) http.HandlerFunc {
	h := http.Handler(handler)
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}
