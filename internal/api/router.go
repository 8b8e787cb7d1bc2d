package api

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Options configures the optional parts of the router.
type Options struct {
	// AuthEnabled requires a bearer token on every item and recipe route
	// and registers the /auth endpoints.
	AuthEnabled bool
	JWTSecret   string

	// RateLimit is the global request rate; zero disables limiting.
	RateLimit rate.Limit
	RateBurst int
}

// NewRouter creates the API router with all endpoints registered and the
// middleware chain applied.
func NewRouter(db *sql.DB, opts Options) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, withRoute(h))
	}

	protect := func(h http.HandlerFunc) http.Handler { return h }
	if opts.AuthEnabled {
		authMW := AuthMiddleware(opts.JWTSecret, db)
		protect = func(h http.HandlerFunc) http.Handler { return authMW(h) }

		authHandler := &AuthHandler{DB: db, JWTSecret: opts.JWTSecret}
		handle("POST /auth/login", http.HandlerFunc(authHandler.Login))
		handle("POST /auth/logout", protect(authHandler.Logout))
		handle("PUT /auth/password", protect(authHandler.ChangePassword))
	}

	itemsHandler := &ItemsHandler{DB: db}
	recipesHandler := &RecipesHandler{DB: db}

	// Public.
	handle("GET /{$}", http.HandlerFunc(root))
	handle("GET /health", http.HandlerFunc(health))
	handle("GET /metrics", promhttp.Handler())

	// Grocery items.
	handle("GET /items", protect(itemsHandler.List))
	handle("GET /items/inventory", protect(itemsHandler.Inventory))
	handle("POST /items/inventory", protect(itemsHandler.CreateInventory))
	handle("GET /items/shopping", protect(itemsHandler.Shopping))
	handle("POST /items/shopping", protect(itemsHandler.CreateShopping))
	handle("GET /items/{id}", protect(itemsHandler.Get))
	handle("PUT /items/{id}", protect(itemsHandler.Replace))
	handle("PATCH /items/{id}", protect(itemsHandler.Patch))
	handle("DELETE /items/{id}", protect(itemsHandler.Delete))
	handle("PUT /items/{id}/image", protect(itemsHandler.UploadImage))
	handle("GET /items/{id}/image", protect(itemsHandler.GetImage))
	handle("DELETE /items/{id}/image", protect(itemsHandler.DeleteImage))

	// Recipes.
	handle("POST /recipes", protect(recipesHandler.Create))
	handle("GET /recipes", protect(recipesHandler.List))
	handle("GET /recipes/{id}", protect(recipesHandler.Get))
	handle("PATCH /recipes/{id}", protect(recipesHandler.Patch))
	handle("DELETE /recipes/{id}", protect(recipesHandler.Delete))
	handle("GET /recipes/{id}/ingredients", protect(recipesHandler.Ingredients))
	handle("PUT /recipes/{id}/ingredients/{item_id}", protect(recipesHandler.SetIngredient))
	handle("DELETE /recipes/{id}/ingredients/{item_id}", protect(recipesHandler.RemoveIngredient))
	handle("POST /recipes/{id}/shopping", protect(recipesHandler.Shop))

	return withMiddleware(mux, opts)
}

// withMiddleware wraps h, outermost first, in metrics, request id, request
// logging, panic recovery and the optional rate limit. Logging sits outside
// recovery so a recovered panic is still logged as a 500.
func withMiddleware(h http.Handler, opts Options) http.Handler {
	if opts.RateLimit > 0 {
		h = RateLimitMiddleware(opts.RateLimit, opts.RateBurst)(h)
	}
	h = RecoverMiddleware(h)
	h = LoggingMiddleware(h)
	h = RequestIDMiddleware(h)
	return MetricsMiddleware(h)
}

func root(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Grocery API running"})
}

func health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
