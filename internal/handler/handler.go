// Package handler implements the JSON HTTP API: auth, menu, cart, orders,
// profile, and preferences.
package handler

import (
	"net/http"
	"strings"

	"github.com/sweetsalty/backend/internal/domain/cart"
	"github.com/sweetsalty/backend/internal/domain/catalog"
	"github.com/sweetsalty/backend/internal/domain/order"
	"github.com/sweetsalty/backend/internal/domain/session"
	"github.com/sweetsalty/backend/internal/domain/user"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in menu responses.
	// When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Handler serves the HTTP API, delegating business logic to the injected
// domain services and repositories.
type Handler struct {
	catalog      catalog.Repository
	orders       *order.Service
	users        user.Repository
	carts        cart.Repository
	sessions     *session.Manager
	imageBaseURL string
}

// New constructs a Handler with the required domain dependencies.
func New(
	cfg Config,
	catalogRepo catalog.Repository,
	orderService *order.Service,
	users user.Repository,
	carts cart.Repository,
	sessions *session.Manager,
) *Handler {
	return &Handler{
		catalog:      catalogRepo,
		orders:       orderService,
		users:        users,
		carts:        carts,
		sessions:     sessions,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes registers all API routes on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.withSession(h.handleLogout))
	mux.HandleFunc("POST /api/auth/reset", h.handleReset)

	mux.HandleFunc("GET /api/menu", h.handleMenu)
	mux.HandleFunc("GET /api/menu/categories/{id}", h.handleCategory)
	mux.HandleFunc("GET /api/menu/items/{id}", h.handleMenuItem)
	mux.HandleFunc("GET /api/offers", h.handleOffers)

	mux.HandleFunc("GET /api/cart", h.withSession(h.handleCartGet))
	mux.HandleFunc("PUT /api/cart", h.withSession(h.handleCartPut))
	mux.HandleFunc("POST /api/cart/preview", h.withSession(h.handleCartPreview))

	mux.HandleFunc("POST /api/orders", h.withSession(h.handlePlaceOrder))
	mux.HandleFunc("GET /api/orders", h.withSession(h.handleListOrders))

	mux.HandleFunc("GET /api/profile", h.withSession(h.handleProfileGet))
	mux.HandleFunc("PUT /api/profile", h.withSession(h.handleProfileUpdate))

	mux.HandleFunc("GET /api/preferences", h.withSession(h.handlePreferencesGet))
	mux.HandleFunc("PUT /api/preferences", h.withSession(h.handlePreferencesUpdate))
}

// sessionHandler is an http.HandlerFunc that additionally receives the
// authenticated user id.
type sessionHandler func(w http.ResponseWriter, r *http.Request, userID string)

// withSession authenticates the bearer token and rejects the request with
// 401 before any other work when it is missing or invalid.
func (h *Handler) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.sessions.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, userID)
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}

// resolveImage prepends the configured base URL to relative image paths.
func (h *Handler) resolveImage(path string) string {
	if h.imageBaseURL == "" || path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(h.imageBaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
