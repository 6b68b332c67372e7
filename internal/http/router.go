package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/obs"
	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/internal/store"
	"github.com/invertar/invertar/pkg/httpx"
	"github.com/invertar/invertar/pkg/jwtx"
	"github.com/invertar/invertar/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	cookies      CookieWriter
	bcryptCost   int
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	AuthService         *service.AuthService
	AccountService      *service.AccountService
	OrganizationService *service.OrganizationService
	InventoryService    *service.InventoryService
	BootstrapService    *service.BootstrapService
}

func NewRouter(
	codec *jwtx.Codec,
	cookies CookieWriter,
	bcryptCost int,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		cookies:      cookies,
		bcryptCost:   bcryptCost,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Default middleware chain; metrics wrap logging so the request id is
	// already set when handlers log.
	r.middlewares = []httpx.Middleware{
		obs.Instrument,
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProfile()
	r.registerOrganizations()
	r.registerAccounts()
	r.registerInventory()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// resolveIdentity decodes and verifies the access-token cookie.
func (r *Router) resolveIdentity(req *http.Request) (jwtx.Identity, error) {
	cookie, err := req.Cookie(AccessTokenCookie)
	if err != nil {
		return jwtx.Identity{}, err
	}
	return r.codec.Verify(cookie.Value, jwtx.TokenKindAccess, time.Now())
}

// The three non-public gate configurations. Protected admits the two
// organization-level roles; Admin and SuperAdmin are exact-role checks, not
// hierarchical.
func (r *Router) protected(next http.Handler) http.Handler {
	return httpx.Gate(next, r.resolveIdentity,
		httpx.RequireAnyRole(string(domain.RoleUser), string(domain.RoleAdmin)),
	)
}

func (r *Router) adminOnly(next http.Handler) http.Handler {
	return httpx.Gate(next, r.resolveIdentity,
		httpx.RequireExactRole(string(domain.RoleAdmin)),
	)
}

func (r *Router) superAdminOnly(next http.Handler) http.Handler {
	return httpx.Gate(next, r.resolveIdentity,
		httpx.RequireExactRole(string(domain.RoleSuperAdmin)),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService: r.AuthService,
		Cookies:     r.cookies,
		BcryptCost:  r.bcryptCost,
	}

	r.Mux.HandleFunc("POST /v1/auth/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /v1/auth/set-password", h.HandleSetPasswordWithCode)
	r.Mux.HandleFunc("POST /v1/auth/refresh", h.HandleRefresh)
	r.Mux.HandleFunc("POST /v1/auth/logout", h.HandleLogout)

	bootstrap := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.HandleFunc("POST /v1/bootstrap", bootstrap.HandleBootstrap)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{Store: r.store}
	r.Mux.Handle("GET /v1/me", r.protected(http.HandlerFunc(h.HandleGetCurrentUser)))
}

func (r *Router) registerOrganizations() {
	h := &OrganizationsHandler{OrganizationService: r.OrganizationService}
	r.Mux.Handle("POST /v1/organizations", r.superAdminOnly(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/organizations", r.superAdminOnly(http.HandlerFunc(h.HandleList)))
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	// Admin accounts are managed by the super admin.
	r.Mux.Handle("POST /v1/admins", r.superAdminOnly(http.HandlerFunc(h.HandleCreateAdmin)))
	r.Mux.Handle("GET /v1/admins", r.superAdminOnly(http.HandlerFunc(h.HandleListAdmins)))
	r.Mux.Handle("POST /v1/admins/{id}/reset-code", r.superAdminOnly(http.HandlerFunc(h.HandleResetAccessCode)))
	r.Mux.Handle("DELETE /v1/admins/{id}", r.superAdminOnly(http.HandlerFunc(h.HandleDeleteAccount)))

	// User accounts are managed by their organization's admins.
	r.Mux.Handle("POST /v1/users", r.adminOnly(http.HandlerFunc(h.HandleCreateUser)))
	r.Mux.Handle("GET /v1/users", r.adminOnly(http.HandlerFunc(h.HandleListUsers)))
	r.Mux.Handle("POST /v1/users/{id}/reset-code", r.adminOnly(http.HandlerFunc(h.HandleResetAccessCode)))
	r.Mux.Handle("DELETE /v1/users/{id}", r.adminOnly(http.HandlerFunc(h.HandleDeleteAccount)))
}

func (r *Router) registerInventory() {
	shelves := &ShelvesHandler{InventoryService: r.InventoryService}
	r.Mux.Handle("POST /v1/shelves", r.protected(http.HandlerFunc(shelves.HandleCreate)))
	r.Mux.Handle("GET /v1/shelves", r.protected(http.HandlerFunc(shelves.HandleList)))
	r.Mux.Handle("PUT /v1/shelves/{id}", r.protected(http.HandlerFunc(shelves.HandleRename)))
	r.Mux.Handle("DELETE /v1/shelves/{id}", r.protected(http.HandlerFunc(shelves.HandleDelete)))

	items := &ItemsHandler{InventoryService: r.InventoryService}
	r.Mux.Handle("POST /v1/items", r.protected(http.HandlerFunc(items.HandleCreate)))
	r.Mux.Handle("GET /v1/items", r.protected(http.HandlerFunc(items.HandleSearch)))
	r.Mux.Handle("GET /v1/items/{id}", r.protected(http.HandlerFunc(items.HandleGet)))
	r.Mux.Handle("PUT /v1/items/{id}", r.protected(http.HandlerFunc(items.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/items/{id}", r.protected(http.HandlerFunc(items.HandleDelete)))

	labels := &LabelsHandler{InventoryService: r.InventoryService}
	r.Mux.Handle("POST /v1/labels", r.protected(http.HandlerFunc(labels.HandleCreate)))
	r.Mux.Handle("GET /v1/labels", r.protected(http.HandlerFunc(labels.HandleList)))
	r.Mux.Handle("PUT /v1/labels/{id}", r.protected(http.HandlerFunc(labels.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/labels/{id}", r.protected(http.HandlerFunc(labels.HandleDelete)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", obs.Handler())
}
