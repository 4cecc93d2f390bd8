package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/httpx"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/aussiebroadwan/registrar/pkg/slogx"

	_ "github.com/aussiebroadwan/registrar/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys             *jwtx.KeySet
	issuer           string
	registrationPath string
	limits           httpx.RateLimits
	buildVersion     string
	startTime        time.Time
	logger           *slog.Logger

	store               store.Store
	TokenService        *service.TokenService
	RegistrationService *service.RegistrationService
	BootstrapService    *service.BootstrapService
}

type RouterOptions struct {
	Issuer           string
	RegistrationPath string
	BuildVersion     string
	RateLimits       httpx.RateLimits
}

func NewRouter(keys *jwtx.KeySet, st store.Store, logger *slog.Logger, opts RouterOptions) *Router {
	if opts.RegistrationPath == "" {
		opts.RegistrationPath = authsdk.DefaultRegistrationPath
	}
	if opts.RateLimits == (httpx.RateLimits{}) {
		opts.RateLimits = httpx.DefaultRateLimits()
	}

	r := &Router{
		Mux:              http.NewServeMux(),
		keys:             keys,
		issuer:           opts.Issuer,
		registrationPath: opts.RegistrationPath,
		limits:           opts.RateLimits,
		buildVersion:     opts.BuildVersion,
		startTime:        time.Now(),
		store:            st,
		logger:           logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerRegistration()
	r.registerOAuth2()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Registrar API
//	@version		0.1.0
//	@description	OpenID Connect Dynamic Client Registration server.
//	@description
//	@description				Clients holding the registration scope register new clients at /connect/register and receive a registration access token that can read back exactly that one registration.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/registrar
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerRegistration() {
	h := &RegistrationHandler{
		RegistrationService: r.RegistrationService,
		Issuer:              r.issuer,
		Path:                r.registrationPath,
	}

	// Both verify their own bearer so every failure gets the same 401 body.
	r.Mux.Handle("POST "+r.registrationPath,
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
	r.Mux.Handle("GET "+r.registrationPath,
		httpx.Chain(http.HandlerFunc(h.HandleConfiguration),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
}

func (r *Router) registerOAuth2() {
	// POST /token - strict rate limit by IP and client (credential checks)
	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /oauth2/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIPAndClient(r.limits.Strict),
		),
	)

	// Introspection endpoint (RFC7662) - requires authentication
	introspectHandler := &IntrospectHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /oauth2/introspect",
		httpx.Chain(introspectHandler,
			httpx.AuthnMiddleware(r.TokenService.KeyManager.Verifier),
			httpx.RateLimitByIPAndClient(r.limits.Moderate),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
