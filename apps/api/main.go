package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"
	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/contracts"
	authhandler "github.com/zenGate-Global/portfolio-pro-saas/domains/auth/be/handler"
	authservice "github.com/zenGate-Global/portfolio-pro-saas/domains/auth/be/service"
	principalshandler "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/handler"
	principalsrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/repo"
	principalsservice "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/service"
	profileshandler "github.com/zenGate-Global/portfolio-pro-saas/domains/profiles/be/handler"
	profilesrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/profiles/be/repo"
	profilesservice "github.com/zenGate-Global/portfolio-pro-saas/domains/profiles/be/service"
	tenantshandler "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/handler"
	tenantsprov "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/provisioning"
	tenantsrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/repo"
	tenantsservice "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/httpapi"
	platformlogging "github.com/zenGate-Global/portfolio-pro-saas/platform/go/logging"
	platformmiddleware "github.com/zenGate-Global/portfolio-pro-saas/platform/go/middleware"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/password"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/storage"
)

// maxRequestBytes bounds every /api body: one blob plus multipart framing.
const maxRequestBytes = storage.MaxBlobBytes + 64<<10

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	EnvKey          string        `env:"ENV_KEY,required"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	DBMaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"0"`
	DBMinConns        int32         `env:"DB_MIN_CONNS" envDefault:"0"`
	DBMaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"0s"`
	DBMaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"0s"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"portfolio-pro-saas"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	SuperAdminUsername string `env:"SUPER_ADMIN_USERNAME" envDefault:"superadmin"`
	SuperAdminPassword string `env:"SUPER_ADMIN_PASSWORD"`
	BcryptCost         int    `env:"BCRYPT_COST" envDefault:"0"`

	Storage storageConfig
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component:   "api-server",
		Environment: cfg.EnvKey,
		Level:       cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{
		ConnString:      cfg.DatabaseURL,
		ApplicationName: "portfolio-api",
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		PingTimeout:     5 * time.Second,
	})
	if err != nil {
		logger.Fatal("init postgres pool", zap.Error(err))
	}
	defer persistence.ClosePool(pool)

	if err := persistence.BootstrapSchema(ctx, pool); err != nil {
		logger.Fatal("bootstrap schema", zap.Error(err))
	}

	assets, closeAssets, err := buildAssetStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("init asset store", zap.Error(err))
	}
	defer closeAssets()

	tenantStore, err := persistence.NewTenantStore(ctx, pool)
	if err != nil {
		logger.Fatal("init tenant store", zap.Error(err))
	}
	principalStore, err := persistence.NewPrincipalStore(ctx, pool)
	if err != nil {
		logger.Fatal("init principal store", zap.Error(err))
	}
	profileStore, err := persistence.NewProfileStore(ctx, pool)
	if err != nil {
		logger.Fatal("init profile store", zap.Error(err))
	}

	tenantRepo := tenantsrepo.NewPostgresRepository(tenantStore)

	principalService := principalsservice.New(
		principalsrepo.NewPostgresRepository(principalStore),
		tenantRepo,
		password.NewHasher(cfg.BcryptCost),
	)
	principalHTTPHandler := principalshandler.New(principalService, logger)

	tenantService := tenantsservice.New(
		tenantRepo,
		principalsservice.NewAdminProvisioner(principalService),
		cfg.EnvKey,
		tenantsservice.ProvisioningDeps{
			Storage: tenantsprov.NewStorageProvisioner(assets),
		},
		logger,
	)
	tenantHTTPHandler := tenantshandler.New(tenantService, logger)

	seedPlatformAdmin(ctx, cfg, principalService, logger)

	issuer := platformauth.NewTokenIssuer(
		cfg.JWTSecret,
		platformauth.WithTTL(cfg.TokenTTL),
		platformauth.WithIssuer(cfg.JWTIssuer),
	)
	authHTTPHandler := authhandler.New(authservice.New(principalService, tenantService, issuer), logger)

	profileService := profilesservice.New(
		profilesrepo.NewPostgresRepository(profileStore),
		tenantService,
		assets,
		cfg.EnvKey,
		logger,
	)
	profileHTTPHandler := profileshandler.New(profileService, logger)

	spec, err := contracts.LoadPortfolio()
	if err != nil {
		logger.Fatal("load openapi contract", zap.Error(err))
	}
	logSecuritySchemes(logger, spec)

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.CORS(cfg.CORSOrigins),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			platformlogging.FromRequest(r, logger).Warn("readiness check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// ---- Swagger UI + OpenAPI JSON (public) ----
	registerDocsRoutes(rootRouter, spec, logger)

	if cfg.Storage.Backend == storageBackendLocal {
		rootRouter.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.LocalDir))))
	}

	apiRouter := chi.NewRouter()
	apiRouter.Use(platformmiddleware.MaxBodyBytes(maxRequestBytes))
	apiRouter.Use(buildAuthMiddleware(issuer))
	apiRouter.Use(platformmiddleware.RequestTrace)
	apiRouter.Use(newSpecValidator(spec))

	apiRouter.Post("/auth/login", authHTTPHandler.Login)

	apiRouter.Route("/super", func(r chi.Router) {
		r.Use(platformauth.RequireRole(platformauth.RolePlatformAdmin))
		r.Post("/tenant", tenantHTTPHandler.CreateTenant)
		r.Post("/admin", principalHTTPHandler.CreateAdmin)
		r.Post("/reset-password/{userId}", principalHTTPHandler.ResetPassword)
	})

	apiRouter.Group(func(r chi.Router) {
		r.Use(platformauth.RequireRole(platformauth.RolePlatformAdmin))
		r.Mount("/admin/clients", tenantHTTPHandler.ClientRoutes())
	})

	apiRouter.Mount("/client", profileHTTPHandler.ClientRoutes())
	apiRouter.Mount("/public", profileHTTPHandler.PublicRoutes())
	apiRouter.Mount("/upload", profileHTTPHandler.UploadRoutes())

	rootRouter.Mount("/api", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port), zap.String("storage", cfg.Storage.Backend))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// seedPlatformAdmin makes sure the single platform admin exists. It never overwrites an existing one.
func seedPlatformAdmin(ctx context.Context, cfg config, principals principalsservice.Service, logger *zap.Logger) {
	if cfg.SuperAdminPassword == "" {
		logger.Warn("SUPER_ADMIN_PASSWORD not set; skipping platform admin seed")
		return
	}

	admin, created, err := principals.EnsurePlatformAdmin(ctx, cfg.SuperAdminUsername, cfg.SuperAdminPassword)
	if err != nil {
		logger.Fatal("seed platform admin", zap.Error(err))
	}
	if created {
		logger.Info("platform admin created", zap.String("username", admin.Username), zap.String("principal_id", admin.ID.String()))
		return
	}
	logger.Debug("platform admin already present", zap.String("username", admin.Username))
}

// newSpecValidator builds the request validator for every /api route.
// It must run after the JWT middleware so bearerAuth operations can see the principal.
func newSpecValidator(spec *openapi3.T) func(http.Handler) http.Handler {
	return oapimiddleware.OapiRequestValidatorWithOptions(spec, &oapimiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: platformmiddleware.ValidateAuthenticationViaSwagger,
		},
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			httpapi.WriteProblem(w, validatorProblem(message, statusCode))
		},
	})
}

func validatorProblem(message string, statusCode int) httpapi.ProblemDetails {
	switch statusCode {
	case http.StatusUnauthorized:
		return httpapi.NewProblem("Unauthenticated", "authentication required", httpapi.ProblemTypeUnauthenticated, statusCode, nil)
	case http.StatusForbidden:
		return httpapi.NewProblem("Forbidden", message, httpapi.ProblemTypeForbidden, statusCode, nil)
	case http.StatusNotFound:
		return httpapi.NewProblem("Not found", message, httpapi.ProblemTypeNotFound, statusCode, nil)
	default:
		return httpapi.NewProblem("Validation failed", message, httpapi.ProblemTypeValidation, statusCode, nil)
	}
}

func logSecuritySchemes(logger *zap.Logger, spec *openapi3.T) {
	names := make([]string, 0, len(spec.Components.SecuritySchemes))
	for name := range spec.Components.SecuritySchemes {
		names = append(names, name)
	}
	logger.Info("loaded security schemes", zap.Strings("names", names))
}
