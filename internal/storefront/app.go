// Package storefront assembles the stores and HTTP surface into one
// application. Stores are constructed once here and passed by reference;
// nothing reaches for ambient globals.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ShriHariStore/internal/cart"
	"ShriHariStore/internal/catalog"
	"ShriHariStore/internal/config"
	"ShriHariStore/internal/contact"
	"ShriHariStore/internal/imagestore"
	"ShriHariStore/internal/kvstore"
	"ShriHariStore/internal/session"
	"ShriHariStore/pkg/kit"
)

type Deps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type App struct {
	Catalog *catalog.Store
	Blobs   *imagestore.BlobStore
	Cart    *cart.Store
	Gate    *session.Gate
	JWT     *session.TokenMaker

	kv      kvstore.Store
	log     *zap.Logger
	handler http.Handler
}

func New(ctx context.Context, cfg config.Config, kv kvstore.Store, deps Deps) (*App, error) {
	log := deps.Log

	catalogStore, err := catalog.NewStore(ctx, kv, log,
		catalog.WithMaxProducts(cfg.Catalog.MaxProducts))
	if err != nil {
		return nil, err
	}

	blobs, err := imagestore.NewBlobStore(ctx, kv, log)
	if err != nil {
		return nil, err
	}

	cartStore, err := cart.NewStore(ctx, kv, log)
	if err != nil {
		return nil, err
	}

	gate, err := session.NewGate(kv, log,
		session.Credentials{Username: cfg.Auth.Username, Password: cfg.Auth.Password},
		session.WithWindow(time.Duration(cfg.Auth.SessionHours)*time.Hour))
	if err != nil {
		return nil, err
	}

	jwt := session.NewTokenMaker(cfg.Auth.JWTSecret)

	a := &App{
		Catalog: catalogStore,
		Blobs:   blobs,
		Cart:    cartStore,
		Gate:    gate,
		JWT:     jwt,
		kv:      kv,
		log:     log,
	}
	a.handler = a.buildHandler(cfg, deps)
	return a, nil
}

func (a *App) Handler() http.Handler { return a.handler }

// SweepJob returns the orphan-image reclamation job for the scheduler.
func (a *App) SweepJob() func() {
	return imagestore.SweepJob(a.Blobs, a.Catalog, a.log)
}

func (a *App) buildHandler(cfg config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	storageMetrics := setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", a.readyz)

	admin := session.RequireAdmin(a.JWT, a.Gate)

	(&session.Server{Log: a.log, Gate: a.Gate, JWT: a.JWT}).Register(r)

	(&catalog.Server{
		Log:     a.log,
		Store:   a.Catalog,
		Metrics: storageMetrics,
		Admin:   admin,
	}).Register(r)

	(&imagestore.Server{
		Log:      a.log,
		Blobs:    a.Blobs,
		Refs:     a.Catalog,
		Options:  imagestore.DefaultValidationOptions(),
		Metrics:  storageMetrics,
		Resolver: &imagestore.Resolver{Blobs: a.Blobs},
		Admin:    admin,
	}).Register(r)

	(&cart.Server{Log: a.log, Store: a.Cart, Catalog: a.Catalog}).Register(r)

	(&contact.Server{Info: cfg.Business, Catalog: a.Catalog}).Register(r)

	return r
}

func (a *App) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := a.kv.Ping(ctx); err != nil {
		a.log.Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func setupMiddleware(r *chi.Mux, deps Deps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps Deps) *kit.StorageMetrics {
	if deps.Registry == nil {
		return nil
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	storage := kit.NewStorageMetrics(deps.Registry)

	if deps.MetricsEnabled {
		r.With(kit.MetricsAuth(deps.MetricsToken)).
			Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return storage
}
