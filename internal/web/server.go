package web

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/passgen/internal/ops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// NewHandler builds the router for the passgen web UI.
func NewHandler(d *ops.Deps, version string) http.Handler {
	// Both sub-FS paths are fixed by the embed directives above
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("template sub-FS: %v", err))
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("static sub-FS: %v", err))
	}

	h := &Handlers{
		deps:     d,
		renderer: NewRenderer(templateSub, version, logger(d)),
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(requestLogging(logger(d)))
	r.Use(securityHeaders)
	// Every POST changes state; reject ones sent by other sites.
	r.Use(http.NewCrossOriginProtection().Handler)

	r.Get("/", h.HandleIndex)
	r.Post("/generate", h.HandleGenerate)
	r.Post("/batch", h.HandleBatch)
	r.Post("/batch/export.csv", h.HandleBatchExport)
	r.Post("/check", h.HandleCheck)

	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.HandleHistory)
		r.Post("/clear", h.HandleHistoryClear)
		r.Get("/export.csv", h.HandleHistoryExport)
	})

	r.Get("/branding", h.HandleBranding)
	r.Post("/branding", h.HandleBrandingSave)
	r.Get("/theme.css", h.HandleTheme)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return r
}

// NewServer creates and configures the HTTP server for the passgen web UI.
func NewServer(d *ops.Deps, version, bind string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           NewHandler(d, version),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves srv until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("passgen UI running", zap.String("url", "http://"+srv.Addr))
		if strings.HasPrefix(srv.Addr, "0.0.0.0:") || strings.HasPrefix(srv.Addr, "[::]:") || strings.HasPrefix(srv.Addr, ":") {
			log.Warn("server is binding to all interfaces and may be accessible from the network")
		}
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func logger(d *ops.Deps) *zap.Logger {
	if d == nil || d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
