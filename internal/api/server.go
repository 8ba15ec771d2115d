package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/verisage-dev/verisage/internal/api/middleware"
	"github.com/verisage-dev/verisage/internal/branches"
	"github.com/verisage-dev/verisage/internal/forms"
)

// Options configures the router.
type Options struct {
	// ExportsDir, when set, is served read-only under URLPrefix.
	ExportsDir string
	URLPrefix  string
	// Branches is served as the branch directory; nil serves the default one.
	Branches *branches.Directory
	Log      zerolog.Logger
}

// NewRouter wires every endpoint and the middleware chain.
func NewRouter(svc *forms.Service, opts Options) http.Handler {
	dir := opts.Branches
	if dir == nil {
		dir = branches.Default()
	}
	h := NewFormsHandler(svc, dir)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", Health)
	mux.HandleFunc("POST /api/forms", h.Submit)
	mux.HandleFunc("GET /api/forms", h.List)
	mux.HandleFunc("GET /api/forms/meta/months", h.Months)
	mux.HandleFunc("GET /api/forms/meta/branches", h.Branches)
	mux.HandleFunc("POST /api/forms/post-bulk", h.PostBulk)
	mux.HandleFunc("GET /api/forms/{id}", h.Get)
	mux.HandleFunc("PATCH /api/forms/{id}", h.Review)
	mux.HandleFunc("DELETE /api/forms/{id}", h.Delete)
	mux.HandleFunc("POST /api/forms/{id}/post", h.Post)

	if opts.ExportsDir != "" {
		prefix := "/" + strings.Trim(opts.URLPrefix, "/")
		if prefix == "/" {
			prefix = "/exports"
		}
		mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(opts.ExportsDir))))
	}

	return middleware.Recovery(opts.Log)(
		middleware.RequestID(
			middleware.Logger(opts.Log)(
				middleware.CORS(mux),
			),
		),
	)
}

// Serve runs the API on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting API server")
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
