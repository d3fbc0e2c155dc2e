package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-gather/api/i"
	"github.com/beka-birhanu/vinom-gather/api/response"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Router manages the HTTP server and its dependencies,
// including controllers and player token authorization.
type Router struct {
	addr                    string
	baseURL                 string
	controllers             []i.Controller
	authorizationMiddleware gin.HandlerFunc
	staticRoot              string
	logger                  *slog.Logger
}

// Config holds configuration settings for creating a new Router instance.
type Config struct {
	Addr                    string // Address to listen on
	BaseURL                 string // Base URL for API routes
	Controllers             []i.Controller
	AuthorizationMiddleware gin.HandlerFunc
	StaticRoot              string // Optional directory served for unmatched paths
	Logger                  *slog.Logger
}

// NewRouter creates a new Router instance with the given configuration.
func NewRouter(config Config) *Router {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		addr:                    config.Addr,
		baseURL:                 config.BaseURL,
		controllers:             config.Controllers,
		authorizationMiddleware: config.AuthorizationMiddleware,
		staticRoot:              config.StaticRoot,
		logger:                  logger.With("component", "http"),
	}
}

// Handler builds the gin engine with every route.
//
// Routes are grouped and managed under the base URL, with the following access levels:
// - Public routes: No authentication required.
// - Protected routes: A player token is required.
func (r *Router) Handler() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), r.logRequests())

	// Setting up routes under baseURL
	api := router.Group(r.baseURL)
	api.Use(noCache)

	{
		// Public routes (accessible without authentication)
		publicRoutes := api.Group("/v1")
		{
			for _, c := range r.controllers {
				c.RegisterPublic(publicRoutes)
			}
		}

		// Protected routes (player token required)
		protectedRoutes := api.Group("/v1")
		protectedRoutes.Use(r.authorizationMiddleware)
		{
			for _, c := range r.controllers {
				c.RegisterProtected(protectedRoutes)
			}
		}
	}

	router.NoMethod(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusMethodNotAllowed, response.CodeInvalidMethod, "Invalid method")
	})
	router.NoRoute(r.noRoute)
	return router
}

// Run serves HTTP until ctx is done, then shuts the server down gracefully.
func (r *Router) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              r.addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("server started", "address", r.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	r.logger.Info("server exited")
	return nil
}

func (r *Router) logRequests() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		r.logger.Info("request received",
			"method", ctx.Request.Method,
			"uri", ctx.Request.RequestURI,
			"ip", ctx.ClientIP(),
		)

		ctx.Next()

		r.logger.Info("response sent",
			"method", ctx.Request.Method,
			"uri", ctx.Request.RequestURI,
			"code", ctx.Writer.Status(),
			"content_type", ctx.Writer.Header().Get("Content-Type"),
			"response_time", time.Since(start).Milliseconds(),
		)
		for _, err := range ctx.Errors {
			r.logger.Error("request failed", "uri", ctx.Request.RequestURI, "error", err.Err)
		}
	}
}

func noCache(ctx *gin.Context) {
	ctx.Header("Cache-Control", "no-cache")
	ctx.Next()
}

// noRoute rejects unknown API paths and serves static files for the rest.
func (r *Router) noRoute(ctx *gin.Context) {
	path := ctx.Request.URL.Path
	if r.baseURL != "" && strings.HasPrefix(path, r.baseURL+"/") {
		response.Error(ctx, http.StatusBadRequest, response.CodeBadRequest, "Bad request")
		return
	}
	if r.staticRoot == "" {
		ctx.String(http.StatusNotFound, "Not found")
		return
	}

	// Clean against "/" so the file never leaves the static root.
	file := filepath.Join(r.staticRoot, filepath.FromSlash(filepath.Clean("/"+path)))
	info, err := os.Stat(file)
	if err == nil && info.IsDir() {
		file = filepath.Join(file, "index.html")
		info, err = os.Stat(file)
	}
	if err != nil || info.IsDir() {
		ctx.String(http.StatusNotFound, "Not found")
		return
	}
	ctx.File(file)
}
