package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HTTPServer serves the gateway router and drains it on shutdown.
type HTTPServer struct {
	Engine          *gin.Engine
	ShutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewHTTPServer prepares router for serving. Client IPs come from
// X-Forwarded-For only when the request arrives from one of trustedProxies;
// with none, the socket address is used.
func NewHTTPServer(router *gin.Engine, shutdownTimeout time.Duration, trustedProxies []string, logger *zap.Logger) (*HTTPServer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	router.HandleMethodNotAllowed = true
	router.ForwardedByClientIP = len(trustedProxies) > 0
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return &HTTPServer{Engine: router, ShutdownTimeout: shutdownTimeout, logger: logger}, nil
}

// Run serves on addr until ctx is done, then waits up to ShutdownTimeout
// for in-flight requests.
func (s *HTTPServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
