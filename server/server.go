package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techagentng/chatrelay/config"
	"github.com/techagentng/chatrelay/logger"
	"github.com/techagentng/chatrelay/mailingservices"
	"github.com/techagentng/chatrelay/services"
)

// Server holds the dependencies the HTTP handlers need.
type Server struct {
	Config              *config.Config
	Mail                mailingservices.Mailer
	AuthService         services.AuthService
	ConversationService services.ConversationService
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Config.Port),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
}
