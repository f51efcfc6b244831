package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/erikmagkekse/nas-console/console"
	"github.com/erikmagkekse/nas-console/model"
	v1 "github.com/erikmagkekse/nas-console/server/api/v1"

	"github.com/labstack/echo/v5"
	"github.com/rs/zerolog/log"
)

type Server struct {
	cfg     *model.ConsoleConfig
	session *console.Session
	version string
	commit  string
	echo    *echo.Echo
	ready   atomic.Bool
}

func New(cfg *model.ConsoleConfig, session *console.Session, version, commit string) *Server {
	s := &Server{cfg: cfg, session: session, version: version, commit: commit}
	s.echo = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) routes() *echo.Echo {
	e := echo.New()

	e.Use(v1.MetricsMiddleware())

	features := map[string]string{
		"api_base":   s.cfg.APIBase,
		"menu_items": strconv.Itoa(s.session.Catalog().Len()),
	}
	if s.cfg.RequestTimeout > 0 {
		features["request_timeout"] = s.cfg.RequestTimeout.String()
	}
	if s.cfg.MenuFile != "" {
		features["menu_file"] = s.cfg.MenuFile
	}

	e.GET("/", v1.ServeConsole(s.cfg.APIBase, s.version))
	e.GET("/healthz", v1.Healthz(s.session, s.version, s.commit, features))
	e.GET("/metrics", v1.MetricsHandler())

	h := &v1.Handler{Session: s.session}
	api := e.Group("/v1")

	api.GET("/menu", h.Menu)
	api.GET("/session", h.GetSession)
	api.POST("/session/select", h.Select)

	api.PUT("/session/draft", h.EditDraft)
	api.POST("/session/draft/run", h.RunDraft)

	api.PUT("/session/actions/:index", h.EditAction)
	api.POST("/session/actions/:index/run", h.RunAction)

	return e
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.echo,
	}

	go func() {
		var err error
		if s.cfg.TLSCert != "" && s.cfg.TLSKey != "" {
			srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			log.Info().Str("addr", s.cfg.ListenAddr).Msg("starting console with TLS")
			err = srv.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			log.Info().Str("addr", s.cfg.ListenAddr).Msg("starting console")
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("console server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("console shutdown incomplete")
		}
	}()

	s.ready.Store(true)
}

func (s *Server) IsReady() bool {
	return s.ready.Load()
}
