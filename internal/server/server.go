package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"pigeon/internal/storage"
)

// Server is the relay's HTTP handler.
type Server struct {
	cfg   Config
	store storage.Store
	log   logrus.FieldLogger

	mux     *http.ServeMux
	signer  *tokenSigner
	hub     *hub
	rlIP    *multiLimiter
	rlAuth  *multiLimiter
	proxies trustedProxies
	now     func() time.Time
	hashing argonParams
}

// New builds a Server over store. Call Close to stop the push hub.
func New(cfg Config, store storage.Store, log logrus.FieldLogger) (*Server, error) {
	cfg.setDefaults()
	if store == nil {
		return nil, errors.New("server: store required")
	}
	if log == nil {
		log = logrus.New()
	}

	signer, err := newTokenSigner(cfg.SigningKey, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	proxies, err := parseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	if cfg.SigningKey == "" {
		log.Warn("no signing key configured; tokens will not survive a restart")
	}

	s := &Server{
		cfg:     cfg,
		store:   store,
		log:     log,
		mux:     http.NewServeMux(),
		signer:  signer,
		hub:     newHub(log),
		rlIP:    newMultiLimiter(perMinute(cfg.RateLimit.PerMinute), cfg.RateLimit.Burst, time.Hour),
		rlAuth:  newMultiLimiter(perMinute(cfg.RateLimit.AuthPerMinute), cfg.RateLimit.AuthBurst, time.Hour),
		proxies: proxies,
		now:     time.Now,
		hashing: defaultArgon,
	}
	s.hub.start()
	s.routes()
	return s, nil
}

// Close stops the push hub and closes every subscription.
func (s *Server) Close() { s.hub.stop() }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w}
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			s.log.WithField("panic", p).Error("handler panic")
			if rec.status == 0 {
				writeError(rec, http.StatusInternalServerError, "internal error")
			}
		}
		s.accessLog(rec, r, start)
	}()

	if !s.rlIP.allow(s.proxies.clientIP(r)) {
		tooMany(rec, 1)
		return
	}
	s.mux.ServeHTTP(rec, r)
}

// ListenAndServe serves on cfg.Addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.WithField("addr", s.cfg.Addr).Info("relay listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("relay shutting down")
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
