package app

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/clear-ness/view-counter/config"
	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/services/metrics"
	"github.com/clear-ness/view-counter/services/nonce"
	"github.com/clear-ness/view-counter/store"
	"github.com/clear-ness/view-counter/store/cachelayer"
	"github.com/clear-ness/view-counter/store/sqlstore"
	"github.com/clear-ness/view-counter/utils"
)

type Server struct {
	sqlStore store.Store
	Store    store.Store

	RootRouter *mux.Router
	Router     *mux.Router

	Server      *http.Server
	ListenAddr  *net.TCPAddr
	RateLimiter *RateLimiter

	didFinishListen chan struct{}

	newSqlStore func() store.Store
	newStore    func() store.Store

	configStore      config.Store
	configListenerId string

	nonceLock sync.RWMutex
	nonce     *nonce.Generator

	Metrics *metrics.Metrics

	Log *mlog.Logger
}

func NewServer(options ...Option) (*Server, error) {
	rootRouter := mux.NewRouter()

	s := &Server{
		RootRouter: rootRouter,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, errors.Wrap(err, "failed to apply option")
		}
	}

	if s.configStore == nil {
		configStore, err := config.NewFileStore("config.json", true)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}

		s.configStore = configStore
	}

	if s.Log == nil {
		s.Log = mlog.NewLogger(loggerConfigurationFromSettings(&s.Config().LogSettings))
	}
	mlog.RedirectStdLog(s.Log)
	mlog.InitGlobalLogger(s.Log)

	s.setNonceGenerator(s.Config())
	s.configListenerId = s.configStore.AddListener(s.configChanged)

	s.Metrics = metrics.New()

	if s.newSqlStore == nil {
		s.newSqlStore = func() store.Store {
			return sqlstore.NewSqlSupplier(s.Config().SqlSettings)
		}
	}
	s.sqlStore = s.newSqlStore()

	if s.newStore == nil {
		s.newStore = func() store.Store {
			if !*s.Config().CacheSettings.Enable {
				return s.sqlStore
			}

			mlog.Info("Cache layer is enabled", mlog.String("endpoint", *s.Config().CacheSettings.CacheEndpoint))
			return cachelayer.NewCacheLayer(s.sqlStore, s.Config())
		}
	}
	s.Store = s.newStore()

	subpath, err := utils.GetSubpathFromConfig(s.Config())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse SiteURL subpath")
	}
	s.Router = s.RootRouter.PathPrefix(subpath).Subrouter()

	if *s.Config().MetricsSettings.Enable {
		mlog.Info("Metrics endpoint is enabled")
		s.Router.Handle("/metrics", s.Metrics.Handler())
	}

	return s, nil
}

func (s *Server) setNonceGenerator(cfg *model.Config) {
	generator := nonce.NewGenerator(
		*cfg.ViewCounterSettings.NonceSalt,
		time.Duration(*cfg.ViewCounterSettings.NonceLifetimeSeconds)*time.Second,
	)

	s.nonceLock.Lock()
	s.nonce = generator
	s.nonceLock.Unlock()
}

func (s *Server) Nonce() *nonce.Generator {
	s.nonceLock.RLock()
	defer s.nonceLock.RUnlock()

	return s.nonce
}

var corsAllowedMethods = []string{
	"POST",
	"GET",
	"OPTIONS",
}

func (s *Server) Start() error {
	var handler http.Handler = s.RootRouter

	if allowedOrigins := *s.Config().ServiceSettings.AllowCorsFrom; allowedOrigins != "" {
		exposedCorsHeaders := *s.Config().ServiceSettings.CorsExposedHeaders
		allowCredentials := *s.Config().ServiceSettings.CorsAllowCredentials
		debug := *s.Config().ServiceSettings.CorsDebug
		daySeconds := 86400
		corsWrapper := cors.New(cors.Options{
			AllowedOrigins:   strings.Fields(allowedOrigins),
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   strings.Fields(exposedCorsHeaders),
			MaxAge:           daySeconds,
			AllowCredentials: allowCredentials,
			Debug:            debug,
		})

		// when debugging of CORS turned on then forward messages to logs
		if debug {
			corsWrapper.Log = s.Log.StdLog(mlog.String("source", "cors"))
		}

		handler = corsWrapper.Handler(handler)
	}

	if *s.Config().RateLimitSettings.Enable {
		mlog.Info("RateLimiter is enabled")

		rateLimiter, err := NewRateLimiter(&s.Config().RateLimitSettings, s.Config().ServiceSettings.TrustedProxyIPHeader)
		if err != nil {
			return err
		}

		s.RateLimiter = rateLimiter
		handler = rateLimiter.RateLimitHandler(handler)
	}

	s.Server = &http.Server{
		Handler:      handler,
		ReadTimeout:  time.Duration(*s.Config().ServiceSettings.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(*s.Config().ServiceSettings.WriteTimeout) * time.Second,
		ErrorLog:     s.Log.StdLog(mlog.String("source", "httpserver")),
	}

	addr := *s.Config().ServiceSettings.ListenAddress
	if addr == "" {
		if *s.Config().ServiceSettings.ConnectionSecurity == model.CONN_SECURITY_TLS {
			addr = ":https"
		} else {
			addr = ":http"
		}
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	s.ListenAddr = listener.Addr().(*net.TCPAddr)

	mlog.Info("Server is listening", mlog.String("address", listener.Addr().String()))

	s.didFinishListen = make(chan struct{})
	go func() {
		var err error
		if *s.Config().ServiceSettings.ConnectionSecurity == model.CONN_SECURITY_TLS {
			err = s.Server.ServeTLS(listener, *s.Config().ServiceSettings.TLSCertFile, *s.Config().ServiceSettings.TLSKeyFile)
		} else {
			err = s.Server.Serve(listener)
		}

		if err != nil && err != http.ErrServerClosed {
			mlog.Critical("Error starting server", mlog.Err(err))
			time.Sleep(time.Second)
		}

		close(s.didFinishListen)
	}()

	return nil
}

func (s *Server) AppOptions() []AppOption {
	return []AppOption{
		ServerConnector(s),
	}
}

const TIME_TO_WAIT_FOR_CONNECTIONS_TO_CLOSE_ON_SERVER_SHUTDOWN = time.Second

func (s *Server) StopHTTPServer() {
	if s.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), TIME_TO_WAIT_FOR_CONNECTIONS_TO_CLOSE_ON_SERVER_SHUTDOWN)
		defer cancel()
		didShutdown := false
		for s.didFinishListen != nil && !didShutdown {
			if err := s.Server.Shutdown(ctx); err != nil {
				mlog.Warn("Unable to shutdown server", mlog.Err(err))
			}
			timer := time.NewTimer(time.Millisecond * 50)
			select {
			case <-s.didFinishListen:
				didShutdown = true
			case <-timer.C:
			}
			timer.Stop()
		}
		s.Server.Close()
		s.Server = nil
	}
}

func (s *Server) Shutdown() error {
	mlog.Info("Stopping Server...")

	s.StopHTTPServer()

	if s.configStore != nil {
		s.configStore.RemoveListener(s.configListenerId)
		if err := s.configStore.Close(); err != nil {
			mlog.Warn("Failed to close config store", mlog.Err(err))
		}
	}

	if s.Store != nil {
		s.Store.Close()
	}

	mlog.Info("Server stopped")
	return nil
}

func (s *Server) FakeApp() *App {
	a := New(
		ServerConnector(s),
	)

	return a
}
