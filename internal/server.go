package internal

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bkatic/memopad/internal/companion"
	"github.com/bkatic/memopad/internal/config"
	"github.com/bkatic/memopad/internal/db"
	"github.com/bkatic/memopad/internal/instrumentation"
	"github.com/bkatic/memopad/internal/middleware"
	"github.com/bkatic/memopad/internal/notes"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config    *config.Config
	sqlDB     *sql.DB
	notesRepo *notes.Repo
	companion *companion.Companion

	instr        *instrumentation.Instrumentation
	promRegistry *prometheus.Registry
}

type NewServerParams struct {
	Config          *config.Config
	CompanionAPIKey string
	VersionInfo     string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	sqlDB, err := db.Open(ctx, db.OpenParams{
		Path: params.Config.SQLitePath,
	})
	if err != nil {
		return nil, err
	}

	promRegistry := instrumentation.SetupPrometheus()
	instr := instrumentation.NewInstrumentation("memopad", "main", promRegistry)
	instr.GaugeLifeSignal.Set(0) // set to 1 when all is set up and running

	notesRepo := notes.NewRepo(sqlDB)

	companionClient := companion.NewClient(
		params.Config.CompanionBaseURL,
		params.CompanionAPIKey,
		params.Config.CompanionModel,
		&http.Client{},
	)

	return &Server{
		config:       params.Config,
		sqlDB:        sqlDB,
		notesRepo:    notesRepo,
		companion:    companion.New(notesRepo, companionClient, instr),
		versionInfo:  params.VersionInfo,
		instr:        instr,
		promRegistry: promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()

	notesHandler := notes.NewHandler(s.notesRepo, s.instr)
	notesHandler.SetupRoutes(r)

	chatHandler := companion.NewHandler(s.companion)
	chatHandler.SetupRoutes(r)

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(s.versionInfo))
	}).Methods("GET").Name("version")

	// UI shell; keep it last so the API routes above win
	if s.config.StaticDirPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDirPath)))
	}

	r.Use(middleware.PanicRecovery(s.instr))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.instr))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.instr.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.instr.GaugeLifeSignal.Set(0)

	if s.sqlDB != nil {
		log.Debugln("closing sqlite db ...")
		if err := s.sqlDB.Close(); err != nil {
			log.Errorf("failed to close sqlite db: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
	}
	log.Warnln("server shut down")

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.instr.GaugeRequests.Add(1)
	case http.StateClosed:
		s.instr.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
