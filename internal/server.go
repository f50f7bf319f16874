package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Majdiscode/calinode/internal/admin"
	"github.com/Majdiscode/calinode/internal/auth"
	"github.com/Majdiscode/calinode/internal/config"
	"github.com/Majdiscode/calinode/internal/db"
	"github.com/Majdiscode/calinode/internal/docstore"
	"github.com/Majdiscode/calinode/internal/middleware"
	"github.com/Majdiscode/calinode/internal/progression/events"
	"github.com/Majdiscode/calinode/internal/progression/profile"
	"github.com/Majdiscode/calinode/internal/progression/progress"
	"github.com/Majdiscode/calinode/internal/progression/quests"
	"github.com/Majdiscode/calinode/internal/progression/readiness"
	"github.com/Majdiscode/calinode/internal/progression/streaks"
	"github.com/Majdiscode/calinode/internal/telemetry/metrics"
	metricsmiddleware "github.com/Majdiscode/calinode/internal/telemetry/metrics/middleware"
	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	iosAppSecret      string // used by the CaliNode iOS app
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool
	store  docstore.Store

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// progression domain
	profiles         *profile.Repo
	progressRepo     *progress.Repo
	questsRepo       *quests.Repo
	questsGenerator  *quests.Generator
	questsTracker    *quests.Tracker
	streaksTracker   *streaks.Tracker
	profileService   *profile.Service
	readinessService *readiness.Service

	rolloverCron *cron.Cron

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	IOSAppSecret            string
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("calinode", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "calinode-backend", rdb)
	if err != nil {
		return nil, err
	}

	localStore, err := docstore.NewDisk(params.Config.LocalStoreRootPath)
	if err != nil {
		return nil, fmt.Errorf("new local document store: %w", err)
	}
	store := docstore.NewFallbackStore(docstore.NewPG(dbPool), localStore)

	profiles := profile.NewRepo(store)
	progressRepo := progress.NewRepo(store)
	questsRepo := quests.NewRepo(store)
	streaksTracker := streaks.NewTracker(streaks.NewRepo(store))
	questsGenerator := quests.NewGenerator(profiles, questsRepo, metricsManager)
	questsTracker := quests.NewTracker(
		questsRepo,
		questsGenerator,
		progressRepo,
		profiles,
		streaksTracker,
		readiness.NewDetector(),
		metricsManager,
	)

	s := &Server{
		config:       params.Config,
		dbPool:       dbPool,
		store:        store,
		iosAppSecret: params.IOSAppSecret,
		versionInfo:  params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		profiles:         profiles,
		progressRepo:     progressRepo,
		questsRepo:       questsRepo,
		questsGenerator:  questsGenerator,
		questsTracker:    questsTracker,
		streaksTracker:   streaksTracker,
		profileService:   profile.NewService(profiles, questsTracker),
		readinessService: readiness.NewService(progressRepo),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("calinode-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	adminHandler := admin.NewHandler(s.versionInfo, s.authService)
	adminHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	progressionRouter := r.PathPrefix("/progression").Subrouter()

	eventsHandler := events.NewHandler(s.questsTracker, s.metricsManager)
	progressionRouter.HandleFunc("/user/{uid}/workout", eventsHandler.HandleWorkoutFinished).
		Methods("POST", "OPTIONS").Name("workout-finished")

	profileHandler := profile.NewHandler(s.profileService)
	progressionRouter.HandleFunc("/user/{uid}/assessment", profileHandler.HandleCompleteAssessment).
		Methods("POST", "OPTIONS").Name("complete-assessment")
	progressionRouter.HandleFunc("/user/{uid}/profile", profileHandler.HandleGetProfile).
		Methods("GET", "OPTIONS").Name("get-profile")

	questsHandler := quests.NewHandler(s.questsGenerator, s.questsTracker, s.questsRepo, s.progressRepo)
	progressionRouter.HandleFunc("/user/{uid}/quests", questsHandler.HandleGetDailyQuests).
		Methods("GET", "OPTIONS").Name("daily-quests")
	progressionRouter.HandleFunc("/user/{uid}/quests/generate", questsHandler.HandleRegenerate).
		Methods("POST", "OPTIONS").Name("regenerate-quests")
	progressionRouter.HandleFunc("/user/{uid}/quests/history/{date}", questsHandler.HandleGetHistory).
		Methods("GET", "OPTIONS").Name("quests-history")
	progressionRouter.HandleFunc("/user/{uid}/quests", questsHandler.HandleResetQuests).
		Methods("DELETE", "OPTIONS").Name("reset-quests")
	progressionRouter.HandleFunc("/user/{uid}/progress", questsHandler.HandleGetProgress).
		Methods("GET", "OPTIONS").Name("user-progress")

	streaksHandler := streaks.NewHandler(s.streaksTracker)
	progressionRouter.HandleFunc("/user/{uid}/streaks", streaksHandler.HandleGetStreaks).
		Methods("GET", "OPTIONS").Name("streaks")
	progressionRouter.HandleFunc("/user/{uid}/streaks/weekly", streaksHandler.HandleWeeklyView).
		Methods("GET", "OPTIONS").Name("streaks-weekly")
	progressionRouter.HandleFunc("/user/{uid}/streaks/monthly", streaksHandler.HandleMonthlyView).
		Methods("GET", "OPTIONS").Name("streaks-monthly")
	progressionRouter.HandleFunc("/user/{uid}/streaks", streaksHandler.HandleResetStreaks).
		Methods("DELETE", "OPTIONS").Name("reset-streaks")

	readinessHandler := readiness.NewHandler(s.readinessService)
	progressionRouter.HandleFunc("/user/{uid}/readiness", readinessHandler.HandleAvailableTests).
		Methods("GET", "OPTIONS").Name("readiness-tests")
	progressionRouter.HandleFunc("/user/{uid}/readiness/{testId}/complete", readinessHandler.HandleCompleteTest).
		Methods("POST", "OPTIONS").Name("complete-readiness-test")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.iosAppSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metricsmiddleware.
		New(s.promRegistry, nil).
		WrapHandler("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{}),
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
			log.Fatalf("calinode service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.setupQuestRollover(ctx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// setupQuestRollover schedules the daily regeneration of quest sets for
// every known user, so the app finds a fresh set at day start.
func (s *Server) setupQuestRollover(ctx context.Context) {
	if s.config.QuestRolloverCronSpec == "" {
		log.Debugln("quest rollover job disabled")
		return
	}

	s.rolloverCron = cron.New()
	_, err := s.rolloverCron.AddFunc(s.config.QuestRolloverCronSpec, func() {
		s.rolloverDailyQuests(ctx)
	})
	if err != nil {
		log.Errorf("failed to schedule quest rollover job: %s", err)
		return
	}
	s.rolloverCron.Start()
	log.Debugf("quest rollover job scheduled: %s", s.config.QuestRolloverCronSpec)
}

func (s *Server) rolloverDailyQuests(ctx context.Context) {
	userIDs, err := s.store.ListUserIDs(ctx)
	if err != nil {
		log.Errorf("quest rollover, list users: %s", err)
		return
	}

	rolled := 0
	for _, userID := range userIDs {
		if _, err := s.questsGenerator.EnsureDailyQuests(ctx, userID); err != nil {
			log.Errorf("quest rollover for user %s: %s", userID, err)
			continue
		}
		rolled++
	}
	log.Debugf("quest rollover done for %d/%d users", rolled, len(userIDs))
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.rolloverCron != nil {
		s.rolloverCron.Stop()
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
