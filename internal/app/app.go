package app

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mealcall-app-go/internal/auth"
	"mealcall-app-go/internal/cache"
	"mealcall-app-go/internal/config"
	"mealcall-app-go/internal/db"
	familydomain "mealcall-app-go/internal/domain/family"
	mealcalldomain "mealcall-app-go/internal/domain/mealcall"
	notificationdomain "mealcall-app-go/internal/domain/notification"
	"mealcall-app-go/internal/eventbus"
	"mealcall-app-go/internal/push"
	familyrepo "mealcall-app-go/internal/repository/postgres/family"
	mealcallrepo "mealcall-app-go/internal/repository/postgres/mealcall"
	notificationrepo "mealcall-app-go/internal/repository/postgres/notification"
	"mealcall-app-go/internal/transport/httpserver"
	"mealcall-app-go/internal/transport/httpserver/handler"
	"mealcall-app-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, log); err != nil {
		return nil, err
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := auth.NewPINHasher()
	bus := eventbus.New(log)

	famRepo := familyrepo.NewPostgres(dbConn)
	callRepo := mealcallrepo.NewPostgres(dbConn)
	menuRepo := mealcallrepo.NewMenuPostgres(dbConn)
	deviceRepo := notificationrepo.NewPostgres(dbConn)

	var redisClient *redis.Client
	var activeCache mealcalldomain.Cache
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		activeCache = cache.NewActiveCallCache(redisClient, log)
		log.Info("cache: redis enabled", "addr", cfg.Redis.Addr)
	}

	familySvc := familydomain.NewService(famRepo, hasher, tokens, bus, log)
	mealCallSvc := mealcalldomain.NewService(callRepo, menuRepo, familySvc, bus, activeCache, mealcalldomain.Config{
		StrictCategories: cfg.MealCall.StrictCategories,
		HistoryLimit:     cfg.MealCall.HistoryLimit,
		ActiveCacheTTL:   cfg.MealCall.ActiveCacheTTL,
	}, log)
	notificationSvc := notificationdomain.NewService(deviceRepo, log)

	// Push fan-out subscribes before the server starts accepting
	// requests, so no meal call can slip past unnotified.
	if cfg.Push.Enabled {
		sender := push.NewExpoClient(cfg.Push.Endpoint, log)
		notificationdomain.NewMealCallHandler(deviceRepo, sender, log).Register(bus)
	} else {
		log.Info("push: disabled, meal calls will not notify devices")
	}

	handlers := handler.New(familySvc, mealCallSvc, notificationSvc, log)
	router := httpserver.NewRouter(cfg, handlers, tokens)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		redis:      redisClient,
		log:        log,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("cache: close failed", "err", err)
		}
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
