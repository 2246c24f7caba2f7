package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"disasterprep/config"
	"disasterprep/controller/admin"
	"disasterprep/controller/alert"
	"disasterprep/controller/article"
	"disasterprep/controller/auth"
	"disasterprep/controller/checklist"
	"disasterprep/controller/news"
	"disasterprep/controller/quiz"
	"disasterprep/controller/report"
	"disasterprep/controller/shelter"
	"disasterprep/controller/user"
	"disasterprep/controller/video"
	"disasterprep/controller/weather"
	"disasterprep/middleware"
	"disasterprep/repository"
	"disasterprep/scheduler"
	"disasterprep/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps holds everything the HTTP layer is built from. The adapter fields
// are left nil when the matching integration is disabled.
type Deps struct {
	Tokens   *middleware.TokenManager
	Users    *repository.UserRepository
	Store    *repository.Store
	Alerts   *services.AlertGenerator
	News     *services.ClimateNewsService
	Weather  weather.Provider
	Videos   video.Searcher
	Articles article.VideoSearcher
	Routing  shelter.TravelMatrix
}

func NewRouter(cfg *config.Config, deps Deps, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	if len(cfg.Server.CORSOrigins) == 0 || (len(cfg.Server.CORSOrigins) == 1 && cfg.Server.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	auth.AuthController(router, deps.Users, deps.Tokens)
	admin.AdminController(router, deps.Tokens, deps.Users, deps.Store, logger)
	user.UserController(router, deps.Tokens, deps.Users)

	report.ReportController(router, deps.Tokens, deps.Store)
	shelter.ShelterController(router, deps.Tokens, deps.Store, deps.Routing, cfg.Occupancy, logger)

	article.ArticleController(router, deps.Tokens, deps.Store, deps.Articles, logger)
	quiz.QuizController(router, deps.Tokens, deps.Store)
	checklist.ChecklistController(router, deps.Tokens, deps.Store)

	alert.AlertController(router, deps.Tokens, deps.Store, deps.Alerts)
	weather.WeatherController(router, deps.Weather)
	video.VideoController(router, deps.Videos)
	news.NewsController(router, deps.Tokens, deps.News)

	return router
}

// StartServer connects the backing stores, builds the enabled integrations
// and serves until SIGINT or SIGTERM.
func StartServer(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	DB, err := DBConnection(cfg.UserDB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	users := repository.NewUserRepository(DB)
	if err := users.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate users: %w", err)
	}
	if err := auth.BootstrapAdmin(ctx, users, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword, logger); err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	var (
		store    *repository.Store
		notifier services.Notifier
	)
	switch cfg.Store.Driver {
	case "firestore":
		app, FB, err := FBConnection(ctx, cfg.Store)
		if err != nil {
			return fmt.Errorf("failed to initialize Firestore client: %w", err)
		}
		defer FB.Close()
		store = repository.NewFirestoreStore(FB)
		if cfg.Push.Enabled {
			fcm, err := services.NewFCMNotifier(ctx, app, cfg.Push.Topic, logger)
			if err != nil {
				return err
			}
			notifier = fcm
		}
	default:
		logger.Warn("using in-memory document store; data is lost on restart")
		store = repository.NewMemoryStore()
	}

	var cache services.KVStore = services.NopKVStore{}
	rdb, err := RedisConnection(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		cache = services.NewRedisKVStore(rdb)
	}

	deps := Deps{
		Tokens: middleware.NewTokenManager(cfg.Auth),
		Users:  users,
		Store:  store,
	}

	var weatherSource services.WeatherSource
	if cfg.Weather.Enabled {
		wc, err := services.NewWeatherClient(cfg.Weather, cache, cfg.Redis.WeatherTTL, logger)
		if err != nil {
			return err
		}
		deps.Weather = wc
		weatherSource = wc
	}
	if cfg.YouTube.Enabled {
		yc, err := services.NewYouTubeClient(cfg.YouTube, logger)
		if err != nil {
			return err
		}
		deps.Videos = yc
		deps.Articles = yc
	}
	if cfg.Routing.Enabled {
		rc, err := services.NewRoutingClient(cfg.Routing, logger)
		if err != nil {
			return err
		}
		deps.Routing = rc
	}
	var fetcher services.NewsFetcher
	if cfg.News.Enabled {
		nc, err := services.NewNewsClient(cfg.News, logger)
		if err != nil {
			return err
		}
		fetcher = nc
	}

	deps.Alerts = services.NewAlertGenerator(store.Alerts, weatherSource, notifier, logger)
	deps.News = services.NewClimateNewsService(store.News, fetcher, cfg.News.CacheTTL, logger)

	var (
		syncer scheduler.AlertSyncer
		warmer scheduler.NewsWarmer
	)
	if weatherSource != nil {
		syncer = deps.Alerts
	}
	if fetcher != nil {
		warmer = deps.News
	}
	jobs, err := scheduler.New(cfg.Scheduler, syncer, store.Shelters, warmer, logger)
	if err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           NewRouter(cfg, deps, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
