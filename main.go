package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/songquanpeng/image-studio/common"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/logger"
	"github.com/songquanpeng/image-studio/controller"
	"github.com/songquanpeng/image-studio/middleware"
	"github.com/songquanpeng/image-studio/model"
	"github.com/songquanpeng/image-studio/monitor"
	"github.com/songquanpeng/image-studio/router"
	"github.com/songquanpeng/image-studio/studio"
	"golang.org/x/sync/errgroup"
)

func initDatabase() {
	if !config.GenerationLogEnabled {
		logger.SysLog("generation log disabled, skipping database")
		return
	}
	var err error
	model.DB, err = model.InitDB("SQL_DSN")
	if err != nil {
		logger.FatalLog("failed to initialize database: " + err.Error())
	}
	if os.Getenv("LOG_SQL_DSN") != "" {
		logger.SysLog("using secondary database for generation logs")
		model.LOG_DB, err = model.InitDB("LOG_SQL_DSN")
		if err != nil {
			logger.FatalLog("failed to initialize secondary database: " + err.Error())
		}
	} else {
		model.LOG_DB = model.DB
	}
}

func main() {
	common.Init()
	logger.SetupLogger()
	logger.SysLog(fmt.Sprintf("%s %s started", config.SystemName, common.Version))
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.DebugEnabled {
		logger.SysLog("running in debug mode")
	}

	initDatabase()
	defer func() {
		if err := model.CloseDB(); err != nil {
			logger.SysError("failed to close database: " + err.Error())
		}
	}()

	stopRetention, err := model.StartLogRetention(config.LogRetentionDays)
	if err != nil {
		logger.FatalLog("failed to schedule log retention: " + err.Error())
	}
	defer stopRetention()

	if err := common.InitRedisClient(); err != nil {
		logger.FatalLog("failed to initialize Redis: " + err.Error())
	}
	defer func() {
		if err := common.CloseRedisClient(); err != nil {
			logger.SysError("failed to close Redis: " + err.Error())
		}
	}()

	if config.HFToken() == "" {
		logger.SysError(config.HFTokenEnv + " is not set, generation requests will fail until it is")
	}

	var port = os.Getenv("PORT")
	if port == "" {
		port = strconv.Itoa(*common.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proxyURL := config.StudioProxyURL
	if proxyURL == "" {
		proxyURL = fmt.Sprintf("http://127.0.0.1:%s/api/generate", port)
	}
	studioClient := &http.Client{Timeout: time.Duration(config.StudioRequestTimeout) * time.Second}
	manager := studio.NewManager(
		studio.NewProxyClient(proxyURL, studioClient),
		time.Duration(config.StudioIdleTimeout)*time.Second,
	)
	if err := manager.Start(config.StudioSweepSpec); err != nil {
		logger.FatalLog("invalid STUDIO_SWEEP_SPEC: " + err.Error())
	}
	studioController, err := controller.NewStudio(manager)
	if err != nil {
		logger.FatalLog("failed to initialize studio: " + err.Error())
	}

	monitor.StartReporter(ctx, time.Duration(config.MetricsReportInterval)*time.Second)

	// Initialize HTTP server
	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(middleware.RequestId())
	middleware.SetUpLogger(server)
	server.Use(middleware.Metrics())
	// Initialize session store
	store := cookie.NewStore([]byte(config.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.StudioIdleTimeout,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	server.Use(sessions.Sessions("session", store))

	router.SetRouter(server, studioController)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.SysLog("listening on :" + port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.SysLog("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		manager.Stop(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})
	if err := group.Wait(); err != nil {
		logger.SysError("server stopped: " + err.Error())
	}
}
