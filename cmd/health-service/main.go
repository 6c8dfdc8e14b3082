package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"orthanc-health/configs"
	"orthanc-health/internal/application/controller"
	"orthanc-health/internal/application/middleware"
	"orthanc-health/internal/domain/gateway/api"
	"orthanc-health/internal/domain/gateway/db"
	"orthanc-health/internal/domain/usecase/health"
	"orthanc-health/pkg/log"
	"orthanc-health/pkg/msg"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	cfg, err := configs.Load(os.Getenv("PROPERTIES_FILE_PATH"))
	if err != nil {
		log.Fatal(msg.GetMessage("app.config-fail", err))
	}
	log.Configure(cfg.ApplicationName, cfg.LogLevel)
	defer log.Sync()

	log.Info(msg.GetMessage("app.start", cfg.ApplicationName))

	// Init infra
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	middleware.SetupRequestLogger(e)
	group := e.Group(cfg.Server.ContextPath)

	// Init gateways
	authGateway := api.NewAuthServiceGateway(cfg.AuthService.URL, cfg.Orthanc.Username, cfg.Orthanc.Password, cfg.AuthService.Timeout)
	orthancGateway := api.NewOrthancGateway(cfg.Orthanc.URL, cfg.Orthanc.Username, cfg.Orthanc.Password, cfg.Orthanc.Timeout)
	keycloakGateway := api.NewKeycloakGateway(cfg.Keycloak.URLs(), cfg.Keycloak.Timeout)
	postgresGateway, err := db.NewPostgresHealthGatewayFromConfig(cfg.Database)
	if err != nil {
		log.Fatal(msg.GetMessage("app.config-fail", err))
	}

	// Init UseCase
	healthUseCase := health.NewHealthUseCase(
		health.NewOrthancProbe(authGateway, orthancGateway, cfg.Orthanc.TestStudyUID),
		health.CheckerFunc(postgresGateway.Health),
		health.CheckerFunc(keycloakGateway.Health),
		cfg.Health.Timeout,
	)

	// Init Controller
	healthController := controller.NewHealthController(group, healthUseCase)
	healthController.InitHealthRoutes()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info(msg.GetMessage("app.started", cfg.ApplicationName, cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped unexpectedly: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stop", cfg.ApplicationName))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(msg.GetMessage("app.shutdown-fail", err))
	}
	log.Info(msg.GetMessage("app.stopped", cfg.ApplicationName))
}
