package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orthanc-health/internal/domain/model"
	"orthanc-health/internal/domain/usecase/health"
)

type HealthController struct {
	api     *echo.Group
	useCase health.UseCase
}

func NewHealthController(api *echo.Group, useCase health.UseCase) *HealthController {
	return &HealthController{api: api, useCase: useCase}
}

// InitHealthRoutes initializes health check routes
func (controller *HealthController) InitHealthRoutes() {
	controller.api.GET("/health", controller.CheckHealth())
	controller.api.GET("/live", controller.Liveness())
	controller.api.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// CheckHealth godoc
// @Summary Composite health of the Orthanc stack
// @Description Checks Orthanc (token, system, study access), PostgreSQL and Keycloak concurrently.
// @Description The report is returned on both outcomes; only the status code tells UP from DOWN.
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthReport "All dependencies OK"
// @Failure 503 {object} model.HealthReport "At least one dependency failed"
// @Router /health [get]
func (controller *HealthController) CheckHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		report := controller.useCase.CheckHealth(c.Request().Context())

		status := http.StatusOK
		if report.Status != model.StatusUp {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, report)
	}
}

// Liveness godoc
// @Summary Process liveness
// @Description Answers without touching any dependency.
// @Tags health
// @Produce json
// @Success 200 {object} model.LivenessResponse
// @Router /live [get]
func (controller *HealthController) Liveness() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, model.LivenessResponse{Status: model.LivenessAlive})
	}
}
