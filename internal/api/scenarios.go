package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"

	"github.com/silosim/silotherm/internal/scenarios"
)

func registerScenarioEndpoints(rest *echo.Echo) {
	group := rest.Group("/scenario")

	group.GET("/", getScenarios)
	group.GET("/:"+urlParamId+"/", getScenario)
	group.GET("/:"+urlParamId+"/report/", getScenarioReport)
	group.GET("/:"+urlParamId+"/stability/", getScenarioStability)
	group.GET("/:"+urlParamId+"/trajectory/", getScenarioTrajectory)
}

// returns the results of all scenarios that have been run
func getScenarios(c echo.Context) error {
	data := reprint.This(scenarios.ResultMap.Items())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getScenario(c echo.Context) error {
	id := c.Param(urlParamId)
	result, exists := scenarios.ResultMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	data := reprint.This(*result)
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getScenarioReport(c echo.Context) error {
	id := c.Param(urlParamId)
	result, exists := scenarios.ResultMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	data := reprint.This(result.Report)
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getScenarioStability(c echo.Context) error {
	id := c.Param(urlParamId)
	result, exists := scenarios.ResultMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	data := map[string]interface{}{
		"routh":   reprint.This(result.Routh),
		"nyquist": reprint.This(result.Nyquist),
		"bode":    reprint.This(result.Bode),
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getScenarioTrajectory(c echo.Context) error {
	id := c.Param(urlParamId)
	result, exists := scenarios.ResultMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	data := reprint.This(result.Trajectory)
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
