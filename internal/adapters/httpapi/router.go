// Package httpapi is the client daemon's local control surface: join and
// leave a meeting, toggle mute and route, inspect session state, and
// scrape metrics.
package httpapi

import (
	"net/http"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type JoinRequest struct {
	AudioHostURL string `json:"audio_host_url"`
	MeetingID    string `json:"meeting_id"`
	AttendeeID   string `json:"attendee_id"`
	JoinToken    string `json:"join_token"`
}

type MuteRequest struct {
	Muted bool `json:"muted"`
}

type RouteRequest struct {
	Route int `json:"route"`
}

func SetupRouter(cfg *config.Config, ctrl *app.SessionController, disp *app.Dispatcher) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "adapters.httpapi").Str("addr", cfg.StatusAddr).Msg("router setup")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/status", func(c *gin.Context) {
		state, status := disp.LastState()
		c.JSON(http.StatusOK, gin.H{
			"phase":  ctrl.Phase(),
			"state":  state.String(),
			"status": status.String(),
			"route":  ctrl.Route(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/join", func(c *gin.Context) {
		var req JoinRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.MeetingID == "" || req.AudioHostURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid join parameters"})
			return
		}
		if err := ctrl.Start(req.AudioHostURL, req.MeetingID, req.AttendeeID, req.JoinToken); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"meeting_id": req.MeetingID})
	})

	api.POST("/leave", func(c *gin.Context) {
		if err := ctrl.Stop(); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "left"})
	})

	api.POST("/mute", func(c *gin.Context) {
		var req MuteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid mute parameter"})
			return
		}
		if !ctrl.SetMute(req.Muted) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "engine rejected mute"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"muted": req.Muted})
	})

	api.POST("/route", func(c *gin.Context) {
		var req RouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid route parameter"})
			return
		}
		if !ctrl.SetRoute(req.Route) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "engine rejected route"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"route": req.Route})
	})

	return r
}
