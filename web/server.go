// Package web exposes the printer facade over HTTP: status JSON, the
// camera snapshot, control endpoints and a websocket status push.
package web

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bambulink/config"
	"bambulink/printer"
)

type Server struct {
	printer    printer.Printer
	cfg        *config.Config
	Router     *gin.Engine
	httpServer *http.Server

	hub *wsHub
}

func NewServer(p printer.Printer, cfg *config.Config) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		printer: p,
		cfg:     cfg,
		Router:  r,
		hub:     newWSHub(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) Start() {
	addr := s.cfg.Web.BindAddress + ":" + strconv.Itoa(s.cfg.Web.Port)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Router,
	}

	log.Printf("[WEB] listening on %s", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println("[WEB] serve:", err)
		}
	}()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.httpServer.Close()
		}
	}
	s.hub.closeAll()
}

func (s *Server) setupRoutes() {
	var route *gin.RouterGroup
	if s.cfg.Web.Username != "" && s.cfg.Web.Password != "" {
		route = s.Router.Group("/", gin.BasicAuth(gin.Accounts{
			s.cfg.Web.Username: s.cfg.Web.Password,
		}))
	} else {
		route = s.Router.Group("/")
	}

	route.GET("/status", s.StatusHandler)
	route.GET("/snap", s.SnapHandler)
	route.GET("/ws/status", s.WebsocketHandler)

	route.POST("/printer/light/on", s.LightOn)
	route.POST("/printer/light/off", s.LightOff)
	route.POST("/printer/stop", s.StopPrinting)
	route.POST("/printer/pause", s.PausePrinting)
	route.POST("/printer/resume", s.ResumePrinting)
	route.POST("/printer/speed", s.SetSpeed)
	route.POST("/printer/gcode", s.SendGcode)
}
