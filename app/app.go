// Package app wires the driver and the web surface into one process.
package app

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bambulink/config"
	"bambulink/printer/bambu"
	"bambulink/web"
)

const version = "0.1.0"

const broadcastInterval = 2 * time.Second

type App struct {
	cfg        *config.Config
	configPath string

	printer   *bambu.Printer
	webserver *web.Server

	stopBroadcast chan struct{}
}

func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, configPath: configPath}, nil
}

func (a *App) Version() string { return version }

func (a *App) Run() {
	a.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	a.Stop()
}

func (a *App) Start() {
	a.printer = bambu.NewPrinter(
		a.cfg.Printer.IPAddress,
		a.cfg.Printer.AccessCode,
		a.cfg.Printer.Serial,
	)
	if a.cfg.Printer.CameraPort != bambu.DefaultCameraPort || a.cfg.Printer.Username != bambu.DefaultUsername {
		a.printer.UseCamera(bambu.NewCameraAddr(
			a.cfg.Printer.IPAddress,
			a.cfg.Printer.AccessCode,
			a.cfg.Printer.CameraPort,
			a.cfg.Printer.Username,
		))
	}

	if err := a.printer.Connect(); err != nil {
		log.Println("[App] printer connect:", err)
	}

	a.webserver = web.NewServer(a.printer, a.cfg)
	a.webserver.Start()

	a.stopBroadcast = make(chan struct{})
	go a.broadcastLoop(a.stopBroadcast)
}

func (a *App) Restart() {
	a.Stop()
	var err error
	a.cfg, err = config.Load(a.configPath)
	if err != nil {
		log.Println("[App] reload config:", err)
		os.Exit(1)
	}
	a.Start()
}

func (a *App) Stop() {
	close(a.stopBroadcast)
	a.webserver.Stop()
	a.printer.Disconnect()
}

func (a *App) broadcastLoop(stop chan struct{}) {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.webserver.BroadcastStatus()
		case <-stop:
			return
		}
	}
}
