package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bambulink/printer"
)

// SnapHandler serves the latest camera frame, falling back to the
// rendered no-signal image while none is available.
func (s *Server) SnapHandler(c *gin.Context) {
	frame := s.printer.Camera().LastFrame()
	if frame == nil {
		frame = placeholderFrame()
	}
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	c.Data(http.StatusOK, "image/jpeg", frame)
}

func (s *Server) StatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.statusPayload())
}

// statusPayload flattens the telemetry getters into one JSON object.
// Fields the printer is not reporting come through as null.
func (s *Server) statusPayload() gin.H {
	p := s.printer
	return gin.H{
		"mqtt_connected":      p.MQTTClientConnected(),
		"mqtt_ready":          p.MQTTClientReady(),
		"camera_alive":        p.CameraClientAlive(),
		"gcode_state":         string(p.State()),
		"stage":               p.CurrentState().String(),
		"layer_num":           intField(p.CurrentLayerNum()),
		"total_layer_num":     intField(p.TotalLayerNum()),
		"percent":             intField(p.Percentage()),
		"remaining_seconds":   intField(p.RemainingTime()),
		"speed_level":         intField(p.PrintSpeed()),
		"print_error":         intField(p.PrintErrorCode()),
		"bed_temperature":     floatField(p.BedTemperature()),
		"nozzle_temperature":  floatField(p.NozzleTemperature()),
		"chamber_temperature": floatField(p.ChamberTemperature()),
		"file":                stringField(p.GcodeFile()),
		"subtask":             stringField(p.SubtaskName()),
		"print_type":          stringField(p.PrintType()),
		"wifi_signal":         stringField(p.WifiSignal()),
		"light":               stringField(p.LightState()),
		"skipped_objects":     p.SkippedObjects(),
	}
}

func (s *Server) LightOn(c *gin.Context)  { s.command(c, s.printer.TurnLightOn) }
func (s *Server) LightOff(c *gin.Context) { s.command(c, s.printer.TurnLightOff) }

func (s *Server) StopPrinting(c *gin.Context)   { s.command(c, s.printer.StopPrint) }
func (s *Server) PausePrinting(c *gin.Context)  { s.command(c, s.printer.PausePrint) }
func (s *Server) ResumePrinting(c *gin.Context) { s.command(c, s.printer.ResumePrint) }

func (s *Server) SetSpeed(c *gin.Context) {
	var req struct {
		Level int `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.command(c, func() (bool, error) { return s.printer.SetPrintSpeed(req.Level) })
}

func (s *Server) SendGcode(c *gin.Context) {
	var req struct {
		Lines []string `json:"lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.command(c, func() (bool, error) { return s.printer.Gcode(req.Lines, true) })
}

// command maps the facade's dual failure channels onto HTTP: a hard
// error is a 4xx/502, a soft rejection stays 200 with ok=false.
func (s *Server) command(c *gin.Context, run func() (bool, error)) {
	ok, err := run()
	if err != nil {
		status := http.StatusBadGateway
		var invalid *printer.InvalidGcodeError
		if errors.As(err, &invalid) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}

func intField(v int, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

func floatField(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

func stringField(v string, ok bool) any {
	if !ok {
		return nil
	}
	return v
}
