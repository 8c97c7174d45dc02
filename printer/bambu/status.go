package bambu

import (
	"log"
	"strconv"

	"bambulink/printer"
)

// Telemetry getters over the report snapshot. Each one answers with
// comma-ok false when the printer has not reported the field yet.

func (p *Printer) CurrentLayerNum() (int, bool) { return p.reportInt("layer_num") }
func (p *Printer) TotalLayerNum() (int, bool)   { return p.reportInt("total_layer_num") }
func (p *Printer) Percentage() (int, bool)      { return p.reportInt("mc_percent") }
func (p *Printer) PrintSpeed() (int, bool)      { return p.reportInt("spd_lvl") }
func (p *Printer) PrintErrorCode() (int, bool)  { return p.reportInt("print_error") }

// RemainingTime converts the reported minutes to seconds.
func (p *Printer) RemainingTime() (int, bool) {
	minutes, ok := p.reportInt("mc_remaining_time")
	if !ok {
		return 0, false
	}
	return minutes * 60, true
}

func (p *Printer) BedTemperature() (float64, bool)     { return p.reportFloat("bed_temper") }
func (p *Printer) NozzleTemperature() (float64, bool)  { return p.reportFloat("nozzle_temper") }
func (p *Printer) ChamberTemperature() (float64, bool) { return p.reportFloat("chamber_temper") }
func (p *Printer) NozzleDiameter() (float64, bool)     { return p.reportFloat("nozzle_diameter") }

func (p *Printer) FileName() (string, bool)    { return p.reportString("gcode_file") }
func (p *Printer) GcodeFile() (string, bool)   { return p.reportString("gcode_file") }
func (p *Printer) SubtaskName() (string, bool) { return p.reportString("subtask_name") }
func (p *Printer) PrintType() (string, bool)   { return p.reportString("print_type") }
func (p *Printer) WifiSignal() (string, bool)  { return p.reportString("wifi_signal") }

func (p *Printer) State() printer.GcodeState {
	s, ok := p.reportString("gcode_state")
	if !ok {
		return printer.GcodeStateUnknown
	}
	return printer.ParseGcodeState(s)
}

func (p *Printer) CurrentState() printer.PrintState {
	code, ok := p.reportInt("stg_cur")
	if !ok {
		return printer.StateUnknown
	}
	return printer.PrintStateFromCode(code)
}

func (p *Printer) NozzleType() (printer.NozzleType, bool) {
	s, ok := p.reportString("nozzle_type")
	if !ok {
		return "", false
	}
	return printer.NozzleType(s), true
}

// LightState reads the chamber light mode out of lights_report.
func (p *Printer) LightState() (string, bool) {
	raw, ok := p.report.Load("lights_report")
	if !ok {
		return "", false
	}
	report, ok := raw.([]any)
	if !ok || len(report) == 0 {
		return "", false
	}
	light, ok := report[0].(map[string]any)
	if !ok {
		return "", false
	}
	mode, ok := light["mode"].(string)
	return mode, ok
}

func (p *Printer) SkippedObjects() []int {
	raw, ok := p.report.Load("s_obj")
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(list))
	for _, v := range list {
		if f, ok := toFloat(v); ok {
			out = append(out, int(f))
		}
	}
	return out
}

// VTTray returns the external spool tray when the printer reports one.
func (p *Printer) VTTray() (*printer.FilamentTray, bool) {
	raw, ok := p.report.Load("vt_tray")
	if !ok {
		return nil, false
	}
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	tray, err := printer.TrayFromMap(rec)
	if err != nil {
		log.Printf("[Status] vt_tray record: %v", err)
		return nil, false
	}
	return tray, true
}

// AMSHub parses the current "ams" object into a hub. The result is
// rebuilt from the snapshot on every call; an empty hub means the
// printer has no AMS attached or has not reported it yet.
func (p *Printer) AMSHub() *printer.AMSHub {
	hub := printer.NewAMSHub()
	raw, ok := p.report.Load("ams")
	if !ok {
		return hub
	}
	outer, ok := raw.(map[string]any)
	if !ok {
		return hub
	}
	list, ok := outer["ams"].([]any)
	if !ok {
		return hub
	}
	records := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			records = append(records, m)
		}
	}
	if err := hub.ParseList(records); err != nil {
		log.Printf("[Status] ams records: %v", err)
	}
	return hub
}

func (p *Printer) reportString(key string) (string, bool) {
	raw, ok := p.report.Load(key)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func (p *Printer) reportInt(key string) (int, bool) {
	f, ok := p.reportFloat(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func (p *Printer) reportFloat(key string) (float64, bool) {
	raw, ok := p.report.Load(key)
	if !ok {
		return 0, false
	}
	return toFloat(raw)
}

// toFloat accepts the number encodings seen in reports: JSON numbers
// and quoted decimals.
func toFloat(v any) (float64, bool) {
	switch vv := v.(type) {
	case float64:
		return vv, true
	case int:
		return float64(vv), true
	case string:
		f, err := strconv.ParseFloat(vv, 64)
		return f, err == nil
	}
	return 0, false
}
