package bambu

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bambulink/gcode"
	"bambulink/printer"
)

const commandTimeout = 5 * time.Second

var hexColor = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// publish sends one request payload. A nil error with false means the
// broker did not acknowledge in time; the command may be retried by the
// caller.
func (p *Printer) publish(payload map[string]any) (bool, error) {
	if !p.MQTTClientConnected() {
		return false, printer.ErrNotConnected
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}
	topic := fmt.Sprintf("device/%s/request", p.serial)
	token := p.client.Publish(topic, 0, false, body)
	if !token.WaitTimeout(commandTimeout) {
		return false, nil
	}
	if err := token.Error(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Printer) printCommand(fields map[string]any) (bool, error) {
	fields["sequence_id"] = p.nextSeq()
	return p.publish(map[string]any{"print": fields})
}

func (p *Printer) simplePrintCommand(command, param string) (bool, error) {
	return p.printCommand(map[string]any{"command": command, "param": param})
}

func (p *Printer) nextSeq() string {
	return strconv.FormatUint(p.seq.Add(1), 10)
}

func (p *Printer) requestPushAll() (bool, error) {
	return p.publish(map[string]any{
		"pushing": map[string]any{
			"sequence_id": p.nextSeq(),
			"command":     "pushall",
		},
	})
}

// Gcode sends raw command lines. With check set, every line is
// validated locally first and an InvalidGcodeError comes back before
// anything touches the network.
func (p *Printer) Gcode(lines []string, check bool) (bool, error) {
	if check {
		for _, line := range lines {
			if err := gcode.CheckLine(line); err != nil {
				return false, &printer.InvalidGcodeError{Line: line, Reason: err.Error()}
			}
		}
	}
	return p.simplePrintCommand("gcode_line", strings.Join(lines, "\n"))
}

// projectFilePayload builds the start-print request body. An empty
// AMSMapping with UseAMS set defaults to [0].
func projectFilePayload(filename string, plate int, opts printer.PrintOptions) map[string]any {
	mapping := opts.AMSMapping
	if opts.UseAMS && len(mapping) == 0 {
		mapping = []int{0}
	}
	fields := map[string]any{
		"command":      "project_file",
		"param":        fmt.Sprintf("Metadata/plate_%d.gcode", plate),
		"url":          "ftp://" + filename,
		"subtask_name": filename,
		"use_ams":      opts.UseAMS,
		"ams_mapping":  mapping,
		"flow_cali":    opts.FlowCalibration,
		"timelapse":    false,
	}
	if len(opts.SkipObjects) > 0 {
		fields["skip_objects"] = opts.SkipObjects
	}
	return fields
}

// StartPrint starts a previously uploaded file on the given plate.
func (p *Printer) StartPrint(filename string, plate int, opts printer.PrintOptions) (bool, error) {
	return p.printCommand(projectFilePayload(filename, plate, opts))
}

func (p *Printer) StopPrint() (bool, error)   { return p.simplePrintCommand("stop", "") }
func (p *Printer) PausePrint() (bool, error)  { return p.simplePrintCommand("pause", "") }
func (p *Printer) ResumePrint() (bool, error) { return p.simplePrintCommand("resume", "") }

func (p *Printer) TurnLightOn() (bool, error)  { return p.setLight("on") }
func (p *Printer) TurnLightOff() (bool, error) { return p.setLight("off") }

func (p *Printer) setLight(mode string) (bool, error) {
	return p.publish(map[string]any{
		"system": map[string]any{
			"sequence_id":   p.nextSeq(),
			"command":       "ledctrl",
			"led_node":      "chamber_light",
			"led_mode":      mode,
			"led_on_time":   500,
			"led_off_time":  500,
			"loop_times":    0,
			"interval_time": 0,
		},
	})
}

// Temperature, motion and fan control go through generated G-code, the
// same path the printer's own UI uses.

func (p *Printer) SetBedTemperature(temp int) (bool, error) {
	return p.Gcode([]string{fmt.Sprintf("M140 S%d", temp)}, false)
}

func (p *Printer) SetNozzleTemperature(temp int) (bool, error) {
	return p.Gcode([]string{fmt.Sprintf("M104 S%d", temp)}, false)
}

func (p *Printer) HomePrinter() (bool, error) {
	return p.Gcode([]string{"G28"}, false)
}

func (p *Printer) MoveZAxis(height int) (bool, error) {
	return p.Gcode([]string{"G90", fmt.Sprintf("G0 Z%d", height)}, false)
}

func (p *Printer) SetPartFanSpeed(speed int) (bool, error)    { return p.setFanSpeed(1, speed) }
func (p *Printer) SetAuxFanSpeed(speed int) (bool, error)     { return p.setFanSpeed(2, speed) }
func (p *Printer) SetChamberFanSpeed(speed int) (bool, error) { return p.setFanSpeed(3, speed) }

func (p *Printer) setFanSpeed(fan, speed int) (bool, error) {
	if speed < 0 || speed > 255 {
		return false, fmt.Errorf("fan speed %d out of range 0-255", speed)
	}
	return p.Gcode([]string{fmt.Sprintf("M106 P%d S%d", fan, speed)}, false)
}

// SetPrintSpeed selects a speed level: 0 slowest through 3 fastest.
func (p *Printer) SetPrintSpeed(level int) (bool, error) {
	if level < 0 || level > 3 {
		return false, fmt.Errorf("speed level %d out of range 0-3", level)
	}
	return p.simplePrintCommand("print_speed", strconv.Itoa(level))
}

func (p *Printer) SetAutoStepRecovery(on bool) (bool, error) {
	return p.printCommand(map[string]any{
		"command":       "print_option",
		"auto_recovery": on,
	})
}

// Calibrate runs the selected routines. The option bits follow the
// firmware's calibration bitmask.
func (p *Printer) Calibrate(opts printer.CalibrationOptions) (bool, error) {
	bitmask := 0
	if opts.BedLevel {
		bitmask |= 1 << 1
	}
	if opts.VibrationCompensation {
		bitmask |= 1 << 2
	}
	if opts.MotorNoise {
		bitmask |= 1 << 3
	}
	return p.printCommand(map[string]any{
		"command": "calibration",
		"option":  bitmask,
	})
}

// SetFilamentPrinter registers a filament profile for a tray. color is
// a 6-digit hex code; amsID/trayID default to the external-spool pair
// via printer.ExternalSpoolAMSID and printer.ExternalSpoolTrayID.
func (p *Printer) SetFilamentPrinter(color string, settings printer.FilamentSettings, amsID, trayID int) (bool, error) {
	if !hexColor.MatchString(color) {
		return false, fmt.Errorf("color %q is not a 6-digit hex code", color)
	}
	return p.printCommand(map[string]any{
		"command":         "ams_filament_setting",
		"ams_id":          amsID,
		"tray_id":         trayID,
		"tray_info_idx":   settings.TrayInfoIdx,
		"tray_color":      strings.ToUpper(color) + "FF",
		"nozzle_temp_min": settings.NozzleTempMin,
		"nozzle_temp_max": settings.NozzleTempMax,
		"tray_type":       settings.TrayType,
	})
}

func (p *Printer) LoadFilamentSpool() (bool, error) {
	return p.printCommand(map[string]any{
		"command":   "ams_change_filament",
		"target":    printer.ExternalSpoolAMSID,
		"curr_temp": 215,
		"tar_temp":  215,
	})
}

func (p *Printer) UnloadFilamentSpool() (bool, error) {
	return p.printCommand(map[string]any{
		"command":   "ams_change_filament",
		"target":    printer.ExternalSpoolTrayID,
		"curr_temp": 215,
		"tar_temp":  215,
	})
}

func (p *Printer) RetryFilamentAction() (bool, error) {
	return p.simplePrintCommand("ams_control", "resume")
}

func (p *Printer) SkipObjects(objects []int) (bool, error) {
	return p.printCommand(map[string]any{
		"command":  "skip_objects",
		"obj_list": objects,
	})
}
