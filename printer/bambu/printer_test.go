package bambu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bambulink/printer"
)

const sampleReport = `{
  "print": {
    "gcode_state": "RUNNING",
    "stg_cur": 0,
    "layer_num": 42,
    "total_layer_num": 180,
    "mc_percent": 23,
    "mc_remaining_time": 90,
    "spd_lvl": 2,
    "print_error": 0,
    "bed_temper": 60.5,
    "nozzle_temper": 219.8,
    "chamber_temper": 31.0,
    "nozzle_diameter": "0.4",
    "nozzle_type": "stainless_steel",
    "gcode_file": "benchy.3mf",
    "subtask_name": "benchy",
    "print_type": "local",
    "wifi_signal": "-44dBm",
    "lights_report": [{"node": "chamber_light", "mode": "on"}],
    "s_obj": [3, 7],
    "vt_tray": {
      "k": "0.02", "n": "1", "tag_uid": "0", "tray_id_name": "",
      "tray_info_idx": "GFA00", "tray_type": "PLA", "tray_sub_brands": "",
      "tray_color": "00FF00FF", "tray_weight": "1000", "tray_diameter": "1.75",
      "tray_temp": "55", "tray_time": "8", "bed_temp_type": "1",
      "bed_temp": "35", "nozzle_temp_max": "230", "nozzle_temp_min": "190",
      "xcam_info": "0", "tray_uuid": "0"
    },
    "ams": {
      "ams": [{
        "id": "0", "humidity": "5", "temp": "26.4",
        "tray": [{
          "id": "0",
          "k": "0.02", "n": "1", "tag_uid": "1", "tray_id_name": "A00-K0",
          "tray_info_idx": "GFA00", "tray_type": "PLA", "tray_sub_brands": "PLA Basic",
          "tray_color": "FF6A13FF", "tray_weight": "1000", "tray_diameter": "1.75",
          "tray_temp": "55", "tray_time": "8", "bed_temp_type": "1",
          "bed_temp": "35", "nozzle_temp_max": "230", "nozzle_temp_min": "190",
          "xcam_info": "0", "tray_uuid": "2"
        }]
      }]
    }
  }
}`

func TestGettersBeforeFirstReport(t *testing.T) {
	p := NewPrinter("127.0.0.1", "code", "01S00A000000000")

	_, ok := p.BedTemperature()
	assert.False(t, ok)
	_, ok = p.CurrentLayerNum()
	assert.False(t, ok)
	_, ok = p.GcodeFile()
	assert.False(t, ok)
	assert.Equal(t, printer.GcodeStateUnknown, p.State())
	assert.Equal(t, printer.StateUnknown, p.CurrentState())
	assert.Nil(t, p.SkippedObjects())
	_, ok = p.VTTray()
	assert.False(t, ok)
	assert.Empty(t, p.AMSHub().Units())
	assert.Empty(t, p.MQTTDump())
	assert.False(t, p.MQTTClientReady())
}

func TestIngestReportTelemetry(t *testing.T) {
	p := NewPrinter("127.0.0.1", "code", "01S00A000000000")
	p.ingestReport([]byte(sampleReport))

	layer, ok := p.CurrentLayerNum()
	require.True(t, ok)
	assert.Equal(t, 42, layer)

	total, _ := p.TotalLayerNum()
	assert.Equal(t, 180, total)

	pct, _ := p.Percentage()
	assert.Equal(t, 23, pct)

	// minutes reported, seconds returned
	remaining, ok := p.RemainingTime()
	require.True(t, ok)
	assert.Equal(t, 90*60, remaining)

	bed, _ := p.BedTemperature()
	assert.Equal(t, 60.5, bed)
	nozzle, _ := p.NozzleTemperature()
	assert.Equal(t, 219.8, nozzle)

	diameter, ok := p.NozzleDiameter()
	require.True(t, ok)
	assert.Equal(t, 0.4, diameter)

	kind, ok := p.NozzleType()
	require.True(t, ok)
	assert.Equal(t, printer.NozzleStainlessSteel, kind)

	assert.Equal(t, printer.GcodeStateRunning, p.State())
	assert.Equal(t, printer.StatePrinting, p.CurrentState())

	file, _ := p.GcodeFile()
	assert.Equal(t, "benchy.3mf", file)
	subtask, _ := p.SubtaskName()
	assert.Equal(t, "benchy", subtask)
	wifi, _ := p.WifiSignal()
	assert.Equal(t, "-44dBm", wifi)

	light, ok := p.LightState()
	require.True(t, ok)
	assert.Equal(t, "on", light)

	assert.Equal(t, []int{3, 7}, p.SkippedObjects())
}

func TestIngestReportIsAdditive(t *testing.T) {
	p := NewPrinter("127.0.0.1", "code", "01S00A000000000")
	p.ingestReport([]byte(sampleReport))
	p.ingestReport([]byte(`{"print": {"mc_percent": 55}}`))

	pct, _ := p.Percentage()
	assert.Equal(t, 55, pct)

	// earlier fields survive partial pushes
	file, ok := p.GcodeFile()
	require.True(t, ok)
	assert.Equal(t, "benchy.3mf", file)
}

func TestVTTrayAndAMSHubFromReport(t *testing.T) {
	p := NewPrinter("127.0.0.1", "code", "01S00A000000000")
	p.ingestReport([]byte(sampleReport))

	vt, ok := p.VTTray()
	require.True(t, ok)
	assert.Equal(t, "00FF00FF", vt.TrayColor)
	assert.Equal(t, "PLA", vt.Filament().TrayType)

	hub := p.AMSHub()
	unit, err := hub.Unit(0)
	require.NoError(t, err)
	assert.Equal(t, 5, unit.Humidity)
	assert.Equal(t, 26.4, unit.Temperature)

	tray, err := unit.Tray(0)
	require.NoError(t, err)
	assert.Equal(t, "FF6A13FF", tray.TrayColor)
}

func TestMQTTDumpIsACopy(t *testing.T) {
	p := NewPrinter("127.0.0.1", "code", "01S00A000000000")
	p.ingestReport([]byte(sampleReport))

	dump := p.MQTTDump()
	dump["gcode_state"] = "tampered"

	assert.Equal(t, printer.GcodeStateRunning, p.State())
}

func TestGcodeValidatesBeforeSending(t *testing.T) {
	p := NewPrinter("127.0.0.1", "code", "01S00A000000000")

	// invalid input fails locally, even with no connection at all
	_, err := p.Gcode([]string{"not gcode"}, true)
	var invalid *printer.InvalidGcodeError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "not gcode", invalid.Line)

	// valid input reaches the transport layer and fails there instead
	_, err = p.Gcode([]string{"G28"}, true)
	assert.ErrorIs(t, err, printer.ErrNotConnected)

	// with check off the same bad line goes straight to the transport
	_, err = p.Gcode([]string{"not gcode"}, false)
	assert.ErrorIs(t, err, printer.ErrNotConnected)
}

func TestCommandsRequireConnection(t *testing.T) {
	p := NewPrinter("127.0.0.1", "code", "01S00A000000000")

	ok, err := p.StopPrint()
	assert.False(t, ok)
	assert.ErrorIs(t, err, printer.ErrNotConnected)

	ok, err = p.TurnLightOn()
	assert.False(t, ok)
	assert.ErrorIs(t, err, printer.ErrNotConnected)
}

func TestCommandArgumentValidation(t *testing.T) {
	p := NewPrinter("127.0.0.1", "code", "01S00A000000000")

	_, err := p.SetPrintSpeed(9)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, printer.ErrNotConnected)

	_, err = p.SetPartFanSpeed(300)
	assert.Error(t, err)

	_, err = p.SetFilamentPrinter("red", printer.FilamentSettings{}, printer.ExternalSpoolAMSID, printer.ExternalSpoolTrayID)
	assert.Error(t, err)
}

func TestProjectFilePayloadDefaults(t *testing.T) {
	fields := projectFilePayload("benchy.3mf", 1, printer.DefaultPrintOptions())

	assert.Equal(t, "project_file", fields["command"])
	assert.Equal(t, "Metadata/plate_1.gcode", fields["param"])
	assert.Equal(t, "ftp://benchy.3mf", fields["url"])
	assert.Equal(t, true, fields["use_ams"])
	// omitted mapping defaults to the first tray
	assert.Equal(t, []int{0}, fields["ams_mapping"])
	assert.Equal(t, true, fields["flow_cali"])
	_, hasSkip := fields["skip_objects"]
	assert.False(t, hasSkip)
}

func TestProjectFilePayloadExplicit(t *testing.T) {
	opts := printer.PrintOptions{
		UseAMS:      true,
		AMSMapping:  []int{2, 1},
		SkipObjects: []int{5},
	}
	fields := projectFilePayload("part.3mf", 2, opts)

	assert.Equal(t, []int{2, 1}, fields["ams_mapping"])
	assert.Equal(t, []int{5}, fields["skip_objects"])
	assert.Equal(t, false, fields["flow_cali"])
}

func TestProjectFilePayloadNoAMS(t *testing.T) {
	fields := projectFilePayload("part.3mf", 1, printer.PrintOptions{})

	assert.Equal(t, false, fields["use_ams"])
	// no mapping is invented when the AMS stays out of the job
	assert.Empty(t, fields["ams_mapping"])
}
