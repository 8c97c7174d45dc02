// Package printer defines the device-capability contract for networked
// 3D printers: the Printer and Camera interfaces, the AMS/filament data
// shapes, the lifecycle enumerations and the error taxonomy. Concrete
// drivers (printer/bambu here) implement these against a real transport.
package printer

import "io"

// Camera is the contract for a printer camera connection. Start spawns
// a background capture loop that keeps overwriting the single-slot
// last-frame cache; it reports false when the loop is already running.
// Stop is idempotent and does not return until the loop has fully
// terminated. None of the methods take a timeout; callers needing
// bounded waits wrap them.
type Camera interface {
	Start() bool
	Stop()

	// IsAlive reports whether the capture loop is currently running.
	IsAlive() bool

	// LastFrame returns the most recently decoded frame, or nil before
	// the first frame arrives.
	LastFrame() []byte

	// FrameBase64 returns the last frame base64-encoded, or ErrNoFrame
	// if none has been received yet.
	FrameBase64() (string, error)
}

// External-spool addressing used by SetFilamentPrinter when the
// filament is not in any AMS.
const (
	ExternalSpoolAMSID  = 255
	ExternalSpoolTrayID = 254
)

// PrintOptions controls StartPrint. Use DefaultPrintOptions as the
// starting point; the zero value disables the AMS and flow calibration.
type PrintOptions struct {
	UseAMS          bool
	AMSMapping      []int
	SkipObjects     []int
	FlowCalibration bool
}

// DefaultPrintOptions mirrors the printer's own defaults: AMS on with
// mapping [0], flow calibration on. An empty AMSMapping with UseAMS set
// is filled in as [0] by implementations.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{UseAMS: true, FlowCalibration: true}
}

// CalibrationOptions selects which calibration routines Calibrate runs.
type CalibrationOptions struct {
	BedLevel              bool
	MotorNoise            bool
	VibrationCompensation bool
}

// DefaultCalibrationOptions enables every routine.
func DefaultCalibrationOptions() CalibrationOptions {
	return CalibrationOptions{BedLevel: true, MotorNoise: true, VibrationCompensation: true}
}

// Printer is the top-level device facade: connection lifecycle, live
// telemetry, print-job control and access to the owned AMS hub,
// external spool and camera.
//
// Telemetry getters use the comma-ok form: ok is false whenever the
// printer is not currently reporting that value (for example when it is
// not printing). Mutating commands return a (bool, error) pair; the
// bool is the soft accepted/rejected signal and the error is a hard
// failure (no connection, validation rejection, transport fault). A
// false with a nil error is recoverable and retryable at the caller's
// discretion — no retry is built in anywhere in this layer.
type Printer interface {
	// Connection lifecycle. Connect brings up both the telemetry
	// channel and the camera; Disconnect tears both down and does not
	// return until their loops have stopped.
	Connect() error
	Disconnect() error
	MQTTStart() error
	MQTTStop()
	CameraStart() bool
	CameraStop()

	MQTTClientConnected() bool
	MQTTClientReady() bool
	CameraClientAlive() bool

	// Telemetry.
	CurrentLayerNum() (int, bool)
	TotalLayerNum() (int, bool)
	RemainingTime() (int, bool)
	Percentage() (int, bool)
	State() GcodeState
	CurrentState() PrintState
	PrintSpeed() (int, bool)
	BedTemperature() (float64, bool)
	NozzleTemperature() (float64, bool)
	ChamberTemperature() (float64, bool)
	NozzleType() (NozzleType, bool)
	NozzleDiameter() (float64, bool)
	FileName() (string, bool)
	SubtaskName() (string, bool)
	GcodeFile() (string, bool)
	PrintType() (string, bool)
	WifiSignal() (string, bool)
	PrintErrorCode() (int, bool)
	LightState() (string, bool)
	SkippedObjects() []int

	// MQTTDump returns a snapshot copy of every telemetry field
	// recorded from the printer so far.
	MQTTDump() map[string]any

	// Commands.
	//
	// Gcode validates each line locally before any transmission when
	// check is true, failing with an InvalidGcodeError; with check
	// false the lines are sent as-is.
	Gcode(lines []string, check bool) (bool, error)
	StartPrint(filename string, plate int, opts PrintOptions) (bool, error)
	StopPrint() (bool, error)
	PausePrint() (bool, error)
	ResumePrint() (bool, error)
	TurnLightOn() (bool, error)
	TurnLightOff() (bool, error)
	SetBedTemperature(temp int) (bool, error)
	SetNozzleTemperature(temp int) (bool, error)
	SetPrintSpeed(level int) (bool, error)
	SetPartFanSpeed(speed int) (bool, error)
	SetAuxFanSpeed(speed int) (bool, error)
	SetChamberFanSpeed(speed int) (bool, error)
	SetAutoStepRecovery(on bool) (bool, error)
	HomePrinter() (bool, error)
	MoveZAxis(height int) (bool, error)
	Calibrate(opts CalibrationOptions) (bool, error)
	SetFilamentPrinter(color string, settings FilamentSettings, amsID, trayID int) (bool, error)
	LoadFilamentSpool() (bool, error)
	UnloadFilamentSpool() (bool, error)
	RetryFilamentAction() (bool, error)
	SkipObjects(objects []int) (bool, error)

	// File channel. UploadFile returns the stored path, DeleteFile the
	// removed one.
	UploadFile(r io.Reader, filename string) (string, error)
	DeleteFile(path string) (string, error)

	// Owned devices and data.
	VTTray() (*FilamentTray, bool)
	AMSHub() *AMSHub
	Camera() Camera
}
