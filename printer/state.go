package printer

// GcodeState is the coarse job lifecycle phase the printer reports in
// the gcode_state field.
type GcodeState string

const (
	GcodeStateIdle    GcodeState = "IDLE"
	GcodeStatePrepare GcodeState = "PREPARE"
	GcodeStateRunning GcodeState = "RUNNING"
	GcodeStatePause   GcodeState = "PAUSE"
	GcodeStateFinish  GcodeState = "FINISH"
	GcodeStateFailed  GcodeState = "FAILED"
	GcodeStateUnknown GcodeState = "UNKNOWN"
)

// ParseGcodeState maps a reported gcode_state string to its enum value.
// Anything outside the known set comes back as GcodeStateUnknown.
func ParseGcodeState(s string) GcodeState {
	switch GcodeState(s) {
	case GcodeStateIdle, GcodeStatePrepare, GcodeStateRunning,
		GcodeStatePause, GcodeStateFinish, GcodeStateFailed:
		return GcodeState(s)
	}
	return GcodeStateUnknown
}

// PrintState is the fine-grained printer stage derived from the stg_cur
// code in the telemetry stream.
type PrintState int

const (
	StatePrinting PrintState = iota
	StateAutoBedLeveling
	StateHeatbedPreheating
	StateSweepingXYMechMode
	StateChangingFilament
	StateM400Pause
	StatePausedFilamentRunout
	StateHeatingHotend
	StateCalibratingExtrusion
	StateScanningBedSurface
	StateInspectingFirstLayer
	StateIdentifyingBuildPlateType
	StateCalibratingMicroLidar
	StateHomingToolhead
	StateCleaningNozzleTip
	StateCheckingExtruderTemperature
	StatePausedUser
	StatePausedFrontCoverFalling
	StateCalibratingLidar
	StateCalibratingExtrusionFlow
	StatePausedNozzleTemperatureMalfunction
	StatePausedHeatBedTemperatureMalfunction
	StateFilamentUnloading
	StatePausedSkippedStep
	StateFilamentLoading
	StateCalibratingMotorNoise
	StatePausedAMSLost
	StatePausedLowFanSpeedHeatBreak
	StatePausedChamberTemperatureControlError
	StateCoolingChamber
	StatePausedUserGcode
	StateMotorNoiseShowoff
	StatePausedNozzleFilamentCoveredDetected
	StatePausedCutterError
	StatePausedFirstLayerError
	StatePausedNozzleClog
	StateIdle
	StateUnknown
)

var printStateNames = map[PrintState]string{
	StatePrinting:                             "PRINTING",
	StateAutoBedLeveling:                      "AUTO_BED_LEVELING",
	StateHeatbedPreheating:                    "HEATBED_PREHEATING",
	StateSweepingXYMechMode:                   "SWEEPING_XY_MECH_MODE",
	StateChangingFilament:                     "CHANGING_FILAMENT",
	StateM400Pause:                            "M400_PAUSE",
	StatePausedFilamentRunout:                 "PAUSED_FILAMENT_RUNOUT",
	StateHeatingHotend:                        "HEATING_HOTEND",
	StateCalibratingExtrusion:                 "CALIBRATING_EXTRUSION",
	StateScanningBedSurface:                   "SCANNING_BED_SURFACE",
	StateInspectingFirstLayer:                 "INSPECTING_FIRST_LAYER",
	StateIdentifyingBuildPlateType:            "IDENTIFYING_BUILD_PLATE_TYPE",
	StateCalibratingMicroLidar:                "CALIBRATING_MICRO_LIDAR",
	StateHomingToolhead:                       "HOMING_TOOLHEAD",
	StateCleaningNozzleTip:                    "CLEANING_NOZZLE_TIP",
	StateCheckingExtruderTemperature:          "CHECKING_EXTRUDER_TEMPERATURE",
	StatePausedUser:                           "PAUSED_USER",
	StatePausedFrontCoverFalling:              "PAUSED_FRONT_COVER_FALLING",
	StateCalibratingLidar:                     "CALIBRATING_LIDAR",
	StateCalibratingExtrusionFlow:             "CALIBRATING_EXTRUSION_FLOW",
	StatePausedNozzleTemperatureMalfunction:   "PAUSED_NOZZLE_TEMPERATURE_MALFUNCTION",
	StatePausedHeatBedTemperatureMalfunction:  "PAUSED_HEAT_BED_TEMPERATURE_MALFUNCTION",
	StateFilamentUnloading:                    "FILAMENT_UNLOADING",
	StatePausedSkippedStep:                    "PAUSED_SKIPPED_STEP",
	StateFilamentLoading:                      "FILAMENT_LOADING",
	StateCalibratingMotorNoise:                "CALIBRATING_MOTOR_NOISE",
	StatePausedAMSLost:                        "PAUSED_AMS_LOST",
	StatePausedLowFanSpeedHeatBreak:           "PAUSED_LOW_FAN_SPEED_HEAT_BREAK",
	StatePausedChamberTemperatureControlError: "PAUSED_CHAMBER_TEMPERATURE_CONTROL_ERROR",
	StateCoolingChamber:                       "COOLING_CHAMBER",
	StatePausedUserGcode:                      "PAUSED_USER_GCODE",
	StateMotorNoiseShowoff:                    "MOTOR_NOISE_SHOWOFF",
	StatePausedNozzleFilamentCoveredDetected:  "PAUSED_NOZZLE_FILAMENT_COVERED_DETECTED",
	StatePausedCutterError:                    "PAUSED_CUTTER_ERROR",
	StatePausedFirstLayerError:                "PAUSED_FIRST_LAYER_ERROR",
	StatePausedNozzleClog:                     "PAUSED_NOZZLE_CLOG",
	StateIdle:                                 "IDLE",
	StateUnknown:                              "UNKNOWN",
}

func (s PrintState) String() string {
	if name, ok := printStateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// PrintStateFromCode maps a raw stg_cur code to a PrintState. The
// printer reports 255 (and some firmwares -1) for idle.
func PrintStateFromCode(code int) PrintState {
	if code == 255 || code == -1 {
		return StateIdle
	}
	s := PrintState(code)
	if _, ok := printStateNames[s]; ok && s != StateIdle && s != StateUnknown {
		return s
	}
	return StateUnknown
}

// NozzleType is the nozzle hardware registered to the printer.
type NozzleType string

const (
	NozzleStainlessSteel NozzleType = "stainless_steel"
	NozzleHardenedSteel  NozzleType = "hardened_steel"
)
