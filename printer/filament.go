package printer

import (
	"sort"
	"strconv"
)

// FilamentSettings is the slicer-facing profile of a tray: what the
// printer needs to select the filament and pick temperatures.
type FilamentSettings struct {
	TrayInfoIdx   string
	NozzleTempMin int
	NozzleTempMax int
	TrayType      string
}

// FilamentTray describes one loaded spool: physical identity, material
// identity and the per-tray temperature data the printer reports.
type FilamentTray struct {
	K             float64
	N             int
	TagUID        string
	TrayIDName    string
	TrayInfoIdx   string
	TrayType      string
	TraySubBrands string
	TrayColor     string
	TrayWeight    string
	TrayDiameter  string
	TrayTemp      string
	TrayTime      string
	BedTempType   string
	BedTemp       string
	NozzleTempMax int
	NozzleTempMin int
	XcamInfo      string
	TrayUUID      string
	Cols          []string
}

// trayFields maps record keys to whether the key is required by
// TrayFromMap. Only cols may be absent.
var trayFields = map[string]bool{
	"k":               true,
	"n":               true,
	"tag_uid":         true,
	"tray_id_name":    true,
	"tray_info_idx":   true,
	"tray_type":       true,
	"tray_sub_brands": true,
	"tray_color":      true,
	"tray_weight":     true,
	"tray_diameter":   true,
	"tray_temp":       true,
	"tray_time":       true,
	"bed_temp_type":   true,
	"bed_temp":        true,
	"nozzle_temp_max": true,
	"nozzle_temp_min": true,
	"xcam_info":       true,
	"tray_uuid":       true,
	"cols":            false,
}

// TrayFromMap builds a FilamentTray from a flat raw record, the shape
// the printer reports per AMS slot. Unknown keys are ignored; a missing
// required key or a value that cannot be coerced fails with a
// MissingFieldError. Numeric values arrive either as JSON numbers or as
// the quoted decimal strings Bambu firmwares emit, so both are accepted.
func TrayFromMap(d map[string]any) (*FilamentTray, error) {
	for field, required := range trayFields {
		if !required {
			continue
		}
		if _, ok := d[field]; !ok {
			return nil, &MissingFieldError{Field: field}
		}
	}

	t := &FilamentTray{}
	var err error
	if t.K, err = floatField(d, "k"); err != nil {
		return nil, err
	}
	if t.N, err = intField(d, "n"); err != nil {
		return nil, err
	}
	if t.NozzleTempMax, err = intField(d, "nozzle_temp_max"); err != nil {
		return nil, err
	}
	if t.NozzleTempMin, err = intField(d, "nozzle_temp_min"); err != nil {
		return nil, err
	}

	t.TagUID = stringField(d, "tag_uid")
	t.TrayIDName = stringField(d, "tray_id_name")
	t.TrayInfoIdx = stringField(d, "tray_info_idx")
	t.TrayType = stringField(d, "tray_type")
	t.TraySubBrands = stringField(d, "tray_sub_brands")
	t.TrayColor = stringField(d, "tray_color")
	t.TrayWeight = stringField(d, "tray_weight")
	t.TrayDiameter = stringField(d, "tray_diameter")
	t.TrayTemp = stringField(d, "tray_temp")
	t.TrayTime = stringField(d, "tray_time")
	t.BedTempType = stringField(d, "bed_temp_type")
	t.BedTemp = stringField(d, "bed_temp")
	t.XcamInfo = stringField(d, "xcam_info")
	t.TrayUUID = stringField(d, "tray_uuid")

	if cols, ok := d["cols"]; ok {
		t.Cols = stringSlice(cols)
	}
	return t, nil
}

// Keys returns the declared record field names, sorted so the result is
// deterministic. It covers exactly the keys TrayFromMap reads.
func (t *FilamentTray) Keys() []string {
	keys := make([]string, 0, len(trayFields))
	for k := range trayFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Filament projects the tray onto its FilamentSettings. It is computed
// from the current field values on every call, never cached.
func (t *FilamentTray) Filament() FilamentSettings {
	return FilamentSettings{
		TrayInfoIdx:   t.TrayInfoIdx,
		NozzleTempMin: t.NozzleTempMin,
		NozzleTempMax: t.NozzleTempMax,
		TrayType:      t.TrayType,
	}
}

func stringField(d map[string]any, key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func intField(d map[string]any, key string) (int, error) {
	switch v := d[key].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, nil
		}
		// some firmwares report ints as "220.0"
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int(f), nil
		}
	}
	return 0, &MissingFieldError{Field: key}
}

func floatField(d map[string]any, key string) (float64, error) {
	switch v := d[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, nil
		}
	}
	return 0, &MissingFieldError{Field: key}
}

func stringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...)
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
