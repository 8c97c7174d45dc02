package printer

import "sort"

// AMS is one Automated Material System unit: up to a handful of indexed
// filament trays plus the unit's ambient readings.
type AMS struct {
	Humidity    int
	Temperature float64

	trays map[int]*FilamentTray
}

func NewAMS(humidity int, temperature float64) *AMS {
	return &AMS{
		Humidity:    humidity,
		Temperature: temperature,
		trays:       make(map[int]*FilamentTray),
	}
}

// FilamentTrays returns a copy of the slot-index to tray mapping.
func (a *AMS) FilamentTrays() map[int]*FilamentTray {
	out := make(map[int]*FilamentTray, len(a.trays))
	for i, t := range a.trays {
		out[i] = t
	}
	return out
}

// TrayIndices returns the occupied slot indices in ascending order.
func (a *AMS) TrayIndices() []int {
	idx := make([]int, 0, len(a.trays))
	for i := range a.trays {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// ProcessTrays replaces the tray mapping from raw per-slot records. A
// record carrying an explicit "id" field is keyed by it; otherwise the
// slot index is the record's position in the sequence. The existing
// mapping is kept untouched if any record fails to parse.
func (a *AMS) ProcessTrays(records []map[string]any) error {
	trays := make(map[int]*FilamentTray, len(records))
	for i, rec := range records {
		idx := i
		if raw, ok := rec["id"]; ok {
			n, err := intField(map[string]any{"id": raw}, "id")
			if err != nil {
				return err
			}
			idx = n
		}
		tray, err := TrayFromMap(rec)
		if err != nil {
			return err
		}
		trays[idx] = tray
	}
	a.trays = trays
	return nil
}

// SetFilamentTray upserts the tray at the given slot index, silently
// overwriting any tray already there.
func (a *AMS) SetFilamentTray(tray *FilamentTray, index int) {
	if a.trays == nil {
		a.trays = make(map[int]*FilamentTray)
	}
	a.trays[index] = tray
}

// GetFilamentTray is the lenient lookup: a missing index is signalled
// by the comma-ok result, never an error.
func (a *AMS) GetFilamentTray(index int) (*FilamentTray, bool) {
	t, ok := a.trays[index]
	return t, ok
}

// Tray is the strict lookup: a missing index fails with a
// KeyNotFoundError.
func (a *AMS) Tray(index int) (*FilamentTray, error) {
	t, ok := a.trays[index]
	if !ok {
		return nil, &KeyNotFoundError{Container: "ams", Index: index}
	}
	return t, nil
}

// AMSHub is the set of AMS units attached to one printer, keyed by
// unit id.
type AMSHub struct {
	units map[int]*AMS
}

func NewAMSHub() *AMSHub {
	return &AMSHub{units: make(map[int]*AMS)}
}

// Units returns a copy of the unit-id to AMS mapping.
func (h *AMSHub) Units() map[int]*AMS {
	out := make(map[int]*AMS, len(h.units))
	for id, a := range h.units {
		out[id] = a
	}
	return out
}

// ParseList replaces the hub contents from raw per-unit records. Each
// record carries humidity, temperature (the firmware abbreviates it to
// "temp") and a "tray" sequence of per-slot records. Unit ids follow
// the same rule as ProcessTrays: an explicit "id" wins, otherwise the
// record's position. The existing contents are kept untouched if any
// record fails to parse.
func (h *AMSHub) ParseList(records []map[string]any) error {
	units := make(map[int]*AMS, len(records))
	for i, rec := range records {
		id := i
		if raw, ok := rec["id"]; ok {
			n, err := intField(map[string]any{"id": raw}, "id")
			if err != nil {
				return err
			}
			id = n
		}

		humidity, err := intField(rec, "humidity")
		if err != nil {
			return err
		}
		tempKey := "temperature"
		if _, ok := rec[tempKey]; !ok {
			tempKey = "temp"
		}
		temperature, err := floatField(rec, tempKey)
		if err != nil {
			return &MissingFieldError{Field: "temperature"}
		}

		unit := NewAMS(humidity, temperature)
		if rawTrays, ok := rec["tray"]; ok {
			trays, err := mapSlice(rawTrays)
			if err != nil {
				return err
			}
			if err := unit.ProcessTrays(trays); err != nil {
				return err
			}
		}
		units[id] = unit
	}
	h.units = units
	return nil
}

// SetAMS upserts the unit at the given id, silently overwriting.
func (h *AMSHub) SetAMS(unit *AMS, id int) {
	if h.units == nil {
		h.units = make(map[int]*AMS)
	}
	h.units[id] = unit
}

// GetAMS is the lenient lookup, comma-ok on a missing id.
func (h *AMSHub) GetAMS(id int) (*AMS, bool) {
	a, ok := h.units[id]
	return a, ok
}

// Unit is the strict lookup, failing with a KeyNotFoundError on a
// missing id.
func (h *AMSHub) Unit(id int) (*AMS, error) {
	a, ok := h.units[id]
	if !ok {
		return nil, &KeyNotFoundError{Container: "ams_hub", Index: id}
	}
	return a, nil
}

func mapSlice(v any) ([]map[string]any, error) {
	switch vv := v.(type) {
	case []map[string]any:
		return vv, nil
	case []any:
		out := make([]map[string]any, 0, len(vv))
		for _, e := range vv {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, &MissingFieldError{Field: "tray"}
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, &MissingFieldError{Field: "tray"}
}
