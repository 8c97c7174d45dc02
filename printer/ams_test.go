package printer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTraysPositional(t *testing.T) {
	ams := NewAMS(12, 26.5)
	err := ams.ProcessTrays([]map[string]any{
		trayRecord(map[string]any{"tray_color": "red"}),
		trayRecord(map[string]any{"tray_color": "green"}),
		trayRecord(map[string]any{"tray_color": "blue"}),
	})
	require.NoError(t, err)

	for i, want := range []string{"red", "green", "blue"} {
		tray, ok := ams.GetFilamentTray(i)
		require.True(t, ok, "slot %d", i)
		assert.Equal(t, want, tray.TrayColor)
	}
	assert.Equal(t, []int{0, 1, 2}, ams.TrayIndices())
}

func TestProcessTraysExplicitID(t *testing.T) {
	ams := NewAMS(12, 26.5)
	err := ams.ProcessTrays([]map[string]any{
		trayRecord(map[string]any{"id": "3", "tray_color": "red"}),
		trayRecord(map[string]any{"id": "1", "tray_color": "blue"}),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, ams.TrayIndices())
	tray, ok := ams.GetFilamentTray(3)
	require.True(t, ok)
	assert.Equal(t, "red", tray.TrayColor)
}

func TestProcessTraysReplaces(t *testing.T) {
	ams := NewAMS(12, 26.5)
	require.NoError(t, ams.ProcessTrays([]map[string]any{
		trayRecord(nil), trayRecord(nil), trayRecord(nil),
	}))
	require.NoError(t, ams.ProcessTrays([]map[string]any{trayRecord(nil)}))

	assert.Equal(t, []int{0}, ams.TrayIndices())
}

func TestProcessTraysKeepsMappingOnBadRecord(t *testing.T) {
	ams := NewAMS(12, 26.5)
	require.NoError(t, ams.ProcessTrays([]map[string]any{trayRecord(nil)}))

	bad := trayRecord(nil)
	delete(bad, "tray_type")
	err := ams.ProcessTrays([]map[string]any{bad, trayRecord(nil)})
	require.Error(t, err)

	// previous mapping untouched
	assert.Equal(t, []int{0}, ams.TrayIndices())
}

func TestTrayAccessAsymmetry(t *testing.T) {
	ams := NewAMS(0, 0)

	// lenient getter: absent means comma-ok false, never an error
	tray, ok := ams.GetFilamentTray(2)
	assert.False(t, ok)
	assert.Nil(t, tray)

	// strict accessor: the same miss fails loudly
	_, err := ams.Tray(2)
	var notFound *KeyNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, 2, notFound.Index)
}

func TestSetGetFilamentTrayRoundTrip(t *testing.T) {
	ams := NewAMS(0, 0)
	tray, err := TrayFromMap(trayRecord(nil))
	require.NoError(t, err)

	ams.SetFilamentTray(tray, 1)
	got, ok := ams.GetFilamentTray(1)
	require.True(t, ok)
	assert.Equal(t, tray, got)

	// upsert overwrites silently
	other, err := TrayFromMap(trayRecord(map[string]any{"tray_type": "ABS"}))
	require.NoError(t, err)
	ams.SetFilamentTray(other, 1)
	got, _ = ams.GetFilamentTray(1)
	assert.Equal(t, "ABS", got.TrayType)
}

func amsRecord(trays []map[string]any, over map[string]any) map[string]any {
	rec := map[string]any{
		"humidity": "5",
		"temp":     "26.4",
		"tray":     trays,
	}
	for k, v := range over {
		rec[k] = v
	}
	return rec
}

func TestParseList(t *testing.T) {
	hub := NewAMSHub()
	err := hub.ParseList([]map[string]any{
		amsRecord([]map[string]any{
			trayRecord(map[string]any{"tray_color": "red"}),
			trayRecord(map[string]any{"tray_color": "blue"}),
		}, nil),
		amsRecord([]map[string]any{
			trayRecord(map[string]any{"tray_color": "red"}),
			trayRecord(map[string]any{"tray_color": "blue"}),
		}, map[string]any{"humidity": float64(3), "temperature": 22.1}),
	})
	require.NoError(t, err)

	unit0, err := hub.Unit(0)
	require.NoError(t, err)
	assert.Equal(t, 5, unit0.Humidity)
	assert.Equal(t, 26.4, unit0.Temperature)

	unit1, err := hub.Unit(1)
	require.NoError(t, err)
	assert.Equal(t, 3, unit1.Humidity)
	assert.Equal(t, 22.1, unit1.Temperature)

	// trays differing only in color share one filament profile
	t0, err := unit0.Tray(0)
	require.NoError(t, err)
	t1, err := unit0.Tray(1)
	require.NoError(t, err)
	assert.Equal(t, t0.Filament().TrayType, t1.Filament().TrayType)
	assert.NotEqual(t, t0.TrayColor, t1.TrayColor)
}

func TestParseListExplicitID(t *testing.T) {
	hub := NewAMSHub()
	err := hub.ParseList([]map[string]any{
		amsRecord(nil, map[string]any{"id": "1"}),
	})
	require.NoError(t, err)

	_, ok := hub.GetAMS(0)
	assert.False(t, ok)
	_, ok = hub.GetAMS(1)
	assert.True(t, ok)
}

func TestParseListMissingHumidity(t *testing.T) {
	hub := NewAMSHub()
	rec := amsRecord(nil, nil)
	delete(rec, "humidity")

	err := hub.ParseList([]map[string]any{rec})
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "humidity", missing.Field)
}

func TestHubAccessAsymmetry(t *testing.T) {
	hub := NewAMSHub()

	unit, ok := hub.GetAMS(7)
	assert.False(t, ok)
	assert.Nil(t, unit)

	_, err := hub.Unit(7)
	var notFound *KeyNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "ams_hub", notFound.Container)
}

func TestSetAMSRoundTrip(t *testing.T) {
	hub := NewAMSHub()
	unit := NewAMS(9, 30)
	hub.SetAMS(unit, 2)

	got, err := hub.Unit(2)
	require.NoError(t, err)
	assert.Equal(t, unit, got)
}
