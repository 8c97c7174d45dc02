package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	words, err := ParseLine("G1 Z10.5 F600")
	require.NoError(t, err)
	assert.Equal(t, []Word{{W: 'G', Arg: 1}, {W: 'Z', Arg: 10.5}, {W: 'F', Arg: 600}}, words)
}

func TestParseLineLowercase(t *testing.T) {
	words, err := ParseLine("m140 s60")
	require.NoError(t, err)
	assert.Equal(t, []Word{{W: 'M', Arg: 140}, {W: 'S', Arg: 60}}, words)
}

func TestParseLineComments(t *testing.T) {
	words, err := ParseLine("G28 ; home all axes")
	require.NoError(t, err)
	assert.Equal(t, []Word{{W: 'G', Arg: 28}}, words)

	words, err = ParseLine("G0 (rapid) X5")
	require.NoError(t, err)
	assert.Equal(t, []Word{{W: 'G', Arg: 0}, {W: 'X', Arg: 5}}, words)

	words, err = ParseLine("; just a comment")
	require.NoError(t, err)
	assert.Nil(t, words)
}

func TestParseLineErrors(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"bare word", "G"},
		{"no argument", "M140 S"},
		{"garbage", "hello world"},
		{"unclosed comment", "(oops"},
		{"stray close", "oops)"},
		{"symbol", "G1 #5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLine(tc.line)
			assert.Error(t, err)
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check([]string{
		"G28",
		"M140 S60",
		"G90",
		"G1 Z10 F600",
		"M106 P1 S255",
		"",
	}))

	err := Check([]string{"G28", "not gcode"})
	assert.Error(t, err)
}

func TestWordString(t *testing.T) {
	assert.Equal(t, "G1", Word{W: 'G', Arg: 1}.String())
	assert.Equal(t, "Z10.5", Word{W: 'Z', Arg: 10.5}.String())
}
