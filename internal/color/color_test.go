package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBToInt(t *testing.T) {
	assert.Equal(t, 255, RGBToInt(255, 0, 0), "red is the low byte")
	assert.Equal(t, 16711680, RGBToInt(0, 0, 255), "blue is the high byte")
	assert.Equal(t, 65280, RGBToInt(0, 255, 0))
	assert.Equal(t, 16777215, RGBToInt(255, 255, 255))
}

func TestIntToRGBRoundTrip(t *testing.T) {
	for _, c := range [][3]int{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {18, 52, 86}, {0, 0, 0}} {
		r, g, b := IntToRGB(RGBToInt(c[0], c[1], c[2]))
		assert.Equal(t, c, [3]int{r, g, b})
	}
}

func TestHexParsing(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
		ok      bool
	}{
		{"#FF0000", 255, 0, 0, true},
		{"0000FF", 0, 0, 255, true},
		{"#abc", 0xAA, 0xBB, 0xCC, true},
		{"#12345", 0, 0, 0, false},
		{"#GGHHII", 0, 0, 0, false},
		{"", 0, 0, 0, false},
	}
	for _, tt := range tests {
		r, g, b, err := HexToRGB(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, [3]int{tt.r, tt.g, tt.b}, [3]int{r, g, b}, tt.in)
	}
}

func TestHexToInt(t *testing.T) {
	v, err := HexToInt("#FF0000")
	require.NoError(t, err)
	assert.Equal(t, 255, v)

	v, err = HexToInt("#0000FF")
	require.NoError(t, err)
	assert.Equal(t, 16711680, v)
}

func TestIntToHex(t *testing.T) {
	assert.Equal(t, "#FF0000", IntToHex(255))
	assert.Equal(t, "#0000FF", IntToHex(16711680))
	assert.Equal(t, "#123456", IntToHex(RGBToInt(0x12, 0x34, 0x56)))
}

func TestThemeIndex(t *testing.T) {
	for name, want := range map[string]int{
		"accent1":            5,
		"Accent1":            5,
		"followed hyperlink": 12,
		"followed-hyperlink": 12,
		"dark1":              1,
	} {
		got, err := ThemeIndex(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ThemeIndex("chartreuse")
	assert.Error(t, err)
}
