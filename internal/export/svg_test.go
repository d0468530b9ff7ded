package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/sim"
)

func TestSceneToSVG(t *testing.T) {
	bounds := dynamo.Bounds{Width: 1000, Height: 500}
	circles := []dynamo.Circle{
		{Position: dynamo.V(0, 0), Radius: 50, Colour: dynamo.RGBA(1, 0, 0, 1), Layer: 2},
		{Position: dynamo.V(-500, 250), Radius: 10, Colour: dynamo.RGBA(0, 1, 0, 0.5), Layer: 1},
	}

	svg := SceneToSVG(circles, bounds, 500, dynamo.RGBA(0.92, 0.28, 0.37, 1))

	assert.Contains(t, svg, `width="500" height="250"`)
	assert.Contains(t, svg, `<circle cx="250.0" cy="125.0" r="25.0" fill="#ff0000"`)
	assert.Contains(t, svg, `<circle cx="0.0" cy="0.0" r="5.0" fill="#00ff00" fill-opacity="0.50"`)
	assert.Less(t, strings.Index(svg, "#00ff00"), strings.Index(svg, "#ff0000"), "lower layer drawn first")
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestSceneToSVGDegenerate(t *testing.T) {
	assert.Empty(t, SceneToSVG(nil, dynamo.Bounds{Width: 0, Height: 10}, 100, dynamo.Colour{}))
	assert.Empty(t, SceneToSVG(nil, dynamo.Bounds{Width: 10, Height: 10}, 0, dynamo.Colour{}))
}

func TestSeriesToSVG(t *testing.T) {
	assert.Empty(t, SeriesToSVG([]Point{{0, 0}}, 100, 50, "#fff"))

	svg := SeriesToSVG([]Point{{0, 1}, {1, 2}, {2, 3}}, 200, 100, "#00ff00")
	assert.Contains(t, svg, `stroke="#00ff00"`)
	// y range 1..3 padded to 0.8..3.2
	assert.Contains(t, svg, `points="0.0,91.7 100.0,50.0 200.0,8.3"`)
	assert.NotContains(t, svg, "<line", "zero is outside the range")

	svg = SeriesToSVG([]Point{{0, -1}, {1, 1}}, 100, 100, "#fff")
	assert.Contains(t, svg, `<line x1="0" y1="50.0" x2="100" y2="50.0"`)
}

func TestWriteJSON(t *testing.T) {
	data := ExportData{
		RunID:  "default_1",
		Preset: "default",
		Hertz:  120,
		Frames: []sim.Frame{{Step: 12, Time: 0.1, Particles: 1}},
		Particles: []dynamo.Circle{
			{Position: dynamo.V(1, 2), Radius: 3, Layer: 1},
		},
		Metrics: map[string]float64{"energy": 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, data))

	var decoded ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, data, decoded)

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, ExportJSON(path, data))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(raw))
}
