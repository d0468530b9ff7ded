package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/sim"
)

type ExportData struct {
	RunID     string             `json:"run_id"`
	Preset    string             `json:"preset"`
	Hertz     int                `json:"hertz"`
	Duration  float64            `json:"duration"`
	Frames    []sim.Frame        `json:"frames"`
	Particles []dynamo.Circle    `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
