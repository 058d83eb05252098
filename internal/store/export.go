package store

import (
	"encoding/json"
	"os"
	"time"
)

// RunData is the JSON export of one completed run: what was orchestrated
// and how the coupling behaved. Solver-internal state stays with the
// zones; only the orchestration-level outcome is recorded.
type RunData struct {
	Driver           string      `json:"driver"`
	Model            string      `json:"model"`
	NZone            int         `json:"nzone"`
	Steps            int         `json:"steps"`
	Elapsed          float64     `json:"elapsed_seconds"`
	Timestamp        time.Time   `json:"timestamp"`
	OperatorRebuilds int         `json:"operator_rebuilds,omitempty"`
	Operator         [][]float64 `json:"operator,omitempty"`
	Coupling         *Coupling   `json:"coupling,omitempty"`
	Quantities       [][]float64 `json:"coupling_quantities"`
}

// Coupling mirrors the BGS outcome of the last outer step.
type Coupling struct {
	Status     string    `json:"status"`
	Iterations int       `json:"iterations"`
	Residual   float64   `json:"residual"`
	History    []float64 `json:"residual_history"`
}

func ExportJSON(path string, data *RunData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONStdout(data *RunData) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
