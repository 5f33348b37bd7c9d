// Package record serializes run histories. The writers take any io.Writer so
// the CLI can stream to stdout and the Store can write into run directories.
package record

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/san-kum/pendsim/internal/sim"
)

type Metadata struct {
	ID          string             `json:"id,omitempty"`
	Model       string             `json:"model"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	ForceLimit  float64            `json:"force_limit"`
	Uncertainty float64            `json:"uncertainty"`
	Input       string             `json:"input"`
	Params      map[string]float64 `json:"params,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

type ExportData struct {
	Metadata
	Steps   int         `json:"steps"`
	Times   []float64   `json:"times"`
	Inputs  []float64   `json:"inputs"`
	Applied []float64   `json:"applied"`
	Outputs [][]float64 `json:"outputs"`
	States  [][]float64 `json:"states"`
}

// Header returns the CSV column names for a history with the given output
// and state widths.
func Header(outputs, states int) []string {
	header := []string{"time", "u_raw", "u"}
	for i := 0; i < outputs; i++ {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	for i := 0; i < states; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	return header
}

// WriteCSV writes one row per recorded sample.
func WriteCSV(w io.Writer, res *sim.Result) error {
	cw := csv.NewWriter(w)

	if len(res.Times) == 0 {
		cw.Flush()
		return cw.Error()
	}

	if err := cw.Write(Header(len(res.Outputs[0]), len(res.States[0]))); err != nil {
		return err
	}

	for i := range res.Times {
		row := []string{
			formatFloat(res.Times[i]),
			formatFloat(res.Inputs[i]),
			formatFloat(res.Applied[i]),
		}
		for _, v := range res.Outputs[i] {
			row = append(row, formatFloat(v))
		}
		for _, v := range res.States[i] {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the metadata and full history as one indented document.
// Metrics from the result override those in meta.
func WriteJSON(w io.Writer, meta Metadata, res *sim.Result) error {
	if res.Metrics != nil {
		meta.Metrics = res.Metrics
	}
	if res.Params != nil {
		meta.Params = res.Params
	}

	data := ExportData{
		Metadata: meta,
		Steps:    res.StepsTaken,
		Times:    res.Times,
		Inputs:   res.Inputs,
		Applied:  res.Applied,
		Outputs:  res.Outputs,
		States:   make([][]float64, len(res.States)),
	}
	for i, s := range res.States {
		data.States[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
