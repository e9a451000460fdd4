package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"bioflow/internal/sim"
)

type ExportData struct {
	ID         string             `json:"id"`
	Integrator string             `json:"integrator"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	data := ExportData{
		ID:         meta.ID,
		Integrator: meta.Integrator,
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Metrics:    meta.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes a run's trajectory as time,X,S,kla rows.
func ExportCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"time", "X", "S", "kla"}); err != nil {
		return err
	}
	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
