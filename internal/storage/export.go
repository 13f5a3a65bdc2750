package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/ringsim/internal/network"
)

type ExportData struct {
	Run        RunMetadata `json:"run"`
	Angles     []float64   `json:"angles"`
	Trajectory [][]float64 `json:"trajectory"`
}

// ExportJSON writes a run's metadata, preferred angles and trajectory to w.
func ExportJSON(w io.Writer, meta *RunMetadata, trajectory []network.Vector) error {
	angles, err := network.PreferredAngles(meta.Config.Neurons)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:        *meta,
		Angles:     angles,
		Trajectory: make([][]float64, len(trajectory)),
	}
	for i, m := range trajectory {
		data.Trajectory[i] = m
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes the trajectory with a leading step column, one row per step.
func ExportCSV(w io.Writer, trajectory []network.Vector) error {
	cw := csv.NewWriter(w)

	if len(trajectory) > 0 {
		header := []string{"step"}
		for i := range trajectory[0] {
			header = append(header, fmt.Sprintf("m%d", i))
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for k, m := range trajectory {
		row := []string{strconv.Itoa(k)}
		for _, v := range m {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
