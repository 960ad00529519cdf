package present

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"wealth-dashboard/internal/derive"
	"wealth-dashboard/internal/model"
)

// WriteSeriesCSV writes one row per time step: the time, every scalar series in
// policy order, then every decile series as <category>_d<decile>. A missing
// value is an empty cell.
func WriteSeriesCSV(w io.Writer, set *derive.SeriesSet) error {
	type column struct {
		name string
		pts  []derive.Point
	}

	var cols []column
	for _, p := range derive.Policies() {
		cols = append(cols, column{string(p.Name), set.Scalar(p.Name)})
	}
	for _, name := range []derive.SeriesName{
		derive.ComputedShareFirstDecile,
		derive.ComputedShareTenthDecile,
		derive.ComputedShareBottom50,
	} {
		cols = append(cols, column{string(name), set.Scalar(name)})
	}
	for _, c := range derive.Categories() {
		for _, ds := range set.Deciles[c] {
			cols = append(cols, column{fmt.Sprintf("%s_d%d", c, ds.Decile), ds.Points})
		}
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, len(cols)+1)
	header = append(header, "time")
	for _, c := range cols {
		header = append(header, c.name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, t := range set.Time {
		row := make([]string, 0, len(cols)+1)
		row = append(row, strconv.Itoa(t))
		for _, c := range cols {
			var v model.NullFloat
			if i < len(c.pts) {
				v = c.pts[i].Value
			}
			row = append(row, fmtValue(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMatricesCSV writes transition matrices in long form: time, from, to, percent.
func WriteMatricesCSV(w io.Writer, set *derive.SeriesSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "from_decile", "to_decile", "percent"}); err != nil {
		return err
	}

	for _, m := range set.Matrices {
		for i, from := range m.Rows {
			for j, to := range m.Cols {
				row := []string{
					strconv.Itoa(m.Time),
					from.String(),
					to.String(),
					fmtFloat(m.Cells[i][j]),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSeriesCSVFile writes the series export to path, creating parent directories.
func WriteSeriesCSVFile(path string, set *derive.SeriesSet) error {
	return writeFile(path, func(w io.Writer) error { return WriteSeriesCSV(w, set) })
}

// WriteMatricesCSVFile writes the matrix export to path, creating parent directories.
func WriteMatricesCSVFile(path string, set *derive.SeriesSet) error {
	return writeFile(path, func(w io.Writer) error { return WriteMatricesCSV(w, set) })
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func fmtValue(v model.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return fmtFloat(v.Float)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
