package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/LdDl/quadtrack/qtrack"
	"github.com/pkg/errors"
)

// CSVWriter writes the four-column event table
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter creates CSV writer over w
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write writes header and one row per event in log order. An empty log produces header only.
func (cw *CSVWriter) Write(_ RunInfo, events []qtrack.Event) error {
	writer := csv.NewWriter(cw.w)
	err := writer.Write(Header)
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for i, event := range events {
		err = writer.Write([]string{
			strconv.FormatFloat(event.Time, 'f', -1, 64),
			strconv.Itoa(int(event.Quadrant)),
			event.Color,
			event.Kind.String(),
		})
		if err != nil {
			return errors.Wrapf(err, "Can't write row %d", i)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush CSV")
}
