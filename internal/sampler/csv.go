package sampler

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"wxsampler/internal/netatmo"
)

// encodeSeries renders points as a two-column DateTime,Value table. Only the
// first packed value of each point is kept; a missing or null first value
// becomes an empty cell. An empty series still yields the header line.
func encodeSeries(points []netatmo.Point) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"DateTime", "Value"}); err != nil {
		return nil, err
	}
	for _, point := range points {
		if err := w.Write([]string{formatStamp(point.Time), firstValue(point)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func firstValue(point netatmo.Point) string {
	if len(point.Values) == 0 || point.Values[0] == nil {
		return ""
	}
	return strconv.FormatFloat(*point.Values[0], 'f', -1, 64)
}
