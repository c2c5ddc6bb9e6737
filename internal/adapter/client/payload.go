package client

import (
	"strconv"
	"strings"
)

// ContentTypeCSV is the payload format the model container expects
const ContentTypeCSV = "text/csv"

// EncodeFeatures renders a feature vector as a single comma-separated row
// using the shortest representation that round-trips each value.
func EncodeFeatures(features []float64) string {
	var b strings.Builder
	for i, f := range features {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return b.String()
}
