package charts

import (
	"encoding/json"
	"math"
	"strconv"
)

// JSONFloat encodes NaN and infinities as null, which encoding/json rejects otherwise
type JSONFloat float64

func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// JSONMatrix converts a matrix for null-safe encoding
func JSONMatrix(m [][]float64) [][]JSONFloat {
	out := make([][]JSONFloat, len(m))
	for i, row := range m {
		out[i] = make([]JSONFloat, len(row))
		for j, v := range row {
			out[i][j] = JSONFloat(v)
		}
	}
	return out
}

func (h HeatmapData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Labels   []string      `json:"labels"`
		Values   [][]JSONFloat `json:"values"`
		Min      float64       `json:"min"`
		Max      float64       `json:"max"`
		Center   float64       `json:"center"`
		Annotate bool          `json:"annotate"`
	}{h.Labels, JSONMatrix(h.Values), h.Min, h.Max, h.Center, h.Annotate})
}
