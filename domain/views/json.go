package views

import (
	"encoding/json"

	"goeda/domain/charts"
)

func (s NumericSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string           `json:"column"`
		Count  int              `json:"count"`
		Mean   charts.JSONFloat `json:"mean"`
		Std    charts.JSONFloat `json:"std"`
		Min    charts.JSONFloat `json:"min"`
		Q25    charts.JSONFloat `json:"q25"`
		Q50    charts.JSONFloat `json:"q50"`
		Q75    charts.JSONFloat `json:"q75"`
		Max    charts.JSONFloat `json:"max"`
	}{
		s.Column, s.Count,
		charts.JSONFloat(s.Mean), charts.JSONFloat(s.Std), charts.JSONFloat(s.Min),
		charts.JSONFloat(s.Q25), charts.JSONFloat(s.Q50), charts.JSONFloat(s.Q75),
		charts.JSONFloat(s.Max),
	})
}

func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Columns []string             `json:"columns"`
		Values  [][]charts.JSONFloat `json:"values"`
	}{m.Columns, charts.JSONMatrix(m.Values)})
}
