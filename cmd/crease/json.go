package main

import (
	"io"
	"math"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/stats"
	"github.com/verte-zerg/crease/internal/view"
)

// JSON forms of the view results. Undefined metric values encode as null.

type jsonPoint struct {
	Season int         `json:"season"`
	Phase  model.Phase `json:"phase"`
	Value  float64     `json:"value"`
}

type jsonSeries struct {
	Phase  model.Phase `json:"phase"`
	Values []*float64  `json:"values"`
}

type jsonChart struct {
	Title   string       `json:"title"`
	Entity  string       `json:"entity"`
	Metric  string       `json:"metric"`
	Seasons []int        `json:"seasons"`
	Series  []jsonSeries `json:"series"`
	Best    *jsonPoint   `json:"best,omitempty"`
}

type jsonTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type jsonView struct {
	Mode            view.Mode            `json:"mode"`
	Title           string               `json:"title"`
	Subtitle        string               `json:"subtitle,omitempty"`
	Params          view.Params          `json:"params"`
	Chart           *jsonChart           `json:"chart,omitempty"`
	Table           *jsonTable           `json:"table,omitempty"`
	Notes           []string             `json:"notes,omitempty"`
	Highlights      []string             `json:"highlights,omitempty"`
	Recommendations []string             `json:"recommendations,omitempty"`
	Scouting        []view.ScoutingGroup `json:"scouting,omitempty"`
	Warnings        []string             `json:"warnings,omitempty"`
	Badge           *view.Badge          `json:"badge,omitempty"`
	Empty           bool                 `json:"empty"`
}

type jsonRow struct {
	Season  int                 `json:"season,omitempty"`
	Entity  string              `json:"entity"`
	Phase   model.Phase         `json:"phase,omitempty"`
	Metrics map[string]*float64 `json:"metrics"`
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toJSONView(r view.Result, recommendations bool) jsonView {
	out := jsonView{
		Mode:       r.Mode,
		Title:      r.Title,
		Subtitle:   r.Subtitle,
		Params:     r.Params,
		Notes:      r.Notes,
		Highlights: r.Highlights,
		Scouting:   r.Scouting,
		Warnings:   r.Warnings,
		Badge:      r.Badge,
		Empty:      r.Empty,
	}
	if recommendations {
		out.Recommendations = r.Recommendations
	}
	if r.Chart != nil {
		out.Chart = toJSONChart(*r.Chart)
	}
	if r.Table != nil {
		out.Table = &jsonTable{Headers: r.Table.Headers, Rows: r.Table.Rows}
	}
	return out
}

func toJSONChart(c stats.Chart) *jsonChart {
	out := &jsonChart{
		Title:   c.Title,
		Entity:  c.Entity,
		Metric:  c.Metric,
		Seasons: c.Seasons,
		Series:  make([]jsonSeries, 0, len(c.Series)),
	}
	for _, s := range c.Series {
		values := make([]*float64, len(s.Values))
		for i, v := range s.Values {
			values[i] = nullable(v)
		}
		out.Series = append(out.Series, jsonSeries{Phase: s.Phase, Values: values})
	}
	if c.Best != nil {
		out.Best = &jsonPoint{Season: c.Best.Season, Phase: c.Best.Phase, Value: c.Best.Value}
	}
	return out
}

func toJSONRows[T model.MetricRow](rows []T, columns []string) []jsonRow {
	out := make([]jsonRow, 0, len(rows))
	for _, r := range rows {
		k := r.Key()
		row := jsonRow{Season: k.Season, Entity: k.Entity, Phase: k.Phase, Metrics: make(map[string]*float64, len(columns))}
		for _, col := range columns {
			if v, ok := r.Metric(col); ok {
				row.Metrics[col] = nullable(v)
			}
		}
		out = append(out, row)
	}
	return out
}

func writeJSON(w io.Writer, payload any) error {
	body, err := sonic.ConfigStd.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode json")
	}
	body = append(body, '\n')
	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}
