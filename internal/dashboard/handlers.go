package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmpoweredVote/attendance-monitor/internal/aggregate"
	"github.com/EmpoweredVote/attendance-monitor/internal/geo"
	"github.com/EmpoweredVote/attendance-monitor/internal/present"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps input validation errors to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, geo.ErrUnknownLevel),
		errors.Is(err, aggregate.ErrUnknownIndicator),
		errors.Is(err, ErrBadYear),
		errors.Is(err, present.ErrUnknownColumn),
		errors.Is(err, present.ErrBadFilter),
		errors.Is(err, present.ErrBadPage):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// notModified sets the entity tag and reports whether the client already has it.
func notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// OptionsHandler returns selector choices, defaults and the table description.
func (d *Dashboard) OptionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, d.Options())
}

// FiguresHandler handles one selection change and returns both figures.
func (d *Dashboard) FiguresHandler(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.Query(), d.Data.MaxYear())
	if err != nil {
		writeError(w, err)
		return
	}
	figs, err := d.Update(sel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, figs)
}

// MapHandler returns only the choropleth for level and year.
func (d *Dashboard) MapHandler(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.Query(), d.Data.MaxYear())
	if err != nil {
		writeError(w, err)
		return
	}
	fig, err := d.MapFigure(sel.Level, sel.Year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

// TrendHandler returns only the participants chart for indicator.
func (d *Dashboard) TrendHandler(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.Query(), d.Data.MaxYear())
	if err != nil {
		writeError(w, err)
		return
	}
	fig, err := d.TrendFigure(sel.Indicator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

// TrendPNGHandler renders the participants chart server side.
func (d *Dashboard) TrendPNGHandler(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.Query(), d.Data.MaxYear())
	if err != nil {
		writeError(w, err)
		return
	}
	t, err := aggregate.ComputeTrend(d.Data, sel.Indicator)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(t.Rows) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := present.RenderTrendPNG(w, t); err != nil {
		http.Error(w, "Failed to render chart: "+err.Error(), http.StatusInternalServerError)
	}
}

// BoundaryHandler serves a boundary document exactly as loaded.
func (d *Dashboard) BoundaryHandler(w http.ResponseWriter, r *http.Request) {
	level, err := geo.ParseLevel(chi.URLParam(r, "level"))
	if err != nil {
		writeError(w, err)
		return
	}
	b, ok := d.Boundaries[level]
	if !ok {
		http.Error(w, "Boundary not found", http.StatusNotFound)
		return
	}
	if notModified(w, r, `"`+b.Version.String()+`"`) {
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(b.Raw)
}

// TopAttendeesHandler returns one filtered, sorted page of the repeat-visitor table.
func (d *Dashboard) TopAttendeesHandler(w http.ResponseWriter, r *http.Request) {
	q, err := present.ParseTableQuery(r.URL.Query(), d.Layout.Table.PageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := present.QueryTable(d.Data.RepeatVisitors, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// TopAttendeesXLSXHandler downloads the whole repeat-visitor table.
func (d *Dashboard) TopAttendeesXLSXHandler(w http.ResponseWriter, r *http.Request) {
	if notModified(w, r, `"`+d.Data.ID.String()+`"`) {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="top-attendees.xlsx"`)
	if err := present.WriteTopAttendeesXLSX(w, d.Data.RepeatVisitors); err != nil {
		http.Error(w, "Failed to write spreadsheet: "+err.Error(), http.StatusInternalServerError)
	}
}
