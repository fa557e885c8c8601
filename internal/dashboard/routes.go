package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (d *Dashboard) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", d.PageHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", d.OptionsHandler)
		r.Get("/figures", d.FiguresHandler)
		r.Get("/map", d.MapHandler)
		r.Get("/trend", d.TrendHandler)
		r.Get("/trend.png", d.TrendPNGHandler)
		r.Get("/boundaries/{level}", d.BoundaryHandler)
		r.Get("/top-attendees", d.TopAttendeesHandler)
		r.Get("/top-attendees.xlsx", d.TopAttendeesXLSXHandler)
	})

	return r
}
