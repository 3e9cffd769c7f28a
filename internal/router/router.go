package router

import (
	"encoding/json"
	"net/http"

	"shelter-vax-bot/internal/app"
	"shelter-vax-bot/internal/domain/animals"
	"shelter-vax-bot/internal/domain/vaccines"
	"shelter-vax-bot/internal/middleware"
	"shelter-vax-bot/internal/report"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	// Latest: dónde mira el router el último reporte calculado.
	Latest *app.Holder

	// APIKey opcional; vacío = endpoints abiertos (modo dev).
	APIKey string
}

// NewRouter arma la superficie HTTP del modo serve: salud + el último
// reporte. Solo lectura; el pipeline es el único que escribe en el holder.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.APIKey(opts.APIKey))

		gr.Get("/report", latestReportHandler(opts.Latest))
		gr.Get("/animals/{animalID}/rollups", animalRollupsHandler(opts.Latest))
	})

	return r
}

func latestReportHandler(holder *app.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, ok := latest(holder)
		if !ok {
			http.Error(w, "no report computed yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// animalRollupsResponse es la vista por animal del último reporte.
type animalRollupsResponse struct {
	Animal  animals.Animal          `json:"animal"`
	Rollups []vaccines.FamilyRollup `json:"rollups"`
	Other   []vaccines.Record       `json:"other"`
}

func animalRollupsHandler(holder *app.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, ok := latest(holder)
		if !ok {
			http.Error(w, "no report computed yet", http.StatusServiceUnavailable)
			return
		}

		animalID := chi.URLParam(r, "animalID")
		for _, ar := range rep.Animals {
			if ar.Animal.ID == animalID {
				writeJSON(w, http.StatusOK, animalRollupsResponse{
					Animal:  ar.Animal,
					Rollups: ar.Rollups,
					Other:   ar.Other,
				})
				return
			}
		}
		http.Error(w, "animal not in latest report", http.StatusNotFound)
	}
}

func latest(holder *app.Holder) (report.Report, bool) {
	if holder == nil {
		return report.Report{}, false
	}
	return holder.Latest()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
