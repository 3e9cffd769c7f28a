package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shelter-vax-bot/internal/config"
	"shelter-vax-bot/internal/domain/animals"
	"shelter-vax-bot/internal/domain/vaccines"
	"shelter-vax-bot/internal/platform/logger"
	"shelter-vax-bot/internal/report"
)

// VaccineFeed son los dos feeds externos que el core reconcilia.
type VaccineFeed interface {
	// ScheduledVaccines: feed org-wide de dosis agendadas (feed a).
	ScheduledVaccines(ctx context.Context) ([]vaccines.RawRecord, error)
	// AnimalVaccines: historial completo de un animal (feed b).
	AnimalVaccines(ctx context.Context, animalID string) ([]vaccines.RawRecord, error)
}

// Notifier publica el digest ya renderizado.
type Notifier interface {
	PublishReport(ctx context.Context, text string) error
	IsConfigured() bool
}

// Holder guarda el último reporte para el modo serve.
type Holder struct {
	mu  sync.RWMutex
	rep *report.Report
}

func (h *Holder) Set(r report.Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rep = &r
}

// Latest devuelve el último reporte, o ok=false si todavía no corrió nada.
func (h *Holder) Latest() (report.Report, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.rep == nil {
		return report.Report{}, false
	}
	return *h.rep, true
}

// App orquesta una corrida: feeds → reconciliación → rollups → reporte →
// webhook. Todo el estado vive dentro de la corrida; entre corridas no
// persiste nada.
type App struct {
	cfg      config.Config
	feed     VaccineFeed
	dir      animals.Directory
	notifier Notifier
	log      logger.Logger
	clock    Clock
	ids      IDGenerator
	holder   *Holder
}

type Deps struct {
	Feed     VaccineFeed
	Dir      animals.Directory
	Notifier Notifier
	Logger   logger.Logger
	Clock    Clock
	IDs      IDGenerator
}

func New(cfg config.Config, deps Deps) (*App, error) {
	if deps.Feed == nil || deps.Dir == nil {
		return nil, errors.New("app: feed and directory are required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = RealClock{}
	}
	if deps.IDs == nil {
		deps.IDs = UUIDGenerator{}
	}

	return &App{
		cfg:      cfg,
		feed:     deps.Feed,
		dir:      deps.Dir,
		notifier: deps.Notifier,
		log:      logger.Component(deps.Logger, "pipeline"),
		clock:    deps.Clock,
		ids:      deps.IDs,
		holder:   &Holder{},
	}, nil
}

// Holder expone el último reporte al router del modo serve.
func (a *App) Holder() *Holder { return a.holder }

// RunOnce ejecuta una corrida completa. Degradaciones por record o por
// animal se absorben con warning; solo falla duro lo estructural (el feed
// semilla inaccesible, o el webhook rechazando el reporte).
func (a *App) RunOnce(ctx context.Context) (report.Report, error) {
	// "now" se captura una única vez y vale para toda la corrida.
	now := a.clock.Now()
	runID := a.ids.New()
	log := a.log.With(map[string]any{"run_id": runID})

	log.Info("run started", nil)

	raws, err := a.feed.ScheduledVaccines(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("fetch scheduled feed: %w", err)
	}
	log.Debug("scheduled feed fetched", map[string]any{"records": len(raws)})

	rec := vaccines.NewReconciler(now, a.cfg.WindowConfig(), a.cfg.FamilyRules())
	sets := make([]*vaccines.AnimalSet, 0)

	for _, animalID := range animalOrder(raws) {
		byAnimal := recordsFor(raws, animalID)

		animal, err := a.dir.Animal(ctx, animalID)
		if err != nil {
			// identidad no materializable: se descartan sus records, la
			// corrida sigue
			log.Warn("animal identity unavailable, dropping its records", map[string]any{
				"animal_id": animalID,
				"records":   len(byAnimal),
				"error":     err.Error(),
			})
			continue
		}

		set, stats := rec.Seed(animal, byAnimal)
		warnStats(log, animalID, "seed", stats)

		history, err := a.feed.AnimalVaccines(ctx, animalID)
		if err != nil {
			// sin historial el animal queda con los datos del feed semilla
			log.Warn("history feed failed, using scheduled feed only", map[string]any{
				"animal_id": animalID,
				"error":     err.Error(),
			})
		} else {
			warnStats(log, animalID, "augment", rec.Augment(set, history))
		}

		sets = append(sets, set)
	}

	rep := report.Build(runID, now, sets)
	a.holder.Set(rep)

	log.Info("run finished", map[string]any{
		"animals":  rep.Summary.Animals,
		"overdue":  rep.Summary.Overdue,
		"due_soon": rep.Summary.DueSoonCount(),
	})

	if a.notifier != nil && a.notifier.IsConfigured() {
		if err := a.notifier.PublishReport(ctx, report.Digest(rep)); err != nil {
			return rep, fmt.Errorf("publish report: %w", err)
		}
		log.Info("report published", nil)
	}

	return rep, nil
}

// RunLoop corre una vez ya y después cada "every", hasta que el contexto
// se cancele.
func (a *App) RunLoop(ctx context.Context, every time.Duration) error {
	if _, err := a.RunOnce(ctx); err != nil {
		a.log.Error("run failed", map[string]any{"error": err.Error()})
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := a.RunOnce(ctx); err != nil {
				a.log.Error("run failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// animalOrder: IDs de animal en orden de primera aparición en el feed, para
// que el reporte sea estable respecto del upstream.
func animalOrder(raws []vaccines.RawRecord) []string {
	seen := make(map[string]struct{})
	order := make([]string, 0)
	for _, r := range raws {
		id := r.AnimalID
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, id)
	}
	return order
}

func recordsFor(raws []vaccines.RawRecord, animalID string) []vaccines.RawRecord {
	out := make([]vaccines.RawRecord, 0)
	for _, r := range raws {
		if r.AnimalID == animalID {
			out = append(out, r)
		}
	}
	return out
}

func warnStats(log logger.Logger, animalID, phase string, stats vaccines.MergeStats) {
	if stats.MissingID == 0 {
		return
	}
	log.Warn("records without identifier skipped", map[string]any{
		"animal_id": animalID,
		"phase":     phase,
		"skipped":   stats.MissingID,
	})
}
