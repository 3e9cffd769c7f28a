package report

import (
	"fmt"
	"strings"
	"time"

	"shelter-vax-bot/internal/domain/animals"
	"shelter-vax-bot/internal/domain/vaccines"
)

// AnimalReport es lo que el render necesita por animal: un rollup por
// familia core más la lista "other" sin filtrar.
type AnimalReport struct {
	Animal  animals.Animal         `json:"animal"`
	Rollups []vaccines.FamilyRollup `json:"rollups"`
	Other   []vaccines.Record       `json:"other"`
}

// Summary cuenta records por estado sobre toda la corrida. Los dos estados
// "due pronto" se mantienen separados en el modelo; la suma es solo una
// vista derivada para el encabezado.
type Summary struct {
	Animals        int `json:"animals"`
	Overdue        int `json:"overdue"`
	NeedsAttention int `json:"needs_attention"`
	Upcoming       int `json:"upcoming"`
	Unknown        int `json:"unknown"`
}

// DueSoonCount es la vista derivada (no autoritativa) "vence dentro del
// mes": needsAttention + upcoming.
func (s Summary) DueSoonCount() int {
	return s.NeedsAttention + s.Upcoming
}

// Report es el resultado completo de una corrida.
type Report struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Animals     []AnimalReport `json:"animals"`
	Summary     Summary        `json:"summary"`
}

// Build reduce los sets reconciliados al reporte presentable.
func Build(runID string, generatedAt time.Time, sets []*vaccines.AnimalSet) Report {
	rep := Report{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Animals:     make([]AnimalReport, 0, len(sets)),
	}

	for _, set := range sets {
		rep.Animals = append(rep.Animals, AnimalReport{
			Animal:  set.Animal,
			Rollups: set.Rollups(),
			Other:   set.OtherRecords(),
		})

		rep.Summary.Animals++
		rep.Summary.Overdue += len(set.Buckets[vaccines.StatusOverdue])
		rep.Summary.NeedsAttention += len(set.Buckets[vaccines.StatusNeedsAttention])
		rep.Summary.Upcoming += len(set.Buckets[vaccines.StatusUpcoming])
		rep.Summary.Unknown += len(set.Buckets[vaccines.StatusUnknown])
	}

	return rep
}

// Digest renderiza el reporte como texto de chat. Acá (y solo acá) entran
// los placeholders de presentación como "n/a".
func Digest(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Vaccine report* — %s\n", r.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "%d animals · %d overdue · %d due within the month\n",
		r.Summary.Animals, r.Summary.Overdue, r.Summary.DueSoonCount())

	for _, ar := range r.Animals {
		name := ar.Animal.Name
		if strings.TrimSpace(name) == "" {
			name = ar.Animal.ID
		}
		fmt.Fprintf(&b, "\n*%s*\n", name)

		for _, ru := range ar.Rollups {
			fmt.Fprintf(&b, "• %s: %s\n", ru.Family, rollupLine(ru))
		}
		for _, rec := range ar.Other {
			fmt.Fprintf(&b, "• other: %s\n", otherLine(rec))
		}
	}

	return b.String()
}

func rollupLine(ru vaccines.FamilyRollup) string {
	var parts []string

	switch {
	case ru.Status == vaccines.RollupNone:
		return "nothing on file"
	case ru.NextDue == nil:
		parts = append(parts, "no upcoming dose scheduled")
	case ru.NextDue.DiffDays == nil:
		parts = append(parts, "scheduled, no date on record")
	case ru.Status == vaccines.RollupOverdue:
		parts = append(parts, fmt.Sprintf("%d days overdue", vaccines.OverdueDays(*ru.NextDue.DiffDays)))
	default:
		parts = append(parts, fmt.Sprintf("due in %d days (%s)", vaccines.AheadDays(*ru.NextDue.DiffDays), ru.Status))
	}

	if ru.LastGiven != nil {
		parts = append(parts, "last given "+ru.LastGiven.Format("2006-01-02"))
	} else {
		parts = append(parts, "never given")
	}

	return strings.Join(parts, " — ")
}

func otherLine(rec vaccines.Record) string {
	line := rec.Product
	if strings.TrimSpace(line) == "" {
		line = "unnamed product"
	}
	line += " (lot " + orNA(rec.Lot) + ", mfr " + orNA(rec.Manufacturer) + ")"

	switch {
	case rec.CompletedAt != nil:
		line += " — completed " + rec.CompletedAt.Format("2006-01-02")
	case rec.ScheduledAt != nil:
		line += " — scheduled " + rec.ScheduledAt.Format("2006-01-02")
	}
	return line
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}
