package vaccines

import "time"

// RollupStatus es el estado presentable de una familia para un animal.
// Replica los cinco estados de ventana y agrega "none" (nada en archivo);
// "none" no es un estado de ventana y por eso no vive en WindowStatus.
type RollupStatus string

const (
	RollupOverdue        RollupStatus = RollupStatus(StatusOverdue)
	RollupNeedsAttention RollupStatus = RollupStatus(StatusNeedsAttention)
	RollupUpcoming       RollupStatus = RollupStatus(StatusUpcoming)
	RollupCurrent        RollupStatus = RollupStatus(StatusCurrent)
	RollupUnknown        RollupStatus = RollupStatus(StatusUnknown)
	RollupNone           RollupStatus = "none"
)

// FamilyRollup es la vista única "última dada / próxima a vencer" por animal
// y por familia core.
type FamilyRollup struct {
	Family Family `json:"family"`

	// LastGiven: el completed-at más reciente del historial de la familia.
	LastGiven *time.Time `json:"last_given,omitempty"`
	// NextDue: el record agendado elegido como "más próximo"; nil si la
	// familia no tiene records con semántica de vencimiento.
	NextDue *Record `json:"next_due,omitempty"`

	Status RollupStatus `json:"status"`
}

// HasHistory indica si hubo alguna dosis completada aunque no haya próxima
// agendada (el render muestra "no upcoming dose scheduled" en ese caso).
func (r FamilyRollup) HasHistory() bool { return r.LastGiven != nil }

// Rollup reduce los records de una familia a su FamilyRollup:
//
//  1. Última dada: máximo completed-at del historial de la familia.
//  2. Próxima: mínimo scheduled-at entre los records con semántica de
//     vencimiento; un scheduled-at nil cuenta como +infinito, así un record
//     agendado sin fecha nunca le gana a uno con fecha, pero queda como
//     único fallback si todos los candidatos son sin fecha. Empates: primer
//     encontrado (el estado de ventana mostrado no cambia).
//  3. Estado: el del record próximo; si no hay, "current" cuando existe
//     historial; si no, "none".
func (s *AnimalSet) Rollup(f Family) FamilyRollup {
	out := FamilyRollup{Family: f, Status: RollupNone}

	for _, rec := range s.History {
		if rec.Family != f || rec.CompletedAt == nil {
			continue
		}
		if out.LastGiven == nil || rec.CompletedAt.After(*out.LastGiven) {
			t := *rec.CompletedAt
			out.LastGiven = &t
		}
	}

	var next *Record
	for _, rec := range s.Records() {
		if rec.Family != f {
			continue
		}
		if next == nil {
			r := rec
			next = &r
			continue
		}
		if sooner(rec.ScheduledAt, next.ScheduledAt) {
			r := rec
			next = &r
		}
	}

	switch {
	case next != nil:
		out.NextDue = next
		out.Status = RollupStatus(next.Status)
	case out.LastGiven != nil:
		out.Status = RollupCurrent
	}

	return out
}

// Rollups calcula el rollup de cada familia core, en orden estable.
func (s *AnimalSet) Rollups() []FamilyRollup {
	fams := CoreFamilies()
	out := make([]FamilyRollup, 0, len(fams))
	for _, f := range fams {
		out = append(out, s.Rollup(f))
	}
	return out
}

// OtherRecords devuelve el historial completo de la familia "other", sin
// filtrar; la presentación decide cómo mostrarlo.
func (s *AnimalSet) OtherRecords() []Record {
	out := []Record{}
	for _, rec := range s.History {
		if rec.Family == FamilyOther {
			out = append(out, rec)
		}
	}
	return out
}

// sooner: a es estrictamente más próximo que b, con nil como +infinito.
func sooner(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}
