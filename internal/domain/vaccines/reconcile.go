package vaccines

import (
	"time"

	"shelter-vax-bot/internal/domain/animals"
)

// AnimalSet es la vista consolidada de un animal: sus records canónicos
// particionados en buckets por estado de ventana, más el historial completo
// sin filtrar (incluye los solo-completados) para lookups de "última dosis".
type AnimalSet struct {
	Animal animals.Animal `json:"animal"`

	Buckets map[WindowStatus][]Record `json:"buckets"`
	History []Record                  `json:"history"`

	// known: identificadores ya incorporados. La identidad de un record es
	// su ID de origen (no producto+fecha); el mismo ID en dos feeds es el
	// mismo record del mundo real y colapsa a uno.
	known map[string]struct{}
}

// NewAnimalSet materializa un animal con buckets vacíos. Un animal con
// identidad conocida y cero records igual aparece en el reporte como
// "nothing on file".
func NewAnimalSet(a animals.Animal) *AnimalSet {
	buckets := make(map[WindowStatus][]Record, len(AllStatuses()))
	for _, st := range AllStatuses() {
		buckets[st] = []Record{}
	}
	return &AnimalSet{
		Animal:  a,
		Buckets: buckets,
		History: []Record{},
		known:   make(map[string]struct{}),
	}
}

// Has informa si un identificador ya fue incorporado.
func (s *AnimalSet) Has(id string) bool {
	_, ok := s.known[id]
	return ok
}

// Records devuelve todos los records con semántica de vencimiento,
// recorriendo los buckets en orden estable.
func (s *AnimalSet) Records() []Record {
	out := make([]Record, 0, len(s.History))
	for _, st := range AllStatuses() {
		out = append(out, s.Buckets[st]...)
	}
	return out
}

func (s *AnimalSet) add(rec Record) {
	s.History = append(s.History, rec)
	if rec.Scheduled {
		s.Buckets[rec.Status] = append(s.Buckets[rec.Status], rec)
	}
	s.known[rec.ID] = struct{}{}
}

// MergeStats resume una pasada de reconciliación para que el caller pueda
// loguear degradaciones sin que el engine dependa del logger.
type MergeStats struct {
	Added      int
	Duplicates int
	MissingID  int
}

// Reconciler une los records de los dos feeds por animal. El feed org-wide
// de agendadas (feed a) es la semilla de verdad; el historial por animal
// (feed b) solo agrega IDs estrictamente nuevos. "now" se captura una vez
// por corrida y se enhebra en cada clasificación para que no haya skew
// entre records.
type Reconciler struct {
	now     time.Time
	windows WindowConfig
	rules   []FamilyRule
}

func NewReconciler(now time.Time, windows WindowConfig, rules []FamilyRule) *Reconciler {
	if len(rules) == 0 {
		rules = DefaultFamilyRules()
	}
	return &Reconciler{now: now, windows: windows, rules: rules}
}

// Now devuelve el instante de referencia capturado para la corrida.
func (r *Reconciler) Now() time.Time { return r.now }

// Seed construye el set del animal desde el feed org-wide de agendadas.
// Todo record que entra por acá lleva semántica de vencimiento aunque el
// upstream haya omitido scheduled-for (vino de una query de agendadas).
func (r *Reconciler) Seed(a animals.Animal, raws []RawRecord) (*AnimalSet, MergeStats) {
	set := NewAnimalSet(a)
	var stats MergeStats

	for _, raw := range raws {
		rec, err := Normalize(raw, r.now, r.windows, r.rules)
		if err != nil {
			stats.MissingID++
			continue
		}
		if set.Has(rec.ID) {
			stats.Duplicates++
			continue
		}
		rec.Scheduled = true
		set.add(rec)
		stats.Added++
	}

	return set, stats
}

// Augment incorpora el feed de historial del animal (feed b). Un ID ya
// conocido se descarta: la clasificación del feed semilla es autoritativa y
// un duplicado que llega después nunca la pisa. El orden es load-bearing;
// por eso Augment tras Augment con el mismo feed es idempotente.
func (r *Reconciler) Augment(set *AnimalSet, raws []RawRecord) MergeStats {
	var stats MergeStats

	for _, raw := range raws {
		rec, err := Normalize(raw, r.now, r.windows, r.rules)
		if err != nil {
			stats.MissingID++
			continue
		}
		if set.Has(rec.ID) {
			stats.Duplicates++
			continue
		}
		set.add(rec)
		stats.Added++
	}

	return stats
}
