package vaccines

import "time"

// RawRecord es la forma externa (no confiable) de un registro de vacuna,
// tal como llega de los feeds. Los timestamps vienen como string numérico
// con segundos epoch; los campos opcionales son punteros. Esta forma no
// debe filtrarse más allá del normalizador.
type RawRecord struct {
	ID           string  `json:"id"`
	AnimalID     string  `json:"animal_id"`
	Product      string  `json:"product"`
	Manufacturer string  `json:"manufacturer"`
	Lot          string  `json:"lot"`
	ScheduledFor *string `json:"scheduled_for"`
	CompletedAt  *string `json:"completed_at"`
}

// Record es la representación canónica interna. Se construye una sola vez
// en el normalizador y ya trae ambas clasificaciones.
type Record struct {
	ID       string `json:"id"`
	AnimalID string `json:"animal_id"`

	Product      string `json:"product"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Lot          string `json:"lot,omitempty"`

	// ScheduledAt resuelto desde scheduled-for; nil si ausente o no parseable.
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	// CompletedAt es solo historial: nunca alimenta la clasificación temporal.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Family Family       `json:"family"`
	Status WindowStatus `json:"status"`
	// DiffDays con signo, fraccional. nil ⟺ Status == unknown.
	DiffDays *float64 `json:"diff_days,omitempty"`

	// Scheduled indica que el record trae semántica de vencimiento: tuvo
	// algún valor de scheduled-for (aunque no parsee) o vino por el feed
	// org-wide de agendadas. Solo los Scheduled entran a los buckets de
	// estado; un registro solo-completado es historial puro.
	Scheduled bool `json:"scheduled"`
}
