package vaccines

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const dayMillis = 24 * 3600 * 1000

// WindowConfig define los anchos de ventana (en días) para clasificar
// una dosis agendada. Se pasa explícito para que los tests puedan variar
// los umbrales sin tocar estado global.
type WindowConfig struct {
	// AttentionDays: hasta cuántos días hacia adelante una dosis
	// se considera "needsAttention" (inclusive).
	AttentionDays float64
	// UpcomingDays: hasta cuántos días hacia adelante una dosis
	// se considera "upcoming" (inclusive).
	UpcomingDays float64
}

// DefaultWindowConfig son las ventanas operativas del refugio: 2 semanas / 1 mes.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{AttentionDays: 14, UpcomingDays: 30}
}

// WindowResult es la salida del clasificador temporal.
// Invariante: Status == StatusUnknown ⟺ DiffDays == nil ⟺ ResolvedAt == nil.
type WindowResult struct {
	Status     WindowStatus
	DiffDays   *float64
	ResolvedAt *time.Time
}

// ClassifyWindow clasifica un timestamp agendado (string numérico, segundos
// epoch) contra el instante de referencia. Un valor ausente o no parseable
// NO es un error: produce StatusUnknown y el record queda sin semántica de
// vencimiento.
//
// Las ventanas se evalúan en orden (primer match gana); el orden es parte
// del contrato porque los rangos no son excluyentes entre sí:
//  1. diffDays < 0              → overdue
//  2. diffDays ≤ AttentionDays  → needsAttention
//  3. diffDays ≤ UpcomingDays   → upcoming
//  4. si no                     → current
func ClassifyWindow(raw string, now time.Time, cfg WindowConfig) WindowResult {
	resolved, ok := ParseEpoch(raw)
	if !ok {
		return WindowResult{Status: StatusUnknown}
	}

	// diffDays en aritmética de milisegundos, con signo y fracción.
	// Es la única fuente de verdad: los buckets salen de acá y nadie
	// lo recalcula aguas abajo.
	diff := float64(resolved.Sub(now).Milliseconds()) / dayMillis

	status := StatusCurrent
	switch {
	case diff < 0:
		status = StatusOverdue
	case diff <= cfg.AttentionDays:
		status = StatusNeedsAttention
	case diff <= cfg.UpcomingDays:
		status = StatusUpcoming
	}

	return WindowResult{Status: status, DiffDays: &diff, ResolvedAt: &resolved}
}

// ParseEpoch decodifica un timestamp del feed: string numérico con segundos
// desde epoch (puede traer fracción). Devuelve ok=false para vacío, no
// numérico o no finito (NaN/Inf). Se usa tanto para scheduled-for como para
// completed-at; completed-at nunca pasa por ClassifyWindow.
func ParseEpoch(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(math.Round(secs * 1000))).UTC(), true
}

// OverdueDays redondea hacia abajo los días vencidos: "0 days overdue"
// queda reservado para atrasos menores a un día.
func OverdueDays(diffDays float64) int {
	return int(math.Floor(math.Abs(diffDays)))
}

// AheadDays redondea hacia arriba los días por venir: algo que vence más
// tarde hoy mismo se lee "in 1 day", nunca "in 0 days" (salvo diff exacto 0).
func AheadDays(diffDays float64) int {
	return int(math.Ceil(diffDays))
}
