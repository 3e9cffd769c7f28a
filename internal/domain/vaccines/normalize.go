package vaccines

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrMissingID: el record no trae identificador utilizable, así que no
	// puede participar de la deduplicación. El caller lo saltea con warning;
	// nunca es fatal para la corrida.
	ErrMissingID = errors.New("vaccine record missing identifier")
)

// Normalize convierte un RawRecord en su forma canónica contra el instante
// de referencia: clasifica la ventana sobre scheduled-for, la familia sobre
// el producto, y copia el resto de los campos tal cual (los placeholders de
// presentación tipo "n/a" son cosa del render, nunca del record canónico).
//
// Datos malformados degradan a fallbacks documentados (StatusUnknown,
// FamilyOther, completed ausente); el único rechazo es la falta de ID.
func Normalize(raw RawRecord, now time.Time, windows WindowConfig, rules []FamilyRule) (Record, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return Record{}, ErrMissingID
	}

	rec := Record{
		ID:           id,
		AnimalID:     strings.TrimSpace(raw.AnimalID),
		Product:      strings.TrimSpace(raw.Product),
		Manufacturer: strings.TrimSpace(raw.Manufacturer),
		Lot:          strings.TrimSpace(raw.Lot),
		Family:       ClassifyFamily(raw.Product, rules),
		Scheduled:    raw.ScheduledFor != nil,
	}

	sched := ""
	if raw.ScheduledFor != nil {
		sched = *raw.ScheduledFor
	}
	win := ClassifyWindow(sched, now, windows)
	rec.Status = win.Status
	rec.DiffDays = win.DiffDays
	rec.ScheduledAt = win.ResolvedAt

	// completed-at usa el mismo decoder pero es solo historial.
	if raw.CompletedAt != nil {
		if done, ok := ParseEpoch(*raw.CompletedAt); ok {
			rec.CompletedAt = &done
		}
	}

	return rec, nil
}
