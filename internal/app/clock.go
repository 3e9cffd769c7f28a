package app

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstrae el "ahora" para que las corridas sean deterministas en
// tests. El pipeline lo captura una sola vez por corrida y lo enhebra en
// toda la clasificación.
type Clock interface {
	Now() time.Time
}

// RealClock devuelve la hora real, en UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator abstrae la generación de IDs de corrida.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produce UUIDs aleatorios.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }
