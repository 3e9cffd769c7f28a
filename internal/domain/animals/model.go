package animals

import (
	"context"
	"errors"
)

var (
	// ErrNotFound: el animal no es materializable (el lookup no lo conoce).
	// Aguas arriba esto es un skip suave, no un error duro de la corrida.
	ErrNotFound = errors.New("animal not found")
)

// Animal es la identidad mínima que necesita el reporte.
type Animal struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Directory resuelve identidad de animales contra la fuente externa.
type Directory interface {
	Animal(ctx context.Context, id string) (Animal, error)
}
