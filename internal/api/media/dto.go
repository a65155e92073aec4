package media

import (
	"time"

	"github.com/google/uuid"
)

// The list view resolves every reference to a display summary instead of
// the full document, matching what catalog clients render.

type ReferenciaResumen struct {
	ID     uuid.UUID `json:"_id"`
	Nombre string    `json:"nombre"`
}

type UsuarioResumen struct {
	ID     uuid.UUID `json:"_id"`
	Nombre string    `json:"nombre"`
	Email  string    `json:"email"`
}

type MediaDTO struct {
	ID                 uuid.UUID          `json:"_id"`
	Serial             string             `json:"serial"`
	Titulo             string             `json:"titulo"`
	Sinopsis           string             `json:"sinopsis"`
	URL                string             `json:"url"`
	Imagen             string             `json:"imagen"`
	AnioEstreno        int                `json:"anioEstreno"`
	Usuario            *UsuarioResumen    `json:"usuario,omitempty"`
	Genero             *ReferenciaResumen `json:"genero"`
	Director           *ReferenciaResumen `json:"director"`
	Productora         *ReferenciaResumen `json:"productora"`
	Tipo               *ReferenciaResumen `json:"tipo"`
	FechaCreacion      time.Time          `json:"fechaCreacion"`
	FechaActualizacion time.Time          `json:"fechaActualizacion"`
}
