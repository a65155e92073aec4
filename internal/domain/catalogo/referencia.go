package catalogo

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EstadoActivo   = "Activo"
	EstadoInactivo = "Inactivo"
)

func EstadoValido(estado string) bool {
	return estado == EstadoActivo || estado == EstadoInactivo
}

// Referencia is the shared row shape for the four lookup kinds a Media
// record points to (género, director, productora, tipo). Each kind lives
// in its own table; the optional columns stay NULL for kinds that don't
// carry them.
type Referencia struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Nombre             string    `gorm:"not null" json:"nombre"`
	Descripcion        *string   `json:"descripcion,omitempty"`
	Slogan             *string   `json:"slogan,omitempty"`
	Estado             *string   `gorm:"type:varchar(10)" json:"estado,omitempty"`
	FechaCreacion      time.Time `json:"fechaCreacion"`
	FechaActualizacion time.Time `json:"fechaActualizacion"`
}

// Activa reports whether the entity may be attached to new Media.
// Kinds without a lifecycle state (tipo) are always attachable.
func (r *Referencia) Activa() bool {
	return r.Estado == nil || *r.Estado == EstadoActivo
}

// Esquema describes one reference kind: which table backs it, which Media
// column points at it, which fields it carries and how updates behave.
// The display strings keep the per-kind grammar of the API messages.
type Esquema struct {
	Tabla        string
	ColumnaMedia string

	ConEstado            bool
	ConDescripcion       bool
	ConSlogan            bool
	DescripcionRequerida bool

	// ActualizacionParcial switches PUT from full-replace to a patch where
	// absent fields keep their stored value.
	ActualizacionParcial bool

	MensajeNoEncontrado string
	MensajeEnUso        string
	MensajeEliminado    string
}

var (
	Generos = Esquema{
		Tabla:                "generos",
		ColumnaMedia:         "genero_id",
		ConEstado:            true,
		ConDescripcion:       true,
		DescripcionRequerida: true,
		MensajeNoEncontrado:  "Género no encontrado",
		MensajeEnUso:         "No se puede eliminar el género, está en uso por alguna película o serie.",
		MensajeEliminado:     "Género eliminado correctamente",
	}

	Directores = Esquema{
		Tabla:               "directores",
		ColumnaMedia:        "director_id",
		ConEstado:           true,
		MensajeNoEncontrado: "Director no encontrado",
		MensajeEnUso:        "No se puede eliminar el director, está en uso por alguna película o serie.",
		MensajeEliminado:    "Director eliminado correctamente",
	}

	Productoras = Esquema{
		Tabla:                "productoras",
		ColumnaMedia:         "productora_id",
		ConEstado:            true,
		ConDescripcion:       true,
		ConSlogan:            true,
		DescripcionRequerida: true,
		ActualizacionParcial: true,
		MensajeNoEncontrado:  "Productora no encontrada",
		MensajeEnUso:         "No se puede eliminar la productora, está en uso por alguna película o serie.",
		MensajeEliminado:     "Productora eliminada correctamente",
	}

	Tipos = Esquema{
		Tabla:                "tipos",
		ColumnaMedia:         "tipo_id",
		ConDescripcion:       true,
		DescripcionRequerida: true,
		MensajeNoEncontrado:  "Tipo no encontrado",
		MensajeEnUso:         "No se puede eliminar el tipo, está en uso por alguna película o serie.",
		MensajeEliminado:     "Tipo eliminado correctamente",
	}
)

// Esquemas lists every reference kind, in route order.
func Esquemas() []Esquema {
	return []Esquema{Generos, Directores, Productoras, Tipos}
}

// BuscarReferencia loads one entity of the given kind. A missing row is
// reported as (nil, nil) so callers can turn it into their own error kind.
func BuscarReferencia(db *gorm.DB, esq Esquema, id uuid.UUID) (*Referencia, error) {
	var ref Referencia
	err := db.Table(esq.Tabla).Where("id = ?", id).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
