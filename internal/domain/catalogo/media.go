package catalogo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media is the aggregate record of the catalog: a movie or series pointing
// at exactly one entity of each reference kind, optionally owned by a user.
// Serial and URL are unique across the whole collection; the unique indexes
// are what keeps the invariant when two creates race past the pre-check.
type Media struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"_id"`
	Serial             string     `gorm:"not null;uniqueIndex:idx_medias_serial" json:"serial"`
	Titulo             string     `gorm:"not null" json:"titulo"`
	Sinopsis           string     `gorm:"not null" json:"sinopsis"`
	URL                string     `gorm:"not null;uniqueIndex:idx_medias_url" json:"url"`
	Imagen             string     `gorm:"not null" json:"imagen"`
	AnioEstreno        int        `gorm:"not null" json:"anioEstreno"`
	UsuarioID          *uuid.UUID `gorm:"type:uuid;index" json:"usuario,omitempty"`
	GeneroID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"genero"`
	DirectorID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"director"`
	ProductoraID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"productora"`
	TipoID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"tipo"`
	FechaCreacion      time.Time  `json:"fechaCreacion"`
	FechaActualizacion time.Time  `json:"fechaActualizacion"`
}

func (Media) TableName() string { return "medias" }

// MediaQueReferencia counts the Media rows whose given reference column
// points at id. A non-zero count blocks the delete of that reference entity.
func MediaQueReferencia(db *gorm.DB, columna string, id uuid.UUID) (int64, error) {
	var n int64
	err := db.Model(&Media{}).Where(columna+" = ?", id).Count(&n).Error
	return n, err
}
