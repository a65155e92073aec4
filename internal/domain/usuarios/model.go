package usuarios

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolAdministrador = "Administrador"
	RolUsuario       = "Usuario"
)

// Usuario stores system users with role-based access.
// Rol: "Administrador" | "Usuario"
type Usuario struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Nombre             string    `gorm:"not null" json:"nombre"`
	Email              string    `gorm:"not null;uniqueIndex:idx_usuarios_email" json:"email"`
	Password           string    `gorm:"not null" json:"-"`
	Rol                string    `gorm:"type:varchar(20);not null" json:"rol"`
	FechaCreacion      time.Time `json:"fechaCreacion"`
	FechaActualizacion time.Time `json:"fechaActualizacion"`
}

func (Usuario) TableName() string { return "usuarios" }

func RolValido(rol string) bool {
	return rol == RolAdministrador || rol == RolUsuario
}
