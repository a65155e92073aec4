// Package validacion accumulates field-level input errors so a create or
// update response can report every violated rule at once.
package validacion

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorCampo struct {
	Campo   string `json:"campo"`
	Mensaje string `json:"mensaje"`
}

type Errores []ErrorCampo

func (e *Errores) Agregar(campo, mensaje string) {
	*e = append(*e, ErrorCampo{Campo: campo, Mensaje: mensaje})
}

// Responder writes the accumulated list as a 400 response.
func Responder(c *gin.Context, errs Errores) {
	c.JSON(http.StatusBadRequest, gin.H{"errores": errs})
}
