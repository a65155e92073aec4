// Package referencias serves the four lookup kinds (género, director,
// productora, tipo) with one handler parametrized by a catalogo.Esquema.
// The kinds differ only in field set, lifecycle state and update mode, so
// the descriptor carries those differences instead of four copied routers.
package referencias

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"peliculas-api/internal/api/validacion"
	"peliculas-api/internal/domain/catalogo"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	esq catalogo.Esquema
}

func NewHandler(db *gorm.DB, log *zap.SugaredLogger, esq catalogo.Esquema) *Handler {
	return &Handler{db: db, log: log, esq: esq}
}

type cuerpoCrear struct {
	Nombre             string     `json:"nombre"`
	Descripcion        *string    `json:"descripcion"`
	Slogan             *string    `json:"slogan"`
	Estado             *string    `json:"estado"`
	FechaCreacion      *time.Time `json:"fechaCreacion"`
	FechaActualizacion *time.Time `json:"fechaActualizacion"`
}

// cuerpoParche distinguishes "not supplied" (nil) from an explicit value,
// so a field can be cleared without being confused with an omission.
type cuerpoParche struct {
	Nombre      *string `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Slogan      *string `json:"slogan"`
	Estado      *string `json:"estado"`
}

func (h *Handler) validar(in cuerpoCrear) validacion.Errores {
	var errs validacion.Errores
	if strings.TrimSpace(in.Nombre) == "" {
		errs.Agregar("nombre", "El nombre es requerido")
	}
	if h.esq.ConEstado && (in.Estado == nil || !catalogo.EstadoValido(*in.Estado)) {
		errs.Agregar("estado", "Estado inválido")
	}
	if h.esq.DescripcionRequerida && (in.Descripcion == nil || *in.Descripcion == "") {
		errs.Agregar("descripcion", "La descripción es requerida")
	}
	if h.esq.ConSlogan && (in.Slogan == nil || *in.Slogan == "") {
		errs.Agregar("slogan", "El slogan es requerido")
	}
	return errs
}

func (h *Handler) fallo(c *gin.Context, operacion string, err error) {
	h.log.Errorw("referencia "+operacion, "tabla", h.esq.Tabla, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "Ocurrió un error"})
}

func (h *Handler) Listar(c *gin.Context) {
	var refs []catalogo.Referencia
	if err := h.db.Table(h.esq.Tabla).Order("fecha_creacion").Find(&refs).Error; err != nil {
		h.fallo(c, "listar", err)
		return
	}
	c.JSON(http.StatusOK, refs)
}

func (h *Handler) Crear(c *gin.Context) {
	var in cuerpoCrear
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Cuerpo inválido"})
		return
	}

	if errs := h.validar(in); len(errs) > 0 {
		validacion.Responder(c, errs)
		return
	}

	now := time.Now()
	ref := catalogo.Referencia{
		ID:                 uuid.New(),
		Nombre:             in.Nombre,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
	// Creation may carry the timestamps over from an import; every later
	// mutation stamps them itself.
	if in.FechaCreacion != nil {
		ref.FechaCreacion = *in.FechaCreacion
	}
	if in.FechaActualizacion != nil {
		ref.FechaActualizacion = *in.FechaActualizacion
	}
	if h.esq.ConEstado {
		ref.Estado = in.Estado
	}
	if h.esq.ConDescripcion {
		ref.Descripcion = in.Descripcion
	}
	if h.esq.ConSlogan {
		ref.Slogan = in.Slogan
	}

	if err := h.db.Table(h.esq.Tabla).Create(&ref).Error; err != nil {
		h.fallo(c, "crear", err)
		return
	}

	c.JSON(http.StatusOK, ref)
}

func (h *Handler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": h.esq.MensajeNoEncontrado})
		return
	}

	var ref catalogo.Referencia
	err = h.db.Table(h.esq.Tabla).Where("id = ?", id).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": h.esq.MensajeNoEncontrado})
		return
	}
	if err != nil {
		h.fallo(c, "actualizar", err)
		return
	}

	if h.esq.ActualizacionParcial {
		h.actualizarParcial(c, &ref)
		return
	}
	h.actualizarCompleto(c, &ref)
}

// actualizarCompleto replaces every field, re-validated as on create.
func (h *Handler) actualizarCompleto(c *gin.Context, ref *catalogo.Referencia) {
	var in cuerpoCrear
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Cuerpo inválido"})
		return
	}

	if errs := h.validar(in); len(errs) > 0 {
		validacion.Responder(c, errs)
		return
	}

	ref.Nombre = in.Nombre
	if h.esq.ConEstado {
		ref.Estado = in.Estado
	}
	if h.esq.ConDescripcion {
		ref.Descripcion = in.Descripcion
	}
	if h.esq.ConSlogan {
		ref.Slogan = in.Slogan
	}
	ref.FechaActualizacion = time.Now()

	if err := h.db.Table(h.esq.Tabla).Save(ref).Error; err != nil {
		h.fallo(c, "actualizar", err)
		return
	}

	c.JSON(http.StatusOK, ref)
}

// actualizarParcial applies only the supplied fields; nil means keep.
func (h *Handler) actualizarParcial(c *gin.Context, ref *catalogo.Referencia) {
	var in cuerpoParche
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Cuerpo inválido"})
		return
	}

	var errs validacion.Errores
	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) == "" {
		errs.Agregar("nombre", "El nombre es requerido")
	}
	if in.Estado != nil && !catalogo.EstadoValido(*in.Estado) {
		errs.Agregar("estado", "Estado inválido")
	}
	if len(errs) > 0 {
		validacion.Responder(c, errs)
		return
	}

	if in.Nombre != nil {
		ref.Nombre = *in.Nombre
	}
	if in.Estado != nil && h.esq.ConEstado {
		ref.Estado = in.Estado
	}
	if in.Descripcion != nil && h.esq.ConDescripcion {
		ref.Descripcion = in.Descripcion
	}
	if in.Slogan != nil && h.esq.ConSlogan {
		ref.Slogan = in.Slogan
	}
	ref.FechaActualizacion = time.Now()

	if err := h.db.Table(h.esq.Tabla).Save(ref).Error; err != nil {
		h.fallo(c, "actualizar", err)
		return
	}

	c.JSON(http.StatusOK, ref)
}

// Eliminar refuses to remove an entity while any Media row still points at
// it; the caller gets the per-kind conflict message and the row survives.
func (h *Handler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": h.esq.MensajeNoEncontrado})
		return
	}

	enUso, err := catalogo.MediaQueReferencia(h.db, h.esq.ColumnaMedia, id)
	if err != nil {
		h.fallo(c, "eliminar", err)
		return
	}
	if enUso > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": h.esq.MensajeEnUso})
		return
	}

	res := h.db.Table(h.esq.Tabla).Where("id = ?", id).Delete(&catalogo.Referencia{})
	if res.Error != nil {
		h.fallo(c, "eliminar", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": h.esq.MensajeNoEncontrado})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": h.esq.MensajeEliminado})
}
