package media

import (
	"errors"
	"net/http"
	"time"

	"peliculas-api/internal/api/validacion"
	"peliculas-api/internal/domain/catalogo"
	"peliculas-api/internal/domain/usuarios"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewHandler(db *gorm.DB, log *zap.SugaredLogger) *Handler {
	return &Handler{db: db, log: log}
}

func (h *Handler) fallo(c *gin.Context, operacion string, err error) {
	h.log.Errorw("media "+operacion, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "Ocurrió un error"})
}

// resolverReferencia parses and loads one reference field, appending a
// field error when the id is malformed, dangling, or (for kinds with a
// lifecycle state) not Activo. Returns uuid.Nil when the field failed.
func (h *Handler) resolverReferencia(campo, valor string, esq catalogo.Esquema, mensaje string, errs *validacion.Errores) uuid.UUID {
	id, err := uuid.Parse(valor)
	if err != nil {
		errs.Agregar(campo, mensaje)
		return uuid.Nil
	}
	ref, err := catalogo.BuscarReferencia(h.db, esq, id)
	if err != nil {
		errs.Agregar(campo, mensaje)
		return uuid.Nil
	}
	if ref == nil || !ref.Activa() {
		errs.Agregar(campo, mensaje)
		return uuid.Nil
	}
	return id
}

func (h *Handler) resolverUsuario(valor string, errs *validacion.Errores) *uuid.UUID {
	id, err := uuid.Parse(valor)
	if err != nil {
		errs.Agregar("usuario", "Usuario no válido")
		return nil
	}
	var u usuarios.Usuario
	if err := h.db.Where("id = ?", id).First(&u).Error; err != nil {
		errs.Agregar("usuario", "Usuario no válido")
		return nil
	}
	return &id
}

type cuerpoCrear struct {
	Serial      string `json:"serial"`
	Titulo      string `json:"titulo"`
	Sinopsis    string `json:"sinopsis"`
	URL         string `json:"url"`
	Imagen      string `json:"imagen"`
	AnioEstreno int    `json:"anioEstreno"`
	Usuario     string `json:"usuario"`
	Genero      string `json:"genero"`
	Director    string `json:"director"`
	Productora  string `json:"productora"`
	Tipo        string `json:"tipo"`
}

// Listar returns every record with its references resolved to name-only
// summaries, in the shape the original populate() produced.
func (h *Handler) Listar(c *gin.Context) {
	var medias []catalogo.Media
	if err := h.db.Order("fecha_creacion").Find(&medias).Error; err != nil {
		h.fallo(c, "listar", err)
		return
	}

	generos, err := h.resumenesDe(catalogo.Generos, medias, func(m catalogo.Media) uuid.UUID { return m.GeneroID })
	if err != nil {
		h.fallo(c, "listar", err)
		return
	}
	directores, err := h.resumenesDe(catalogo.Directores, medias, func(m catalogo.Media) uuid.UUID { return m.DirectorID })
	if err != nil {
		h.fallo(c, "listar", err)
		return
	}
	productoras, err := h.resumenesDe(catalogo.Productoras, medias, func(m catalogo.Media) uuid.UUID { return m.ProductoraID })
	if err != nil {
		h.fallo(c, "listar", err)
		return
	}
	tipos, err := h.resumenesDe(catalogo.Tipos, medias, func(m catalogo.Media) uuid.UUID { return m.TipoID })
	if err != nil {
		h.fallo(c, "listar", err)
		return
	}
	duenos, err := h.resumenesDeUsuarios(medias)
	if err != nil {
		h.fallo(c, "listar", err)
		return
	}

	out := make([]MediaDTO, 0, len(medias))
	for _, m := range medias {
		dto := MediaDTO{
			ID:                 m.ID,
			Serial:             m.Serial,
			Titulo:             m.Titulo,
			Sinopsis:           m.Sinopsis,
			URL:                m.URL,
			Imagen:             m.Imagen,
			AnioEstreno:        m.AnioEstreno,
			Genero:             generos[m.GeneroID],
			Director:           directores[m.DirectorID],
			Productora:         productoras[m.ProductoraID],
			Tipo:               tipos[m.TipoID],
			FechaCreacion:      m.FechaCreacion,
			FechaActualizacion: m.FechaActualizacion,
		}
		if m.UsuarioID != nil {
			dto.Usuario = duenos[*m.UsuarioID]
		}
		out = append(out, dto)
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) resumenesDe(esq catalogo.Esquema, medias []catalogo.Media, idDe func(catalogo.Media) uuid.UUID) (map[uuid.UUID]*ReferenciaResumen, error) {
	ids := make([]uuid.UUID, 0, len(medias))
	vistos := make(map[uuid.UUID]bool, len(medias))
	for _, m := range medias {
		id := idDe(m)
		if !vistos[id] {
			vistos[id] = true
			ids = append(ids, id)
		}
	}

	resumen := make(map[uuid.UUID]*ReferenciaResumen, len(ids))
	if len(ids) == 0 {
		return resumen, nil
	}

	var refs []catalogo.Referencia
	if err := h.db.Table(esq.Tabla).Where("id IN ?", ids).Find(&refs).Error; err != nil {
		return nil, err
	}
	for _, r := range refs {
		resumen[r.ID] = &ReferenciaResumen{ID: r.ID, Nombre: r.Nombre}
	}
	return resumen, nil
}

func (h *Handler) resumenesDeUsuarios(medias []catalogo.Media) (map[uuid.UUID]*UsuarioResumen, error) {
	ids := make([]uuid.UUID, 0, len(medias))
	vistos := make(map[uuid.UUID]bool, len(medias))
	for _, m := range medias {
		if m.UsuarioID == nil || vistos[*m.UsuarioID] {
			continue
		}
		vistos[*m.UsuarioID] = true
		ids = append(ids, *m.UsuarioID)
	}

	resumen := make(map[uuid.UUID]*UsuarioResumen, len(ids))
	if len(ids) == 0 {
		return resumen, nil
	}

	var lista []usuarios.Usuario
	if err := h.db.Where("id IN ?", ids).Find(&lista).Error; err != nil {
		return nil, err
	}
	for _, u := range lista {
		resumen[u.ID] = &UsuarioResumen{ID: u.ID, Nombre: u.Nombre, Email: u.Email}
	}
	return resumen, nil
}

// Crear validates every plain field and resolves every reference before
// anything touches the store: género, director and productora must exist
// and be Activo, the tipo must exist, the owner (when supplied) must exist.
func (h *Handler) Crear(c *gin.Context) {
	var in cuerpoCrear
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Cuerpo inválido"})
		return
	}

	var errs validacion.Errores
	if in.Serial == "" {
		errs.Agregar("serial", "El serial es requerido")
	}
	if in.Titulo == "" {
		errs.Agregar("titulo", "El título es requerido")
	}
	if in.Sinopsis == "" {
		errs.Agregar("sinopsis", "La sinopsis es requerida")
	}
	if in.URL == "" {
		errs.Agregar("url", "La URL es requerida")
	}
	if in.Imagen == "" {
		errs.Agregar("imagen", "La imagen es requerida")
	}
	if in.AnioEstreno <= 0 {
		errs.Agregar("anioEstreno", "El año de estreno es requerido")
	}

	media := catalogo.Media{}
	if in.Usuario != "" {
		media.UsuarioID = h.resolverUsuario(in.Usuario, &errs)
	}
	if in.Genero == "" {
		errs.Agregar("genero", "El género es requerido")
	} else {
		media.GeneroID = h.resolverReferencia("genero", in.Genero, catalogo.Generos, "Género no válido o inactivo", &errs)
	}
	if in.Director == "" {
		errs.Agregar("director", "El director es requerido")
	} else {
		media.DirectorID = h.resolverReferencia("director", in.Director, catalogo.Directores, "Director no válido o inactivo", &errs)
	}
	if in.Productora == "" {
		errs.Agregar("productora", "La productora es requerida")
	} else {
		media.ProductoraID = h.resolverReferencia("productora", in.Productora, catalogo.Productoras, "Productora no válida o inactiva", &errs)
	}
	if in.Tipo == "" {
		errs.Agregar("tipo", "El tipo es requerido")
	} else {
		media.TipoID = h.resolverReferencia("tipo", in.Tipo, catalogo.Tipos, "Tipo no válido", &errs)
	}
	if len(errs) > 0 {
		validacion.Responder(c, errs)
		return
	}

	var existente catalogo.Media
	if err := h.db.Where("serial = ?", in.Serial).First(&existente).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Ya existe el serial para otra media"})
		return
	}
	if err := h.db.Where("url = ?", in.URL).First(&existente).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Ya existe la URL para otra media"})
		return
	}

	now := time.Now()
	media.ID = uuid.New()
	media.Serial = in.Serial
	media.Titulo = in.Titulo
	media.Sinopsis = in.Sinopsis
	media.URL = in.URL
	media.Imagen = in.Imagen
	media.AnioEstreno = in.AnioEstreno
	media.FechaCreacion = now
	media.FechaActualizacion = now

	if err := h.db.Create(&media).Error; err != nil {
		// Two concurrent creates can both pass the pre-check; the unique
		// index decides and the loser gets the same conflict response.
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Ya existe el serial para otra media"})
		return
	}

	c.JSON(http.StatusOK, media)
}

type cuerpoParche struct {
	Serial      *string `json:"serial"`
	Titulo      *string `json:"titulo"`
	Sinopsis    *string `json:"sinopsis"`
	URL         *string `json:"url"`
	Imagen      *string `json:"imagen"`
	AnioEstreno *int    `json:"anioEstreno"`
	Usuario     *string `json:"usuario"`
	Genero      *string `json:"genero"`
	Director    *string `json:"director"`
	Productora  *string `json:"productora"`
	Tipo        *string `json:"tipo"`
}

// Actualizar applies a patch: absent fields keep their stored value. Any
// supplied reference goes through the same existence and Activo checks as
// on create.
func (h *Handler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "Media no existe"})
		return
	}

	var media catalogo.Media
	err = h.db.Where("id = ?", id).First(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "Media no existe"})
		return
	}
	if err != nil {
		h.fallo(c, "actualizar", err)
		return
	}

	var in cuerpoParche
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Cuerpo inválido"})
		return
	}

	var errs validacion.Errores
	if in.Serial != nil && *in.Serial == "" {
		errs.Agregar("serial", "El serial es requerido")
	}
	if in.Titulo != nil && *in.Titulo == "" {
		errs.Agregar("titulo", "El título es requerido")
	}
	if in.Sinopsis != nil && *in.Sinopsis == "" {
		errs.Agregar("sinopsis", "La sinopsis es requerida")
	}
	if in.URL != nil && *in.URL == "" {
		errs.Agregar("url", "La URL es requerida")
	}
	if in.Imagen != nil && *in.Imagen == "" {
		errs.Agregar("imagen", "La imagen es requerida")
	}
	if in.AnioEstreno != nil && *in.AnioEstreno <= 0 {
		errs.Agregar("anioEstreno", "El año de estreno es requerido")
	}

	var nuevoUsuario *uuid.UUID
	if in.Usuario != nil {
		nuevoUsuario = h.resolverUsuario(*in.Usuario, &errs)
	}
	var nuevoGenero, nuevoDirector, nuevaProductora, nuevoTipo uuid.UUID
	if in.Genero != nil {
		nuevoGenero = h.resolverReferencia("genero", *in.Genero, catalogo.Generos, "Género no válido o inactivo", &errs)
	}
	if in.Director != nil {
		nuevoDirector = h.resolverReferencia("director", *in.Director, catalogo.Directores, "Director no válido o inactivo", &errs)
	}
	if in.Productora != nil {
		nuevaProductora = h.resolverReferencia("productora", *in.Productora, catalogo.Productoras, "Productora no válida o inactiva", &errs)
	}
	if in.Tipo != nil {
		nuevoTipo = h.resolverReferencia("tipo", *in.Tipo, catalogo.Tipos, "Tipo no válido", &errs)
	}
	if len(errs) > 0 {
		validacion.Responder(c, errs)
		return
	}

	if in.Serial != nil {
		var existente catalogo.Media
		if err := h.db.Where("serial = ? AND id <> ?", *in.Serial, media.ID).First(&existente).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Ya existe el serial para otra media"})
			return
		}
		media.Serial = *in.Serial
	}
	if in.URL != nil {
		var existente catalogo.Media
		if err := h.db.Where("url = ? AND id <> ?", *in.URL, media.ID).First(&existente).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Ya existe la URL para otra media"})
			return
		}
		media.URL = *in.URL
	}
	if in.Titulo != nil {
		media.Titulo = *in.Titulo
	}
	if in.Sinopsis != nil {
		media.Sinopsis = *in.Sinopsis
	}
	if in.Imagen != nil {
		media.Imagen = *in.Imagen
	}
	if in.AnioEstreno != nil {
		media.AnioEstreno = *in.AnioEstreno
	}
	if in.Usuario != nil {
		media.UsuarioID = nuevoUsuario
	}
	if in.Genero != nil {
		media.GeneroID = nuevoGenero
	}
	if in.Director != nil {
		media.DirectorID = nuevoDirector
	}
	if in.Productora != nil {
		media.ProductoraID = nuevaProductora
	}
	if in.Tipo != nil {
		media.TipoID = nuevoTipo
	}
	media.FechaActualizacion = time.Now()

	if err := h.db.Save(&media).Error; err != nil {
		h.fallo(c, "actualizar", err)
		return
	}

	c.JSON(http.StatusOK, media)
}
