package usuarios

import (
	"net/http"
	"time"

	"peliculas-api/internal/api/auth"
	"peliculas-api/internal/api/validacion"
	"peliculas-api/internal/domain/usuarios"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handler struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewHandler(db *gorm.DB, log *zap.SugaredLogger) *Handler {
	return &Handler{db: db, log: log}
}

// Registrar creates an account. The rol defaults to Usuario; only known
// roles are accepted. The stored password is a bcrypt hash, never echoed.
func (h *Handler) Registrar(c *gin.Context) {
	var input struct {
		Nombre   string `json:"nombre"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Rol      string `json:"rol"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Cuerpo inválido"})
		return
	}

	var errs validacion.Errores
	if input.Nombre == "" {
		errs.Agregar("nombre", "El nombre es requerido")
	}
	if !auth.EmailValido(input.Email) {
		errs.Agregar("email", "invalid.email")
	}
	if len(input.Password) < 8 {
		errs.Agregar("password", "La contraseña debe tener al menos 8 caracteres")
	}
	if input.Rol == "" {
		input.Rol = usuarios.RolUsuario
	}
	if !usuarios.RolValido(input.Rol) {
		errs.Agregar("rol", "Rol inválido")
	}
	if len(errs) > 0 {
		validacion.Responder(c, errs)
		return
	}

	var existente usuarios.Usuario
	if err := h.db.Where("email = ?", input.Email).First(&existente).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "El email ya está registrado"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Errorw("hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "Ocurrió un error al crear usuario"})
		return
	}

	now := time.Now()
	usuario := usuarios.Usuario{
		ID:                 uuid.New(),
		Nombre:             input.Nombre,
		Email:              input.Email,
		Password:           string(hashed),
		Rol:                input.Rol,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}

	if err := h.db.Create(&usuario).Error; err != nil {
		// The unique index on email catches a registration race.
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "El email ya está registrado"})
		return
	}

	c.JSON(http.StatusOK, usuario)
}

// Listar returns every account without password hashes. Admin only.
func (h *Handler) Listar(c *gin.Context) {
	var lista []usuarios.Usuario
	if err := h.db.Order("fecha_creacion").Find(&lista).Error; err != nil {
		h.log.Errorw("listar usuarios", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "Ocurrió un error al obtener los usuarios"})
		return
	}
	c.JSON(http.StatusOK, lista)
}
