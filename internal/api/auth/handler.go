package auth

import (
	"net/http"
	"regexp"
	"time"

	"peliculas-api/internal/api/validacion"
	"peliculas-api/internal/domain/usuarios"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func EmailValido(email string) bool {
	return emailRe.MatchString(email)
}

type Handler struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	secreto string
}

func NewHandler(db *gorm.DB, log *zap.SugaredLogger, secreto string) *Handler {
	return &Handler{db: db, log: log, secreto: secreto}
}

// Login exchanges email+password for a signed token plus an identity
// summary. Bad credentials never reveal which half was wrong beyond what
// the original API exposed.
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Cuerpo inválido"})
		return
	}

	var errs validacion.Errores
	if !EmailValido(input.Email) {
		errs.Agregar("email", "invalid.email")
	}
	if input.Password == "" {
		errs.Agregar("password", "invalid.password")
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": errs})
		return
	}

	var usuario usuarios.Usuario
	if err := h.db.Where("email = ?", input.Email).First(&usuario).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Usuario no encontrado"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Contraseña incorrecta"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   usuario.ID.String(),
		"email": usuario.Email,
		"rol":   usuario.Rol,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(h.secreto))
	if err != nil {
		h.log.Errorw("firmar token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "Ocurrió un error al iniciar sesión"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"_id":          usuario.ID,
		"nombre":       usuario.Nombre,
		"rol":          usuario.Rol,
		"email":        usuario.Email,
		"access_token": tokenString,
	})
}
