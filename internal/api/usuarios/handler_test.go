package usuarios

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"peliculas-api/database"
	"peliculas-api/internal/domain/usuarios"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func enrutador(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(db, zap.NewNop().Sugar())
	r.POST("/usuario", h.Registrar)
	r.GET("/usuario", h.Listar)
	return r
}

func hacer(r *gin.Engine, metodo, ruta string, cuerpo any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(cuerpo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(metodo, ruta, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegistrar(t *testing.T) {
	db := abrirDB(t)
	r := enrutador(db)

	w := hacer(r, http.MethodPost, "/usuario", gin.H{
		"nombre": "Santiago", "email": "santiago@ejemplo.co", "password": "clave1234",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var u usuarios.Usuario
	require.NoError(t, db.Where("email = ?", "santiago@ejemplo.co").First(&u).Error)
	assert.Equal(t, usuarios.RolUsuario, u.Rol, "rol defaults to Usuario")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("clave1234")))
	assert.NotContains(t, w.Body.String(), u.Password, "the hash never leaves the server")
}

func TestRegistrarCamposInvalidos(t *testing.T) {
	db := abrirDB(t)
	r := enrutador(db)

	w := hacer(r, http.MethodPost, "/usuario", gin.H{
		"email": "malo", "password": "corta", "rol": "SuperJefe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errores []struct {
			Campo string `json:"campo"`
		} `json:"errores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	campos := make([]string, 0, len(resp.Errores))
	for _, e := range resp.Errores {
		campos = append(campos, e.Campo)
	}
	assert.ElementsMatch(t, []string{"nombre", "email", "password", "rol"}, campos)
}

func TestRegistrarEmailDuplicado(t *testing.T) {
	db := abrirDB(t)
	r := enrutador(db)

	cuerpo := gin.H{"nombre": "Santiago", "email": "santiago@ejemplo.co", "password": "clave1234"}
	w := hacer(r, http.MethodPost, "/usuario", cuerpo)
	require.Equal(t, http.StatusOK, w.Code)

	w = hacer(r, http.MethodPost, "/usuario", cuerpo)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ya está registrado")

	var n int64
	db.Model(&usuarios.Usuario{}).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestListar(t *testing.T) {
	db := abrirDB(t)
	r := enrutador(db)

	hacer(r, http.MethodPost, "/usuario", gin.H{
		"nombre": "Ana", "email": "ana@ejemplo.co", "password": "clave1234",
		"rol": usuarios.RolAdministrador,
	})
	hacer(r, http.MethodPost, "/usuario", gin.H{
		"nombre": "Beto", "email": "beto@ejemplo.co", "password": "clave1234",
	})

	w := hacer(r, http.MethodGet, "/usuario", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lista []usuarios.Usuario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lista))
	assert.Len(t, lista, 2)
	assert.NotContains(t, w.Body.String(), "password")
}
