package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"peliculas-api/database"
	"peliculas-api/internal/domain/usuarios"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const secretoPrueba = "secreto-de-prueba"

func levantar(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, db, zap.NewNop().Sugar(), secretoPrueba)
	return r, db
}

func pedir(r *gin.Engine, metodo, ruta, token string, cuerpo any) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if cuerpo != nil {
		b, _ := json.Marshal(cuerpo)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(metodo, ruta, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func registrarYEntrar(t *testing.T, r *gin.Engine, nombre, email, rol string) (string, uuid.UUID) {
	t.Helper()
	w := pedir(r, http.MethodPost, "/usuario", "", gin.H{
		"nombre": nombre, "email": email, "password": "clave1234", "rol": rol,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = pedir(r, http.MethodPost, "/auth", "", gin.H{"email": email, "password": "clave1234"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ID          uuid.UUID `json:"_id"`
		AccessToken string    `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken, resp.ID
}

func crearReferenciaAPI(t *testing.T, r *gin.Engine, token, ruta string, cuerpo gin.H) uuid.UUID {
	t.Helper()
	w := pedir(r, http.MethodPost, ruta, token, cuerpo)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		ID uuid.UUID `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func TestHealth(t *testing.T) {
	r, _ := levantar(t)
	w := pedir(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRutasAdminRechazanRolEstandar(t *testing.T) {
	r, _ := levantar(t)
	token, _ := registrarYEntrar(t, r, "Usuaria", "usuaria@ejemplo.co", usuarios.RolUsuario)

	// Valid credential, wrong role.
	w := pedir(r, http.MethodGet, "/genero", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No credential at all: a different failure.
	w = pedir(r, http.MethodGet, "/genero", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMediaRequiereAutenticacion(t *testing.T) {
	r, _ := levantar(t)
	w := pedir(r, http.MethodGet, "/media", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFlujoCompletoCatalogo(t *testing.T) {
	r, _ := levantar(t)

	admin, _ := registrarYEntrar(t, r, "Admin", "admin@ejemplo.co", usuarios.RolAdministrador)
	estandar, estandarID := registrarYEntrar(t, r, "Santiago", "santiago@ejemplo.co", usuarios.RolUsuario)

	genero := crearReferenciaAPI(t, r, admin, "/genero", gin.H{
		"nombre": "Drama", "descripcion": "historias serias", "estado": "Activo",
	})
	director := crearReferenciaAPI(t, r, admin, "/director", gin.H{
		"nombre": "Lucrecia Martel", "estado": "Activo",
	})
	productora := crearReferenciaAPI(t, r, admin, "/productora", gin.H{
		"nombre": "Estudio Azul", "estado": "Activo",
		"slogan": "cine para todos", "descripcion": "estudio independiente",
	})
	tipo := crearReferenciaAPI(t, r, admin, "/tipo", gin.H{
		"nombre": "Película", "descripcion": "largometraje",
	})

	// A standard user creates the media record owning it.
	w := pedir(r, http.MethodPost, "/media", estandar, gin.H{
		"serial": "S-100", "titulo": "La Ciénaga", "sinopsis": "Verano en Salta",
		"url": "https://ejemplo.co/cienaga", "imagen": "https://ejemplo.co/cienaga.jpg",
		"anioEstreno": 2001, "usuario": estandarID.String(),
		"genero": genero.String(), "director": director.String(),
		"productora": productora.String(), "tipo": tipo.String(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), estandarID.String())

	// The referenced director can no longer be deleted.
	w = pedir(r, http.MethodDelete, "/director/"+director.String(), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "está en uso")

	// An unreferenced sibling still can.
	otro := crearReferenciaAPI(t, r, admin, "/director", gin.H{
		"nombre": "Alguien Más", "estado": "Activo",
	})
	w = pedir(r, http.MethodDelete, "/director/"+otro.String(), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
