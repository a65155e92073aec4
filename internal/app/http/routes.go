package routes

import (
	authapi "peliculas-api/internal/api/auth"
	mediaapi "peliculas-api/internal/api/media"
	"peliculas-api/internal/api/referencias"
	usuariosapi "peliculas-api/internal/api/usuarios"
	"peliculas-api/internal/app/http/middleware"
	"peliculas-api/internal/domain/catalogo"
	"peliculas-api/internal/domain/usuarios"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterRoutes wires every handler onto the engine. The storage handle
// and logger come in from main; nothing here reaches for globals.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, log *zap.SugaredLogger, secretoJWT string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler := authapi.NewHandler(db, log, secretoJWT)
	usuariosHandler := usuariosapi.NewHandler(db, log)
	mediaHandler := mediaapi.NewHandler(db, log)

	// Public: credential exchange and registration, sanitized input.
	public := r.Group("/")
	public.Use(middleware.SanitizeInputMiddleware())
	public.POST("/auth", authHandler.Login)
	public.POST("/usuario", usuariosHandler.Registrar)

	autenticado := middleware.AuthMiddleware(secretoJWT)
	soloAdmin := middleware.RequireRol(usuarios.RolAdministrador)

	r.GET("/usuario", autenticado, soloAdmin, usuariosHandler.Listar)

	// Reference entities: one generic handler per kind, all admin-gated.
	kinds := []struct {
		ruta string
		esq  catalogo.Esquema
	}{
		{"/genero", catalogo.Generos},
		{"/director", catalogo.Directores},
		{"/productora", catalogo.Productoras},
		{"/tipo", catalogo.Tipos},
	}
	for _, k := range kinds {
		h := referencias.NewHandler(db, log, k.esq)
		g := r.Group(k.ruta, autenticado, soloAdmin)
		g.GET("", h.Listar)
		g.POST("", h.Crear)
		g.PUT("/:id", h.Actualizar)
		g.DELETE("/:id", h.Eliminar)
	}

	// Media: any authenticated role, no delete route.
	m := r.Group("/media", autenticado)
	m.GET("", mediaHandler.Listar)
	m.POST("", mediaHandler.Crear)
	m.PUT("/:id", mediaHandler.Actualizar)
}
