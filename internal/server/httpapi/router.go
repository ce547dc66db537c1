package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/tyrekeeper/internal/logging"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/auth"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/models"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, in services.Credentials) (*models.User, error)
	Login(ctx context.Context, in services.Credentials) (string, error)
}

type TyreService interface {
	Create(ctx context.Context, id auth.Identity, in services.TyreInput) (*models.Tyre, error)
	List(ctx context.Context, id auth.Identity) ([]models.Tyre, error)
	Update(ctx context.Context, id auth.Identity, tyreID int64, in services.TyreInput) (*models.Tyre, error)
	Delete(ctx context.Context, id auth.Identity, tyreID int64) error
}

// Pinger reports store reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig carries every dependency of the router.
type RouterConfig struct {
	Users     UserService
	Tyres     TyreService
	DB        Pinger
	SecretKey []byte
	Logger    logging.Logger
}

// NewRouter builds the gin engine with the full middleware pipeline:
// recovery, request id, access log, CORS, error responder and, for /tyres,
// bearer authentication.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger.With("module", "http")

	router := gin.New()
	router.Use(recovery(log))
	router.Use(requestID())
	router.Use(requestLogger(log))
	router.Use(corsAllowAll())
	router.Use(errorResponder(log))

	h := &handlers{users: cfg.Users, tyres: cfg.Tyres, db: cfg.DB}

	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/health", h.health)

	tyres := router.Group("/tyres", authenticate(cfg.SecretKey))
	tyres.POST("", h.createTyre)
	tyres.GET("", h.listTyres)
	tyres.PUT("/:id", h.updateTyre)
	tyres.DELETE("/:id", h.deleteTyre)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}
