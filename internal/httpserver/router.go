package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"game-market/internal/domain"
	purchasesvc "game-market/internal/service/purchase"
	usersvc "game-market/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UserService is the account surface used by the handlers.
type UserService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AddFriendByEmail(ctx context.Context, userID, email string) (*domain.User, error)
	ListFriends(ctx context.Context, userID string) ([]domain.UserShortInfo, error)
	AccessTTLSeconds() int
}

// PurchaseService is the purchase form surface used by the handlers.
type PurchaseService interface {
	Create(ctx context.Context, buyerID, gameKey string) (*purchasesvc.View, error)
	List(ctx context.Context, buyerID string) ([]domain.Purchase, error)
	View(ctx context.Context, buyerID, purchaseID string) (*purchasesvc.View, error)
	Apply(ctx context.Context, buyerID, purchaseID string, actions []purchasesvc.Action) (*purchasesvc.View, error)
	Submit(ctx context.Context, buyerID, purchaseID string) (*domain.Purchase, error)
}

// Deps groups the collaborators of the router.
type Deps struct {
	UserSvc        UserService
	PurchaseSvc    PurchaseService
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	ReadyChecks    []ReadyCheck
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.UserSvc == nil {
		return nil, errors.New("user service is required")
	}
	if deps.PurchaseSvc == nil {
		return nil, errors.New("purchase service is required")
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestIDMiddleware(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, deps.ReadyChecks))
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	users := &userHandlers{svc: deps.UserSvc, logger: logger}
	router.POST("/users/signup", users.signup)
	router.POST("/oauth/token", users.token)

	authed := router.Group("/", authMiddleware(deps.UserSvc))
	authed.GET("/me", users.me)
	authed.GET("/me/friends", users.listFriends)
	authed.POST("/me/friends", users.addFriend)

	purchases := &purchaseHandlers{svc: deps.PurchaseSvc, logger: logger}
	authed.GET("/purchases", purchases.list)
	authed.POST("/purchases", purchases.create)
	authed.GET("/purchases/:id", purchases.view)
	authed.POST("/purchases/:id/actions", purchases.apply)
	authed.POST("/purchases/:id/submit", purchases.submit)

	return router, nil
}
