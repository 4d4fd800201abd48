// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-anri/tx-ledger/internal/accountdelivery"
	"github.com/go-anri/tx-ledger/internal/accountrepo"
	"github.com/go-anri/tx-ledger/internal/accountservice"
	"github.com/go-anri/tx-ledger/internal/middleware"
	"github.com/go-anri/tx-ledger/internal/transactioncache"
	"github.com/go-anri/tx-ledger/internal/transactiondelivery"
	"github.com/go-anri/tx-ledger/internal/transactionrepo"
	"github.com/go-anri/tx-ledger/internal/transactionservice"
	"github.com/go-anri/tx-ledger/pkg/configpkg"
	"github.com/go-anri/tx-ledger/pkg/currencypkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
//
// The caller owns the database connection, the notifier and the redis
// client and closes them on shutdown.
func New(conn *sql.DB, notifier transactionservice.Notifier, redisClient *redis.Client, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)

	cache := transactioncache.New(redisClient, config.CacheDuration)

	accountService := accountservice.New(accountRepo)
	transactionService := transactionservice.New(transactionRepo, accountService, notifier, cache)

	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts/:id", accountHandler.Get)

	engine.POST("/transaction/", transactionHandler.Create)
	engine.GET("/transaction/:id", transactionHandler.Get)
	engine.GET("/transaction/account/:id", transactionHandler.ListForAccount)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("currency", currencypkg.ValidCurrency)
		if err != nil {
			return nil, errors.New("cannot register currency validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
