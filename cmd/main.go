// Package main runs the account transaction ledger API.
package main

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/go-anri/tx-ledger/cmd/httpserver"
	"github.com/go-anri/tx-ledger/internal/middleware"
	"github.com/go-anri/tx-ledger/internal/notifierrmq"
	"github.com/go-anri/tx-ledger/pkg/configpkg"
	"github.com/go-anri/tx-ledger/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	notifier, err := notifierrmq.New(config.AMQPSource, config.AMQPExchange)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to message broker")
	}
	defer notifier.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddress})
	defer redisClient.Close()

	server, err := httpserver.New(db, notifier, redisClient, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("LEDGER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
