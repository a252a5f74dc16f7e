package collector

import (
	"context"
	"fmt"

	"tickcollector/config"
	"tickcollector/internal/ftxus/aggregate"
	"tickcollector/internal/ftxus/bootstrap"
	"tickcollector/internal/ftxus/flush"
	"tickcollector/internal/ftxus/persist"
	"tickcollector/internal/ftxus/stream"
	"tickcollector/pkg/ftxus"
	"tickcollector/pkg/storage/postgres"

	"go.uber.org/zap"
)

// StartCollector initializes the tick-to-candlestick pipeline: storage,
// startup state, the persistence worker, the periodic flusher, and the
// websocket ticker stream feeding the router. It returns once the stream
// is connected; the pipeline then runs until ctx is cancelled.
func StartCollector(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {

	// Initialize PostgreSQL client and schema
	postgresClient, err := postgres.InitializeAndMigrate(cfg.Postgres, cfg.Log.Environment, true)
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}

	restClient := ftxus.NewRESTClient(cfg.Exchange.REST.BaseURL, cfg.Exchange.REST.Timeout)

	// Build instrument/timeframe state, seeded from persisted bars
	state, err := bootstrap.Run(ctx, cfg, postgresClient, restClient, logger)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	// Outbound persistence queue for rollover and heartbeat writes
	worker := persist.NewWorker(cfg.Exchange.Name, postgresClient, cfg.Aggregate.QueueSize, logger)
	worker.Start(ctx)

	router := aggregate.NewRouter(state.Markets, state.Registry, worker,
		cfg.Aggregate.HeartbeatThreshold, cfg.Log.Verbose, logger)

	// Periodic total flush of quotes and open bars
	flusher := flush.NewFlusher(cfg.Exchange.Name, state.Markets, state.Registry,
		postgresClient, cfg.Aggregate.FlushInterval, logger)
	go flusher.Run(ctx)

	// Connect to the ticker stream
	wsClient := ftxus.NewWSClient(cfg.Exchange.WS.URL, cfg.Feed.InstrumentList(), logger)
	wsClient.SetMessageHandler(stream.MakeMessageHandler(logger, router))

	if err := wsClient.Connect(); err != nil {
		return err
	}
	go wsClient.Listen() // explicitly start listener

	return nil
}
