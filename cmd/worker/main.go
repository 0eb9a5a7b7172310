package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"labbook/internal/booking"
	"labbook/internal/config"
	"labbook/internal/export"
	"labbook/internal/queue"
	"labbook/internal/store"
)

// Worker process: consumes export jobs, renders the CSVs and parks them in
// Redis for download.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		// A separate worker process cannot see the API's in-memory queue;
		// in memory mode the API runs its own worker and this process idles.
		log.Println("warning: QUEUE_BACKEND=memory is process-local; this worker will receive nothing")
		jobs = queue.NewInMemory(64)
	} else {
		jobs = queue.NewRedisQueue(redisClient.Client, "labbook:jobs")
	}

	w := export.Worker{
		Jobs:     jobs,
		Bookings: booking.NewRepository(db.Client),
		Sink:     export.RedisSink{Client: redisClient.Client},
		TTL:      cfg.ExportTTL,
	}

	log.Println("worker started, waiting for jobs...")
	if err := w.Run(ctx); err != nil {
		log.Fatalf("worker failed: %v", err)
	}
	log.Println("worker stopped")
}
