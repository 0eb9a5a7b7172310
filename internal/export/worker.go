package export

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"labbook/internal/booking"
	"labbook/internal/queue"
)

// Lister pages bookings out of storage. *booking.Repository satisfies it.
type Lister interface {
	List(ctx context.Context, f booking.Filter) ([]booking.Booking, error)
}

// Sink parks a rendered export under its job key until it expires.
type Sink interface {
	Store(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// RedisSink stores exports in Redis.
type RedisSink struct {
	Client *redis.Client
}

// Store writes the export with a TTL.
func (s RedisSink) Store(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.Client.Set(ctx, key, data, ttl).Err()
}

const defaultPageSize = 1000

// Worker consumes export jobs from the queue, renders the CSVs and hands them
// to the sink. One Worker runs per process; the API runs one in-process when
// the queue backend is the in-memory channel, which no other process can read.
type Worker struct {
	Jobs     queue.Queue
	Bookings Lister
	Sink     Sink
	TTL      time.Duration
	PageSize int
}

// Run processes jobs until ctx is cancelled.
func (w Worker) Run(ctx context.Context) error {
	messages, err := w.Jobs.Consume(ctx)
	if err != nil {
		return err
	}
	for msg := range messages {
		if msg.Type != MsgBookings {
			continue
		}
		jobID := string(msg.Body)
		log.Printf("processing export %s", jobID)

		bookings, err := w.collect(ctx)
		if err != nil {
			log.Printf("export %s: list bookings failed: %v", jobID, err)
			continue
		}
		data, err := BuildCSV(bookings)
		if err != nil {
			log.Printf("export %s: render failed: %v", jobID, err)
			continue
		}
		if err := w.Sink.Store(ctx, Key(jobID), data, w.TTL); err != nil {
			log.Printf("export %s: store failed: %v", jobID, err)
			continue
		}
		log.Printf("export %s ready (%d bookings)", jobID, len(bookings))
	}
	return nil
}

// collect pages through the repository so the export covers every booking,
// not just the first batch.
func (w Worker) collect(ctx context.Context) ([]booking.Booking, error) {
	size := w.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	var all []booking.Booking
	for offset := 0; ; offset += size {
		page, err := w.Bookings.List(ctx, booking.Filter{Limit: size, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < size {
			return all, nil
		}
	}
}
