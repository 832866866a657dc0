package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	saveTimeout    = 5 * time.Second
)

// ErrQueueFull is returned by Save when the worker of a client has no room.
var ErrQueueFull = errors.New("preference queue full")

type write struct {
	clientID string
	key      string
	value    string
}

// Dispatcher persists preference writes in the background. Writes are
// routed to a fixed set of workers by consistent hashing on the client id,
// so the last value a client picks is the one that ends up stored.
//
// It implements ports.PreferenceRepository: Load goes straight to the
// underlying repository, Save only enqueues.
type Dispatcher struct {
	workers []chan write
	repo    ports.PreferenceRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.PreferenceRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan write, numWorkers),
		repo:    repo,
		log:     log.With().Str("component", "preference_queue").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan write, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// when ctx is cancelled; Wait blocks until they are done.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Load reads the preferences of clientID.
func (d *Dispatcher) Load(ctx context.Context, clientID string) (domain.Preferences, error) {
	return d.repo.Load(ctx, clientID)
}

// Save enqueues one preference write. It never blocks.
func (d *Dispatcher) Save(_ context.Context, clientID, key, value string) error {
	select {
	case d.workers[d.shardIndex(clientID)] <- write{clientID: clientID, key: key, value: value}:
		return nil
	default:
		return ErrQueueFull
	}
}

// shardIndex maps a client id deterministically to a worker index.
func (d *Dispatcher) shardIndex(clientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan write) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case w := <-ch:
			d.persist(ctx, id, w)
		}
	}
}

// drain flushes what is left after shutdown with a fresh deadline.
func (d *Dispatcher) drain(id int, ch <-chan write) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	for {
		select {
		case w := <-ch:
			d.persist(ctx, id, w)
		default:
			return
		}
	}
}

func (d *Dispatcher) persist(ctx context.Context, id int, w write) {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	if err := d.repo.Save(ctx, w.clientID, w.key, w.value); err != nil {
		d.log.Error().Err(err).
			Str("client_id", w.clientID).
			Str("key", w.key).
			Int("worker_id", id).
			Msg("preference write failed")
	}
}
