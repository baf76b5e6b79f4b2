package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis keys for the deferred payment event queue
	RedisEventRetryKey      = "payment:events:retry"
	RedisEventDeadLetterKey = "payment:events:dead"

	// Timeout for individual Redis operations inside the loop
	eventRetryTimeout = 5 * time.Second

	// Default pause between retry sweeps
	defaultRetryInterval = 30 * time.Second

	// Default attempts before an event is parked in the dead-letter list
	defaultMaxAttempts = 5
)

// EventApplier applies one raw payment event. It is a function rather than a
// usecase reference so the retry loop stays decoupled from the payment layer;
// the bootstrap wires the payment usecase in.
type EventApplier func(ctx context.Context, rawEvent []byte) error

// retryEntry wraps a deferred event with its attempt count.
type retryEntry struct {
	Event      json.RawMessage `json:"event"`
	Attempts   int             `json:"attempts"`
	DeferredAt time.Time       `json:"deferred_at"`
}

// EventRetryService holds payment events that arrived before the row they
// correlate with (the gateway can deliver a webhook before the session
// creation response lands). Events go to a Redis list and a background loop
// re-applies them with bounded attempts; exhausted events move to a
// dead-letter list for operator inspection. One stuck event never blocks
// the others because each sweep drains the whole list.
type EventRetryService struct {
	log         *logrus.Logger
	redisClient *redis.Client
	apply       EventApplier
	interval    time.Duration
	maxAttempts int

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewEventRetryService(log *logrus.Logger, redisClient *redis.Client, apply EventApplier) *EventRetryService {
	return &EventRetryService{
		log:         log,
		redisClient: redisClient,
		apply:       apply,
		interval:    defaultRetryInterval,
		maxAttempts: defaultMaxAttempts,
		stopChan:    make(chan struct{}),
	}
}

// Start launches the background retry loop.
func (s *EventRetryService) Start() {
	s.wg.Add(1)
	go s.retryLoop()
}

// Stop terminates the retry loop and waits for the in-flight sweep.
func (s *EventRetryService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("EventRetryService stopped")
	}
}

// Defer queues an event for later application.
func (s *EventRetryService) Defer(ctx context.Context, rawEvent []byte) error {
	entry, err := json.Marshal(retryEntry{
		Event:      rawEvent,
		Attempts:   0,
		DeferredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if err := s.redisClient.RPush(ctx, RedisEventRetryKey, entry).Err(); err != nil {
		s.log.Warnf("Failed to defer payment event: %+v", err)
		return err
	}

	s.log.Infof("Payment event deferred for retry (queue=%s)", RedisEventRetryKey)
	return nil
}

func (s *EventRetryService) retryLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

// sweep drains the retry list once. Events that still fail are requeued
// with an incremented attempt count; exhausted events move to dead-letter.
func (s *EventRetryService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), eventRetryTimeout)
	pending, err := s.redisClient.LLen(ctx, RedisEventRetryKey).Result()
	cancel()
	if err != nil {
		s.log.Warnf("Failed to read retry queue length (non-fatal): %+v", err)
		return
	}

	// Bounded by the length observed at the start of the sweep so events
	// requeued during the sweep wait for the next one.
	for i := int64(0); i < pending; i++ {
		select {
		case <-s.stopChan:
			return
		default:
		}
		s.processOne()
	}
}

func (s *EventRetryService) processOne() {
	ctx, cancel := context.WithTimeout(context.Background(), eventRetryTimeout)
	defer cancel()

	raw, err := s.redisClient.LPop(ctx, RedisEventRetryKey).Result()
	if err == redis.Nil {
		return
	}
	if err != nil {
		s.log.Warnf("Failed to pop retry queue (non-fatal): %+v", err)
		return
	}

	var entry retryEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.log.Warnf("Dropping undecodable retry entry: %+v", err)
		return
	}

	applyCtx, applyCancel := context.WithTimeout(context.Background(), eventRetryTimeout)
	applyErr := s.apply(applyCtx, entry.Event)
	applyCancel()
	if applyErr == nil {
		s.log.Infof("Deferred payment event applied after %d prior attempts", entry.Attempts)
		return
	}

	entry.Attempts++
	requeued, err := json.Marshal(entry)
	if err != nil {
		s.log.Warnf("Failed to re-encode retry entry: %+v", err)
		return
	}

	key := RedisEventRetryKey
	if entry.Attempts >= s.maxAttempts {
		key = RedisEventDeadLetterKey
		s.log.Warnf("Payment event exhausted %d attempts, moving to dead-letter: %+v", entry.Attempts, applyErr)
	}

	if err := s.redisClient.RPush(ctx, key, requeued).Err(); err != nil {
		s.log.Errorf("Failed to requeue payment event (event lost): %+v", err)
	}
}
