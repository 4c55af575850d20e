package relay

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"shelterly/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// NotificationQueue is an in-memory queue of freshly created notification
// records, so the API can hand records to the relay without waiting for
// the next scheduled sweep.
type NotificationQueue struct {
	items    chan []*models.Notification
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.Notification) error
}

// NewNotificationQueue creates a new queue with the specified buffer size
func NewNotificationQueue(bufferSize int, logger *logrus.Logger) *NotificationQueue {
	return &NotificationQueue{
		items:    make(chan []*models.Notification, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.Notification) error, 0),
	}
}

// Push adds a batch of notifications to the queue
func (q *NotificationQueue) Push(notifications []*models.Notification) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- notifications:
		q.logger.WithField("batch_size", len(notifications)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *NotificationQueue) Subscribe(handler func([]*models.Notification) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *NotificationQueue) Start() {
	go q.process()
}

func (q *NotificationQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

func (q *NotificationQueue) processBatch(batch []*models.Notification) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new items from being added
func (q *NotificationQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of batches in the queue
func (q *NotificationQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *NotificationQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
