package relay

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"shelterly/server/internal/models"
)

func TestNewNotificationQueue(t *testing.T) {
	logger := logrus.New()
	q := NewNotificationQueue(10, logger)
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestNotificationQueue_Push(t *testing.T) {
	logger := logrus.New()
	q := NewNotificationQueue(2, logger)

	// Test successful push
	batch := []*models.Notification{{ID: "n-1"}}
	err := q.Push(batch)
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	// Test queue full
	for i := 0; i < 2; i++ {
		_ = q.Push([]*models.Notification{{ID: "n"}})
	}
	err = q.Push(batch)
	assert.Equal(t, ErrQueueFull, err)

	// Test closed queue
	q.Close()
	err = q.Push(batch)
	assert.Equal(t, ErrQueueClosed, err)
}

func TestNotificationQueue_Subscribe(t *testing.T) {
	logger := logrus.New()
	q := NewNotificationQueue(10, logger)

	var processed []*models.Notification
	var mu sync.Mutex

	q.Subscribe(func(batch []*models.Notification) error {
		mu.Lock()
		processed = append(processed, batch...)
		mu.Unlock()
		return nil
	})

	q.Start()

	testBatch := []*models.Notification{{ID: "n-1"}, {ID: "n-2"}}
	err := q.Push(testBatch)
	assert.NoError(t, err)

	// Wait for processing
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 2, len(processed))
	assert.Equal(t, "n-1", processed[0].ID)
	assert.Equal(t, "n-2", processed[1].ID)
	mu.Unlock()
}

func TestNotificationQueue_Close(t *testing.T) {
	logger := logrus.New()
	q := NewNotificationQueue(10, logger)

	err := q.Close()
	assert.NoError(t, err)
	assert.True(t, q.IsClosed())

	// Second close is a no-op
	err = q.Close()
	assert.NoError(t, err)
}

func TestNotificationQueue_ProcessBatch(t *testing.T) {
	logger := logrus.New()
	q := NewNotificationQueue(10, logger)

	var wg sync.WaitGroup
	processedBatches := 0
	var mu sync.Mutex

	// Every subscribed handler sees every batch
	for i := 0; i < 3; i++ {
		wg.Add(1)
		q.Subscribe(func(batch []*models.Notification) error {
			mu.Lock()
			processedBatches++
			mu.Unlock()
			wg.Done()
			return nil
		})
	}

	q.Start()

	err := q.Push([]*models.Notification{{ID: "n-1"}})
	assert.NoError(t, err)

	wg.Wait()

	mu.Lock()
	assert.Equal(t, 3, processedBatches)
	mu.Unlock()
}
