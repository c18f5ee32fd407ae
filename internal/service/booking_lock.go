package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultLockCleanupInterval = 10 * time.Minute
	defaultLockStaleThreshold  = 10 * time.Minute
)

// BookingLocker serializes bookings for the same employee inside one process.
// Cross-process safety comes from the employee row lock and the database
// exclusion constraint; this lock only keeps local contenders from queueing
// on the database.
//
// Lock ordering: acquire the employee lock first, then open the transaction.
type BookingLocker struct {
	log            *logrus.Logger
	staleThreshold time.Duration

	locks sync.Map // map[string]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // unix nanoseconds
}

// NewBookingLocker starts the background cleanup of idle locks.
// Call Stop during graceful shutdown.
func NewBookingLocker(log *logrus.Logger, cleanupInterval, staleThreshold time.Duration) *BookingLocker {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultLockCleanupInterval
	}
	if staleThreshold <= 0 {
		staleThreshold = defaultLockStaleThreshold
	}

	l := &BookingLocker{
		log:            log,
		staleThreshold: staleThreshold,
		stopChan:       make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop(cleanupInterval)

	return l
}

// Lock blocks until the caller owns the employee's booking lock and returns
// the function that releases it.
func (l *BookingLocker) Lock(companyID, employeeID uuid.UUID) func() {
	key := lockKey(companyID, employeeID)

	for {
		mt := l.get(key)
		mt.mu.Lock()

		// Cleanup may have evicted this mutex between load and lock.
		if current, ok := l.locks.Load(key); ok && current == mt {
			mt.lastUsed.Store(time.Now().UnixNano())
			return func() {
				mt.lastUsed.Store(time.Now().UnixNano())
				mt.mu.Unlock()
			}
		}
		mt.mu.Unlock()
	}
}

// Stop shuts down the cleanup goroutine. Safe to call multiple times.
func (l *BookingLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("BookingLocker stopped")
	}
}

// Len reports how many employee locks are currently tracked.
func (l *BookingLocker) Len() int {
	n := 0
	l.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (l *BookingLocker) get(key string) *mutexWithTimestamp {
	mt, _ := l.locks.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().UnixNano())
	return result
}

func (l *BookingLocker) cleanupLoop(interval time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Booking lock cleanup stopping")
			return
		case <-ticker.C:
			l.cleanupStale(time.Now())
		}
	}
}

func (l *BookingLocker) cleanupStale(now time.Time) int {
	cutoff := now.Add(-l.staleThreshold).UnixNano()
	var cleaned int

	l.locks.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		// A held mutex is in use; lastUsed is only trusted under the lock.
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoff {
				l.locks.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d idle booking locks", cleaned)
	}
	return cleaned
}

func lockKey(companyID, employeeID uuid.UUID) string {
	return companyID.String() + ":" + employeeID.String()
}
