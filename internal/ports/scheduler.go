package ports

import (
	"sync"
	"time"
)

type Timer interface {
	Stop()
}

// Scheduler runs fn every interval until the returned Timer is stopped.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Timer
}

type SystemScheduler struct{}

var _ Scheduler = SystemScheduler{}

func (SystemScheduler) Every(interval time.Duration, fn func()) Timer {
	t := &tickerTimer{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
			}

			select {
			case <-t.stop:
				return
			default:
				fn()
			}
		}
	}()

	return t
}

type tickerTimer struct {
	once sync.Once
	stop chan struct{}
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() { close(t.stop) })
}
