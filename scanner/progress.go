package scanner

import (
	"fmt"
	"sync"
	"time"
)

// Progress prints a single-line counter while a long scan runs.
type Progress struct {
	processed int
	errors    int
	total     int
	ticker    *time.Ticker
	done      chan bool
	mu        sync.Mutex
}

// NewProgress starts a progress display for total items.
func NewProgress(total int) *Progress {
	p := &Progress{
		total:  total,
		ticker: time.NewTicker(500 * time.Millisecond),
		done:   make(chan bool),
	}
	go p.display()
	return p
}

func (p *Progress) display() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.mu.Lock()
			if p.errors > 0 {
				fmt.Printf("\rProgress: %d/%d (Errors: %d)", p.processed, p.total, p.errors)
			} else {
				fmt.Printf("\rProgress: %d/%d", p.processed, p.total)
			}
			p.mu.Unlock()
		}
	}
}

// Add records one processed item.
func (p *Progress) Add(success bool) {
	p.mu.Lock()
	p.processed++
	if !success {
		p.errors++
	}
	p.mu.Unlock()
}

// Counts returns the processed and error totals so far.
func (p *Progress) Counts() (processed, errors int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.errors
}

// Stop ends the display.
func (p *Progress) Stop() {
	p.ticker.Stop()
	p.done <- true
	fmt.Println()
}
