package sim

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	journalBufferSize    = 1024                   // circular buffer size
	journalMaxPerSec     = 1000                   // global rate limit
	journalFlushSize     = 64                     // entries per batch write
	journalFlushInterval = 100 * time.Millisecond // how often to flush
)

// JournalEntry is one line of the run journal: exactly one of the event
// payloads is set, discriminated by Type.
type JournalEntry struct {
	Sequence uint64    `json:"seq"`
	Type     string    `json:"type"`
	Time     time.Time `json:"time"`

	Death   *DeathEvent   `json:"death,omitempty"`
	LevelUp *LevelUpEvent `json:"levelUp,omitempty"`
	Kills   int           `json:"kills,omitempty"`
}

// Journal is a bounded, rate-limited JSONL sink for engine events.
// Emission never blocks the tick goroutine: entries land in a circular
// buffer and an async writer batches them to disk. Under overload the
// oldest entries are dropped, never the tick.
type Journal struct {
	buffer    [journalBufferSize]JournalEntry
	writeHead uint64 // atomic - producer position
	readHead  uint64 // atomic - consumer position

	limiter *rate.Limiter

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

// NewJournal creates a stopped journal. Call Start before wiring it to
// an engine.
func NewJournal() *Journal {
	return &Journal{
		limiter:  rate.NewLimiter(journalMaxPerSec, journalMaxPerSec/10),
		stopChan: make(chan struct{}),
	}
}

// Start opens the output file for append and begins the async writer.
// An empty path keeps the journal running but writes nowhere, which is
// the test configuration.
func (j *Journal) Start(filePath string) error {
	if j.running.Load() {
		return nil
	}
	j.filePath = filePath

	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		j.file = file
	}

	j.running.Store(true)
	j.writerWg.Add(1)
	go j.writerLoop()
	return nil
}

// Stop flushes pending entries and closes the file.
func (j *Journal) Stop() {
	j.stopOnce.Do(func() {
		j.running.Store(false)
		close(j.stopChan)
		j.writerWg.Wait()

		j.fileMu.Lock()
		if j.file != nil {
			j.file.Close()
		}
		j.fileMu.Unlock()
	})
}

// OnDeath implements EventSink.
func (j *Journal) OnDeath(event DeathEvent) {
	j.emit(JournalEntry{Type: "death", Death: &event})
}

// OnLevelUp implements EventSink.
func (j *Journal) OnLevelUp(event LevelUpEvent) {
	j.emit(JournalEntry{Type: "level_up", LevelUp: &event})
}

// OnGameOver implements EventSink.
func (j *Journal) OnGameOver(kills int) {
	j.emit(JournalEntry{Type: "game_over", Kills: kills})
}

// emit adds an entry with rate limiting. Dropped entries are counted,
// not retried.
func (j *Journal) emit(entry JournalEntry) bool {
	if !j.running.Load() {
		return false
	}
	if !j.limiter.Allow() {
		atomic.AddUint64(&j.droppedCount, 1)
		return false
	}

	head := atomic.AddUint64(&j.writeHead, 1)
	tail := atomic.LoadUint64(&j.readHead)

	// Buffer full: advance past the oldest entry (rolling window).
	if head-tail >= journalBufferSize {
		atomic.AddUint64(&j.readHead, 1)
		atomic.AddUint64(&j.droppedCount, 1)
	}

	entry.Sequence = head
	entry.Time = time.Now()
	j.buffer[head%journalBufferSize] = entry

	atomic.AddUint64(&j.totalCount, 1)
	return true
}

// Stats reports totals for monitoring.
func (j *Journal) Stats() (total, dropped uint64) {
	return atomic.LoadUint64(&j.totalCount), atomic.LoadUint64(&j.droppedCount)
}

// writerLoop batches and writes entries to disk asynchronously.
func (j *Journal) writerLoop() {
	defer j.writerWg.Done()

	ticker := time.NewTicker(journalFlushInterval)
	defer ticker.Stop()

	batch := make([]JournalEntry, 0, journalFlushSize)
	for {
		select {
		case <-j.stopChan:
			batch = j.collectBatch(batch[:0])
			if len(batch) > 0 {
				j.flushBatch(batch)
			}
			return
		case <-ticker.C:
			batch = j.collectBatch(batch[:0])
			if len(batch) > 0 {
				j.flushBatch(batch)
			}
		}
	}
}

// collectBatch drains up to journalFlushSize entries from the buffer.
func (j *Journal) collectBatch(batch []JournalEntry) []JournalEntry {
	for len(batch) < journalFlushSize {
		tail := atomic.LoadUint64(&j.readHead)
		head := atomic.LoadUint64(&j.writeHead)
		if tail >= head {
			break
		}
		if !atomic.CompareAndSwapUint64(&j.readHead, tail, tail+1) {
			continue
		}
		batch = append(batch, j.buffer[(tail+1)%journalBufferSize])
	}
	return batch
}

// flushBatch writes one JSON line per entry.
func (j *Journal) flushBatch(batch []JournalEntry) {
	j.fileMu.Lock()
	defer j.fileMu.Unlock()
	if j.file == nil {
		return
	}
	for _, entry := range batch {
		line, err := json.Marshal(entry)
		if err != nil {
			log.Printf("journal: marshal failed: %v", err)
			continue
		}
		if _, err := j.file.Write(append(line, '\n')); err != nil {
			log.Printf("journal: write failed: %v", err)
			return
		}
	}
}
