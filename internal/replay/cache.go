// Package replay keeps the per-table log of sent events so a reconnecting
// player can be brought up to date with the running hand.
package replay

import (
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Entry is one cached event. A public entry has no recipient and is shown to
// everyone but Excluded. A private entry is shown to its recipient only.
type Entry struct {
	Data      []byte
	At        time.Time
	Recipient string
	Excluded  string
}

// Cache is the ordered event log of one table. Entries keep the order they
// were added in.
type Cache struct {
	mu      sync.Mutex
	clock   quartz.Clock
	logger  *log.Logger
	entries []Entry
}

// NewCache creates an empty cache. Nil dependencies get defaults.
func NewCache(clock quartz.Clock, logger *log.Logger) *Cache {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{clock: clock, logger: logger.WithPrefix("replay")}
}

// AddPublic caches an event every player sees.
func (c *Cache) AddPublic(data []byte) {
	c.add(Entry{Data: data})
}

// AddPublicExcluding caches an event every player but excluded sees.
func (c *Cache) AddPublicExcluding(data []byte, excluded string) {
	c.add(Entry{Data: data, Excluded: excluded})
}

// AddPrivate caches an event only playerID sees.
func (c *Cache) AddPrivate(playerID string, data []byte) {
	c.add(Entry{Data: data, Recipient: playerID})
}

func (c *Cache) add(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.At = c.clock.Now()
	c.entries = append(c.entries, e)
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry. Called at hand end and table teardown.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// Entries returns the public entries and playerID's private entries in the
// order they were added.
func (c *Cache) Entries(playerID string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Recipient == "" || e.Recipient == playerID {
			out = append(out, e)
		}
	}
	return slices.Clip(out)
}

// Replay builds the event list sent to playerID on (re)connect.
func (c *Cache) Replay(playerID string) [][]byte {
	return Filter(c.Entries(playerID), playerID, c.clock.Now(), c.logger)
}
