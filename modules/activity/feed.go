package activity

import (
	"sync"
	"time"
)

// Activity types recorded in the feed.
const (
	TypeUserRegistered    = "user_registered"
	TypeListDeleted       = "list_deleted"
	TypeTaskCreated       = "task_created"
	TypeTaskStatusChanged = "task_status_changed"
	TypeTaskDeleted       = "task_deleted"
	TypeTimerStarted      = "timer_started"
	TypeTimerStopped      = "timer_stopped"
)

// Default feed bounds.
const (
	DefaultCapacity = 100
	DefaultMaxUsers = 10000
)

// Entry is one line of a user's activity feed.
type Entry struct {
	Type      string    `json:"type"`
	SubjectID string    `json:"subject_id"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Feed keeps the most recent entries per user in process memory. It is
// not shared between instances and starts empty after a restart.
type Feed struct {
	mu       sync.RWMutex
	capacity int
	maxUsers int
	seq      uint64
	entries  map[string][]Entry
	touched  map[string]uint64
}

// NewFeed creates a feed holding at most capacity entries for each of at
// most maxUsers users. Non-positive bounds select the defaults.
func NewFeed(capacity, maxUsers int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxUsers <= 0 {
		maxUsers = DefaultMaxUsers
	}
	return &Feed{
		capacity: capacity,
		maxUsers: maxUsers,
		entries:  make(map[string][]Entry),
		touched:  make(map[string]uint64),
	}
}

// Add appends an entry to the user's feed, evicting the oldest one when full.
// A new user beyond maxUsers displaces the least recently active one.
func (f *Feed) Add(userID string, e Entry) {
	if userID == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[userID]; !ok && len(f.entries) >= f.maxUsers {
		f.evictIdle()
	}

	list := append(f.entries[userID], e)
	if len(list) > f.capacity {
		list = list[len(list)-f.capacity:]
	}
	f.entries[userID] = list
	f.seq++
	f.touched[userID] = f.seq
}

// Users returns how many users currently have a feed.
func (f *Feed) Users() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

// evictIdle drops the least recently active user. Callers hold mu.
func (f *Feed) evictIdle() {
	var (
		idle   string
		oldest uint64
	)
	for id, at := range f.touched {
		if idle == "" || at < oldest {
			idle, oldest = id, at
		}
	}
	delete(f.entries, idle)
	delete(f.touched, idle)
}

// Recent returns up to limit entries for the user, newest first.
// A non-positive limit returns the whole feed.
func (f *Feed) Recent(userID string, limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	list := f.entries[userID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	result := make([]Entry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, list[i])
	}
	return result
}
