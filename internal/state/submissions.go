package state

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Submission is one exported drawing accepted by the host.
type Submission struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Sequence  int64     `json:"sequence"`
	Lines     []Segment `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

// Complexity is the segment count of the submitted drawing.
func (s Submission) Complexity() int { return len(s.Lines) }

// Submissions is the host-side store of accepted drawings. It is shared
// by every connection handler and therefore locked.
type Submissions struct {
	siteID string
	clock  int64
	items  map[string]Submission
	owners map[string]string // owner -> latest submission id
	mu     sync.RWMutex
}

func NewSubmissions() *Submissions {
	return &Submissions{
		siteID: uuid.NewString(),
		items:  make(map[string]Submission),
		owners: make(map[string]string),
	}
}

// Add stores lines for owner and returns the stored submission. A new
// submission from the same owner replaces the owner's previous one.
func (s *Submissions) Add(owner string, lines []Segment) Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock++
	cp := make([]Segment, len(lines))
	copy(cp, lines)
	sub := Submission{
		ID:        fmt.Sprintf("sub-%s-%d", s.siteID[:8], s.clock),
		OwnerID:   owner,
		Sequence:  s.clock,
		Lines:     cp,
		CreatedAt: time.Now(),
	}

	if prev, ok := s.owners[owner]; ok {
		delete(s.items, prev)
		log.Printf("[STORE] Replacing submission %s from %s", prev, owner)
	}
	s.items[sub.ID] = sub
	s.owners[owner] = sub.ID

	log.Printf("[STORE] Submission %s stored (%d lines) from %s", sub.ID, len(cp), owner)
	return sub
}

// ByOwner returns the latest submission of owner.
func (s *Submissions) ByOwner(owner string) (Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.owners[owner]
	if !ok {
		return Submission{}, false
	}
	return s.items[id], true
}

// All returns every stored submission in arrival order.
func (s *Submissions) All() []Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Submission, 0, len(s.items))
	for _, sub := range s.items {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

func (s *Submissions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
