package game

import (
	"fmt"
	"math/rand"
	"slices"
)

// Sender is the outbound half of a player's connection. Send must not block:
// it reports whether the message was accepted for delivery, and a failure is
// never fatal to the room (the adapter's disconnect notification handles
// cleanup).
type Sender interface {
	Send(msg Envelope) bool
}

// Player is one connected participant. The id is assigned at connect time and
// never reused while the process runs; Score accumulates across rounds and is
// never decremented.
type Player struct {
	ID    int
	Name  string
	Score int

	sender Sender
}

// Registry holds the currently connected players keyed by id. It is not
// concurrency-safe on its own; the owning room serializes all access.
type Registry struct {
	players map[int]*Player
	nextID  int
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[int]*Player)}
}

// Add registers a new player under the next id and returns it.
func (r *Registry) Add(name string, sender Sender) *Player {
	p := &Player{
		ID:     r.nextID,
		Name:   name,
		sender: sender,
	}
	r.players[p.ID] = p
	r.nextID++
	return p
}

func (r *Registry) Remove(id int) *Player {
	p, ok := r.players[id]
	if !ok {
		return nil
	}
	delete(r.players, id)
	return p
}

func (r *Registry) Get(id int) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

func (r *Registry) Len() int {
	return len(r.players)
}

// IDs returns the connected player ids in ascending order.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Ordered returns the connected players in ascending-id order. Every
// serialized snapshot uses this order so observers see stable sequences.
func (r *Registry) Ordered() []*Player {
	out := make([]*Player, 0, len(r.players))
	for _, id := range r.IDs() {
		out = append(out, r.players[id])
	}
	return out
}

var (
	nameAdjectives = []string{
		"amber", "brave", "calm", "dapper", "eager", "fuzzy",
		"gentle", "hasty", "jolly", "keen", "lucky", "mellow",
		"noble", "plucky", "quiet", "rusty", "sly", "witty",
	}
	nameAnimals = []string{
		"badger", "crane", "dingo", "ferret", "gecko", "heron",
		"ibis", "jackal", "koala", "lemur", "marmot", "newt",
		"otter", "puffin", "quokka", "raven", "stoat", "walrus",
	}
)

// petname builds a default display name in the adjective-animal style players
// get before renaming themselves.
func petname(rnd *rand.Rand) string {
	adj := nameAdjectives[rnd.Intn(len(nameAdjectives))]
	animal := nameAnimals[rnd.Intn(len(nameAnimals))]
	return fmt.Sprintf("%s-%s", adj, animal)
}
