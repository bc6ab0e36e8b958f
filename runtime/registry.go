package runtime

import (
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
)

// Registry is the single shared mutable table of the relay.
// It tracks three things per live connection: its delivery sink (set at
// connect), its announced display name (set on announce, absent otherwise)
// and its current room tag (set per chat message, empty means global).
type Registry struct {
	mu    sync.RWMutex
	sinks map[domain.ConnectionID]contract.EventSink
	names map[domain.ConnectionID]string
	rooms map[domain.ConnectionID]string
}

func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[domain.ConnectionID]contract.EventSink),
		names: make(map[domain.ConnectionID]string),
		rooms: make(map[domain.ConnectionID]string),
	}
}

// Attach registers a freshly opened connection with its sink.
func (r *Registry) Attach(id domain.ConnectionID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[id] = sink
}

// Detach removes a closed connection from the live set along with its
// room tag. The session entry is handled separately via Remove so the
// caller can decide whether a leave notification is due.
func (r *Registry) Detach(id domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, id)
	delete(r.rooms, id)
}

// Record inserts or overwrites the session entry for id.
// Display name collisions are permitted and not an error.
func (r *Registry) Record(id domain.ConnectionID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[id] = displayName
}

// Remove deletes the session entry and returns the prior display name.
// A connection that disconnects before announcing reports absence.
func (r *Registry) Remove(id domain.ConnectionID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.names[id]
	delete(r.names, id)
	return name, ok
}

// Name returns the announced display name for id, if any.
func (r *Registry) Name(id domain.ConnectionID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[id]
	return name, ok
}

// Tag places the connection into a room tag. An empty room clears the tag
// and returns the connection to global scope.
func (r *Registry) Tag(id domain.ConnectionID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinks[id]; !ok {
		return
	}
	if room == "" {
		delete(r.rooms, id)
		return
	}
	r.rooms[id] = room
}

// Live reports whether the connection is still attached.
func (r *Registry) Live(id domain.ConnectionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sinks[id]
	return ok
}

// SinkFor resolves the sink of a single connection for point-to-point
// delivery. Callers must handle absence: the connection may be gone by
// the time an async response arrives.
func (r *Registry) SinkFor(id domain.ConnectionID) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sinks[id]
	return sink, ok
}

// Peers snapshots every live sink except the excluded sender.
func (r *Registry) Peers(exclude domain.ConnectionID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	peers := make([]contract.EventSink, 0, len(r.sinks))
	for id, sink := range r.sinks {
		if id == exclude {
			continue
		}
		peers = append(peers, sink)
	}
	return peers
}

// RoomPeers snapshots the sinks of every connection currently carrying
// the given room tag, except the excluded sender.
func (r *Registry) RoomPeers(room string, exclude domain.ConnectionID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var peers []contract.EventSink
	for id, tag := range r.rooms {
		if id == exclude || tag != room {
			continue
		}
		if sink, ok := r.sinks[id]; ok {
			peers = append(peers, sink)
		}
	}
	return peers
}

// Counts exposes live-connection and session gauges for telemetry.
func (r *Registry) Counts() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks), len(r.names)
}
