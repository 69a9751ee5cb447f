// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package session

import "sync"

// Subscribe returns a channel carrying the latest snapshot and a cancel
// function that closes it. The current snapshot is delivered immediately.
// Publishing never blocks: a slow reader skips to the newest snapshot.
func (m *Machine) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	cancel := sync.OnceFunc(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
		close(ch)
	})
	return ch, cancel
}

func (m *Machine) publishLocked() {
	if len(m.subs) == 0 {
		return
	}
	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Replace the unread snapshot. Only publishLocked sends, under m.mu,
		// so the slot is free after the drain.
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
