package services

import "sync"

// AccessPolicy gates organizer commands. A caller is allowed when they hold
// the administrator permission or were explicitly authorized by one. The
// authorized set is volatile, like the rest of the bot's state.
type AccessPolicy struct {
	mu         sync.Mutex
	authorized map[int64]struct{}
}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{authorized: make(map[int64]struct{})}
}

// IsAllowed reports whether the caller may run organizer commands.
func (p *AccessPolicy) IsAllowed(userID int64, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.authorized[userID]
	return ok
}

// Authorize grants organizer access to userID. Returns false when the user
// was already authorized.
func (p *AccessPolicy) Authorize(userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.authorized[userID]; ok {
		return false
	}
	p.authorized[userID] = struct{}{}
	return true
}

// Revoke withdraws a previously granted authorization.
func (p *AccessPolicy) Revoke(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.authorized, userID)
}
