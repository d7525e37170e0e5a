package websocket

import "sync"

// Presence maps an account id to its live connection. A later Register for the same
// account replaces the earlier one.
type Presence struct {
	mu        sync.RWMutex
	byAccount map[string]*Client
}

func NewPresence() *Presence {
	return &Presence{byAccount: make(map[string]*Client)}
}

func (p *Presence) Register(accountID string, c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byAccount[accountID] = c
}

func (p *Presence) Lookup(accountID string) (*Client, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.byAccount[accountID]
	return c, ok
}

// Unregister removes every account currently pointing at c and returns their ids.
func (p *Presence) Unregister(c *Client) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var removed []string
	for id, current := range p.byAccount {
		if current == c {
			delete(p.byAccount, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func (p *Presence) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byAccount)
}
