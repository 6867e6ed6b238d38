// Package jumptable implements the redirect primitive for hosts that dispatch
// method calls through an in-process indirection table.
package jumptable

import (
	"cmp"
	"slices"
	"sync"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Redirector = (*Table)(nil)

// Forward is one installed redirect.
type Forward struct {
	From domain.Address
	To   domain.Address
}

// Table maps entry addresses to the addresses they forward to. An address
// that was redirected keeps forwarding, so callers bound to any older
// address reach the newest implementation through the chain.
type Table struct {
	mu       sync.RWMutex
	forwards map[domain.Address]domain.Address
}

// New creates an empty Table.
func New() *Table {
	return &Table{forwards: make(map[domain.Address]domain.Address)}
}

// Redirect makes calls through from continue at to. The zero address is
// never a valid entry point. When to was redirected earlier, as when a module
// is rebuilt back to a previous image, its own forward is dropped so the
// restored code becomes live again.
func (t *Table) Redirect(from, to domain.Address) error {
	if from == 0 || to == 0 {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrUnknownAddress, ""), "from", from.String()), "to", to.String())
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if from == to {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrRedirectCycle, ""), "from", from.String()), "to", to.String())
	}

	delete(t.forwards, to)
	t.forwards[from] = to
	return nil
}

// Resolve follows the forwarding chain starting at addr and returns the
// address a call through addr ends up at.
func (t *Table) Resolve(addr domain.Address) domain.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resolve(addr)
}

// resolve is Resolve without locking. Redirect keeps every target a chain
// end, so the walk always terminates.
func (t *Table) resolve(addr domain.Address) domain.Address {
	for {
		next, ok := t.forwards[addr]
		if !ok {
			return addr
		}
		addr = next
	}
}

// Forwards returns every installed redirect ordered by source address.
func (t *Table) Forwards() []Forward {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Forward, 0, len(t.forwards))
	for from, to := range t.forwards {
		out = append(out, Forward{From: from, To: to})
	}
	slices.SortFunc(out, func(a, b Forward) int {
		return cmp.Compare(a.From, b.From)
	})
	return out
}

// Len reports the number of installed redirects.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.forwards)
}
