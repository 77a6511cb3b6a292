package layout_test

import (
	"context"
	"sync"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/ports"
)

type fakeCache struct {
	mu        sync.Mutex
	proposals map[string]*dto.LayoutProposalDTO
}

func newFakeCache() *fakeCache {
	return &fakeCache{proposals: map[string]*dto.LayoutProposalDTO{}}
}

func (c *fakeCache) Invalidate(_ context.Context, cellarID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.proposals, cellarID)
	return nil
}

func (c *fakeCache) GetProposal(_ context.Context, cellarID string) (*dto.LayoutProposalDTO, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.proposals[cellarID]
	return p, ok
}

func (c *fakeCache) SetProposal(_ context.Context, cellarID string, p *dto.LayoutProposalDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proposals[cellarID] = p
}

// cacheOrNil evita pasar un puntero nil tipado como interfaz no nil.
func cacheOrNil(c *fakeCache) ports.CellarCache {
	if c == nil {
		return nil
	}
	return c
}
