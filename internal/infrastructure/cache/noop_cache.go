package cache

import (
	"context"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/ports"
)

var _ ports.CellarCache = Noop{}

// Noop caché deshabilitada: nunca hay aciertos y invalidar no hace nada.
type Noop struct{}

func (Noop) Invalidate(context.Context, string) error { return nil }

func (Noop) GetProposal(context.Context, string) (*dto.LayoutProposalDTO, bool) { return nil, false }

func (Noop) SetProposal(context.Context, string, *dto.LayoutProposalDTO) {}
