package grabber

import (
	"context"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/store"
)

var _ Handler = (*SponsorRegistryHandler)(nil)

// SponsorRegistryHandler tracks sponsorship links between sponsors and
// brands.
type SponsorRegistryHandler struct {
	contract *chain.Contract
}

// NewSponsorRegistryHandler creates the handler for the sponsor registry
// contract.
func NewSponsorRegistryHandler(contract *chain.Contract) *SponsorRegistryHandler {
	return &SponsorRegistryHandler{contract: contract}
}

func (h *SponsorRegistryHandler) Contract() *chain.Contract {
	return h.contract
}

func (h *SponsorRegistryHandler) EventNames() []string {
	return []string{"Sponsored"}
}

func (h *SponsorRegistryHandler) Apply(ctx context.Context, q store.Querier, event *Event) error {
	switch event.Name {
	case "Sponsored":
		sponsor, err := event.Address("sponsor")
		if err != nil {
			return err
		}

		brand, err := event.Address("brandId")
		if err != nil {
			return err
		}

		sponsored, err := event.Bool("sponsored")
		if err != nil {
			return err
		}

		return store.SetSponsorship(q, sponsor.Hex(), brand.Hex(), sponsored)
	default:
		return nil
	}
}
