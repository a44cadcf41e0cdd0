package grabber

import (
	"context"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/store"
)

var _ Handler = (*CurrencyDefinitionHandler)(nil)

// CurrencyDefinitionHandler tracks currency metadata and the currency
// definition cost.
type CurrencyDefinitionHandler struct {
	contract   *chain.Contract
	downloader *Downloader
}

// NewCurrencyDefinitionHandler creates the handler for the currency
// definition plugin contract.
func NewCurrencyDefinitionHandler(contract *chain.Contract, downloader *Downloader) *CurrencyDefinitionHandler {
	return &CurrencyDefinitionHandler{contract: contract, downloader: downloader}
}

func (h *CurrencyDefinitionHandler) Contract() *chain.Contract {
	return h.contract
}

func (h *CurrencyDefinitionHandler) EventNames() []string {
	return []string{"CurrencyDefinitionCostUpdated", "CurrencyDefined", "CurrencyMetadataUpdated"}
}

func (h *CurrencyDefinitionHandler) Apply(ctx context.Context, q store.Querier, event *Event) error {
	switch event.Name {
	case "CurrencyDefinitionCostUpdated":
		cost, err := event.BigInt("newCost")
		if err != nil {
			return err
		}

		return store.SetParameter(q, store.ParamCurrencyDefinitionCost, cost.String())
	case "CurrencyDefined", "CurrencyMetadataUpdated":
		tokenID, err := event.BigInt("tokenId")
		if err != nil {
			return err
		}

		return h.downloader.RefreshToken(ctx, q, tokenID)
	default:
		return nil
	}
}
