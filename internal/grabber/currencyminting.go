package grabber

import (
	"context"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/store"
)

var _ Handler = (*CurrencyMintingHandler)(nil)

// CurrencyMintingHandler tracks the currency minting cost and amount
// parameters.
type CurrencyMintingHandler struct {
	contract *chain.Contract
}

// NewCurrencyMintingHandler creates the handler for the currency minting
// plugin contract.
func NewCurrencyMintingHandler(contract *chain.Contract) *CurrencyMintingHandler {
	return &CurrencyMintingHandler{contract: contract}
}

func (h *CurrencyMintingHandler) Contract() *chain.Contract {
	return h.contract
}

func (h *CurrencyMintingHandler) EventNames() []string {
	return []string{"CurrencyMintCostUpdated", "CurrencyMintAmountUpdated"}
}

func (h *CurrencyMintingHandler) Apply(ctx context.Context, q store.Querier, event *Event) error {
	switch event.Name {
	case "CurrencyMintCostUpdated":
		cost, err := event.BigInt("newCost")
		if err != nil {
			return err
		}

		return store.SetParameter(q, store.ParamCurrencyMintingCost, cost.String())
	case "CurrencyMintAmountUpdated":
		amount, err := event.BigInt("newAmount")
		if err != nil {
			return err
		}

		return store.SetParameter(q, store.ParamCurrencyMintingAmount, amount.String())
	default:
		return nil
	}
}
