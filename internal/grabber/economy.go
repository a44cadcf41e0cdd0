package grabber

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/store"
)

var _ Handler = (*EconomyHandler)(nil)

// EconomyHandler tracks token balances and the deal lifecycle.
type EconomyHandler struct {
	contract *chain.Contract
}

// NewEconomyHandler creates the handler for the economy contract.
func NewEconomyHandler(contract *chain.Contract) *EconomyHandler {
	return &EconomyHandler{contract: contract}
}

func (h *EconomyHandler) Contract() *chain.Contract {
	return h.contract
}

func (h *EconomyHandler) EventNames() []string {
	return []string{
		"TransferSingle",
		"TransferBatch",
		"DealStarted",
		"DealAccepted",
		"DealConfirmed",
		"DealBroken",
	}
}

func (h *EconomyHandler) Apply(ctx context.Context, q store.Querier, event *Event) error {
	switch event.Name {
	case "TransferSingle":
		return h.applyTransferSingle(q, event)
	case "TransferBatch":
		return h.applyTransferBatch(q, event)
	case "DealStarted":
		return h.applyDealStarted(q, event)
	case "DealAccepted":
		return h.applyDealAccepted(q, event)
	case "DealConfirmed":
		return h.applyDealStatus(q, event, store.DealConfirmed)
	case "DealBroken":
		return h.applyDealStatus(q, event, store.DealRejected)
	default:
		return nil
	}
}

func (h *EconomyHandler) applyTransferSingle(q store.Querier, event *Event) error {
	from, err := event.Address("from")
	if err != nil {
		return err
	}

	to, err := event.Address("to")
	if err != nil {
		return err
	}

	id, err := event.BigInt("id")
	if err != nil {
		return err
	}

	value, err := event.BigInt("value")
	if err != nil {
		return err
	}

	return h.applyTransfer(q, from, to, []*big.Int{id}, []*big.Int{value})
}

func (h *EconomyHandler) applyTransferBatch(q store.Querier, event *Event) error {
	from, err := event.Address("from")
	if err != nil {
		return err
	}

	to, err := event.Address("to")
	if err != nil {
		return err
	}

	ids, err := event.BigIntSlice("ids")
	if err != nil {
		return err
	}

	values, err := event.BigIntSlice("values")
	if err != nil {
		return err
	}

	if len(ids) != len(values) {
		return fmt.Errorf("transfer batch has %d ids but %d values", len(ids), len(values))
	}

	return h.applyTransfer(q, from, to, ids, values)
}

// applyTransfer moves amounts between owners. A zero from address is a mint
// and a zero to address is a burn, each skipping the respective side.
func (h *EconomyHandler) applyTransfer(q store.Querier, from, to common.Address, ids, values []*big.Int) error {
	if !IsZero(from) {
		for i, id := range ids {
			delta := new(big.Int).Neg(values[i])
			if err := h.balanceChange(q, from, id, delta); err != nil {
				return err
			}
		}
	}

	if !IsZero(to) {
		for i, id := range ids {
			if err := h.balanceChange(q, to, id, values[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (h *EconomyHandler) balanceChange(q store.Querier, owner common.Address, id, delta *big.Int) error {
	var brand *string

	if IsFungible(id) {
		hex := BrandOfToken(id).Hex()
		brand = &hex
	}

	return store.ApplyBalanceDelta(q, owner.Hex(), NormalizeTokenID(id), delta, brand)
}

func (h *EconomyHandler) applyDealStarted(q store.Querier, event *Event) error {
	dealID, err := event.BigInt("dealId")
	if err != nil {
		return err
	}

	emitter, err := event.Address("emitter")
	if err != nil {
		return err
	}

	receiver, err := event.Address("receiver")
	if err != nil {
		return err
	}

	ids, amounts, err := dealSide(event, "emitterTokenIds", "emitterTokenAmounts")
	if err != nil {
		return err
	}

	return store.UpsertDeal(q, &store.Deal{
		DealIndex:           dealID.String(),
		Emitter:             emitter.Hex(),
		Receiver:            receiver.Hex(),
		EmitterTokenIDs:     ids,
		EmitterTokenAmounts: amounts,
		Status:              store.DealCreated,
	})
}

func (h *EconomyHandler) applyDealAccepted(q store.Querier, event *Event) error {
	dealID, err := event.BigInt("dealId")
	if err != nil {
		return err
	}

	ids, amounts, err := dealSide(event, "receiverTokenIds", "receiverTokenAmounts")
	if err != nil {
		return err
	}

	return store.AcceptDeal(q, dealID.String(), ids, amounts)
}

func (h *EconomyHandler) applyDealStatus(q store.Querier, event *Event, status string) error {
	dealID, err := event.BigInt("dealId")
	if err != nil {
		return err
	}

	return store.SetDealStatus(q, dealID.String(), status)
}

// dealSide renders one side of a deal as JSON arrays: token ids in fixed
// width hex, amounts as decimal strings.
func dealSide(event *Event, idsArg, amountsArg string) (string, string, error) {
	ids, err := event.BigIntSlice(idsArg)
	if err != nil {
		return "", "", err
	}

	amounts, err := event.BigIntSlice(amountsArg)
	if err != nil {
		return "", "", err
	}

	if len(ids) != len(amounts) {
		return "", "", fmt.Errorf("deal side has %d ids but %d amounts", len(ids), len(amounts))
	}

	hexIDs := make([]string, len(ids))
	for i, id := range ids {
		hexIDs[i] = NormalizeTokenID(id)
	}

	decAmounts := make([]string, len(amounts))
	for i, amount := range amounts {
		decAmounts[i] = amount.String()
	}

	idsJSON, err := json.Marshal(hexIDs)
	if err != nil {
		return "", "", err
	}

	amountsJSON, err := json.Marshal(decAmounts)
	if err != nil {
		return "", "", err
	}

	return string(idsJSON), string(amountsJSON), nil
}
