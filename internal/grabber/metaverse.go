package grabber

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/store"
)

var _ Handler = (*MetaverseHandler)(nil)

// MetaverseHandler tracks the metaverse-wide permission grants.
type MetaverseHandler struct {
	contract *chain.Contract
}

// NewMetaverseHandler creates the handler for the metaverse hub contract.
func NewMetaverseHandler(contract *chain.Contract) *MetaverseHandler {
	return &MetaverseHandler{contract: contract}
}

func (h *MetaverseHandler) Contract() *chain.Contract {
	return h.contract
}

func (h *MetaverseHandler) EventNames() []string {
	return []string{"PermissionChanged"}
}

func (h *MetaverseHandler) Apply(ctx context.Context, q store.Querier, event *Event) error {
	switch event.Name {
	case "PermissionChanged":
		return h.applyPermissionChanged(q, event)
	default:
		return nil
	}
}

func (h *MetaverseHandler) applyPermissionChanged(q store.Querier, event *Event) error {
	permission, err := event.Bytes32("permission")
	if err != nil {
		return err
	}

	user, err := event.Address("user")
	if err != nil {
		return err
	}

	set, err := event.Bool("set")
	if err != nil {
		return err
	}

	return store.SetPermission(q, common.Hash(permission).Hex(), user.Hex(), set)
}
