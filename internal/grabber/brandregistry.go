package grabber

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/store"
)

var _ Handler = (*BrandRegistryHandler)(nil)

// BrandRegistryHandler tracks brand metadata, brand-scoped permissions and
// the brand registration cost.
type BrandRegistryHandler struct {
	contract   *chain.Contract
	downloader *Downloader
}

// NewBrandRegistryHandler creates the handler for the brand registry
// contract.
func NewBrandRegistryHandler(contract *chain.Contract, downloader *Downloader) *BrandRegistryHandler {
	return &BrandRegistryHandler{contract: contract, downloader: downloader}
}

func (h *BrandRegistryHandler) Contract() *chain.Contract {
	return h.contract
}

func (h *BrandRegistryHandler) EventNames() []string {
	return []string{
		"BrandRegistrationCostUpdated",
		"BrandRegistered",
		"BrandUpdated",
		"BrandSocialCommitmentUpdated",
		"BrandPermissionChanged",
	}
}

func (h *BrandRegistryHandler) Apply(ctx context.Context, q store.Querier, event *Event) error {
	switch event.Name {
	case "BrandRegistrationCostUpdated":
		cost, err := event.BigInt("newCost")
		if err != nil {
			return err
		}

		return store.SetParameter(q, store.ParamBrandRegistrationCost, cost.String())
	case "BrandRegistered", "BrandUpdated":
		return h.refreshBrand(ctx, q, event, "brandId")
	case "BrandSocialCommitmentUpdated":
		return h.refreshBrand(ctx, q, event, "brand")
	case "BrandPermissionChanged":
		return h.applyBrandPermissionChanged(q, event)
	default:
		return nil
	}
}

// refreshBrand re-downloads the metadata of a brand token. A brand's token
// id is its contract address zero-extended to 256 bits.
func (h *BrandRegistryHandler) refreshBrand(ctx context.Context, q store.Querier, event *Event, arg string) error {
	brand, err := event.Address(arg)
	if err != nil {
		return err
	}

	return h.downloader.RefreshToken(ctx, q, new(big.Int).SetBytes(brand.Bytes()))
}

func (h *BrandRegistryHandler) applyBrandPermissionChanged(q store.Querier, event *Event) error {
	brand, err := event.Address("brandId")
	if err != nil {
		return err
	}

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

	return store.SetBrandPermission(q, brand.Hex(), common.Hash(permission).Hex(), user.Hex(), set)
}
