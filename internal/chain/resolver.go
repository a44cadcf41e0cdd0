package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/semperland/events-grabber/internal/config"
)

// ViewCaller executes read-only contract methods.
type ViewCaller interface {
	CallView(ctx context.Context, contract *Contract, method string, args ...interface{}) ([]interface{}, error)
}

// ContractSet holds the six bound contracts the grabber listens to.
type ContractSet struct {
	Metaverse        *Contract
	BrandRegistry    *Contract
	Economy          *Contract
	SponsorRegistry  *Contract
	CurrencyDefining *Contract
	CurrencyMinting  *Contract
}

// All returns the contracts in a stable order.
func (s *ContractSet) All() []*Contract {
	return []*Contract{
		s.Metaverse,
		s.BrandRegistry,
		s.Economy,
		s.SponsorRegistry,
		s.CurrencyDefining,
		s.CurrencyMinting,
	}
}

// ResolveContracts discovers the contract addresses reachable from the
// metaverse hub and binds them to their ABIs. Only the metaverse address is
// required up front; the registry, economy and sponsor registry addresses
// come from its views. Plugin addresses may be pinned in the config,
// otherwise they are read from the metaverse plugin list.
func ResolveContracts(ctx context.Context, caller ViewCaller, cfg config.ChainConfig) (*ContractSet, error) {
	metaverse, err := NewContract(ContractMetaverse, common.HexToAddress(cfg.MetaverseAddress), metaverseABI)
	if err != nil {
		return nil, err
	}

	brandRegistryAddr, err := viewAddress(ctx, caller, metaverse, "brandRegistry")
	if err != nil {
		return nil, err
	}

	economyAddr, err := viewAddress(ctx, caller, metaverse, "economy")
	if err != nil {
		return nil, err
	}

	sponsorRegistryAddr, err := viewAddress(ctx, caller, metaverse, "sponsorRegistry")
	if err != nil {
		return nil, err
	}

	definitionAddr, err := pluginAddress(ctx, caller, metaverse, cfg.CurrencyDefinitionPluginAddress, 0)
	if err != nil {
		return nil, err
	}

	mintingAddr, err := pluginAddress(ctx, caller, metaverse, cfg.CurrencyMintingPluginAddress, 1)
	if err != nil {
		return nil, err
	}

	set := &ContractSet{Metaverse: metaverse}

	if set.BrandRegistry, err = NewContract(ContractBrandRegistry, brandRegistryAddr, brandRegistryABI); err != nil {
		return nil, err
	}

	if set.Economy, err = NewContract(ContractEconomy, economyAddr, economyABI); err != nil {
		return nil, err
	}

	if set.SponsorRegistry, err = NewContract(ContractSponsorRegistry, sponsorRegistryAddr, sponsorRegistryABI); err != nil {
		return nil, err
	}

	if set.CurrencyDefining, err = NewContract(ContractCurrencyDefining, definitionAddr, currencyDefinitionPluginABI); err != nil {
		return nil, err
	}

	if set.CurrencyMinting, err = NewContract(ContractCurrencyMinting, mintingAddr, currencyMintingPluginABI); err != nil {
		return nil, err
	}

	return set, nil
}

func viewAddress(ctx context.Context, caller ViewCaller, contract *Contract, method string, args ...interface{}) (common.Address, error) {
	results, err := caller.CallView(ctx, contract, method, args...)
	if err != nil {
		return common.Address{}, err
	}

	if len(results) != 1 {
		return common.Address{}, fmt.Errorf("%s.%s returned %d values, want 1", contract.Name, method, len(results))
	}

	addr, ok := results[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s.%s returned %T, want address", contract.Name, method, results[0])
	}

	return addr, nil
}

func pluginAddress(ctx context.Context, caller ViewCaller, metaverse *Contract, pinned string, index int64) (common.Address, error) {
	if pinned != "" {
		return common.HexToAddress(pinned), nil
	}

	return viewAddress(ctx, caller, metaverse, "pluginsList", big.NewInt(index))
}
