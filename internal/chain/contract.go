package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Contract names used across the grabber.
const (
	ContractMetaverse        = "metaverse"
	ContractBrandRegistry    = "brand_registry"
	ContractEconomy          = "economy"
	ContractSponsorRegistry  = "sponsor_registry"
	ContractCurrencyDefining = "currency_definition_plugin"
	ContractCurrencyMinting  = "currency_minting_plugin"
)

// Contract binds a deployed address to its parsed ABI. It knows how to
// compute event topics and decode raw logs into argument maps.
type Contract struct {
	Name    string
	Address common.Address
	abi     abi.ABI
}

// NewContract parses rawABI and returns a bound contract.
func NewContract(name string, address common.Address, rawABI string) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("parsing %s ABI: %w", name, err)
	}

	return &Contract{
		Name:    name,
		Address: address,
		abi:     parsed,
	}, nil
}

// EventID returns the topic0 hash for the named event.
func (c *Contract) EventID(event string) (common.Hash, error) {
	ev, ok := c.abi.Events[event]
	if !ok {
		return common.Hash{}, fmt.Errorf("contract %s has no event %s", c.Name, event)
	}

	return ev.ID, nil
}

// ABI exposes the parsed ABI for view calls.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// ParseLog decodes a raw log emitted by this contract. It returns the event
// name and a map holding both indexed and non-indexed arguments.
func (c *Contract) ParseLog(l types.Log) (string, map[string]interface{}, error) {
	if len(l.Topics) == 0 {
		return "", nil, fmt.Errorf("log from %s has no topics", c.Name)
	}

	ev, err := c.abi.EventByID(l.Topics[0])
	if err != nil {
		return "", nil, fmt.Errorf("unknown event topic %s on %s: %w", l.Topics[0], c.Name, err)
	}

	args := make(map[string]interface{})
	if err := c.abi.UnpackIntoMap(args, ev.Name, l.Data); err != nil {
		return "", nil, fmt.Errorf("unpacking %s data: %w", ev.Name, err)
	}

	var indexed abi.Arguments
	for _, input := range ev.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}

	if err := abi.ParseTopicsIntoMap(args, indexed, l.Topics[1:]); err != nil {
		return "", nil, fmt.Errorf("unpacking %s topics: %w", ev.Name, err)
	}

	return ev.Name, args, nil
}
