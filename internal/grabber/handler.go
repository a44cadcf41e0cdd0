package grabber

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/store"
)

// LogSource supplies raw chain data to a cycle.
type LogSource interface {
	// HeadBlock returns the latest block number.
	HeadBlock(ctx context.Context) (uint64, error)

	// FilterLogs returns the logs emitted by address in [from, to] whose
	// topic0 is one of topics.
	FilterLogs(ctx context.Context, address common.Address, topics []common.Hash, from, to uint64) ([]types.Log, error)
}

// Handler applies the events of one contract to projection state.
type Handler interface {
	// Contract returns the bound contract this handler listens to.
	Contract() *chain.Contract

	// EventNames returns the event names the handler consumes.
	EventNames() []string

	// Apply processes one decoded event. Events with names outside
	// EventNames are ignored, not rejected.
	Apply(ctx context.Context, q store.Querier, event *Event) error
}

// Collect fetches and decodes the handler's events in the inclusive block
// range [from, to].
func Collect(ctx context.Context, source LogSource, handler Handler, from, to uint64) ([]*Event, error) {
	contract := handler.Contract()

	topics := make([]common.Hash, 0, len(handler.EventNames()))

	for _, name := range handler.EventNames() {
		id, err := contract.EventID(name)
		if err != nil {
			return nil, err
		}

		topics = append(topics, id)
	}

	logs, err := source.FilterLogs(ctx, contract.Address, topics, from, to)
	if err != nil {
		return nil, fmt.Errorf("collecting %s events: %w", contract.Name, err)
	}

	events := make([]*Event, 0, len(logs))

	for _, l := range logs {
		if l.Removed {
			continue
		}

		name, args, err := contract.ParseLog(l)
		if err != nil {
			return nil, fmt.Errorf("decoding %s log at block %d index %d: %w",
				contract.Name, l.BlockNumber, l.Index, err)
		}

		events = append(events, &Event{
			Contract:    contract.Name,
			BlockNumber: l.BlockNumber,
			TxIndex:     l.TxIndex,
			LogIndex:    l.Index,
			Name:        name,
			Args:        args,
		})
	}

	return events, nil
}
