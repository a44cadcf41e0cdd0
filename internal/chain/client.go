package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client wraps an Ethereum RPC connection with the few operations the
// grabber needs: head discovery, log filtering and read-only view calls.
type Client struct {
	eth *ethclient.Client
}

// Dial connects to the given RPC endpoint.
func Dial(ctx context.Context, endpoint string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", endpoint, err)
	}

	return &Client{eth: eth}, nil
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// HeadBlock returns the latest block number known to the node.
func (c *Client) HeadBlock(ctx context.Context) (uint64, error) {
	num, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching head block: %w", err)
	}

	return num, nil
}

// FilterLogs returns all logs emitted by the given contract in the inclusive
// block range [from, to]. An empty topics slice matches every event.
func (c *Client) FilterLogs(ctx context.Context, address common.Address, topics []common.Hash, from, to uint64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{address},
	}
	if len(topics) > 0 {
		query.Topics = [][]common.Hash{topics}
	}

	logs, err := c.eth.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("filtering logs for %s [%d, %d]: %w", address, from, to, err)
	}

	return logs, nil
}

// CallView executes a read-only method on the contract at the latest block
// and returns the unpacked outputs.
func (c *Client) CallView(ctx context.Context, contract *Contract, method string, args ...interface{}) ([]interface{}, error) {
	input, err := contract.ABI().Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s.%s: %w", contract.Name, method, err)
	}

	output, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &contract.Address,
		Data: input,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling %s.%s: %w", contract.Name, method, err)
	}

	results, err := contract.ABI().Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s.%s: %w", contract.Name, method, err)
	}

	return results, nil
}
