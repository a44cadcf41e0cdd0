package grabber

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/config"
	"github.com/semperland/events-grabber/internal/logger"
	"github.com/semperland/events-grabber/internal/store"
)

// resolverCaller answers the metaverse views used during contract
// resolution.
type resolverCaller struct{}

func (resolverCaller) CallView(_ context.Context, _ *chain.Contract, method string, args ...interface{}) ([]interface{}, error) {
	switch method {
	case "brandRegistry":
		return []interface{}{common.HexToAddress("0x200")}, nil
	case "economy":
		return []interface{}{common.HexToAddress("0x300")}, nil
	case "sponsorRegistry":
		return []interface{}{common.HexToAddress("0x400")}, nil
	case "pluginsList":
		index := args[0].(*big.Int)
		if index.Sign() == 0 {
			return []interface{}{common.HexToAddress("0x500")}, nil
		}

		return []interface{}{common.HexToAddress("0x600")}, nil
	default:
		return nil, fmt.Errorf("unexpected view %s", method)
	}
}

func newTestContracts(t *testing.T) *chain.ContractSet {
	t.Helper()

	set, err := chain.ResolveContracts(context.Background(), resolverCaller{}, config.ChainConfig{
		MetaverseAddress: "0x0000000000000000000000000000000000000100",
	})
	require.NoError(t, err)

	return set
}

// fakeSource serves canned logs filtered the way a node would.
type fakeSource struct {
	head uint64
	logs []types.Log
}

func (f *fakeSource) HeadBlock(_ context.Context) (uint64, error) {
	return f.head, nil
}

func (f *fakeSource) FilterLogs(_ context.Context, address common.Address, topics []common.Hash, from, to uint64) ([]types.Log, error) {
	wanted := make(map[common.Hash]struct{}, len(topics))
	for _, topic := range topics {
		wanted[topic] = struct{}{}
	}

	var matched []types.Log

	for _, l := range f.logs {
		if l.Address != address || l.BlockNumber < from || l.BlockNumber > to {
			continue
		}

		if _, ok := wanted[l.Topics[0]]; len(topics) > 0 && !ok {
			continue
		}

		matched = append(matched, l)
	}

	return matched, nil
}

func makeLog(t *testing.T, contract *chain.Contract, event string, block uint64, txIdx, logIdx uint,
	indexed []common.Hash, nonIndexed ...interface{}) types.Log {
	t.Helper()

	ev, ok := contract.ABI().Events[event]
	require.True(t, ok, "event %s", event)

	data, err := ev.Inputs.NonIndexed().Pack(nonIndexed...)
	require.NoError(t, err)

	return types.Log{
		Address:     contract.Address,
		Topics:      append([]common.Hash{ev.ID}, indexed...),
		Data:        data,
		BlockNumber: block,
		TxIndex:     txIdx,
		Index:       logIdx,
	}
}

func addrTopic(a common.Address) common.Hash {
	return common.BytesToHash(a.Bytes())
}

func newTestRunner(t *testing.T, database *sql.DB, source LogSource, set *chain.ContractSet,
	downloader *Downloader, useTx bool) *Runner {
	t.Helper()

	handlers := []Handler{
		NewMetaverseHandler(set.Metaverse),
		NewBrandRegistryHandler(set.BrandRegistry, downloader),
		NewEconomyHandler(set.Economy),
		NewSponsorRegistryHandler(set.SponsorRegistry),
		NewCurrencyDefinitionHandler(set.CurrencyDefining, downloader),
		NewCurrencyMintingHandler(set.CurrencyMinting),
	}

	return NewRunner(database, source, handlers, RunnerConfig{
		LockPath:        filepath.Join(t.TempDir(), "grabber.lock"),
		UseTransactions: useTx,
		Interval:        time.Second,
	}, logger.NewNopLogger())
}

func TestRunnerFullCycle(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"Acme","properties":{"type":"brand"}}`)
	}))
	t.Cleanup(server.Close)

	database := newTestDB(t)
	set := newTestContracts(t)

	alice := common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	bob := common.HexToAddress("0xb0b0000000000000000000000000000000000002")
	brand := common.HexToAddress("0xb4a4d000000000000000000000000000000000b1")
	permission := crypto.Keccak256Hash([]byte("METAVERSE_MANAGE_SETTINGS"))

	token := big.NewInt(7)
	tokenKey := NormalizeTokenID(token)
	brandToken := new(big.Int).SetBytes(brand.Bytes())

	downloader := newTestDownloader(t, &fakeCaller{
		uris: map[string]string{NormalizeTokenID(brandToken): server.URL},
	})

	source := &fakeSource{
		head: 10,
		logs: []types.Log{
			makeLog(t, set.Metaverse, "PermissionChanged", 1, 0, 0,
				[]common.Hash{permission, addrTopic(alice)}, true, alice),
			makeLog(t, set.Economy, "TransferSingle", 2, 0, 0,
				[]common.Hash{addrTopic(alice), addrTopic(common.Address{}), addrTopic(alice)},
				token, big.NewInt(100)),
			makeLog(t, set.BrandRegistry, "BrandRegistered", 3, 0, 0,
				[]common.Hash{addrTopic(alice), addrTopic(brand), addrTopic(alice)},
				"Acme", "A test brand", big.NewInt(2)),
			makeLog(t, set.Economy, "DealStarted", 4, 0, 0,
				[]common.Hash{common.BigToHash(big.NewInt(1)), addrTopic(alice), addrTopic(bob)},
				[]*big.Int{token}, []*big.Int{big.NewInt(40)}),
			makeLog(t, set.Economy, "DealStarted", 4, 1, 1,
				[]common.Hash{common.BigToHash(big.NewInt(2)), addrTopic(bob), addrTopic(alice)},
				[]*big.Int{token}, []*big.Int{big.NewInt(5)}),
			makeLog(t, set.Economy, "DealAccepted", 5, 0, 0,
				[]common.Hash{common.BigToHash(big.NewInt(1)), addrTopic(alice), addrTopic(bob)},
				[]*big.Int{}, []*big.Int{}),
			makeLog(t, set.Economy, "TransferSingle", 5, 0, 1,
				[]common.Hash{addrTopic(alice), addrTopic(alice), addrTopic(bob)},
				token, big.NewInt(30)),
			makeLog(t, set.Economy, "DealConfirmed", 6, 0, 0,
				[]common.Hash{common.BigToHash(big.NewInt(1)), addrTopic(alice), addrTopic(bob)}),
			makeLog(t, set.Economy, "DealBroken", 6, 0, 1,
				[]common.Hash{common.BigToHash(big.NewInt(2)), addrTopic(bob), addrTopic(alice)},
				true),
			makeLog(t, set.SponsorRegistry, "Sponsored", 7, 0, 0,
				[]common.Hash{addrTopic(bob), addrTopic(brand)}, true),
			makeLog(t, set.CurrencyDefining, "CurrencyDefinitionCostUpdated", 8, 0, 0,
				[]common.Hash{addrTopic(alice)}, big.NewInt(500)),
			makeLog(t, set.CurrencyMinting, "CurrencyMintCostUpdated", 8, 0, 1,
				[]common.Hash{addrTopic(alice)}, big.NewInt(600)),
			makeLog(t, set.CurrencyMinting, "CurrencyMintAmountUpdated", 8, 0, 2,
				[]common.Hash{addrTopic(alice)}, big.NewInt(1000)),
		},
	}

	runner := newTestRunner(t, database, source, set, downloader, false)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	require.False(t, result.Skipped)
	require.Equal(t, uint64(0), result.StartBlock)
	require.Equal(t, uint64(10), result.EndBlock)
	require.Equal(t, len(source.logs), result.Collected)
	require.Equal(t, len(source.logs), result.Applied)

	block, found, err := store.GetLastBlock(database)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(10), block)

	grant, err := store.GetPermission(database, permission.Hex(), alice.Hex())
	require.NoError(t, err)
	require.True(t, grant.Value)

	aliceBalance, err := store.GetBalance(database, alice.Hex(), tokenKey)
	require.NoError(t, err)
	require.Equal(t, "70", aliceBalance.Amount)

	bobBalance, err := store.GetBalance(database, bob.Hex(), tokenKey)
	require.NoError(t, err)
	require.Equal(t, "30", bobBalance.Amount)

	deal, err := store.GetDealByIndex(database, "1")
	require.NoError(t, err)
	require.Equal(t, store.DealConfirmed, deal.Status)
	require.Equal(t, alice.Hex(), deal.Emitter)
	require.Equal(t, bob.Hex(), deal.Receiver)
	require.Equal(t, fmt.Sprintf(`["%s"]`, tokenKey), deal.EmitterTokenIDs)
	require.Equal(t, `["40"]`, deal.EmitterTokenAmounts)
	require.NotNil(t, deal.ReceiverTokenIDs)
	require.Equal(t, "[]", *deal.ReceiverTokenIDs)

	broken, err := store.GetDealByIndex(database, "2")
	require.NoError(t, err)
	require.Equal(t, store.DealRejected, broken.Status)

	brandMeta, err := store.GetTokenMetadata(database, NormalizeTokenID(brandToken))
	require.NoError(t, err)
	require.Equal(t, store.TokenGroupNFT, brandMeta.Group)
	require.NotNil(t, brandMeta.Brand)
	require.Equal(t, brand.Hex(), *brandMeta.Brand)

	sponsorship, err := store.GetSponsorship(database, bob.Hex(), brand.Hex())
	require.NoError(t, err)
	require.True(t, sponsorship.Sponsored)

	for name, want := range map[string]string{
		store.ParamCurrencyDefinitionCost: "500",
		store.ParamCurrencyMintingCost:    "600",
		store.ParamCurrencyMintingAmount:  "1000",
	} {
		param, err := store.GetParameter(database, name)
		require.NoError(t, err)
		require.Equal(t, want, param.Value)
	}

	// Nothing new to process: the next cycle is a no-op and the checkpoint
	// stays put.
	result, err = runner.RunCycle(context.Background())
	require.NoError(t, err)
	require.True(t, result.Skipped)

	block, _, err = store.GetLastBlock(database)
	require.NoError(t, err)
	require.Equal(t, uint64(10), block)
}

func TestRunnerResumesFromCheckpoint(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	set := newTestContracts(t)

	alice := common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	token := big.NewInt(9)

	source := &fakeSource{
		head: 5,
		logs: []types.Log{
			makeLog(t, set.Economy, "TransferSingle", 2, 0, 0,
				[]common.Hash{addrTopic(alice), addrTopic(common.Address{}), addrTopic(alice)},
				token, big.NewInt(100)),
		},
	}

	downloader := newTestDownloader(t, &fakeCaller{})
	runner := newTestRunner(t, database, source, set, downloader, false)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Applied)

	// The chain advances and a burn happens. The next cycle starts right
	// after the checkpoint, so the earlier mint is not replayed.
	source.head = 8
	source.logs = append(source.logs,
		makeLog(t, set.Economy, "TransferSingle", 7, 0, 0,
			[]common.Hash{addrTopic(alice), addrTopic(alice), addrTopic(common.Address{})},
			token, big.NewInt(25)),
	)

	result, err = runner.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(6), result.StartBlock)
	require.Equal(t, uint64(8), result.EndBlock)
	require.Equal(t, 1, result.Applied)

	balance, err := store.GetBalance(database, alice.Hex(), NormalizeTokenID(token))
	require.NoError(t, err)
	require.Equal(t, "75", balance.Amount)
}

// failingHandler aborts on its first event.
type failingHandler struct {
	contract *chain.Contract
}

func (h *failingHandler) Contract() *chain.Contract { return h.contract }
func (h *failingHandler) EventNames() []string      { return []string{"Sponsored"} }

func (h *failingHandler) Apply(context.Context, store.Querier, *Event) error {
	return fmt.Errorf("projection store unavailable")
}

func TestRunnerTransactionRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	set := newTestContracts(t)

	alice := common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	brand := common.HexToAddress("0xb4a4d000000000000000000000000000000000b1")
	permission := crypto.Keccak256Hash([]byte("METAVERSE_MANAGE_SETTINGS"))

	source := &fakeSource{
		head: 5,
		logs: []types.Log{
			makeLog(t, set.Metaverse, "PermissionChanged", 1, 0, 0,
				[]common.Hash{permission, addrTopic(alice)}, true, alice),
			makeLog(t, set.SponsorRegistry, "Sponsored", 3, 0, 0,
				[]common.Hash{addrTopic(alice), addrTopic(brand)}, true),
		},
	}

	handlers := []Handler{
		NewMetaverseHandler(set.Metaverse),
		&failingHandler{contract: set.SponsorRegistry},
	}

	runner := NewRunner(database, source, handlers, RunnerConfig{
		LockPath:        filepath.Join(t.TempDir(), "grabber.lock"),
		UseTransactions: true,
		Interval:        time.Second,
	}, logger.NewNopLogger())

	_, err := runner.RunCycle(context.Background())
	require.Error(t, err)

	// The permission applied before the failure was rolled back with the
	// rest of the cycle.
	_, err = store.GetPermission(database, permission.Hex(), alice.Hex())
	require.ErrorIs(t, err, sql.ErrNoRows)

	_, found, err := store.GetLastBlock(database)
	require.NoError(t, err)
	require.False(t, found)
}
