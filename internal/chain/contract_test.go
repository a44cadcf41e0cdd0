package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestNewContract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rawABI string
	}{
		{ContractMetaverse, metaverseABI},
		{ContractBrandRegistry, brandRegistryABI},
		{ContractEconomy, economyABI},
		{ContractSponsorRegistry, sponsorRegistryABI},
		{ContractCurrencyDefining, currencyDefinitionPluginABI},
		{ContractCurrencyMinting, currencyMintingPluginABI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			contract, err := NewContract(tt.name, common.HexToAddress("0x1"), tt.rawABI)
			require.NoError(t, err)
			require.Equal(t, tt.name, contract.Name)
		})
	}

	_, err := NewContract("broken", common.HexToAddress("0x1"), "not json")
	require.Error(t, err)
}

func TestEventID(t *testing.T) {
	t.Parallel()

	economy, err := NewContract(ContractEconomy, common.HexToAddress("0x2"), economyABI)
	require.NoError(t, err)

	id, err := economy.EventID("TransferSingle")
	require.NoError(t, err)
	require.Equal(t,
		crypto.Keccak256Hash([]byte("TransferSingle(address,address,address,uint256,uint256)")),
		id,
	)

	_, err = economy.EventID("NoSuchEvent")
	require.Error(t, err)
}

func TestParseLogTransferSingle(t *testing.T) {
	t.Parallel()

	economy, err := NewContract(ContractEconomy, common.HexToAddress("0x2"), economyABI)
	require.NoError(t, err)

	operator := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	from := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	to := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	ev := economy.ABI().Events["TransferSingle"]
	data, err := ev.Inputs.NonIndexed().Pack(big.NewInt(7), big.NewInt(100))
	require.NoError(t, err)

	name, args, err := economy.ParseLog(types.Log{
		Topics: []common.Hash{
			ev.ID,
			common.BytesToHash(operator.Bytes()),
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: data,
	})
	require.NoError(t, err)
	require.Equal(t, "TransferSingle", name)
	require.Equal(t, operator, args["operator"])
	require.Equal(t, from, args["from"])
	require.Equal(t, to, args["to"])
	require.Equal(t, big.NewInt(7), args["id"])
	require.Equal(t, big.NewInt(100), args["value"])
}

func TestParseLogPermissionChanged(t *testing.T) {
	t.Parallel()

	metaverse, err := NewContract(ContractMetaverse, common.HexToAddress("0x3"), metaverseABI)
	require.NoError(t, err)

	permission := crypto.Keccak256Hash([]byte("METAVERSE_MANAGE_SETTINGS"))
	user := common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd")
	sender := common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")

	ev := metaverse.ABI().Events["PermissionChanged"]
	data, err := ev.Inputs.NonIndexed().Pack(true, sender)
	require.NoError(t, err)

	name, args, err := metaverse.ParseLog(types.Log{
		Topics: []common.Hash{
			ev.ID,
			permission,
			common.BytesToHash(user.Bytes()),
		},
		Data: data,
	})
	require.NoError(t, err)
	require.Equal(t, "PermissionChanged", name)
	require.Equal(t, [32]byte(permission), args["permission"])
	require.Equal(t, user, args["user"])
	require.Equal(t, true, args["set"])
	require.Equal(t, sender, args["sender"])
}

func TestParseLogUnknownTopic(t *testing.T) {
	t.Parallel()

	economy, err := NewContract(ContractEconomy, common.HexToAddress("0x2"), economyABI)
	require.NoError(t, err)

	_, _, err = economy.ParseLog(types.Log{})
	require.Error(t, err)

	_, _, err = economy.ParseLog(types.Log{
		Topics: []common.Hash{crypto.Keccak256Hash([]byte("Unknown()"))},
	})
	require.Error(t, err)
}
