package grabber

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Event is one decoded contract log, positioned by its global chain order.
type Event struct {
	Contract    string
	BlockNumber uint64
	TxIndex     uint
	LogIndex    uint
	Name        string
	Args        map[string]interface{}
}

// Arg returns the named argument. Contracts compiled from older sources
// prefix reserved argument names with an underscore, so both spellings are
// accepted.
func (e *Event) Arg(name string) (interface{}, bool) {
	if v, ok := e.Args[name]; ok {
		return v, true
	}

	v, ok := e.Args["_"+name]

	return v, ok
}

// Address returns the named argument as an address.
func (e *Event) Address(name string) (common.Address, error) {
	v, ok := e.Arg(name)
	if !ok {
		return common.Address{}, fmt.Errorf("event %s has no argument %s", e.Name, name)
	}

	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("event %s argument %s is %T, want address", e.Name, name, v)
	}

	return addr, nil
}

// BigInt returns the named argument as a uint256.
func (e *Event) BigInt(name string) (*big.Int, error) {
	v, ok := e.Arg(name)
	if !ok {
		return nil, fmt.Errorf("event %s has no argument %s", e.Name, name)
	}

	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("event %s argument %s is %T, want uint256", e.Name, name, v)
	}

	return n, nil
}

// BigIntSlice returns the named argument as a uint256 array.
func (e *Event) BigIntSlice(name string) ([]*big.Int, error) {
	v, ok := e.Arg(name)
	if !ok {
		return nil, fmt.Errorf("event %s has no argument %s", e.Name, name)
	}

	ns, ok := v.([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("event %s argument %s is %T, want uint256[]", e.Name, name, v)
	}

	return ns, nil
}

// Bool returns the named argument as a bool.
func (e *Event) Bool(name string) (bool, error) {
	v, ok := e.Arg(name)
	if !ok {
		return false, fmt.Errorf("event %s has no argument %s", e.Name, name)
	}

	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("event %s argument %s is %T, want bool", e.Name, name, v)
	}

	return b, nil
}

// String returns the named argument as a string.
func (e *Event) String(name string) (string, error) {
	v, ok := e.Arg(name)
	if !ok {
		return "", fmt.Errorf("event %s has no argument %s", e.Name, name)
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("event %s argument %s is %T, want string", e.Name, name, v)
	}

	return s, nil
}

// Bytes32 returns the named argument as a fixed 32-byte value.
func (e *Event) Bytes32(name string) ([32]byte, error) {
	v, ok := e.Arg(name)
	if !ok {
		return [32]byte{}, fmt.Errorf("event %s has no argument %s", e.Name, name)
	}

	switch b := v.(type) {
	case [32]byte:
		return b, nil
	case common.Hash:
		return b, nil
	default:
		return [32]byte{}, fmt.Errorf("event %s argument %s is %T, want bytes32", e.Name, name, v)
	}
}

// IsZero reports whether the value represents zero. Strings are zero when,
// after an optional sign and base prefix, every digit is 0; that makes the
// test hold in any base from 2 to 36.
func IsZero(v interface{}) bool {
	switch n := v.(type) {
	case nil:
		return true
	case *big.Int:
		return n == nil || n.Sign() == 0
	case int:
		return n == 0
	case int64:
		return n == 0
	case uint64:
		return n == 0
	case bool:
		return !n
	case common.Address:
		return n == common.Address{}
	case [32]byte:
		return n == [32]byte{}
	case string:
		return isZeroString(n)
	default:
		return false
	}
}

func isZeroString(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "+")

	if len(s) >= 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X', 'b', 'B', 'o', 'O':
			s = s[2:]
		}
	}

	if s == "" {
		return false
	}

	for _, c := range s {
		if c != '0' {
			return false
		}
	}

	return true
}

// highBit is set on token ids that represent brand-scoped fungible tokens.
var highBit = new(big.Int).Lsh(big.NewInt(1), 255)

// brandMask extracts bits 64 to 223 of a token id, the embedded brand address.
var brandMask = new(big.Int).Lsh(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1)), 64)

// NormalizeTokenID renders a token id as a fixed-width hex string, 0x
// followed by 64 lowercase hex digits.
func NormalizeTokenID(id *big.Int) string {
	return fmt.Sprintf("0x%064x", id)
}

// IsFungible reports whether the token id has its high bit set.
func IsFungible(id *big.Int) bool {
	return new(big.Int).And(id, highBit).Sign() != 0
}

// BrandOfToken extracts the brand address embedded in a fungible token id.
func BrandOfToken(id *big.Int) common.Address {
	embedded := new(big.Int).Rsh(new(big.Int).And(id, brandMask), 64)

	return common.BigToAddress(embedded)
}
