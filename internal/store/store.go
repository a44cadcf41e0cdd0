package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/russross/meddler"
)

// Metaverse parameter names tracked from cost and amount update events.
const (
	ParamBrandRegistrationCost  = "brand_registration_cost"
	ParamCurrencyDefinitionCost = "currency_definition_cost"
	ParamCurrencyMintingCost    = "currency_minting_cost"
	ParamCurrencyMintingAmount  = "currency_minting_amount"
)

// Querier is the database handle the store operates on. Both *sql.DB and
// *sql.Tx satisfy it, so every write works the same inside and outside a
// transaction.
type Querier = meddler.DB

// GetLastBlock returns the last fully processed block number. The second
// return value is false when no cycle has completed yet.
func GetLastBlock(q Querier) (uint64, bool, error) {
	var lastBlock string

	row := q.QueryRow("SELECT last_block FROM grabber_state WHERE id = 1")
	if err := row.Scan(&lastBlock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}

		return 0, false, fmt.Errorf("reading last block: %w", err)
	}

	block, err := strconv.ParseUint(lastBlock, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parsing last block %q: %w", lastBlock, err)
	}

	return block, true, nil
}

// SetLastBlock records the last fully processed block number.
func SetLastBlock(q Querier, block uint64) error {
	_, err := q.Exec(
		`INSERT INTO grabber_state (id, last_block) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET last_block = excluded.last_block`,
		strconv.FormatUint(block, 10),
	)
	if err != nil {
		return fmt.Errorf("writing last block: %w", err)
	}

	return nil
}

// ApplyBalanceDelta adds delta to the owner's balance of the given token,
// creating the row at delta when none exists. Deltas may be negative.
func ApplyBalanceDelta(q Querier, owner, token string, delta *big.Int, brand *string) error {
	current := new(big.Int)

	var amount string

	row := q.QueryRow("SELECT amount FROM balances WHERE owner = ? AND token = ?", owner, token)

	err := row.Scan(&amount)

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("reading balance of %s/%s: %w", owner, token, err)
	default:
		if _, ok := current.SetString(amount, 10); !ok {
			return fmt.Errorf("stored balance %q of %s/%s is not a decimal number", amount, owner, token)
		}
	}

	current.Add(current, delta)

	_, err = q.Exec(
		`INSERT INTO balances (owner, token, amount, brand) VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner, token) DO UPDATE SET amount = excluded.amount, brand = excluded.brand`,
		owner, token, current.String(), brand,
	)
	if err != nil {
		return fmt.Errorf("writing balance of %s/%s: %w", owner, token, err)
	}

	return nil
}

// GetBalance returns the balance row for owner and token, or sql.ErrNoRows.
func GetBalance(q Querier, owner, token string) (*Balance, error) {
	balance := new(Balance)
	if err := meddler.QueryRow(q, balance,
		"SELECT * FROM balances WHERE owner = ? AND token = ?", owner, token); err != nil {
		return nil, err
	}

	return balance, nil
}

// UpsertDeal inserts the deal, replacing any previous record with the same
// deal index.
func UpsertDeal(q Querier, deal *Deal) error {
	_, err := q.Exec(
		`INSERT INTO deals (deal_index, emitter, receiver, emitter_token_ids, emitter_token_amounts,
		                    receiver_token_ids, receiver_token_amounts, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(deal_index) DO UPDATE SET
		   emitter = excluded.emitter,
		   receiver = excluded.receiver,
		   emitter_token_ids = excluded.emitter_token_ids,
		   emitter_token_amounts = excluded.emitter_token_amounts,
		   receiver_token_ids = excluded.receiver_token_ids,
		   receiver_token_amounts = excluded.receiver_token_amounts,
		   status = excluded.status`,
		deal.DealIndex, deal.Emitter, deal.Receiver,
		deal.EmitterTokenIDs, deal.EmitterTokenAmounts,
		deal.ReceiverTokenIDs, deal.ReceiverTokenAmounts,
		deal.Status,
	)
	if err != nil {
		return fmt.Errorf("writing deal %s: %w", deal.DealIndex, err)
	}

	return nil
}

// GetDealByIndex returns the deal with the given index, or sql.ErrNoRows.
func GetDealByIndex(q Querier, dealIndex string) (*Deal, error) {
	deal := new(Deal)
	if err := meddler.QueryRow(q, deal,
		"SELECT * FROM deals WHERE deal_index = ?", dealIndex); err != nil {
		return nil, err
	}

	return deal, nil
}

// AcceptDeal marks the deal accepted and fills in the receiver side.
func AcceptDeal(q Querier, dealIndex, receiverTokenIDs, receiverTokenAmounts string) error {
	_, err := q.Exec(
		`UPDATE deals SET status = ?, receiver_token_ids = ?, receiver_token_amounts = ?
		 WHERE deal_index = ?`,
		DealAccepted, receiverTokenIDs, receiverTokenAmounts, dealIndex,
	)
	if err != nil {
		return fmt.Errorf("accepting deal %s: %w", dealIndex, err)
	}

	return nil
}

// SetDealStatus updates the lifecycle status of the deal.
func SetDealStatus(q Querier, dealIndex, status string) error {
	_, err := q.Exec("UPDATE deals SET status = ? WHERE deal_index = ?", status, dealIndex)
	if err != nil {
		return fmt.Errorf("updating deal %s to %s: %w", dealIndex, status, err)
	}

	return nil
}

// UpsertTokenMetadata replaces the cached metadata document for the token.
func UpsertTokenMetadata(q Querier, metadata *TokenMetadata) error {
	_, err := q.Exec(
		`INSERT INTO tokens_metadata (token_id, token_group, brand, metadata) VALUES (?, ?, ?, ?)
		 ON CONFLICT(token_id) DO UPDATE SET
		   token_group = excluded.token_group,
		   brand = excluded.brand,
		   metadata = excluded.metadata`,
		metadata.TokenID, metadata.Group, metadata.Brand, metadata.Metadata,
	)
	if err != nil {
		return fmt.Errorf("writing metadata of token %s: %w", metadata.TokenID, err)
	}

	return nil
}

// GetTokenMetadata returns the cached metadata for the token, or sql.ErrNoRows.
func GetTokenMetadata(q Querier, tokenID string) (*TokenMetadata, error) {
	metadata := new(TokenMetadata)
	if err := meddler.QueryRow(q, metadata,
		"SELECT * FROM tokens_metadata WHERE token_id = ?", tokenID); err != nil {
		return nil, err
	}

	return metadata, nil
}

// SetParameter replaces the value of a metaverse parameter.
func SetParameter(q Querier, name, value string) error {
	_, err := q.Exec(
		`INSERT INTO metaverse_parameters (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("writing parameter %s: %w", name, err)
	}

	return nil
}

// GetParameter returns the named parameter, or sql.ErrNoRows.
func GetParameter(q Querier, name string) (*Parameter, error) {
	param := new(Parameter)
	if err := meddler.QueryRow(q, param,
		"SELECT * FROM metaverse_parameters WHERE name = ?", name); err != nil {
		return nil, err
	}

	return param, nil
}

// SetPermission replaces a metaverse-wide permission grant.
func SetPermission(q Querier, permission, user string, value bool) error {
	_, err := q.Exec(
		`INSERT INTO metaverse_permissions (permission, user, value) VALUES (?, ?, ?)
		 ON CONFLICT(permission, user) DO UPDATE SET value = excluded.value`,
		permission, user, value,
	)
	if err != nil {
		return fmt.Errorf("writing permission %s for %s: %w", permission, user, err)
	}

	return nil
}

// GetPermission returns a metaverse-wide permission grant, or sql.ErrNoRows.
func GetPermission(q Querier, permission, user string) (*Permission, error) {
	grant := new(Permission)
	if err := meddler.QueryRow(q, grant,
		"SELECT * FROM metaverse_permissions WHERE permission = ? AND user = ?",
		permission, user); err != nil {
		return nil, err
	}

	return grant, nil
}

// SetBrandPermission replaces a brand-scoped permission grant.
func SetBrandPermission(q Querier, brand, permission, user string, value bool) error {
	_, err := q.Exec(
		`INSERT INTO brand_permissions (brand, permission, user, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT(brand, permission, user) DO UPDATE SET value = excluded.value`,
		brand, permission, user, value,
	)
	if err != nil {
		return fmt.Errorf("writing brand permission %s on %s for %s: %w", permission, brand, user, err)
	}

	return nil
}

// GetBrandPermission returns a brand-scoped permission grant, or sql.ErrNoRows.
func GetBrandPermission(q Querier, brand, permission, user string) (*BrandPermission, error) {
	grant := new(BrandPermission)
	if err := meddler.QueryRow(q, grant,
		"SELECT * FROM brand_permissions WHERE brand = ? AND permission = ? AND user = ?",
		brand, permission, user); err != nil {
		return nil, err
	}

	return grant, nil
}

// SetSponsorship replaces the sponsorship flag between a sponsor and a brand.
func SetSponsorship(q Querier, sponsor, brand string, sponsored bool) error {
	_, err := q.Exec(
		`INSERT INTO sponsors (sponsor, brand, sponsored) VALUES (?, ?, ?)
		 ON CONFLICT(sponsor, brand) DO UPDATE SET sponsored = excluded.sponsored`,
		sponsor, brand, sponsored,
	)
	if err != nil {
		return fmt.Errorf("writing sponsorship of %s by %s: %w", brand, sponsor, err)
	}

	return nil
}

// GetSponsorship returns the sponsorship row, or sql.ErrNoRows.
func GetSponsorship(q Querier, sponsor, brand string) (*Sponsorship, error) {
	sponsorship := new(Sponsorship)
	if err := meddler.QueryRow(q, sponsorship,
		"SELECT * FROM sponsors WHERE sponsor = ? AND brand = ?", sponsor, brand); err != nil {
		return nil, err
	}

	return sponsorship, nil
}
