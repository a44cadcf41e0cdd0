package store

// Deal lifecycle states. A deal is created by its emitter, accepted by the
// receiver, then either confirmed (terminal) or broken. Breaking is allowed
// both before and after acceptance.
const (
	DealCreated   = "created"
	DealAccepted  = "accepted"
	DealConfirmed = "confirmed"
	DealRejected  = "rejected"
)

// Token groups. Fungible tokens carry the brand encoded in the token id,
// non-fungible tokens may be brands themselves.
const (
	TokenGroupFT  = "ft"
	TokenGroupNFT = "nft"
)

// Balance tracks the amount of one token held by one owner. Amounts are
// uint256 values stored as decimal strings.
type Balance struct {
	ID     int64   `meddler:"id,pk" json:"id"`
	Owner  string  `meddler:"owner" json:"owner"`
	Token  string  `meddler:"token" json:"token"`
	Amount string  `meddler:"amount" json:"amount"`
	Brand  *string `meddler:"brand" json:"brand,omitempty"`
}

// Deal is a token exchange between an emitter and a receiver. Token id and
// amount lists are stored as JSON arrays; the receiver side stays NULL until
// the deal is accepted.
type Deal struct {
	ID                   int64   `meddler:"id,pk" json:"id"`
	DealIndex            string  `meddler:"deal_index" json:"deal_index"`
	Emitter              string  `meddler:"emitter" json:"emitter"`
	Receiver             string  `meddler:"receiver" json:"receiver"`
	EmitterTokenIDs      string  `meddler:"emitter_token_ids" json:"emitter_token_ids"`
	EmitterTokenAmounts  string  `meddler:"emitter_token_amounts" json:"emitter_token_amounts"`
	ReceiverTokenIDs     *string `meddler:"receiver_token_ids" json:"receiver_token_ids,omitempty"`
	ReceiverTokenAmounts *string `meddler:"receiver_token_amounts" json:"receiver_token_amounts,omitempty"`
	Status               string  `meddler:"status" json:"status"`
}

// TokenMetadata caches the off-chain metadata document of one token,
// classified into a token group with its owning brand when one applies.
type TokenMetadata struct {
	ID       int64   `meddler:"id,pk" json:"id"`
	TokenID  string  `meddler:"token_id" json:"token_id"`
	Group    string  `meddler:"token_group" json:"token_group"`
	Brand    *string `meddler:"brand" json:"brand,omitempty"`
	Metadata string  `meddler:"metadata" json:"metadata"`
}

// Permission is a metaverse-wide permission grant.
type Permission struct {
	ID         int64  `meddler:"id,pk" json:"id"`
	Permission string `meddler:"permission" json:"permission"`
	User       string `meddler:"user" json:"user"`
	Value      bool   `meddler:"value" json:"value"`
}

// BrandPermission is a permission grant scoped to one brand.
type BrandPermission struct {
	ID         int64  `meddler:"id,pk" json:"id"`
	Brand      string `meddler:"brand" json:"brand"`
	Permission string `meddler:"permission" json:"permission"`
	User       string `meddler:"user" json:"user"`
	Value      bool   `meddler:"value" json:"value"`
}

// Parameter is a named metaverse-wide setting, e.g. a registration cost.
// Values are uint256 stored as decimal strings.
type Parameter struct {
	ID    int64  `meddler:"id,pk" json:"id"`
	Name  string `meddler:"name" json:"name"`
	Value string `meddler:"value" json:"value"`
}

// Sponsorship records whether a sponsor currently sponsors a brand.
type Sponsorship struct {
	ID        int64  `meddler:"id,pk" json:"id"`
	Sponsor   string `meddler:"sponsor" json:"sponsor"`
	Brand     string `meddler:"brand" json:"brand"`
	Sponsored bool   `meddler:"sponsored" json:"sponsored"`
}
