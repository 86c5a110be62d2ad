package verification

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Receipt status values surfaced by ChainReader.
const (
	StatusSuccess  = "success"
	StatusReverted = "reverted"
)

// TxReceipt is the slice of an on-chain transaction the strategies care
// about: who sent it, what it targeted, whether it succeeded, and its logs.
type TxReceipt struct {
	Status string
	From   common.Address
	To     common.Address
	Logs   []types.Log
}

// ChainReader fetches transaction receipts from an EVM node.
type ChainReader interface {
	GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*TxReceipt, error)
}

// VendorUserState mirrors the Vendor contract's per-user state struct. The
// chain owns this data; strategies only read it.
type VendorUserState struct {
	Stage             uint64
	Points            *big.Int
	Fuel              *big.Int
	LastStage3MaxSale *big.Int
	DailySoldAmount   *big.Int
	DailyWindowStart  uint64
}

// VendorStateReader reads a user's state from the Vendor contract.
type VendorStateReader interface {
	GetUserState(ctx context.Context, user common.Address) (*VendorUserState, error)
}

// DecodedEvent is an event log matched against the Vendor contract ABI.
type DecodedEvent struct {
	Name string
	Args map[string]interface{}
}

// EventDecoder decodes a raw log against the Vendor contract ABI, returning
// an error when the log does not match any known event.
type EventDecoder interface {
	DecodeLog(log types.Log) (*DecodedEvent, error)
}

// LinkedAccount is one provider record from the wallet-auth profile source.
type LinkedAccount struct {
	Type             string `json:"type"` // "email", "farcaster", "wallet", "telegram"
	Address          string `json:"address,omitempty"`
	FID              *int64 `json:"fid,omitempty"`
	Username         string `json:"username,omitempty"`
	WalletClientType string `json:"wallet_client_type,omitempty"`
}

// ProfileSource returns the accounts a user has linked through the
// wallet-auth provider.
type ProfileSource interface {
	LinkedAccounts(ctx context.Context, userID string) ([]LinkedAccount, error)
}
