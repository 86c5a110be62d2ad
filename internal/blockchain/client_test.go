package blockchain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type fakeNode struct {
	callResult  []byte
	callErr     error
	blockNumber uint64
	blockErr    error
}

func (f *fakeNode) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeNode) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error) {
	return nil, false, errors.New("not implemented")
}

func (f *fakeNode) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return f.callResult, f.callErr
}

func (f *fakeNode) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(8453), nil
}

func (f *fakeNode) BlockNumber(ctx context.Context) (uint64, error) {
	return f.blockNumber, f.blockErr
}

func TestDecodeLogTokensPurchased(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(vendorABI))
	if err != nil {
		t.Fatalf("parse ABI: %v", err)
	}
	event := parsed.Events["TokensPurchased"]
	buyer := common.HexToAddress("0x2222222222222222222222222222222222222222")

	data := append(
		common.LeftPadBytes(big.NewInt(100).Bytes(), 32),
		common.LeftPadBytes(big.NewInt(250).Bytes(), 32)...,
	)
	log := types.Log{
		Topics: []common.Hash{event.ID, common.BytesToHash(buyer.Bytes())},
		Data:   data,
	}

	client := &Client{abi: parsed}
	decoded, err := client.DecodeLog(log)
	if err != nil {
		t.Fatalf("DecodeLog: %v", err)
	}

	if decoded.Name != "TokensPurchased" {
		t.Errorf("name = %q", decoded.Name)
	}
	if got := decoded.Args["buyer"].(common.Address); got != buyer {
		t.Errorf("buyer = %s, want %s", got.Hex(), buyer.Hex())
	}
	if got := decoded.Args["amount"].(*big.Int); got.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("amount = %s, want 100", got)
	}
	if got := decoded.Args["cost"].(*big.Int); got.Cmp(big.NewInt(250)) != 0 {
		t.Errorf("cost = %s, want 250", got)
	}
}

func TestDecodeLogUnknownEvent(t *testing.T) {
	parsed, _ := abi.JSON(strings.NewReader(vendorABI))
	client := &Client{abi: parsed}

	_, err := client.DecodeLog(types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}})
	if err == nil {
		t.Error("expected error for unknown topic")
	}

	_, err = client.DecodeLog(types.Log{})
	if err == nil {
		t.Error("expected error for empty topics")
	}
}

func TestGetUserState(t *testing.T) {
	parsed, _ := abi.JSON(strings.NewReader(vendorABI))
	output, err := parsed.Methods["getUserState"].Outputs.Pack(
		uint8(3),
		big.NewInt(500),
		big.NewInt(12),
		big.NewInt(0),
		big.NewInt(40),
		uint64(1700000000),
	)
	if err != nil {
		t.Fatalf("pack outputs: %v", err)
	}

	client, err := NewClient(&fakeNode{callResult: output}, "0x1111111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	state, err := client.GetUserState(context.Background(), common.HexToAddress("0x2222222222222222222222222222222222222222"))
	if err != nil {
		t.Fatalf("GetUserState: %v", err)
	}

	if state.Stage != 3 {
		t.Errorf("stage = %d, want 3", state.Stage)
	}
	if state.Points.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("points = %s, want 500", state.Points)
	}
	if state.DailyWindowStart != 1700000000 {
		t.Errorf("window start = %d", state.DailyWindowStart)
	}
}

func TestGetUserStateCallError(t *testing.T) {
	client, err := NewClient(&fakeNode{callErr: errors.New("execution reverted")}, "0x1111111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.GetUserState(context.Background(), common.Address{})
	if err == nil {
		t.Error("expected error from failed call")
	}
}

func TestHealthCheck(t *testing.T) {
	client, _ := NewClient(&fakeNode{blockNumber: 42}, "0x1111111111111111111111111111111111111111")
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}

	client, _ = NewClient(&fakeNode{blockErr: errors.New("connection refused")}, "0x1111111111111111111111111111111111111111")
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Error("expected health check failure")
	}
}
