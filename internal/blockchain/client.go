package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/p2e-inferno/rewards-service/internal/verification"
	"github.com/p2e-inferno/rewards-service/pkg/logger"
	"go.uber.org/zap"
)

// Client reads receipts, event logs and Vendor contract state from an EVM
// node. It implements verification.ChainReader, VendorStateReader and
// EventDecoder.
type Client struct {
	node     EthereumNode
	contract common.Address
	abi      abi.ABI
	signer   types.Signer
}

// EthereumNode is the subset of ethclient.Client the reader needs, kept as
// an interface so tests can substitute a fake node.
type EthereumNode interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Dial connects to the node at rpcURL and prepares the Vendor ABI.
func Dial(rpcURL, contractAddr string) (*Client, error) {
	node, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum node: %w", err)
	}
	return NewClient(node, contractAddr)
}

// NewClient wraps an existing node connection.
func NewClient(node EthereumNode, contractAddr string) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(vendorABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse vendor ABI: %w", err)
	}

	chainID, err := node.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	return &Client{
		node:     node,
		contract: common.HexToAddress(contractAddr),
		abi:      parsed,
		signer:   types.LatestSignerForChainID(chainID),
	}, nil
}

// GetTransactionReceipt fetches the receipt plus the sender and target of
// the underlying transaction.
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*verification.TxReceipt, error) {
	receipt, err := c.node.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	tx, _, err := c.node.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	from, err := types.Sender(c.signer, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to recover transaction sender: %w", err)
	}

	var to common.Address
	if tx.To() != nil {
		to = *tx.To()
	}

	status := verification.StatusReverted
	if receipt.Status == types.ReceiptStatusSuccessful {
		status = verification.StatusSuccess
	}

	logs := make([]types.Log, 0, len(receipt.Logs))
	for _, log := range receipt.Logs {
		logs = append(logs, *log)
	}

	return &verification.TxReceipt{
		Status: status,
		From:   from,
		To:     to,
		Logs:   logs,
	}, nil
}

// GetUserState calls getUserState on the Vendor contract.
func (c *Client) GetUserState(ctx context.Context, user common.Address) (*verification.VendorUserState, error) {
	input, err := c.abi.Pack("getUserState", user)
	if err != nil {
		return nil, fmt.Errorf("failed to pack getUserState call: %w", err)
	}

	output, err := c.node.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contract,
		Data: input,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("getUserState call failed: %w", err)
	}

	values, err := c.abi.Unpack("getUserState", output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack getUserState result: %w", err)
	}
	if len(values) != 6 {
		return nil, fmt.Errorf("unexpected getUserState result arity %d", len(values))
	}

	stage, ok := values[0].(uint8)
	if !ok {
		return nil, fmt.Errorf("unexpected stage type %T", values[0])
	}
	windowStart, ok := values[5].(uint64)
	if !ok {
		return nil, fmt.Errorf("unexpected dailyWindowStart type %T", values[5])
	}

	state := &verification.VendorUserState{
		Stage:            uint64(stage),
		DailyWindowStart: windowStart,
	}
	if v, ok := values[1].(*big.Int); ok {
		state.Points = v
	}
	if v, ok := values[2].(*big.Int); ok {
		state.Fuel = v
	}
	if v, ok := values[3].(*big.Int); ok {
		state.LastStage3MaxSale = v
	}
	if v, ok := values[4].(*big.Int); ok {
		state.DailySoldAmount = v
	}

	logger.Debug("Fetched vendor user state",
		zap.String("user", user.Hex()),
		zap.Uint64("stage", state.Stage),
	)

	return state, nil
}

// DecodeLog matches a raw log against the Vendor ABI, combining data fields
// and indexed topics into a single argument map.
func (c *Client) DecodeLog(log types.Log) (*verification.DecodedEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("log has no topics")
	}

	event, err := c.abi.EventByID(log.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("unknown event: %w", err)
	}

	args := make(map[string]interface{})
	if len(log.Data) > 0 {
		if err := c.abi.UnpackIntoMap(args, event.Name, log.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s data: %w", event.Name, err)
		}
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
			return nil, fmt.Errorf("failed to parse %s topics: %w", event.Name, err)
		}
	}

	return &verification.DecodedEvent{Name: event.Name, Args: args}, nil
}

// HealthCheck verifies the node connection.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.node.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("ethereum node health check failed: %w", err)
	}
	return nil
}
