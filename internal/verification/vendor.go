package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotConfigured marks missing infrastructure configuration (e.g. no
// vendor contract address). Callers map it to a hard failure rather than a
// business-rule rejection.
var ErrNotConfigured = errors.New("verification not configured")

// Vendor contract events expected per transaction-based task type.
const (
	EventTokensPurchased = "TokensPurchased"
	EventTokensSold      = "TokensSold"
	EventLightUp         = "LightUp"
)

// VendorStrategy verifies tasks against the Vendor token contract:
// transaction-based tasks by inspecting the receipt and its event logs,
// state-based tasks by reading the user's contract state.
type VendorStrategy struct {
	contract common.Address
	chain    ChainReader
	state    VendorStateReader
	decoder  EventDecoder
}

func NewVendorStrategy(contractAddress string, chain ChainReader, state VendorStateReader, decoder EventDecoder) (*VendorStrategy, error) {
	if contractAddress == "" {
		return nil, fmt.Errorf("%w: vendor contract address is empty", ErrNotConfigured)
	}
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("%w: invalid vendor contract address %q", ErrNotConfigured, contractAddress)
	}

	return &VendorStrategy{
		contract: common.HexToAddress(contractAddress),
		chain:    chain,
		state:    state,
		decoder:  decoder,
	}, nil
}

func (s *VendorStrategy) Verify(ctx context.Context, taskType TaskType, submission Submission, userID, userAddress string, opts *Options) Result {
	switch taskType {
	case TaskVendorBuy:
		return s.verifyTransaction(ctx, submission, userAddress, EventTokensPurchased)
	case TaskVendorSell:
		return s.verifyTransaction(ctx, submission, userAddress, EventTokensSold)
	case TaskVendorLightUp:
		return s.verifyTransaction(ctx, submission, userAddress, EventLightUp)
	case TaskVendorLevelUp:
		return s.verifyStage(ctx, userAddress, opts)
	default:
		return Fail(ErrUnsupportedTaskType)
	}
}

// verifyTransaction checks that the submitted transaction was sent by the
// user to the Vendor contract, succeeded, and emitted the expected event.
func (s *VendorStrategy) verifyTransaction(ctx context.Context, submission Submission, userAddress, wantEvent string) Result {
	if submission.TransactionHash == "" {
		return Fail("Transaction hash required")
	}

	receipt, err := s.chain.GetTransactionReceipt(ctx, common.HexToHash(submission.TransactionHash))
	if err != nil {
		return Fail(err.Error())
	}

	// HexToAddress canonicalizes, so these compares are case-insensitive.
	if receipt.To != s.contract {
		return Fail("Transaction not with Vendor contract")
	}
	if receipt.From != common.HexToAddress(userAddress) {
		return Fail("Transaction sender mismatch")
	}
	if receipt.Status != StatusSuccess {
		return Fail("Transaction failed")
	}

	for _, log := range receipt.Logs {
		if log.Address != s.contract {
			continue
		}
		event, err := s.decoder.DecodeLog(log)
		if err != nil {
			continue
		}
		if event.Name != wantEvent {
			continue
		}

		data := make(map[string]interface{}, len(event.Args)+1)
		for k, v := range event.Args {
			data[k] = v
		}
		data["transaction_hash"] = submission.TransactionHash
		return Ok(data)
	}

	return Failf("%s event not found in transaction logs", wantEvent)
}

// verifyStage reads the user's Vendor contract state and compares the stage
// against the task's target.
func (s *VendorStrategy) verifyStage(ctx context.Context, userAddress string, opts *Options) Result {
	// A zero target would pass every user; the task definition must say what
	// stage it wants.
	if opts == nil || opts.TaskConfig.TargetStage == 0 {
		return Fail("Target stage not configured")
	}
	target := opts.TaskConfig.TargetStage

	state, err := s.state.GetUserState(ctx, common.HexToAddress(userAddress))
	if err != nil {
		return Fail(err.Error())
	}

	if state.Stage < target {
		return Failf("Current stage %d < Target %d", state.Stage, target)
	}

	data := map[string]interface{}{"stage": state.Stage}
	if state.Points != nil {
		data["points"] = state.Points.String()
	}
	if state.Fuel != nil {
		data["fuel"] = state.Fuel.String()
	}
	return Ok(data)
}
