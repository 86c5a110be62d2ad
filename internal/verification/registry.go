package verification

import (
	"context"
)

// TaskType is the closed set of verifiable task kinds.
type TaskType string

const (
	TaskVendorBuy     TaskType = "vendor_buy"
	TaskVendorSell    TaskType = "vendor_sell"
	TaskVendorLightUp TaskType = "vendor_light_up"
	TaskVendorLevelUp TaskType = "vendor_level_up"
	TaskLinkEmail     TaskType = "link_email"
	TaskSignTOS       TaskType = "sign_tos"
	TaskLinkFarcaster TaskType = "link_farcaster"
	TaskLinkWallet    TaskType = "link_wallet"
	TaskLinkTelegram  TaskType = "link_telegram"
)

// ErrUnsupportedTaskType is the message returned for task types no strategy
// claims. It is produced before any external call is made.
const ErrUnsupportedTaskType = "Unsupported vendor task type"

// Submission is the client-supplied evidence for a task.
type Submission struct {
	TransactionHash string `json:"transaction_hash"`
}

// TaskConfig carries per-task thresholds from the task definition.
type TaskConfig struct {
	TargetStage uint64 `json:"target_stage"`
}

// Options are optional per-call parameters forwarded to the strategy.
type Options struct {
	TaskConfig TaskConfig
}

// Strategy verifies one family of task types. Implementations never return
// errors past their boundary: external failures become failed Results.
// Each Verify call is stateless and safe to run concurrently.
type Strategy interface {
	Verify(ctx context.Context, taskType TaskType, submission Submission, userID, userAddress string, opts *Options) Result
}

// Registry dispatches task types to their strategies. The strategy table is
// built once at initialization and is read-only afterwards.
type Registry struct {
	strategies map[TaskType]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[TaskType]Strategy)}
}

// Register binds a strategy to the given task types.
func (r *Registry) Register(strategy Strategy, taskTypes ...TaskType) {
	for _, t := range taskTypes {
		r.strategies[t] = strategy
	}
}

// Supported reports whether a task type has a registered strategy.
func (r *Registry) Supported(taskType TaskType) bool {
	_, ok := r.strategies[taskType]
	return ok
}

// Verify dispatches to the matching strategy. Unknown task types fail
// immediately without touching any external dependency.
func (r *Registry) Verify(ctx context.Context, taskType TaskType, submission Submission, userID, userAddress string, opts *Options) Result {
	strategy, ok := r.strategies[taskType]
	if !ok {
		return Fail(ErrUnsupportedTaskType)
	}
	return strategy.Verify(ctx, taskType, submission, userID, userAddress, opts)
}
