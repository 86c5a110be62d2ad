package verification

import (
	"context"
)

// Embedded wallet client types are custodial and do not count as a linked
// external wallet.
func isEmbeddedWallet(clientType string) bool {
	return clientType == "privy" || clientType == "embedded"
}

// IdentityStrategy verifies identity-linking tasks against the wallet-auth
// profile source, and resolves the pass-through tasks that are attested
// client-side.
type IdentityStrategy struct {
	profiles ProfileSource
}

func NewIdentityStrategy(profiles ProfileSource) *IdentityStrategy {
	return &IdentityStrategy{profiles: profiles}
}

func (s *IdentityStrategy) Verify(ctx context.Context, taskType TaskType, submission Submission, userID, userAddress string, opts *Options) Result {
	switch taskType {
	case TaskLinkEmail, TaskSignTOS:
		// Client-side proof is considered sufficient for these.
		return Ok(nil)
	case TaskLinkFarcaster:
		return s.verifyLinked(ctx, userID, "farcaster", "Farcaster")
	case TaskLinkWallet:
		return s.verifyLinked(ctx, userID, "wallet", "Wallet")
	case TaskLinkTelegram:
		return s.verifyLinked(ctx, userID, "telegram", "Telegram")
	default:
		return Fail(ErrUnsupportedTaskType)
	}
}

func (s *IdentityStrategy) verifyLinked(ctx context.Context, userID, accountType, provider string) Result {
	accounts, err := s.profiles.LinkedAccounts(ctx, userID)
	if err != nil {
		return Fail(err.Error())
	}

	for _, account := range accounts {
		if account.Type != accountType {
			continue
		}
		if data, ok := s.accountData(account); ok {
			return Ok(data)
		}
	}

	return Failf("%s not linked", provider)
}

// accountData reports whether a linked account satisfies its provider's
// requirements and extracts the fields worth persisting.
func (s *IdentityStrategy) accountData(account LinkedAccount) (map[string]interface{}, bool) {
	switch account.Type {
	case "farcaster":
		// A Farcaster link without an fid is incomplete.
		if account.FID == nil {
			return nil, false
		}
		data := map[string]interface{}{"fid": *account.FID}
		if account.Username != "" {
			data["username"] = account.Username
		}
		return data, true
	case "wallet":
		if isEmbeddedWallet(account.WalletClientType) {
			return nil, false
		}
		return map[string]interface{}{
			"address":            account.Address,
			"wallet_client_type": account.WalletClientType,
		}, true
	case "telegram":
		data := map[string]interface{}{}
		if account.Username != "" {
			data["username"] = account.Username
		}
		return data, true
	default:
		return nil, false
	}
}
