package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/p2e-inferno/rewards-service/internal/verification"
	"github.com/p2e-inferno/rewards-service/pkg/logger"
	"go.uber.org/zap"
)

// ProfileProvider fetches a user's linked accounts from the wallet-auth
// service. It implements verification.ProfileSource.
type ProfileProvider struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	appSecret  string
	useMock    bool
}

// profileResponse is the wallet-auth user object, reduced to the linked
// account fields verification cares about.
type profileResponse struct {
	ID             string `json:"id"`
	LinkedAccounts []struct {
		Type             string `json:"type"`
		Address          string `json:"address"`
		FID              *int64 `json:"fid"`
		Username         string `json:"username"`
		WalletClientType string `json:"wallet_client_type"`
	} `json:"linked_accounts"`
}

// NewProfileProvider creates a wallet-auth profile provider
func NewProfileProvider(baseURL, appID, appSecret string, useMock bool) *ProfileProvider {
	return &ProfileProvider{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   baseURL,
		appID:     appID,
		appSecret: appSecret,
		useMock:   useMock,
	}
}

// LinkedAccounts fetches the accounts linked to a wallet-auth user
func (p *ProfileProvider) LinkedAccounts(ctx context.Context, userID string) ([]verification.LinkedAccount, error) {
	if p.useMock {
		return p.mockLinkedAccounts(userID), nil
	}

	logger.Info("Fetching linked accounts",
		zap.String("userID", userID),
	)

	url := fmt.Sprintf("%s/users/%s", p.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(p.appID, p.appSecret)
	req.Header.Set("privy-app-id", p.appID)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("wallet-auth API returned status %d: %s", resp.StatusCode, string(body))
	}

	var profile profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	accounts := make([]verification.LinkedAccount, 0, len(profile.LinkedAccounts))
	for _, a := range profile.LinkedAccounts {
		accounts = append(accounts, verification.LinkedAccount{
			Type:             a.Type,
			Address:          a.Address,
			FID:              a.FID,
			Username:         a.Username,
			WalletClientType: a.WalletClientType,
		})
	}

	logger.Info("Linked accounts fetched successfully",
		zap.String("userID", userID),
		zap.Int("accounts", len(accounts)),
	)

	return accounts, nil
}

// HealthCheck verifies the wallet-auth API is accessible
func (p *ProfileProvider) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/apps/%s", p.baseURL, p.appID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	req.SetBasicAuth(p.appID, p.appSecret)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// mockLinkedAccounts generates deterministic profiles for local development.
func (p *ProfileProvider) mockLinkedAccounts(userID string) []verification.LinkedAccount {
	fid := int64(10000 + len(userID))

	return []verification.LinkedAccount{
		{
			Type:             "wallet",
			Address:          "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
			WalletClientType: "metamask",
		},
		{
			Type:     "farcaster",
			FID:      &fid,
			Username: "mock-" + userID,
		},
		{
			Type:     "telegram",
			Username: "mock_" + userID,
		},
	}
}
