// Package onboarding initializes freshly created accounts: a friendly
// display name and a one-time welcome bonus.
package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"thirteen/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding
	// continued. Name updates are best-effort; the wallet grant is not.
	ProfileUpdateErr error
	// WelcomeBonusGranted is false when the bonus had already been claimed.
	WelcomeBonusGranted bool
}

// Service runs post-auth onboarding for new users.
type Service struct {
	accounts    ports.AccountPort
	bonus       ports.WelcomeBonusPort
	bonusAmount int64
	rng         *rand.Rand
}

// NewService constructs an onboarding service. accounts and bonus must be
// non-nil; a nil rng falls back to a time seed.
func NewService(accounts ports.AccountPort, bonus ports.WelcomeBonusPort, bonusAmount int64, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts:    accounts,
		bonus:       bonus,
		bonusAmount: bonusAmount,
		rng:         rng,
	}
}

// OnboardNewUser assigns a generated display name and grants the welcome
// bonus. The bonus grant is idempotent across retries; the profile update is
// best-effort and reported through Result.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.bonus == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{}
	name := s.generateFriendlyName()
	if err := s.accounts.UpdateProfile(ctx, userID, name, name); err != nil {
		result.ProfileUpdateErr = err
	}

	granted, err := s.bonus.GrantWelcomeBonusOnce(ctx, userID, s.bonusAmount, map[string]interface{}{
		"reason": "welcome_bonus",
	})
	if err != nil {
		return result, fmt.Errorf("grant welcome bonus: %w", err)
	}
	result.WelcomeBonusGranted = granted

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
