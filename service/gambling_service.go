package service

import (
	"context"
	"fmt"

	"pointledger/models"

	log "github.com/sirupsen/logrus"
)

// GameConfig holds the payout table of the game
type GameConfig struct {
	WinProbability float64
	BasePayout     int64
	BonusPayout    int64
}

// DefaultGameConfig pays 1 point per play plus 4 on a coin-flip win
func DefaultGameConfig() GameConfig {
	return GameConfig{
		WinProbability: 0.5,
		BasePayout:     1,
		BonusPayout:    4,
	}
}

// ExpectedPayout is the mean number of points credited per play
func (g GameConfig) ExpectedPayout() float64 {
	return float64(g.BasePayout) + g.WinProbability*float64(g.BonusPayout)
}

type gamblingService struct {
	uowFactory UnitOfWorkFactory
	game       GameConfig
	src        Sources
}

// NewGamblingService creates a new gambling service
func NewGamblingService(uowFactory UnitOfWorkFactory, game GameConfig, src Sources) GamblingService {
	return &gamblingService{
		uowFactory: uowFactory,
		game:       game,
		src:        src.withDefaults(),
	}
}

func (s *gamblingService) Play(ctx context.Context, userID string) (*models.PlayResult, error) {
	if userID == "" {
		return nil, newError(KindInvalidRequest, "user id is required")
	}

	// Roll the dice
	win := s.src.Rand.Float64() < s.game.WinProbability
	payout := s.game.BasePayout
	if win {
		payout += s.game.BonusPayout
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	now := s.src.Clock.Now()
	if _, _, err := ensureUser(ctx, uow, userID, now); err != nil {
		return nil, err
	}

	account, err := uow.AccountRepository().Credit(ctx, userID, payout, now)
	if err != nil {
		return nil, fmt.Errorf("failed to credit payout: %w", err)
	}

	note := "Play"
	if win {
		note = "Play (win)"
	}
	tx := &models.Transaction{
		ID:           s.src.IDs.NewID(),
		UserID:       userID,
		Type:         models.TransactionTypeGamePayout,
		Direction:    models.DirectionCredit,
		Amount:       payout,
		Note:         note,
		BalanceAfter: account.Balance,
		CreatedAt:    now,
	}
	if err := RecordTransaction(ctx, uow, tx); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":  userID,
		"win":     win,
		"payout":  payout,
		"balance": account.Balance,
	}).Debug("Play settled")

	return &models.PlayResult{
		Win:        win,
		Payout:     payout,
		NewBalance: account.Balance,
	}, nil
}
