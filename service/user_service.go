package service

import (
	"context"
	"fmt"
	"strings"

	"pointledger/events"
	"pointledger/models"

	log "github.com/sirupsen/logrus"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
	src        Sources
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, src Sources) UserService {
	return &userService{
		uowFactory: uowFactory,
		src:        src.withDefaults(),
	}
}

// GetOrCreateUser retrieves the account and profile of a user, creating both with a zero balance
func (s *userService) GetOrCreateUser(ctx context.Context, userID string) (*models.UserOverview, error) {
	if userID == "" {
		return nil, newError(KindInvalidRequest, "user id is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, profile, err := ensureUser(ctx, uow, userID, s.src.Clock.Now())
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.UserOverview{
		Account: account,
		Profile: profile,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	overview, err := s.GetOrCreateUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return overview.Profile, nil
}

// UpdateProfile claims a new handle and/or sets the display name in one step.
// A blank display name leaves the current one in place.
func (s *userService) UpdateProfile(ctx context.Context, userID string, handle *string, displayName *string) (*models.Profile, error) {
	if userID == "" {
		return nil, newError(KindInvalidRequest, "user id is required")
	}

	var newHandle string
	if handle != nil {
		validated, err := ValidateHandle(*handle)
		if err != nil {
			return nil, err
		}
		newHandle = validated
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	_, profile, err := ensureUser(ctx, uow, userID, s.src.Clock.Now())
	if err != nil {
		return nil, err
	}

	if handle != nil && newHandle != profile.Handle {
		if err := uow.ProfileRepository().SetHandle(ctx, userID, newHandle); err != nil {
			return nil, fmt.Errorf("failed to set handle: %w", err)
		}

		uow.EventBus().Publish(events.HandleChangedEvent{
			UserID:    userID,
			OldHandle: profile.Handle,
			NewHandle: newHandle,
		})

		log.WithFields(log.Fields{
			"userID":    userID,
			"oldHandle": profile.Handle,
			"newHandle": newHandle,
		}).Info("Handle claimed")

		profile.Handle = newHandle
	}

	if displayName != nil {
		if name := strings.TrimSpace(*displayName); name != "" {
			if err := uow.ProfileRepository().SetDisplayName(ctx, userID, name); err != nil {
				return nil, fmt.Errorf("failed to set display name: %w", err)
			}
			profile.DisplayName = name
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return profile, nil
}

// ResolveHandle looks up the owner of a handle, case-insensitively
func (s *userService) ResolveHandle(ctx context.Context, handle string) (*models.Profile, error) {
	validated, err := ValidateHandle(handle)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	userID, err := uow.ProfileRepository().ResolveHandle(ctx, HandleKey(validated))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve handle: %w", err)
	}
	if userID == "" {
		return nil, newError(KindNotFound, "no user has the handle $%s", validated)
	}

	profile, err := uow.ProfileRepository().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return profile, nil
}

// ListActivity returns the user's transaction log, most recent first
func (s *userService) ListActivity(ctx context.Context, userID string) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	transactions, err := uow.TransactionRepository().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return transactions, nil
}
