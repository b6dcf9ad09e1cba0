package memory

import (
	"context"
	"fmt"

	"pointledger/models"
	"pointledger/service"
)

type profileRepository struct {
	uow *unitOfWork
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, ok := r.uow.store.profiles[userID]
	if !ok {
		return nil, nil
	}
	profileCopy := *profile
	return &profileCopy, nil
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID string) (*models.Profile, error) {
	store := r.uow.store
	profile, ok := store.profiles[userID]
	if !ok {
		profile = &models.Profile{UserID: userID}
		store.profiles[userID] = profile
		r.uow.record(func() { delete(store.profiles, userID) })
	}
	profileCopy := *profile
	return &profileCopy, nil
}

// SetHandle releases the previous handle and claims the new one in a single step
func (r *profileRepository) SetHandle(ctx context.Context, userID string, handle string) error {
	store := r.uow.store
	profile, ok := store.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s not found", userID)
	}

	key := service.HandleKey(handle)
	if owner, taken := store.handles[key]; taken && owner != userID {
		return service.ErrHandleTaken
	}

	previous := *profile
	oldKey := ""
	if previous.Handle != "" {
		oldKey = service.HandleKey(previous.Handle)
	}
	r.uow.record(func() {
		delete(store.handles, key)
		if oldKey != "" {
			store.handles[oldKey] = userID
		}
		*profile = previous
	})

	if oldKey != "" {
		delete(store.handles, oldKey)
	}
	store.handles[key] = userID
	profile.Handle = handle

	return nil
}

func (r *profileRepository) SetDisplayName(ctx context.Context, userID string, name string) error {
	profile, ok := r.uow.store.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s not found", userID)
	}

	previous := profile.DisplayName
	r.uow.record(func() { profile.DisplayName = previous })
	profile.DisplayName = name

	return nil
}

func (r *profileRepository) ResolveHandle(ctx context.Context, handle string) (string, error) {
	return r.uow.store.handles[service.HandleKey(handle)], nil
}
