package services

import (
	"context"
	"fmt"
	"strings"

	"pulse/internal/cache"
	"pulse/internal/core"
)

type UserStore interface {
	GetUser(ctx context.Context, id string) (core.User, error)
	UpdateUserName(ctx context.Context, id, name string) (core.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ProfileService reads and edits the authenticated user's profile.
type ProfileService struct {
	store     UserStore
	summaries cache.Cache[core.Summary]
}

func NewProfileService(store UserStore, summaries cache.Cache[core.Summary]) *ProfileService {
	return &ProfileService{store: store, summaries: summaries}
}

func (s *ProfileService) Get(ctx context.Context, id string) (core.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return core.User{}, fmt.Errorf("get profile: %w", err)
	}
	return u, nil
}

// UpdateName sets a non-empty display name.
func (s *ProfileService) UpdateName(ctx context.Context, id, name string) (core.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.User{}, core.ErrEmptyName
	}
	u, err := s.store.UpdateUserName(ctx, id, name)
	if err != nil {
		return core.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// Delete removes the user with all their transactions and imports.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if s.summaries != nil {
		s.summaries.DeletePrefix(summaryPrefix(id))
	}
	return nil
}
