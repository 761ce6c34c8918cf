package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/storage"
)

// GroupService manages group membership, the scope boundary for every
// balance and settlement operation.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create creates a group. The creator is always a member, whether or not
// they listed themselves.
func (s *GroupService) Create(ctx context.Context, actorID, name string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}

	ids := memberIDs
	found := false
	for _, id := range ids {
		if id == actorID {
			found = true
			break
		}
	}
	if !found {
		ids = append([]string{actorID}, ids...)
	}

	// Every listed member must exist; a group referencing ghost members
	// would poison later consistency checks.
	members, err := s.store.GetMembersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up members: %w", err)
	}
	for _, id := range ids {
		if _, ok := members[id]; !ok {
			return nil, fmt.Errorf("%w: member %s", ErrNotFound, id)
		}
	}

	group := &models.Group{Name: name, MemberIDs: ids}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "members", len(ids))
	return group, nil
}

// Get returns a group; caller must be a member.
func (s *GroupService) Get(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}
	if !group.HasMember(actorID) {
		return nil, fmt.Errorf("%w: not a member of group %s", ErrForbidden, groupID)
	}
	return group, nil
}

// List returns the caller's groups ordered by creation time.
func (s *GroupService) List(ctx context.Context, actorID string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, actorID)
}

// AddMembers adds members to a group the caller belongs to.
func (s *GroupService) AddMembers(ctx context.Context, actorID, groupID string, memberIDs []string) (*models.Group, error) {
	group, err := s.Get(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.GetMembersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up members: %w", err)
	}
	for _, id := range memberIDs {
		if _, ok := members[id]; !ok {
			return nil, fmt.Errorf("%w: member %s", ErrNotFound, id)
		}
	}

	if err := s.store.AddGroupMembers(ctx, group.ID, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to add members: %w", err)
	}
	return s.store.GetGroup(ctx, groupID)
}
