package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

const groupColumns = "id, name, description, color, icon, created_at, updated_at"

// CreateGroup persists a new group and its member list.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	group.ID = newID(group.ID)
	group.CreatedAt = s.stamp()
	group.UpdatedAt = group.CreatedAt
	group.PersonIDs = models.UniqueIDs(group.PersonIDs)

	return s.inTx(ctx, func(q querier) error {
		_, err := q.ExecContext(ctx,
			"INSERT INTO groups ("+groupColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			group.ID, group.Name, group.Description, group.Color, group.Icon,
			toMillis(group.CreatedAt), toMillis(group.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		return insertMembers(ctx, q, group)
	})
}

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := scanGroup(s.db.QueryRowContext(ctx, "SELECT "+groupColumns+" FROM groups WHERE id = ?", groupID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.loadMembers(ctx, "WHERE group_id = ?", groupID)
	if err != nil {
		return nil, err
	}
	if ids, ok := members[group.ID]; ok {
		group.PersonIDs = ids
	}

	return group, nil
}

// ListGroups retrieves all groups in creation order.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+groupColumns+" FROM groups ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	members, err := s.loadMembers(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		if ids, ok := members[group.ID]; ok {
			group.PersonIDs = ids
		}
	}

	return groups, nil
}

// UpdateGroup replaces an existing group and its member list.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = s.stamp()
	group.PersonIDs = models.UniqueIDs(group.PersonIDs)

	return s.inTx(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx,
			"UPDATE groups SET name = ?, description = ?, color = ?, icon = ?, updated_at = ? WHERE id = ?",
			group.Name, group.Description, group.Color, group.Icon, toMillis(group.UpdatedAt), group.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}
		if err := checkAffected(res, "group", group.ID); err != nil {
			return err
		}

		if _, err := q.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
			return fmt.Errorf("failed to clear group members: %w", err)
		}
		return insertMembers(ctx, q, group)
	})
}

// DeleteGroup removes a group together with its transactions and their
// payments. All descendants are collected first, then deleted in one
// database transaction.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	return s.inTx(ctx, func(q querier) error {
		c, err := collectGroup(ctx, q, groupID)
		if err != nil {
			return err
		}
		return c.apply(ctx, q)
	})
}

func insertMembers(ctx context.Context, q querier, group *models.Group) error {
	for i, personID := range group.PersonIDs {
		_, err := q.ExecContext(ctx,
			"INSERT INTO group_members (group_id, person_id, position) VALUES (?, ?, ?)",
			group.ID, personID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}

// loadMembers returns member IDs keyed by group ID, in stored order.
func (s *SQLiteStore) loadMembers(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, person_id FROM group_members "+where+" ORDER BY group_id, position",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	members := make(map[string][]string)
	for rows.Next() {
		var groupID, personID string
		if err := rows.Scan(&groupID, &personID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members[groupID] = append(members[groupID], personID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{PersonIDs: []string{}}
	var createdAt, updatedAt int64
	if err := row.Scan(&group.ID, &group.Name, &group.Description, &group.Color, &group.Icon, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	group.CreatedAt = fromMillis(createdAt)
	group.UpdatedAt = fromMillis(updatedAt)
	return group, nil
}
