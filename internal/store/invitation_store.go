package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/taskgenius/internal/model"
)

// RecordInvitation stores an invitation keyed by its token. It reports
// false when the token was already recorded.
func (s *SQLiteStore) RecordInvitation(ctx context.Context, inv model.Invitation) (bool, error) {
	if strings.TrimSpace(inv.Token) == "" {
		return false, fmt.Errorf("invitation token must not be empty")
	}
	if inv.Source == "" {
		inv.Source = model.InvitationSent
	}
	if inv.Status == "" {
		inv.Status = model.InvitationPending
	}

	result, err := s.db.NamedExecContext(ctx, `
		INSERT OR IGNORE INTO invitations (
			token, email, project_id, role, status, invite_link, message, source
		) VALUES (
			:token, :email, :project_id, :role, :status, :invite_link, :message, :source
		)`, inv)
	if err != nil {
		return false, fmt.Errorf("recording invitation %s: %w", inv.Token, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// GetInvitations returns recorded invitations, newest first.
func (s *SQLiteStore) GetInvitations(ctx context.Context) ([]model.Invitation, error) {
	var invs []model.Invitation
	err := s.db.SelectContext(ctx, &invs, `
		SELECT token, email, project_id, role, status, invite_link, message, source
		FROM invitations ORDER BY recorded_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying invitations: %w", err)
	}
	return invs, nil
}
