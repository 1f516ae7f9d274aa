package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"roaddog-system/internal/database/models"
)

// Signup sources. Post-checkout signups ride the sale-complete prompt;
// manual entries come from the signup form.
const (
	SignupSourcePostCheckout = "post-checkout"
	SignupSourceManual       = "manual-entry"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignupInput is a mailing-list capture.
type SignupInput struct {
	Email  string
	Name   *string
	Phone  *string
	Source string
	SaleID *string
}

// RecordSignup validates and stores an email capture.
func (s *Store) RecordSignup(ctx context.Context, orgID string, userID int64, input SignupInput) (*models.EmailSignup, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleMember); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("invalid email address %q", input.Email)
	}

	source := input.Source
	if source != SignupSourcePostCheckout && source != SignupSourceManual {
		source = SignupSourceManual
	}

	signup := &models.EmailSignup{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Email:          email,
		Name:           input.Name,
		Phone:          input.Phone,
		Source:         source,
		SaleID:         input.SaleID,
	}
	if err := s.db.WithContext(ctx).Create(signup).Error; err != nil {
		return nil, fmt.Errorf("record signup: %w", err)
	}
	return signup, nil
}

// ListSignups returns an organization's captures, newest first.
func (s *Store) ListSignups(ctx context.Context, orgID string, userID int64) ([]models.EmailSignup, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return nil, err
	}

	var signups []models.EmailSignup
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at desc").
		Find(&signups).Error
	if err != nil {
		return nil, fmt.Errorf("list signups: %w", err)
	}
	return signups, nil
}

// UnsyncedSignups returns captures not yet appended to the sheet.
func (s *Store) UnsyncedSignups(ctx context.Context, orgID string) ([]models.EmailSignup, error) {
	var signups []models.EmailSignup
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND synced = ?", orgID, false).
		Order("created_at asc").
		Find(&signups).Error
	if err != nil {
		return nil, fmt.Errorf("list unsynced signups: %w", err)
	}
	return signups, nil
}

// MarkSignupsSynced flags captures as pushed to the sheet.
func (s *Store) MarkSignupsSynced(ctx context.Context, orgID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&models.EmailSignup{}).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Update("synced", true).Error
	if err != nil {
		return fmt.Errorf("mark signups synced: %w", err)
	}
	return nil
}
