package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roaddog-system/internal/database/models"
)

// CreateOrganization creates an organization with the creator as its owner.
func (s *Store) CreateOrganization(ctx context.Context, userID int64, name string, description *string) (*models.Organization, error) {
	org := &models.Organization{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		member := &models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         userID,
			Role:           RoleOwner,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	return org, nil
}

// ListOrganizations returns every organization the user belongs to, oldest
// membership first so the fallback "current organization" is stable.
func (s *Store) ListOrganizations(ctx context.Context, userID int64) ([]models.Organization, error) {
	var orgs []models.Organization
	err := s.db.WithContext(ctx).
		Joins("JOIN organization_members ON organization_members.organization_id = organizations.id").
		Where("organization_members.user_id = ?", userID).
		Order("organization_members.created_at asc").
		Find(&orgs).Error
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// ResolveCurrentOrganization picks the working organization for a session.
// The persisted preference is a restart hint, not a source of truth: it only
// wins if the user still belongs to it, otherwise the first organization
// stands in. No organizations at all is a valid state.
func (s *Store) ResolveCurrentOrganization(ctx context.Context, userID int64, preferredID string) (*models.Organization, error) {
	orgs, err := s.ListOrganizations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, nil
	}

	if preferredID != "" {
		for i := range orgs {
			if orgs[i].ID == preferredID {
				return &orgs[i], nil
			}
		}
	}
	return &orgs[0], nil
}

// MemberRole returns the user's role in an organization, or ErrNotFound for
// non-members.
func (s *Store) MemberRole(ctx context.Context, orgID string, userID int64) (string, error) {
	var member models.OrganizationMember
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load membership: %w", err)
	}
	return member.Role, nil
}

// RequireRole loads the user's role and checks it against the required
// level. Non-membership and an insufficient role both come back as
// ErrForbidden so handlers don't leak which one it was.
func (s *Store) RequireRole(ctx context.Context, orgID string, userID int64, required string) error {
	role, err := s.MemberRole(ctx, orgID, userID)
	if errors.Is(err, ErrNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	if !HasRole(role, required) {
		return ErrForbidden
	}
	return nil
}

// GetOrganization loads one organization the user belongs to.
func (s *Store) GetOrganization(ctx context.Context, orgID string, userID int64) (*models.Organization, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return nil, err
	}

	var org models.Organization
	err := s.db.WithContext(ctx).Where("id = ?", orgID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	return &org, nil
}

// UpdateOrganization renames or re-describes an organization. Admin or
// better.
func (s *Store) UpdateOrganization(ctx context.Context, orgID string, userID int64, name string, description *string) (*models.Organization, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleAdmin); err != nil {
		return nil, err
	}

	var org models.Organization
	err := s.db.WithContext(ctx).Where("id = ?", orgID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}

	org.Name = name
	org.Description = description
	if err := s.db.WithContext(ctx).Save(&org).Error; err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return &org, nil
}

// DeleteOrganization removes an organization and everything it owns. Owner
// only.
func (s *Store) DeleteOrganization(ctx context.Context, orgID string, userID int64) error {
	if err := s.RequireRole(ctx, orgID, userID, RoleOwner); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.SaleItem{}, &models.Sale{}, &models.Product{},
			&models.EmailSignup{}, &models.CloseOut{}, &models.OrgSettings{},
			&models.OrganizationMember{},
		} {
			if err := deleteOwned(tx, orgID, model); err != nil {
				return err
			}
		}
		return tx.Where("id = ?", orgID).Delete(&models.Organization{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}

	s.cacheDel(ctx, PRODUCT_CACHE_PREFIX+orgID, SETTINGS_CACHE_PREFIX+orgID)
	return nil
}

func deleteOwned(tx *gorm.DB, orgID string, model interface{}) error {
	if _, ok := model.(*models.SaleItem); ok {
		return tx.Where("sale_id IN (?)",
			tx.Model(&models.Sale{}).Select("id").Where("organization_id = ?", orgID),
		).Delete(model).Error
	}
	return tx.Where("organization_id = ?", orgID).Delete(model).Error
}

// AddMember adds a user with a role. Admin or better; only an owner can
// grant owner.
func (s *Store) AddMember(ctx context.Context, orgID string, actorID, userID int64, role string) (*models.OrganizationMember, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	required := RoleAdmin
	if role == RoleOwner {
		required = RoleOwner
	}
	if err := s.RequireRole(ctx, orgID, actorID, required); err != nil {
		return nil, err
	}

	member := &models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
	}
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return member, nil
}

// ListMembers lists an organization's members. Any member can see the list.
func (s *Store) ListMembers(ctx context.Context, orgID string, userID int64) ([]models.OrganizationMember, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return nil, err
	}

	var members []models.OrganizationMember
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgID).
		Order("created_at asc").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// LeaveOrganization removes the caller's own membership. The last owner
// cannot leave — the organization would be orphaned; delete it instead.
func (s *Store) LeaveOrganization(ctx context.Context, orgID string, userID int64) error {
	role, err := s.MemberRole(ctx, orgID, userID)
	if err != nil {
		return err
	}

	if role == RoleOwner {
		var owners int64
		err := s.db.WithContext(ctx).Model(&models.OrganizationMember{}).
			Where("organization_id = ? AND role = ?", orgID, RoleOwner).
			Count(&owners).Error
		if err != nil {
			return fmt.Errorf("count owners: %w", err)
		}
		if owners <= 1 {
			return fmt.Errorf("%w: the last owner cannot leave", ErrForbidden)
		}
	}

	err = s.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Delete(&models.OrganizationMember{}).Error
	if err != nil {
		return fmt.Errorf("leave organization: %w", err)
	}
	return nil
}
