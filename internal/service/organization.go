package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/store"
	"github.com/invertar/invertar/pkg/idx"
	"github.com/invertar/invertar/pkg/slogx"
)

// OrganizationService manages tenants. Creation and listing are super-admin
// operations; lookup by ID also serves profile rendering.
type OrganizationService struct {
	Store store.Store
}

func (s *OrganizationService) CreateOrganization(ctx context.Context, name string) (domain.Organization, error) {
	l := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if err := ValidateName("organization name", name); err != nil {
		return domain.Organization{}, err
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        idx.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Organizations().CreateOrganization(ctx, org); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Organization{}, ErrAlreadyExists
		}
		return domain.Organization{}, err
	}

	l.Info("organization created", slog.String("org_id", org.ID), slog.String("name", org.Name))
	return org, nil
}

func (s *OrganizationService) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	org, err := s.Store.Organizations().GetOrganizationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Organization{}, ErrNotFound
		}
		return domain.Organization{}, err
	}
	return org, nil
}

func (s *OrganizationService) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return s.Store.Organizations().ListOrganizations(ctx)
}
