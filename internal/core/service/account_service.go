package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/metrics"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// AccountService owns the composite account lifecycle. Provisioning runs
// invite, base profile and client profile as an ordered sequence with
// compensating deletes on failure; composite deletion removes the auth
// identity first and aborts if that fails.
type AccountService struct {
	identity ports.IdentityAdmin
	repo     ports.AccountRepository
	clients  ports.ClientRepository
	guard    ports.ProvisionGuard
	recorder ports.ActivityRecorder
	log      zerolog.Logger
}

func NewAccountService(identity ports.IdentityAdmin, repo ports.AccountRepository, clients ports.ClientRepository, guard ports.ProvisionGuard, recorder ports.ActivityRecorder, log zerolog.Logger) *AccountService {
	return &AccountService{identity: identity, repo: repo, clients: clients, guard: guard, recorder: recorder, log: log}
}

// Provision creates a client account: auth identity with invite token, base
// profile, client profile. If a later step fails, the earlier steps are
// compensated in reverse order and the original error is returned. A failed
// compensating delete is logged for manual cleanup; it never masks the
// original failure.
func (s *AccountService) Provision(ctx context.Context, in ports.ProvisionAccountInput, actor domain.Principal) (*domain.Account, error) {
	if in.Email == "" || in.FullName == "" {
		return nil, domain.Validationf("email and full_name are required")
	}
	if !actor.IsStaffTier() {
		return nil, fmt.Errorf("provision account: %w", domain.ErrForbidden)
	}

	// Best-effort duplicate check. A guard error is logged and ignored;
	// the unique constraint on the identity email is the real gate.
	if dup, err := s.guard.IsDuplicate(ctx, in.Email); err != nil {
		s.log.Warn().Err(err).Str("email", in.Email).Msg("provision guard check failed")
	} else if dup {
		return nil, domain.Validationf("an invite for %s was already sent", in.Email)
	}

	ident, err := s.identity.InviteUser(ctx, in.Email)
	if err != nil {
		metrics.ProvisioningTotal.WithLabelValues("failed").Inc()
		s.log.Error().Err(err).Str("email", in.Email).Msg("failed to invite user")
		return nil, err
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:         uuid.NewString(),
		IdentityID: ident.ID,
		FullName:   in.FullName,
		Role:       domain.RoleClient,
		CreatedAt:  now,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		s.compensate(ctx, ident.ID, "")
		metrics.ProvisioningTotal.WithLabelValues("compensated").Inc()
		s.log.Error().Err(err).Str("identity_id", ident.ID).Msg("failed to create profile")
		return nil, err
	}

	client := &domain.Client{
		ID:        uuid.NewString(),
		ProfileID: profile.ID,
		Company:   in.Company,
		Phone:     in.Phone,
		Status:    domain.ClientActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		s.compensate(ctx, ident.ID, profile.ID)
		metrics.ProvisioningTotal.WithLabelValues("compensated").Inc()
		s.log.Error().Err(err).Str("profile_id", profile.ID).Msg("failed to create client profile")
		return nil, err
	}

	if err := s.guard.Mark(ctx, in.Email); err != nil {
		s.log.Warn().Err(err).Str("email", in.Email).Msg("provision guard mark failed")
	}

	s.recorder.Record(ctx, ports.ActivityInput{
		ParentID:    client.ID,
		Kind:        domain.ActivityAccountProvisioned,
		Title:       "Account provisioned",
		Description: in.Email,
		ActorID:     actor.ID,
	})

	metrics.ProvisioningTotal.WithLabelValues("provisioned").Inc()
	metrics.ResourcesCreatedTotal.WithLabelValues("client").Inc()
	s.log.Info().
		Str("client_id", client.ID).
		Str("identity_id", ident.ID).
		Msg("account provisioned")

	client.FullName = in.FullName
	client.Email = in.Email
	client.IdentityID = ident.ID
	return &domain.Account{Identity: *ident, Profile: *profile, Client: *client}, nil
}

// compensate rolls back completed provisioning steps in reverse order.
// profileID is empty when only the identity exists.
func (s *AccountService) compensate(ctx context.Context, identityID, profileID string) {
	if profileID != "" {
		if err := s.repo.DeleteProfile(ctx, profileID); err != nil {
			metrics.CompensationFailuresTotal.Inc()
			s.log.Error().Err(err).
				Str("profile_id", profileID).
				Str("identity_id", identityID).
				Msg("compensating profile delete failed, manual cleanup required")
		}
	}
	if err := s.identity.DeleteUser(ctx, identityID); err != nil {
		metrics.CompensationFailuresTotal.Inc()
		s.log.Error().Err(err).
			Str("identity_id", identityID).
			Msg("compensating identity delete failed, manual cleanup required")
	}
}

// Delete removes a client account: auth identity first, then the profile
// rows. If the identity delete fails the operation aborts with the rows
// intact, so a retry is always safe. Owned resources cascade from the
// client profile at the store level.
func (s *AccountService) Delete(ctx context.Context, clientID string, actor domain.Principal) error {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}

	if client.IdentityID != "" {
		if err := s.identity.DeleteUser(ctx, client.IdentityID); err != nil {
			s.log.Error().Err(err).
				Str("client_id", clientID).
				Str("identity_id", client.IdentityID).
				Msg("failed to delete auth identity, aborting account deletion")
			return err
		}
	}

	if err := s.repo.DeleteClient(ctx, clientID); err != nil {
		return err
	}
	if err := s.repo.DeleteProfile(ctx, client.ProfileID); err != nil {
		return err
	}

	s.log.Info().Str("client_id", clientID).Str("actor_id", actor.ID).Msg("account deleted")
	return nil
}
