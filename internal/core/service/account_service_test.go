package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// stubIdentityAdmin records every call so tests can assert on ordering.
type stubIdentityAdmin struct {
	byID      map[string]*domain.Identity
	calls     *[]string
	inviteErr error
	deleteErr error
}

func newStubIdentityAdmin(calls *[]string) *stubIdentityAdmin {
	return &stubIdentityAdmin{byID: make(map[string]*domain.Identity), calls: calls}
}

func (s *stubIdentityAdmin) InviteUser(_ context.Context, email string) (*domain.Identity, error) {
	*s.calls = append(*s.calls, "invite")
	if s.inviteErr != nil {
		return nil, s.inviteErr
	}
	now := time.Now().UTC()
	ident := &domain.Identity{
		ID:          uuid.NewString(),
		Email:       email,
		InviteToken: uuid.NewString(),
		InvitedAt:   &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.byID[ident.ID] = ident
	return ident, nil
}

func (s *stubIdentityAdmin) GetUserByID(_ context.Context, id string) (*domain.Identity, error) {
	ident, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", domain.ErrNotFound)
	}
	return ident, nil
}

func (s *stubIdentityAdmin) DeleteUser(_ context.Context, id string) error {
	*s.calls = append(*s.calls, "delete_identity")
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.byID, id)
	return nil
}

type stubAccountRepo struct {
	profiles         map[string]*domain.Profile
	clients          map[string]*domain.Client
	calls            *[]string
	createProfileErr error
	createClientErr  error
	deleteProfileErr error
}

func newStubAccountRepo(calls *[]string) *stubAccountRepo {
	return &stubAccountRepo{
		profiles: make(map[string]*domain.Profile),
		clients:  make(map[string]*domain.Client),
		calls:    calls,
	}
}

func (r *stubAccountRepo) CreateProfile(_ context.Context, p *domain.Profile) error {
	*r.calls = append(*r.calls, "create_profile")
	if r.createProfileErr != nil {
		return r.createProfileErr
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *stubAccountRepo) DeleteProfile(_ context.Context, id string) error {
	*r.calls = append(*r.calls, "delete_profile")
	if r.deleteProfileErr != nil {
		return r.deleteProfileErr
	}
	delete(r.profiles, id)
	return nil
}

func (r *stubAccountRepo) CreateClient(_ context.Context, c *domain.Client) error {
	*r.calls = append(*r.calls, "create_client")
	if r.createClientErr != nil {
		return r.createClientErr
	}
	r.clients[c.ID] = c
	return nil
}

func (r *stubAccountRepo) DeleteClient(_ context.Context, id string) error {
	*r.calls = append(*r.calls, "delete_client")
	delete(r.clients, id)
	return nil
}

type stubClientRepo struct {
	byID map[string]*domain.Client
}

func (r *stubClientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("get client: %w", domain.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) List(_ context.Context, f ports.ClientFilter) ([]domain.Client, int64, error) {
	var matched []domain.Client
	for _, c := range r.byID {
		if f.ID != "" && c.ID != f.ID {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		matched = append(matched, *c)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubClientRepo) Update(_ context.Context, id string, patch ports.UpdateClientInput) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("update client: %w", domain.ErrNotFound)
	}
	if patch.FullName.Set && !patch.FullName.Null {
		c.FullName = patch.FullName.Value
	}
	if patch.Company.Set {
		if patch.Company.Null {
			c.Company = ""
		} else {
			c.Company = patch.Company.Value
		}
	}
	if patch.Phone.Set && !patch.Phone.Null {
		c.Phone = patch.Phone.Value
	}
	if patch.Status.Set && !patch.Status.Null {
		c.Status = domain.ClientStatus(patch.Status.Value)
	}
	clone := *c
	return &clone, nil
}

type stubGuard struct {
	seen     map[string]bool
	checkErr error
	markErr  error
}

func newStubGuard() *stubGuard { return &stubGuard{seen: make(map[string]bool)} }

func (g *stubGuard) IsDuplicate(_ context.Context, email string) (bool, error) {
	if g.checkErr != nil {
		return false, g.checkErr
	}
	return g.seen[email], nil
}

func (g *stubGuard) Mark(_ context.Context, email string) error {
	if g.markErr != nil {
		return g.markErr
	}
	g.seen[email] = true
	return nil
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type accountHarness struct {
	calls    []string
	identity *stubIdentityAdmin
	repo     *stubAccountRepo
	clients  *stubClientRepo
	guard    *stubGuard
	svc      *AccountService
}

func newAccountHarness() *accountHarness {
	h := &accountHarness{clients: &stubClientRepo{byID: make(map[string]*domain.Client)}, guard: newStubGuard()}
	h.identity = newStubIdentityAdmin(&h.calls)
	h.repo = newStubAccountRepo(&h.calls)
	h.svc = NewAccountService(h.identity, h.repo, h.clients, h.guard, NewRecorder(&stubActivityRepo{}, discardLogger), discardLogger)
	return h
}

func provisionInput() ports.ProvisionAccountInput {
	return ports.ProvisionAccountInput{
		Email:    "maria@example.com",
		FullName: "Maria Lopez",
		Company:  "Lopez Holdings",
	}
}

// ---------------------------------------------------------------------------
// Provision
// ---------------------------------------------------------------------------

func TestAccountService_Provision_Success(t *testing.T) {
	h := newAccountHarness()

	acc, err := h.svc.Provision(context.Background(), provisionInput(), staffActor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.Identity.InviteToken == "" {
		t.Error("identity must carry an invite token")
	}
	if acc.Profile.Role != domain.RoleClient {
		t.Errorf("expected client role, got %q", acc.Profile.Role)
	}
	if acc.Client.Status != domain.ClientActive {
		t.Errorf("expected active client, got %q", acc.Client.Status)
	}
	if acc.Client.ProfileID != acc.Profile.ID {
		t.Error("client must link to the created profile")
	}
	if !h.guard.seen["maria@example.com"] {
		t.Error("guard must be marked after success")
	}

	want := []string{"invite", "create_profile", "create_client"}
	if len(h.calls) != len(want) {
		t.Fatalf("calls: expected %v, got %v", want, h.calls)
	}
	for i := range want {
		if h.calls[i] != want[i] {
			t.Fatalf("calls: expected %v, got %v", want, h.calls)
		}
	}
}

func TestAccountService_Provision_NonStaffForbidden(t *testing.T) {
	h := newAccountHarness()

	_, err := h.svc.Provision(context.Background(), provisionInput(), clientActor)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if len(h.calls) != 0 {
		t.Errorf("no provisioning step may run for a forbidden caller, got %v", h.calls)
	}
}

func TestAccountService_Provision_DuplicateInviteRejected(t *testing.T) {
	h := newAccountHarness()
	h.guard.seen["maria@example.com"] = true

	_, err := h.svc.Provision(context.Background(), provisionInput(), staffActor)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if len(h.calls) != 0 {
		t.Errorf("duplicate invite must short-circuit before step 1, got %v", h.calls)
	}
}

func TestAccountService_Provision_GuardErrorIgnored(t *testing.T) {
	// The guard is best-effort: a failing guard never blocks provisioning.
	h := newAccountHarness()
	h.guard.checkErr = errors.New("redis down")

	if _, err := h.svc.Provision(context.Background(), provisionInput(), staffActor); err != nil {
		t.Fatalf("guard failure must not block provisioning: %v", err)
	}
}

func TestAccountService_Provision_ProfileFailureCompensatesIdentity(t *testing.T) {
	h := newAccountHarness()
	original := errors.New("profiles table unavailable")
	h.repo.createProfileErr = original

	_, err := h.svc.Provision(context.Background(), provisionInput(), staffActor)
	if !errors.Is(err, original) {
		t.Fatalf("the original step error must surface, got %v", err)
	}

	want := []string{"invite", "create_profile", "delete_identity"}
	for i := range want {
		if i >= len(h.calls) || h.calls[i] != want[i] {
			t.Fatalf("calls: expected %v, got %v", want, h.calls)
		}
	}
	if len(h.identity.byID) != 0 {
		t.Error("invited identity must be compensated away")
	}
}

func TestAccountService_Provision_ClientFailureCompensatesInReverseOrder(t *testing.T) {
	h := newAccountHarness()
	original := errors.New("client profile insert failed")
	h.repo.createClientErr = original

	_, err := h.svc.Provision(context.Background(), provisionInput(), staffActor)
	if !errors.Is(err, original) {
		t.Fatalf("the original step error must surface, got %v", err)
	}

	want := []string{"invite", "create_profile", "create_client", "delete_profile", "delete_identity"}
	if len(h.calls) != len(want) {
		t.Fatalf("calls: expected %v, got %v", want, h.calls)
	}
	for i := range want {
		if h.calls[i] != want[i] {
			t.Fatalf("calls: expected %v, got %v", want, h.calls)
		}
	}
}

func TestAccountService_Provision_FailedCompensationStillSurfacesOriginalError(t *testing.T) {
	h := newAccountHarness()
	original := errors.New("client profile insert failed")
	h.repo.createClientErr = original
	h.repo.deleteProfileErr = errors.New("delete also failed")
	h.identity.deleteErr = errors.New("identity delete also failed")

	_, err := h.svc.Provision(context.Background(), provisionInput(), staffActor)
	if !errors.Is(err, original) {
		t.Errorf("compensation failures must never mask the original error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func seedAccount(t *testing.T, h *accountHarness) *domain.Account {
	t.Helper()
	acc, err := h.svc.Provision(context.Background(), provisionInput(), staffActor)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	h.clients.byID[acc.Client.ID] = &acc.Client
	h.calls = h.calls[:0]
	return acc
}

func TestAccountService_Delete_IdentityFirst(t *testing.T) {
	h := newAccountHarness()
	acc := seedAccount(t, h)

	if err := h.svc.Delete(context.Background(), acc.Client.ID, adminActor); err != nil {
		t.Fatal(err)
	}

	want := []string{"delete_identity", "delete_client", "delete_profile"}
	if len(h.calls) != len(want) {
		t.Fatalf("calls: expected %v, got %v", want, h.calls)
	}
	for i := range want {
		if h.calls[i] != want[i] {
			t.Fatalf("calls: expected %v, got %v", want, h.calls)
		}
	}
}

func TestAccountService_Delete_AbortsWhenIdentityDeleteFails(t *testing.T) {
	h := newAccountHarness()
	acc := seedAccount(t, h)
	h.identity.deleteErr = errors.New("auth system unreachable")

	err := h.svc.Delete(context.Background(), acc.Client.ID, adminActor)
	if err == nil {
		t.Fatal("expected error when identity delete fails")
	}
	// The profile rows stay intact so the operation can be retried.
	if len(h.repo.clients) != 1 || len(h.repo.profiles) != 1 {
		t.Error("profile rows must be untouched after an aborted delete")
	}
}

func TestAccountService_Delete_UnknownClient(t *testing.T) {
	h := newAccountHarness()

	err := h.svc.Delete(context.Background(), "client_missing", adminActor)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
