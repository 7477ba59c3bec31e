package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/metrics"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubActivityRepo struct {
	records   []domain.ActivityRecord
	insertErr error // if set, Insert returns this error
}

func (r *stubActivityRepo) Insert(_ context.Context, rec *domain.ActivityRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.records = append(r.records, *rec)
	return nil
}

func (r *stubActivityRepo) ListByParent(_ context.Context, parentID string, page ports.PageRequest) ([]domain.ActivityRecord, int64, error) {
	var matched []domain.ActivityRecord
	for i := len(r.records) - 1; i >= 0; i-- { // newest-first
		if r.records[i].ParentID == parentID {
			matched = append(matched, r.records[i])
		}
	}
	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		return nil, total, nil
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubActivityRepo) kinds(parentID string) []domain.ActivityKind {
	var out []domain.ActivityKind
	for _, rec := range r.records {
		if rec.ParentID == parentID {
			out = append(out, rec.Kind)
		}
	}
	return out
}

type stubCaseRepo struct {
	byID      map[string]*domain.Case
	seq       int
	createErr error
}

func newStubCaseRepo() *stubCaseRepo {
	return &stubCaseRepo{byID: make(map[string]*domain.Case)}
}

func (r *stubCaseRepo) Create(_ context.Context, c *domain.Case) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	c.ID = fmt.Sprintf("case_%d", r.seq)
	c.CaseNumber = domain.FormatReference(domain.PrefixCase, c.CreatedAt.Year(), r.seq)
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCaseRepo) GetByID(_ context.Context, id string) (*domain.Case, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("get case: %w", domain.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

// List applies the same predicate to the page and the total.
func (r *stubCaseRepo) List(_ context.Context, f ports.CaseFilter) ([]domain.Case, int64, error) {
	var matched []domain.Case
	for _, c := range r.byID {
		if f.ClientID != "" && c.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, *c)
	}
	total := int64(len(matched))
	if f.Offset > len(matched) {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (r *stubCaseRepo) Update(_ context.Context, id string, patch ports.UpdateCaseInput) (*domain.Case, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("update case: %w", domain.ErrNotFound)
	}
	if patch.Title.Set && !patch.Title.Null {
		c.Title = patch.Title.Value
	}
	if patch.Description.Set {
		if patch.Description.Null {
			c.Description = ""
		} else {
			c.Description = patch.Description.Value
		}
	}
	if patch.Category.Set && !patch.Category.Null {
		c.Category = patch.Category.Value
	}
	if patch.Status.Set && !patch.Status.Null {
		c.Status = domain.CaseStatus(patch.Status.Value)
	}
	if patch.AssignedAttorney.Set {
		if patch.AssignedAttorney.Null {
			c.AssignedAttorney = nil
		} else {
			v := patch.AssignedAttorney.Value
			c.AssignedAttorney = &v
		}
	}
	if patch.ClosingDate.Set && !patch.ClosingDate.Null {
		v := patch.ClosingDate.Value
		c.ClosingDate = &v
	}
	c.UpdatedAt = time.Now().UTC()
	clone := *c
	return &clone, nil
}

func (r *stubCaseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("delete case: %w", domain.ErrNotFound)
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var (
	staffActor  = domain.Principal{ID: "staff_1", Role: domain.RoleStaff}
	adminActor  = domain.Principal{ID: "admin_1", Role: domain.RoleAdmin}
	clientActor = domain.Principal{ID: "prof_1", Role: domain.RoleClient, ClientID: "client_1"}
)

func newCaseService(repo *stubCaseRepo, activity *stubActivityRepo) *CaseService {
	return NewCaseService(repo, activity, NewRecorder(activity, discardLogger), discardLogger)
}

func caseInput(clientID string) ports.CreateCaseInput {
	return ports.CreateCaseInput{
		ClientID: clientID,
		Title:    "Contract dispute",
		Category: "commercial",
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCaseService_Create_Success(t *testing.T) {
	repo := newStubCaseRepo()
	activity := &stubActivityRepo{}
	svc := newCaseService(repo, activity)

	c, err := svc.Create(context.Background(), caseInput("client_1"), staffActor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !domain.ReferencePattern.MatchString(c.CaseNumber) {
		t.Errorf("case number format wrong: %s", c.CaseNumber)
	}
	if !strings.HasPrefix(c.CaseNumber, domain.PrefixCase+"-") {
		t.Errorf("expected %s prefix, got %s", domain.PrefixCase, c.CaseNumber)
	}
	if c.Status != domain.CasePending {
		t.Errorf("expected status %q, got %q", domain.CasePending, c.Status)
	}
	if c.OpeningDate.IsZero() {
		t.Error("opening date must be set")
	}
	if got := activity.kinds(c.ID); len(got) != 1 || got[0] != domain.ActivityCreated {
		t.Errorf("expected one created activity, got %v", got)
	}
}

func TestCaseService_Create_IncrementsCreationCounter(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	counter := metrics.ResourcesCreatedTotal.WithLabelValues("case")
	before := testutil.ToFloat64(counter)

	if _, err := svc.Create(context.Background(), caseInput("client_1"), staffActor); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("creation counter: expected %v, got %v", before+1, got)
	}
}

func TestCaseService_Create_MissingFields(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})

	_, err := svc.Create(context.Background(), ports.CreateCaseInput{ClientID: "client_1"}, staffActor)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCaseService_Create_ClientForOwnProfile(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})

	if _, err := svc.Create(context.Background(), caseInput("client_1"), clientActor); err != nil {
		t.Fatalf("client must be able to open a case for itself: %v", err)
	}
}

func TestCaseService_Create_ClientForOtherProfileForbidden(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})

	_, err := svc.Create(context.Background(), caseInput("client_999"), clientActor)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestCaseService_Create_ActivityFailureDoesNotFailCreate(t *testing.T) {
	repo := newStubCaseRepo()
	activity := &stubActivityRepo{insertErr: errors.New("activity store down")}
	svc := newCaseService(repo, activity)

	c, err := svc.Create(context.Background(), caseInput("client_1"), staffActor)
	if err != nil {
		t.Fatalf("create must succeed even when activity write fails: %v", err)
	}
	if _, ok := repo.byID[c.ID]; !ok {
		t.Error("case must be persisted despite the dropped activity record")
	}
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func seedCase(t *testing.T, svc *CaseService, clientID string) *domain.Case {
	t.Helper()
	c, err := svc.Create(context.Background(), caseInput(clientID), staffActor)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return c
}

func TestCaseService_Get_NotFound(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})

	_, err := svc.Get(context.Background(), "case_missing", adminActor)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCaseService_Get_OtherClientsCaseForbidden(t *testing.T) {
	// An existing case the caller may not see yields Forbidden, not NotFound.
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	c := seedCase(t, svc, "client_999")

	_, err := svc.Get(context.Background(), c.ID, clientActor)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestCaseService_Get_StaffTierSeesAll(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	c := seedCase(t, svc, "client_999")

	for _, actor := range []domain.Principal{adminActor, staffActor, {ID: "att_1", Role: domain.RoleAttorney}} {
		if _, err := svc.Get(context.Background(), c.ID, actor); err != nil {
			t.Errorf("role %s: unexpected error: %v", actor.Role, err)
		}
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestCaseService_List_ClientNarrowedToOwnProfile(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	seedCase(t, svc, "client_1")
	seedCase(t, svc, "client_2")

	// A caller-supplied filter for another profile is overridden, not merged.
	page, err := svc.List(context.Background(), ports.ListCasesInput{ClientID: "client_2"}, clientActor)
	if err != nil {
		t.Fatal(err)
	}
	if page.Meta.Total != 1 {
		t.Fatalf("expected 1 case, got %d", page.Meta.Total)
	}
	if page.Items[0].ClientID != "client_1" {
		t.Errorf("expected own case, got client %s", page.Items[0].ClientID)
	}
}

func TestCaseService_List_PaginationMeta(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	for i := 0; i < 5; i++ {
		seedCase(t, svc, "client_1")
	}

	page, err := svc.List(context.Background(), ports.ListCasesInput{
		Page: ports.PageRequest{Page: 1, Limit: 2},
	}, adminActor)
	if err != nil {
		t.Fatal(err)
	}
	if page.Meta.Total != 5 {
		t.Errorf("total: expected 5, got %d", page.Meta.Total)
	}
	if page.Meta.TotalPages != 3 {
		t.Errorf("total_pages: expected 3, got %d", page.Meta.TotalPages)
	}
	if len(page.Items) != 2 {
		t.Errorf("items: expected 2, got %d", len(page.Items))
	}
}

func TestCaseService_List_EmptyResult(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})

	page, err := svc.List(context.Background(), ports.ListCasesInput{}, adminActor)
	if err != nil {
		t.Fatal(err)
	}
	if page.Meta.Total != 0 || page.Meta.TotalPages != 0 {
		t.Errorf("empty listing: expected total 0 pages 0, got %d/%d", page.Meta.Total, page.Meta.TotalPages)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestCaseService_Update_EmptyPatchRejected(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	c := seedCase(t, svc, "client_1")

	_, err := svc.Update(context.Background(), c.ID, ports.UpdateCaseInput{}, staffActor)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for empty patch, got %v", err)
	}
}

func TestCaseService_Update_UnknownStatusRejected(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	c := seedCase(t, svc, "client_1")

	_, err := svc.Update(context.Background(), c.ID, ports.UpdateCaseInput{
		Status: domain.Some("vaporized"),
	}, staffActor)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCaseService_Update_TerminalStatusStampsClosingDate(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	c := seedCase(t, svc, "client_1")

	updated, err := svc.Update(context.Background(), c.ID, ports.UpdateCaseInput{
		Status: domain.Some(string(domain.CaseClosed)),
	}, staffActor)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ClosingDate == nil {
		t.Fatal("closing a case must stamp the closing date")
	}
}

func TestCaseService_Update_ExplicitClosingDateWins(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	c := seedCase(t, svc, "client_1")

	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(context.Background(), c.ID, ports.UpdateCaseInput{
		Status:      domain.Some(string(domain.CaseResolved)),
		ClosingDate: domain.Some(want),
	}, staffActor)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ClosingDate == nil || !updated.ClosingDate.Equal(want) {
		t.Errorf("explicit closing date must be kept, got %v", updated.ClosingDate)
	}
}

func TestCaseService_Update_StatusChangeEmitsActivity(t *testing.T) {
	activity := &stubActivityRepo{}
	svc := newCaseService(newStubCaseRepo(), activity)
	c := seedCase(t, svc, "client_1")

	if _, err := svc.Update(context.Background(), c.ID, ports.UpdateCaseInput{
		Status: domain.Some(string(domain.CaseActive)),
	}, staffActor); err != nil {
		t.Fatal(err)
	}

	kinds := activity.kinds(c.ID)
	if len(kinds) != 2 || kinds[1] != domain.ActivityStatusChanged {
		t.Errorf("expected [created status_changed], got %v", kinds)
	}
}

func TestCaseService_Update_PlainEditEmitsNoActivity(t *testing.T) {
	activity := &stubActivityRepo{}
	svc := newCaseService(newStubCaseRepo(), activity)
	c := seedCase(t, svc, "client_1")

	if _, err := svc.Update(context.Background(), c.ID, ports.UpdateCaseInput{
		Title: domain.Some("Amended contract dispute"),
	}, staffActor); err != nil {
		t.Fatal(err)
	}

	if kinds := activity.kinds(c.ID); len(kinds) != 1 {
		t.Errorf("plain field edit must not add activity, got %v", kinds)
	}
}

func TestCaseService_Update_AssigneeChangeEmitsActivity(t *testing.T) {
	activity := &stubActivityRepo{}
	svc := newCaseService(newStubCaseRepo(), activity)
	c := seedCase(t, svc, "client_1")

	if _, err := svc.Update(context.Background(), c.ID, ports.UpdateCaseInput{
		AssignedAttorney: domain.Some("att_7"),
	}, staffActor); err != nil {
		t.Fatal(err)
	}

	kinds := activity.kinds(c.ID)
	if len(kinds) != 2 || kinds[1] != domain.ActivityAssigneeChanged {
		t.Errorf("expected assignee_changed activity, got %v", kinds)
	}
}

// ---------------------------------------------------------------------------
// Timeline
// ---------------------------------------------------------------------------

func TestCaseService_Timeline_NewestFirst(t *testing.T) {
	activity := &stubActivityRepo{}
	svc := newCaseService(newStubCaseRepo(), activity)
	c := seedCase(t, svc, "client_1")

	_, _ = svc.Update(context.Background(), c.ID, ports.UpdateCaseInput{
		Status: domain.Some(string(domain.CaseActive)),
	}, staffActor)

	page, err := svc.Timeline(context.Background(), c.ID, ports.PageRequest{}, staffActor)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 records, got %d", len(page.Items))
	}
	if page.Items[0].Kind != domain.ActivityStatusChanged {
		t.Errorf("expected newest record first, got %v", page.Items[0].Kind)
	}
}

func TestCaseService_Timeline_OtherClientsForbidden(t *testing.T) {
	svc := newCaseService(newStubCaseRepo(), &stubActivityRepo{})
	c := seedCase(t, svc, "client_999")

	_, err := svc.Timeline(context.Background(), c.ID, ports.PageRequest{}, clientActor)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestCaseService_Delete(t *testing.T) {
	repo := newStubCaseRepo()
	svc := newCaseService(repo, &stubActivityRepo{})
	c := seedCase(t, svc, "client_1")

	if err := svc.Delete(context.Background(), c.ID, adminActor); err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.byID[c.ID]; ok {
		t.Error("case must be gone after delete")
	}

	if err := svc.Delete(context.Background(), c.ID, adminActor); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}
