package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

type stubProfileRepo struct {
	profiles  map[string]*domain.Profile
	findErrs  []error // consumed one per FindBySubject call; nil entries behave normally
	insertErr error
	finds     int
	inserts   int
	roleCalls int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubProfileRepo) FindBySubject(_ context.Context, subjectID string) (*domain.Profile, error) {
	r.finds++
	if len(r.findErrs) > 0 {
		err := r.findErrs[0]
		r.findErrs = r.findErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	p, ok := r.profiles[subjectID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) Insert(_ context.Context, p *domain.Profile) error {
	r.inserts++
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.profiles[p.SubjectID]; exists {
		return domain.ErrProfileExists
	}
	r.profiles[p.SubjectID] = cloneProfile(p)
	return nil
}

func (r *stubProfileRepo) Update(_ context.Context, subjectID string, in ports.ProfileUpdateInput) (*domain.Profile, error) {
	p, ok := r.profiles[subjectID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.FullName = in.FullName
	p.CompanyName = in.CompanyName
	p.Phone = in.Phone
	p.UpdatedAt = time.Now().UTC()
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) UpdateRole(_ context.Context, subjectID string, role domain.Role) error {
	r.roleCalls++
	p, ok := r.profiles[subjectID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.Role = role
	return nil
}

func (r *stubProfileRepo) List(_ context.Context) ([]*domain.Profile, error) {
	out := make([]*domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

type stubBus struct {
	events []domain.AuthEvent
	err    error
}

func (b *stubBus) Publish(_ context.Context, ev domain.AuthEvent) error {
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, ev)
	return nil
}

func (b *stubBus) Subscribe(_ context.Context) (<-chan domain.AuthEvent, error) {
	ch := make(chan domain.AuthEvent)
	close(ch)
	return ch, nil
}

func newProfileService(repo *stubProfileRepo) (*ProfileService, *stubRecorder, *stubBus) {
	recorder := &stubRecorder{}
	bus := &stubBus{}
	return NewProfileService(repo, recorder, bus, zerolog.Nop()), recorder, bus
}

func TestProfileService_LoadOrProvision_Existing(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["subj_1"] = &domain.Profile{SubjectID: "subj_1", Role: domain.RoleSeller}
	svc, _, _ := newProfileService(repo)

	p, err := svc.LoadOrProvision(context.Background(), "subj_1")
	if err != nil {
		t.Fatalf("LoadOrProvision returned error: %v", err)
	}
	if p.Role != domain.RoleSeller {
		t.Fatalf("expected stored role to be returned, got %s", p.Role)
	}
	if repo.inserts != 0 {
		t.Fatalf("existing profile must not be re-provisioned")
	}
}

func TestProfileService_LoadOrProvision_FirstVisit(t *testing.T) {
	repo := newStubProfileRepo()
	svc, _, _ := newProfileService(repo)

	p, err := svc.LoadOrProvision(context.Background(), "subj_new")
	if err != nil {
		t.Fatalf("LoadOrProvision returned error: %v", err)
	}
	if p.SubjectID != "subj_new" {
		t.Fatalf("unexpected subject id: %s", p.SubjectID)
	}
	if p.Role != domain.RoleBuyer {
		t.Fatalf("fresh profile must default to buyer, got %s", p.Role)
	}
	if repo.inserts != 1 {
		t.Fatalf("expected one insert, got %d", repo.inserts)
	}
	if _, ok := repo.profiles["subj_new"]; !ok {
		t.Fatalf("provisioned profile not persisted")
	}
}

func TestProfileService_LoadOrProvision_TransientFetchRetried(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["subj_1"] = &domain.Profile{SubjectID: "subj_1", Role: domain.RoleBuyer}
	repo.findErrs = []error{fmt.Errorf("%w: dial tcp", domain.ErrStoreUnavailable)}
	svc, _, _ := newProfileService(repo)

	p, err := svc.LoadOrProvision(context.Background(), "subj_1")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if p == nil || p.SubjectID != "subj_1" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if repo.finds != 2 {
		t.Fatalf("expected exactly one retry, got %d fetches", repo.finds)
	}
}

func TestProfileService_LoadOrProvision_PersistentFetchFailure(t *testing.T) {
	repo := newStubProfileRepo()
	repo.findErrs = []error{
		fmt.Errorf("%w: dial tcp", domain.ErrStoreUnavailable),
		fmt.Errorf("%w: dial tcp", domain.ErrStoreUnavailable),
	}
	svc, _, _ := newProfileService(repo)

	_, err := svc.LoadOrProvision(context.Background(), "subj_1")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if repo.inserts != 0 {
		t.Fatalf("must not provision when the store is unreachable")
	}
}

func TestProfileService_LoadOrProvision_ConcurrentProvisionReconciled(t *testing.T) {
	repo := newStubProfileRepo()
	// The winner of the race already holds the row by the time our insert runs.
	repo.insertErr = domain.ErrProfileExists
	repo.profiles["subj_1"] = &domain.Profile{SubjectID: "subj_1", Role: domain.RoleTransporter}
	svc, _, _ := newProfileService(repo)

	p, err := svc.LoadOrProvision(context.Background(), "subj_1")
	if err != nil {
		t.Fatalf("duplicate insert must reconcile, got %v", err)
	}
	if p.Role != domain.RoleTransporter {
		t.Fatalf("expected the winner's row, got role %s", p.Role)
	}
}

func TestProfileService_LoadOrProvision_InsertFailure(t *testing.T) {
	repo := newStubProfileRepo()
	repo.insertErr = errors.New("write concern timeout")
	svc, _, _ := newProfileService(repo)

	_, err := svc.LoadOrProvision(context.Background(), "subj_1")
	if !errors.Is(err, domain.ErrProvisionFailed) {
		t.Fatalf("expected ErrProvisionFailed, got %v", err)
	}
}

func TestProfileService_LoadOrProvision_ConfirmFailure(t *testing.T) {
	repo := newStubProfileRepo()
	// First fetch misses normally, the confirming re-read fails.
	repo.findErrs = []error{nil, fmt.Errorf("%w: dial tcp", domain.ErrStoreUnavailable)}
	svc, _, _ := newProfileService(repo)

	_, err := svc.LoadOrProvision(context.Background(), "subj_1")
	if !errors.Is(err, domain.ErrProvisionFailed) {
		t.Fatalf("expected ErrProvisionFailed, got %v", err)
	}
}

func TestProfileService_Update_PublishesEvent(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["subj_1"] = &domain.Profile{SubjectID: "subj_1", Role: domain.RoleBuyer}
	svc, _, bus := newProfileService(repo)

	p, err := svc.Update(context.Background(), "subj_1", ports.ProfileUpdateInput{
		FullName:    "Alice",
		CompanyName: "Cotton Co",
		Phone:       "+91 98765 43210",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if p.FullName != "Alice" || p.CompanyName != "Cotton Co" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if len(bus.events) != 1 || bus.events[0].Type != domain.AuthUpdated {
		t.Fatalf("expected one updated event, got %+v", bus.events)
	}
}

func TestProfileService_SetRole_InvalidRole(t *testing.T) {
	repo := newStubProfileRepo()
	svc, _, _ := newProfileService(repo)

	if err := svc.SetRole(context.Background(), "subj_1", "superuser", "admin_1"); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if repo.roleCalls != 0 {
		t.Fatalf("invalid role must not reach the store")
	}
}

func TestProfileService_SetRole_Audited(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["subj_1"] = &domain.Profile{SubjectID: "subj_1", Role: domain.RoleBuyer}
	svc, recorder, _ := newProfileService(repo)

	if err := svc.SetRole(context.Background(), "subj_1", domain.RoleSeller, "admin_1"); err != nil {
		t.Fatalf("SetRole returned error: %v", err)
	}
	if repo.profiles["subj_1"].Role != domain.RoleSeller {
		t.Fatalf("role not persisted")
	}
	if len(recorder.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.Action != domain.ActionRoleUpdate {
		t.Fatalf("unexpected action: %s", entry.Action)
	}
	if entry.Details["changed_by"] != "admin_1" {
		t.Fatalf("audit entry must carry the acting admin, got %+v", entry.Details)
	}
}
