package report

import (
	"context"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/utils/platformerrors"
)

type fakeReportRepo struct {
	reports map[string]*Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*Report)}
}

func (f *fakeReportRepo) Save(_ context.Context, r *Report) error {
	clone := *r
	f.reports[r.ReportID] = &clone
	return nil
}

func (f *fakeReportRepo) FindByReportID(_ context.Context, reportID string) (*Report, error) {
	if r, ok := f.reports[reportID]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeReportRepo) FindByReportIDAndTenantID(_ context.Context, reportID, tenantID string) (*Report, error) {
	if r, ok := f.reports[reportID]; ok && r.TenantID == tenantID {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeReportRepo) FindBySecretKey(_ context.Context, secretKey string) (*Report, error) {
	for _, r := range f.reports {
		if r.SecretKey == secretKey {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) FindAllByTenantID(_ context.Context, tenantID string) ([]*Report, error) {
	var out []*Report
	for _, r := range f.reports {
		if r.TenantID == tenantID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeMessageRepo struct {
	messages []ConversationMessage
}

func (f *fakeMessageRepo) Save(_ context.Context, m *ConversationMessage) error {
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeMessageRepo) FindByReportIDOrderByCreatedAtAsc(_ context.Context, reportID string) ([]ConversationMessage, error) {
	var out []ConversationMessage
	for _, m := range f.messages {
		if m.ReportID == reportID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeTenantDirectory struct {
	ids map[string]bool
}

func (f *fakeTenantDirectory) Exists(_ context.Context, tenantID string) (bool, error) {
	return f.ids[tenantID], nil
}

func newTestService() (*Service, *fakeReportRepo, *fakeMessageRepo) {
	cfg := &config.Config{ReportDeadline: 168 * time.Hour}
	reports := newFakeReportRepo()
	messages := &fakeMessageRepo{}
	tenants := &fakeTenantDirectory{ids: map[string]bool{"tenant-1": true}}
	svc := NewService(cfg, reports, messages, tenants, zerolog.Nop())
	return svc, reports, messages
}

var secretKeyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestCreateReport(t *testing.T) {
	svc, repo, _ := newTestService()

	r, err := svc.Create(context.Background(), CreateParams{
		TenantID: "tenant-1",
		Subject:  "Suspicious invoices",
		Message:  "Details of the matter",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if r.Status != StatusNew {
		t.Errorf("status = %s, want NEW", r.Status)
	}
	if !secretKeyPattern.MatchString(r.SecretKey) {
		t.Errorf("secret key %q is not 64 lowercase hex chars", r.SecretKey)
	}
	if want := r.CreatedAt.Add(168 * time.Hour); !r.DeadlineAt.Equal(want) {
		t.Errorf("deadline = %v, want createdAt+168h (%v)", r.DeadlineAt, want)
	}
	if r.ReceivedAt != nil {
		t.Errorf("receivedAt should be nil at creation")
	}
	if _, ok := repo.reports[r.ReportID]; !ok {
		t.Errorf("report was not persisted")
	}
}

func TestCreateReportUnknownTenant(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateParams{
		TenantID: "nope",
		Subject:  "s",
		Message:  "m",
	})
	if !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateReportValidation(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name    string
		subject string
		message string
	}{
		{"blank subject", "  ", "m"},
		{"blank message", "s", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), CreateParams{
				TenantID: "tenant-1",
				Subject:  tt.subject,
				Message:  tt.message,
			})
			if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestStaffViewAcknowledgesExactlyOnce(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	r, err := svc.Create(ctx, CreateParams{TenantID: "tenant-1", Subject: "s", Message: "m"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	conv, err := svc.GetReportWithConversation(ctx, "tenant-1", r.ReportID)
	if err != nil {
		t.Fatalf("GetReportWithConversation failed: %v", err)
	}
	if conv.Report.Status != StatusReceived {
		t.Errorf("status after first view = %s, want RECEIVED", conv.Report.Status)
	}
	if conv.Report.ReceivedAt == nil {
		t.Fatal("receivedAt not set on first view")
	}
	firstReceived := *conv.Report.ReceivedAt

	conv2, err := svc.GetReportWithConversation(ctx, "tenant-1", r.ReportID)
	if err != nil {
		t.Fatalf("second view failed: %v", err)
	}
	if conv2.Report.Status != StatusReceived {
		t.Errorf("status after second view = %s, want RECEIVED", conv2.Report.Status)
	}
	if conv2.Report.ReceivedAt == nil || !conv2.Report.ReceivedAt.Equal(firstReceived) {
		t.Errorf("receivedAt changed on second view: %v != %v", conv2.Report.ReceivedAt, firstReceived)
	}
}

func TestStaffViewWrongTenant(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, CreateParams{TenantID: "tenant-1", Subject: "s", Message: "m"})

	_, err := svc.GetReportWithConversation(ctx, "other-tenant", r.ReportID)
	if !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found for wrong tenant, got %v", err)
	}
}

func TestComplianceReplyAdvancesStatus(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, CreateParams{TenantID: "tenant-1", Subject: "s", Message: "m"})

	if _, err := svc.AddMessage(ctx, r.ReportID, SenderComplianceTeam, "we are looking into it", nil); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if got := repo.reports[r.ReportID].Status; got != StatusInProgress {
		t.Errorf("status after compliance reply = %s, want IN_PROGRESS", got)
	}
}

func TestReporterReplyNeverTransitions(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, CreateParams{TenantID: "tenant-1", Subject: "s", Message: "m"})

	if _, err := svc.AddMessage(ctx, r.ReportID, SenderReporter, "any update?", nil); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if got := repo.reports[r.ReportID].Status; got != StatusNew {
		t.Errorf("status after reporter reply = %s, want NEW", got)
	}
}

func TestComplianceReplyLeavesTerminalAlone(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, CreateParams{TenantID: "tenant-1", Subject: "s", Message: "m"})
	if _, err := svc.UpdateStatus(ctx, r.ReportID, "CLOSED"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	if _, err := svc.AddMessage(ctx, r.ReportID, SenderComplianceTeam, "final note", nil); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if got := repo.reports[r.ReportID].Status; got != StatusClosed {
		t.Errorf("status = %s, closed reports must stay closed", got)
	}
}

func TestSecretKeyLookup(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, CreateParams{TenantID: "tenant-1", Subject: "s", Message: "m"})

	conv, err := svc.GetConversationBySecretKey(ctx, r.SecretKey)
	if err != nil {
		t.Fatalf("GetConversationBySecretKey failed: %v", err)
	}
	if conv.Report.ReportID != r.ReportID {
		t.Errorf("wrong report resolved")
	}
	// The reporter view is read-only: no acknowledgement.
	if got := repo.reports[r.ReportID].Status; got != StatusNew {
		t.Errorf("status after reporter view = %s, want NEW", got)
	}

	if _, err := svc.GetConversationBySecretKey(ctx, "deadbeef"); !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found for unknown key, got %v", err)
	}
}

func TestUpdateStatusOverride(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, CreateParams{TenantID: "tenant-1", Subject: "s", Message: "m"})

	updated, err := svc.UpdateStatus(ctx, r.ReportID, "closed")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != StatusClosed {
		t.Errorf("status = %s, want CLOSED", updated.Status)
	}

	// Manual override may move backwards, unlike the implicit machine.
	updated, err = svc.UpdateStatus(ctx, r.ReportID, "new")
	if err != nil {
		t.Fatalf("backward override failed: %v", err)
	}
	if updated.Status != StatusNew {
		t.Errorf("status = %s, want NEW after backward override", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, r.ReportID, "ARCHIVED"); !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestConversationOrdering(t *testing.T) {
	svc, _, messages := newTestService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, CreateParams{TenantID: "tenant-1", Subject: "s", Message: "m"})

	base := time.Now().UTC()
	messages.messages = []ConversationMessage{
		{ReportID: r.ReportID, Sender: SenderComplianceTeam, Message: "third", CreatedAt: base.Add(2 * time.Second)},
		{ReportID: r.ReportID, Sender: SenderReporter, Message: "first", CreatedAt: base},
		{ReportID: r.ReportID, Sender: SenderComplianceTeam, Message: "second", CreatedAt: base.Add(time.Second)},
	}

	conv, err := svc.GetConversationBySecretKey(ctx, r.SecretKey)
	if err != nil {
		t.Fatalf("GetConversationBySecretKey failed: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(conv.Messages) != len(want) {
		t.Fatalf("got %d messages, want %d", len(conv.Messages), len(want))
	}
	for i, m := range conv.Messages {
		if m.Message != want[i] {
			t.Errorf("messages[%d] = %q, want %q", i, m.Message, want[i])
		}
	}
}

func TestAddMessageValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, CreateParams{TenantID: "tenant-1", Subject: "s", Message: "m"})

	if _, err := svc.AddMessage(ctx, "missing", SenderReporter, "hello", nil); !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found for unknown report, got %v", err)
	}
	if _, err := svc.AddMessage(ctx, r.ReportID, Sender("GUEST"), "hello", nil); !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error for bad sender, got %v", err)
	}
	if _, err := svc.AddMessage(ctx, r.ReportID, SenderReporter, "   ", nil); !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error for blank message, got %v", err)
	}
}
