package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/domain/attachment"
	"whistlenet/services/report-api/internal/domain/report"
	"whistlenet/services/report-api/internal/interfaces/httpserver/handlers"
)

type memReportRepo struct {
	reports map[string]*report.Report
}

func (m *memReportRepo) Save(_ context.Context, r *report.Report) error {
	clone := *r
	m.reports[r.ReportID] = &clone
	return nil
}

func (m *memReportRepo) FindByReportID(_ context.Context, id string) (*report.Report, error) {
	if r, ok := m.reports[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (m *memReportRepo) FindByReportIDAndTenantID(_ context.Context, id, tenantID string) (*report.Report, error) {
	if r, ok := m.reports[id]; ok && r.TenantID == tenantID {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (m *memReportRepo) FindBySecretKey(_ context.Context, key string) (*report.Report, error) {
	for _, r := range m.reports {
		if r.SecretKey == key {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memReportRepo) FindAllByTenantID(_ context.Context, tenantID string) ([]*report.Report, error) {
	var out []*report.Report
	for _, r := range m.reports {
		if r.TenantID == tenantID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

type memMessageRepo struct {
	messages []report.ConversationMessage
}

func (m *memMessageRepo) Save(_ context.Context, msg *report.ConversationMessage) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memMessageRepo) FindByReportIDOrderByCreatedAtAsc(_ context.Context, reportID string) ([]report.ConversationMessage, error) {
	var out []report.ConversationMessage
	for _, msg := range m.messages {
		if msg.ReportID == reportID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memTenantDirectory struct {
	ids map[string]bool
}

func (m *memTenantDirectory) Exists(_ context.Context, tenantID string) (bool, error) {
	return m.ids[tenantID], nil
}

type memStorage struct {
	objects map[string][]byte
}

func (m *memStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memStorage) Download(_ context.Context, key string) (io.ReadCloser, string, error) {
	return io.NopCloser(bytes.NewReader(m.objects[key])), "application/octet-stream", nil
}

func (m *memStorage) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://files.example/" + key, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *memReportRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ReportDeadline: 168 * time.Hour,
		MaxUploadBytes: 1 << 20,
		S3PresignTTL:   15 * time.Minute,
	}
	log := zerolog.Nop()

	reportRepo := &memReportRepo{reports: make(map[string]*report.Report)}
	messageRepo := &memMessageRepo{}
	tenants := &memTenantDirectory{ids: map[string]bool{"tenant-1": true}}
	storage := &memStorage{objects: make(map[string][]byte)}

	reportService := report.NewService(cfg, reportRepo, messageRepo, tenants, log)
	attachmentService := attachment.NewService(cfg, storage, log)
	handler := handlers.NewReportHandler(cfg, reportService, attachmentService, log)

	r := gin.New()
	v1 := r.Group("/v1")
	v1.POST("/reports", handler.Create)
	v1.GET("/conversations/:secretKey", handler.GetBySecretKey)
	v1.POST("/reports/:reportId/messages", handler.AddMessage)
	v1.GET("/tenants/:tenantId/reports", handler.ListForTenant)
	v1.GET("/tenants/:tenantId/reports/:reportId/conversation", handler.GetConversation)
	v1.PUT("/reports/:reportId/status", handler.UpdateStatus)

	return r, reportRepo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createReport(t *testing.T, r *gin.Engine) (reportID, secretKey string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/v1/reports", map[string]any{
		"tenantId": "tenant-1",
		"subject":  "Suspicious invoices",
		"message":  "Details of the matter",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create report = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		ReportID  string `json:"reportId"`
		SecretKey string `json:"secretKey"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if resp.Status != "NEW" {
		t.Errorf("status = %s, want NEW", resp.Status)
	}
	if len(resp.SecretKey) != 64 {
		t.Errorf("secret key length = %d, want 64", len(resp.SecretKey))
	}
	return resp.ReportID, resp.SecretKey
}

func TestCreateReportEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	createReport(t, r)
}

func TestCreateReportUnknownTenantEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodPost, "/v1/reports", map[string]any{
		"tenantId": "nope",
		"subject":  "s",
		"message":  "m",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", w.Code, w.Body.String())
	}
}

func TestReporterConversationView(t *testing.T) {
	r, _ := setupRouter(t)
	_, secretKey := createReport(t, r)

	w := doJSON(t, r, http.MethodGet, "/v1/conversations/"+secretKey, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/v1/conversations/"+strings.Repeat("0", 64), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown key status = %d, want 404", w.Code)
	}
}

func TestStaffConversationViewStripsSecretAndAcknowledges(t *testing.T) {
	r, repo := setupRouter(t)
	reportID, _ := createReport(t, r)

	w := doJSON(t, r, http.MethodGet, "/v1/tenants/tenant-1/reports/"+reportID+"/conversation", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var conv struct {
		Report struct {
			SecretKey string `json:"secretKey"`
			Status    string `json:"status"`
		} `json:"report"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &conv); err != nil {
		t.Fatalf("decode conversation: %v", err)
	}
	if conv.Report.SecretKey != "" {
		t.Error("staff view leaked the secret key")
	}
	if conv.Report.Status != "RECEIVED" {
		t.Errorf("status = %s, want RECEIVED after first staff view", conv.Report.Status)
	}
	if repo.reports[reportID].Status != report.StatusReceived {
		t.Error("acknowledgement not persisted")
	}
}

func TestAddMessageEndpoint(t *testing.T) {
	r, repo := setupRouter(t)
	reportID, _ := createReport(t, r)

	w := doJSON(t, r, http.MethodPost, "/v1/reports/"+reportID+"/messages", map[string]any{
		"sender":  "COMPLIANCE_TEAM",
		"message": "we are on it",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if repo.reports[reportID].Status != report.StatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS after compliance reply", repo.reports[reportID].Status)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	r, repo := setupRouter(t)
	reportID, _ := createReport(t, r)

	w := doJSON(t, r, http.MethodPut, "/v1/reports/"+reportID+"/status", map[string]any{
		"status": "closed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if repo.reports[reportID].Status != report.StatusClosed {
		t.Errorf("persisted status = %s, want CLOSED", repo.reports[reportID].Status)
	}

	w = doJSON(t, r, http.MethodPut, "/v1/reports/"+reportID+"/status", map[string]any{
		"status": "ARCHIVED",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status code = %d, want 400", w.Code)
	}
}

func TestListForTenantEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	createReport(t, r)
	createReport(t, r)

	w := doJSON(t, r, http.MethodGet, "/v1/tenants/tenant-1/reports", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Count   int `json:"count"`
		Reports []struct {
			SecretKey string `json:"secretKey"`
		} `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	for i, rep := range resp.Reports {
		if rep.SecretKey != "" {
			t.Errorf("reports[%d] leaked the secret key", i)
		}
	}
}
