package responses

import "whistlenet/services/report-api/internal/domain/report"

// CreateReportResponse hands the reporter their credentials. This is the only
// response that ever carries the secret key.
type CreateReportResponse struct {
	ReportID   string   `json:"reportId"`
	SecretKey  string   `json:"secretKey"`
	Status     string   `json:"status"`
	DeadlineAt string   `json:"deadlineAt"`
	Uploaded   []string `json:"uploadedAttachments,omitempty"`
}

// ReportListResponse wraps the tenant report overview.
type ReportListResponse struct {
	Reports []*report.Report `json:"reports"`
	Count   int              `json:"count"`
}

// UploadResponse describes one stored attachment.
type UploadResponse struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	Mime     string `json:"mime"`
	Bytes    int64  `json:"bytes"`
}

// PresignResponse carries a time-limited download URL.
type PresignResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
