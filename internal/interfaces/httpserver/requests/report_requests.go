package requests

// CreateReportRequest is the JSON body for filing a new report. Attachments
// carry att_* keys returned by the files endpoint; binary uploads go through
// the multipart form variant instead.
type CreateReportRequest struct {
	TenantID    string   `json:"tenantId" binding:"required"`
	Subject     string   `json:"subject" binding:"required"`
	Message     string   `json:"message" binding:"required"`
	Attachments []string `json:"attachments"`
}

// AddMessageRequest appends a follow-up to a conversation.
type AddMessageRequest struct {
	Sender      string   `json:"sender" binding:"required"`
	Message     string   `json:"message" binding:"required"`
	Attachments []string `json:"attachments"`
}

// UpdateStatusRequest is the administrative status override.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
