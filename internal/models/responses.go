package models

import "time"

// HealthResponse represents a basic health check response
// @Description Health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`                 // Health status
	Timestamp time.Time `json:"timestamp" example:"2023-01-01T00:00:00Z"` // Timestamp of the check
	Version   string    `json:"version" example:"1.0.0"`                  // Application version
}

// DBHealthResponse represents a database health check response
// @Description Database health check response
type DBHealthResponse struct {
	Status    string        `json:"status" example:"healthy"`                   // Health status
	Timestamp time.Time     `json:"timestamp" example:"2023-01-01T00:00:00Z"`   // Timestamp of the check
	Connected bool          `json:"connected" example:"true"`                   // Database connection status
	Latency   time.Duration `json:"latency" swaggertype:"string" example:"1ms"` // Database ping latency
	Error     string        `json:"error,omitempty" example:""`                 // Error message if any
}

// ErrorResponse is returned by every failing endpoint
// @Description Error response payload
type ErrorResponse struct {
	Error  string `json:"error" example:"Summary not found"`  // Human-readable reason
	Detail string `json:"detail" example:"Summary not found"` // Same reason, kept for older dashboard clients
}

// EmailSubmitRequest is the body of POST /api/v1/email/submit
// @Description Inbound email submission
type EmailSubmitRequest struct {
	Subject  string  `json:"subject" example:"Order #1234 has not arrived"`
	Body     string  `json:"body" example:"Hi, my order was due last week. Can you check the status?"`
	Sender   string  `json:"sender" example:"customer@example.com"`
	ThreadID *string `json:"thread_id,omitempty" example:""`
}

// EmailSubmitResponse is returned after a successful submission
// @Description Inbound email submission result
type EmailSubmitResponse struct {
	Status   string   `json:"status" example:"success"`
	EmailID  string   `json:"email_id"`
	ThreadID string   `json:"thread_id"`
	Summary  *Summary `json:"summary"`
}

// SummaryResponse wraps a stored summary
// @Description Stored email summary
type SummaryResponse struct {
	Summary *Summary `json:"summary"`
}

// GenerateReplyRequest is the body of POST /api/v1/email/{id}/generate-reply
// @Description Reply generation request
type GenerateReplyRequest struct {
	Tone         string  `json:"tone" example:"professional"`
	Instructions *string `json:"instructions,omitempty" example:"Offer a 10% discount"`
	AutoSend     bool    `json:"auto_send" example:"false"`
}

// GenerateReplyResponse is returned when a reply passed validation
// @Description Reply generation result
type GenerateReplyResponse struct {
	EmailID   string `json:"email_id"`
	ThreadID  string `json:"thread_id"`
	Reply     string `json:"reply"`
	Tone      string `json:"tone" example:"professional"`
	Attempts  int    `json:"attempts" example:"1"`
	Sent      bool   `json:"sent" example:"false"`
	SendError string `json:"send_error,omitempty" example:""`
}

// GenerateReplyFailure is returned when every attempt failed validation
// @Description Reply generation failure
type GenerateReplyFailure struct {
	Error    string  `json:"error" example:"Reply generation failed: Reply too short"`
	Detail   string  `json:"detail"`
	Reply    *string `json:"reply"`
	Attempts int     `json:"attempts" example:"3"`
}

// AdminAuthRequest represents admin login credentials
// @Description Admin login payload
type AdminAuthRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"secret"`
}

// AdminAuthResponse represents the login result
// @Description Admin login result
type AdminAuthResponse struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty" example:""`
}
