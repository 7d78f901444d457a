package api

import "time"

// Workflow defaults applied when the backend omits the fields and when a new
// case is created at intake.
const (
	DefaultStatus = "Pending"
	DefaultStage  = "Front Office Receipt"
)

// Nature-of-case values accepted at intake.
const (
	NatureEmergency = "Emergency"
	NatureUrgent    = "Urgent"
	NatureStandard  = "Standard"
)

// Natures lists the fixed nature-of-case set in the order offered to the
// operator.
var Natures = []string{NatureEmergency, NatureUrgent, NatureStandard}

// Case is a tracked distress record. Fields mirror the backend's wire shape;
// a record fetched from the server may omit any of the string fields, and
// display code substitutes defaults (see DefaultStatus/DefaultStage).
type Case struct {
	ID                   int64          `json:"id,omitempty"`
	ReferenceNumber      string         `json:"reference_number,omitempty"`
	SenderName           string         `json:"sender_name,omitempty"`
	Subject              string         `json:"subject,omitempty"`
	CountryOfOrigin      string         `json:"country_of_origin,omitempty"`
	DistressedPersonName string         `json:"distressed_person_name,omitempty"`
	NatureOfCase         string         `json:"nature_of_case,omitempty"`
	CaseDetails          string         `json:"case_details,omitempty"`
	Status               string         `json:"status,omitempty"`
	Stage                string         `json:"stage,omitempty"`
	ReceivingDate        *time.Time     `json:"receiving_date,omitempty"`
	CreatedAt            *time.Time     `json:"created_at,omitempty"`
	UpdatedAt            *time.Time     `json:"updated_at,omitempty"`
	ProgressNotes        []ProgressNote `json:"progress_notes,omitempty"`
}

// ProgressNote is an append-only timestamped entry in a case's history.
type ProgressNote struct {
	ID        int64     `json:"id,omitempty"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Document describes an uploaded attachment.
type Document struct {
	ID         int64      `json:"id"`
	CaseID     int64      `json:"case_id,omitempty"`
	FileName   string     `json:"file_name,omitempty"`
	FileSize   int64      `json:"file_size,omitempty"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

// User is a backend account record.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
