package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// ImageRecord is one uploaded image as described by the backend. The binary
// content is fetched separately through FileID.
type ImageRecord struct {
	ID             string    `json:"_id"`
	FileID         string    `json:"file_id"`
	Title          string    `json:"title,omitempty"`
	Interpretation string    `json:"interpretation,omitempty"`
	UploadTime     Timestamp `json:"uploadTime"`
	UserEmail      string    `json:"user_email,omitempty"`
	IsNew          bool      `json:"isNew"`
}

// UserRecord is a registered account as listed by the admin endpoint.
type UserRecord struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// Credentials is the body of the login and register calls.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued by POST /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	IsAdmin     bool   `json:"isAdmin"`
}

// ImageUpdate is the full replacement sent by PUT /images/{file_id}.
type ImageUpdate struct {
	Title          string `json:"title"`
	Interpretation string `json:"interpretation"`
}

// AdminImageUpdate is the body of PUT /admin/images/{id}.
type AdminImageUpdate struct {
	Title          string `json:"title"`
	Interpretation string `json:"interpretation"`
	IsNew          bool   `json:"isNew"`
}

// Binary is raw image content with the content type the backend reported.
type Binary struct {
	Data        []byte
	ContentType string
}

// Timestamp decodes the upload times the backend emits. Values without a
// zone are read as UTC, numbers as Unix milliseconds. A value in no known
// form decodes to the zero time so the rest of the record is kept.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err == nil {
		t.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
