// Package models defines the attendance record read from the remote
// collection and the credential pair used to reach it.
package models

import (
	"encoding/json"
	"strings"
)

const (
	StatusWorking    = "Working"
	StatusCheckedOut = "Checked Out"
)

// AttendanceRecord is one punch-in/punch-out pair. Timestamps are kept as the
// raw strings the backend returned; parsing is left to the filter package.
type AttendanceRecord struct {
	ID               *int64  `json:"id,omitempty"`
	EmployeeID       string  `json:"employee_id"`
	PunchInTime      *string `json:"punch_in_time"`
	PunchOutTime     *string `json:"punch_out_time"`
	ImageURL         *string `json:"image_url"`
	PunchOutImageURL *string `json:"punch_out_image_url"`
	IsSynced         bool    `json:"is_synced"`
	CreatedAt        *string `json:"created_at"`
}

// UnmarshalJSON defaults is_synced to true when the field is missing or null.
func (r *AttendanceRecord) UnmarshalJSON(data []byte) error {
	type plain AttendanceRecord
	aux := struct {
		*plain
		IsSynced *bool `json:"is_synced"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.IsSynced = aux.IsSynced == nil || *aux.IsSynced
	return nil
}

// IsWorking reports whether the employee has not punched out yet.
func (r AttendanceRecord) IsWorking() bool {
	return r.PunchOutTime == nil
}

func (r AttendanceRecord) Status() string {
	if r.IsWorking() {
		return StatusWorking
	}
	return StatusCheckedOut
}

// Credentials is the endpoint / secret key pair needed to reach the backend.
type Credentials struct {
	Endpoint  string `json:"url"`
	SecretKey string `json:"key"`
}

// IsComplete reports whether both values are non-blank.
func (c Credentials) IsComplete() bool {
	return strings.TrimSpace(c.Endpoint) != "" && strings.TrimSpace(c.SecretKey) != ""
}

// Masked returns the secret key with everything but the last four characters hidden.
func (c Credentials) Masked() string {
	k := c.SecretKey
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", 8) + k[len(k)-4:]
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
