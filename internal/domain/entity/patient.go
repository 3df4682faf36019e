package entity

import "time"

// Patient represents a registered customer of a pharmacy.
// Sales may also be anonymous walk-ins with no patient reference.
type Patient struct {
	ID             string
	OrganizationID string
	Name           string
	Phone          string
	Email          string
	Address        string
	DateOfBirth    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
