package models

import "time"

// UserProfile is the public profile of a worker or employer
type UserProfile struct {
	UserID             string    `json:"userId" db:"user_id"`
	FirstName          string    `json:"firstName" db:"first_name"`
	MiddleName         string    `json:"middleName" db:"middle_name"`
	LastName           string    `json:"lastName" db:"last_name"`
	PhoneNumber        string    `json:"phoneNumber" db:"phone_number"`
	EmailAddress       string    `json:"emailAddress" db:"email_address"`
	ProfilePhotoURL    *string   `json:"profilePhoto,omitempty" db:"profile_photo_url"`
	ResidentialAddress string    `json:"residentialAddress" db:"residential_address"`
	ResumeURL          *string   `json:"resume,omitempty" db:"resume_url"`
	Profession         string    `json:"profession" db:"profession"`
	Gender             string    `json:"gender" db:"gender"`
	Summary            string    `json:"summary" db:"summary"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}
