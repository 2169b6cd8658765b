package dto

// ProfileRequest is the multipart form for creating or updating a profile.
// On update empty fields are left unchanged.
type ProfileRequest struct {
	FirstName          string `form:"firstName"`
	MiddleName         string `form:"middleName"`
	LastName           string `form:"lastName"`
	PhoneNumber        string `form:"phoneNumber" binding:"omitempty,phone"`
	EmailAddress       string `form:"emailAddress" binding:"omitempty,email"`
	ResidentialAddress string `form:"residentialAddress"`
	Profession         string `form:"profession"`
	Gender             string `form:"gender"`
	Summary            string `form:"summary"`
}
