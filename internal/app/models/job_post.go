package models

import "time"

// Location is where the work takes place
type Location struct {
	City     string `json:"city" db:"city"`
	State    string `json:"state" db:"state"`
	District string `json:"district" db:"district"`
	Pincode  string `json:"pincode" db:"pincode"`
}

// JobPost is an opening published by an employer
type JobPost struct {
	ID                          string    `json:"id" db:"id"`
	EmployerID                  string    `json:"employer_id" db:"employer_id"`
	EmployerName                string    `json:"employer_name" db:"employer_name"`
	JobTitle                    string    `json:"job_title" db:"job_title"`
	PlaceOfWork                 string    `json:"place_of_work" db:"place_of_work"`
	Location                    Location  `json:"location"`
	Vacancies                   int       `json:"vacancies" db:"vacancies"`
	SpecialWomanProvision       bool      `json:"special_woman_provision" db:"special_woman_provision"`
	SpecialTransgenderProvision bool      `json:"special_transgender_provision" db:"special_transgender_provision"`
	SpecialDisabilityProvision  bool      `json:"special_disability_provision" db:"special_disability_provision"`
	Wage                        float64   `json:"wage" db:"wage"`
	HoursPerWeek                int       `json:"hours_per_week" db:"hours_per_week"`
	JobDuration                 string    `json:"job_duration" db:"job_duration"`
	StartTime                   string    `json:"start_time" db:"start_time"`
	EndTime                     string    `json:"end_time" db:"end_time"`
	TypeOfWork                  string    `json:"type_of_work" db:"type_of_work"`
	JobRoleDescription          string    `json:"job_role_description" db:"job_role_description"`
	CreatedAt                   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt                   time.Time `json:"updatedAt" db:"updated_at"`
}
