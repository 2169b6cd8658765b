package dto

import (
	"time"

	"github.com/yigit/bluecollar/internal/app/models"
)

// ApplicationRequest identifies an application by its worker and job. It is
// bound from multipart forms as well as JSON.
type ApplicationRequest struct {
	WorkerID string `json:"worker_id" form:"worker_id" binding:"required"`
	JobID    string `json:"jobId" form:"jobId" binding:"required"`
}

// UpdateApplicationStatusRequest sets the review state of an application
type UpdateApplicationStatusRequest struct {
	ApplicationID string `form:"applicationId" json:"applicationId" binding:"required"`
	Status        string `form:"status" json:"status" binding:"required"`
}

// CheckApplicationResponse reports whether an application exists
type CheckApplicationResponse struct {
	Exists bool `json:"exists"`
}

// AppliedJobResponse is a job post seen from the applicant's side
type AppliedJobResponse struct {
	models.JobPost
	ApplicationID     string                   `json:"applicationId"`
	ApplicationStatus models.ApplicationStatus `json:"applicationStatus"`
	AppliedAt         time.Time                `json:"appliedAt"`
}

// AppliedJobsResponse lists a worker's applications
type AppliedJobsResponse struct {
	Jobs []AppliedJobResponse `json:"jobs"`
}

// JobApplicantResponse is an applicant seen from the employer's side
type JobApplicantResponse struct {
	models.UserProfile
	ApplicationID     string                   `json:"applicationId"`
	ApplicationStatus models.ApplicationStatus `json:"applicationStatus"`
	AppliedAt         time.Time                `json:"appliedAt"`
}

// JobApplicantsResponse lists the applicants of a job
type JobApplicantsResponse struct {
	Workers []JobApplicantResponse `json:"workers"`
}

// CreateJobPostRequest is a new job post. Mobile clients send
// multipart forms; JSON is accepted as well.
type CreateJobPostRequest struct {
	EmployerID                  string  `json:"employer_id" form:"employer_id" binding:"required"`
	EmployerName                string  `json:"employer_name" form:"employer_name"`
	JobTitle                    string  `json:"job_title" form:"job_title" binding:"required"`
	PlaceOfWork                 string  `json:"place_of_work" form:"place_of_work"`
	City                        string  `json:"city" form:"city"`
	State                       string  `json:"state" form:"state"`
	District                    string  `json:"district" form:"district"`
	Pincode                     string  `json:"pincode" form:"pincode" binding:"omitempty,pincode"`
	Vacancies                   int     `json:"vacancies" form:"vacancies" binding:"min=0"`
	SpecialWomanProvision       bool    `json:"special_woman_provision" form:"special_woman_provision"`
	SpecialTransgenderProvision bool    `json:"special_transgender_provision" form:"special_transgender_provision"`
	SpecialDisabilityProvision  bool    `json:"special_disability_provision" form:"special_disability_provision"`
	Wage                        float64 `json:"wage" form:"wage" binding:"min=0"`
	HoursPerWeek                int     `json:"hours_per_week" form:"hours_per_week" binding:"min=0"`
	JobDuration                 string  `json:"job_duration" form:"job_duration"`
	StartTime                   string  `json:"start_time" form:"start_time"`
	EndTime                     string  `json:"end_time" form:"end_time"`
	TypeOfWork                  string  `json:"type_of_work" form:"type_of_work" binding:"required"`
	JobRoleDescription          string  `json:"job_role_description" form:"job_role_description"`
}

// EditJobPostRequest carries only the fields to change. Nil fields are left
// untouched.
type EditJobPostRequest struct {
	JobID                       string   `json:"jobId" form:"jobId" binding:"required"`
	EmployerID                  string   `json:"employer_id" form:"employer_id" binding:"required"`
	EmployerName                *string  `json:"employer_name" form:"employer_name"`
	JobTitle                    *string  `json:"job_title" form:"job_title"`
	PlaceOfWork                 *string  `json:"place_of_work" form:"place_of_work"`
	City                        *string  `json:"city" form:"city"`
	State                       *string  `json:"state" form:"state"`
	District                    *string  `json:"district" form:"district"`
	Pincode                     *string  `json:"pincode" form:"pincode" binding:"omitempty,pincode"`
	Vacancies                   *int     `json:"vacancies" form:"vacancies" binding:"omitempty,min=0"`
	SpecialWomanProvision       *bool    `json:"special_woman_provision" form:"special_woman_provision"`
	SpecialTransgenderProvision *bool    `json:"special_transgender_provision" form:"special_transgender_provision"`
	SpecialDisabilityProvision  *bool    `json:"special_disability_provision" form:"special_disability_provision"`
	Wage                        *float64 `json:"wage" form:"wage" binding:"omitempty,min=0"`
	HoursPerWeek                *int     `json:"hours_per_week" form:"hours_per_week" binding:"omitempty,min=0"`
	JobDuration                 *string  `json:"job_duration" form:"job_duration"`
	StartTime                   *string  `json:"start_time" form:"start_time"`
	EndTime                     *string  `json:"end_time" form:"end_time"`
	TypeOfWork                  *string  `json:"type_of_work" form:"type_of_work"`
	JobRoleDescription          *string  `json:"job_role_description" form:"job_role_description"`
}

// Changes returns the column updates the request asks for
func (r *EditJobPostRequest) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	setString := func(col string, v *string) {
		if v != nil {
			changes[col] = *v
		}
	}
	setString("employer_name", r.EmployerName)
	setString("job_title", r.JobTitle)
	setString("place_of_work", r.PlaceOfWork)
	setString("city", r.City)
	setString("state", r.State)
	setString("district", r.District)
	setString("pincode", r.Pincode)
	setString("job_duration", r.JobDuration)
	setString("start_time", r.StartTime)
	setString("end_time", r.EndTime)
	setString("type_of_work", r.TypeOfWork)
	setString("job_role_description", r.JobRoleDescription)

	if r.Vacancies != nil {
		changes["vacancies"] = *r.Vacancies
	}
	if r.HoursPerWeek != nil {
		changes["hours_per_week"] = *r.HoursPerWeek
	}
	if r.Wage != nil {
		changes["wage"] = *r.Wage
	}
	if r.SpecialWomanProvision != nil {
		changes["special_woman_provision"] = *r.SpecialWomanProvision
	}
	if r.SpecialTransgenderProvision != nil {
		changes["special_transgender_provision"] = *r.SpecialTransgenderProvision
	}
	if r.SpecialDisabilityProvision != nil {
		changes["special_disability_provision"] = *r.SpecialDisabilityProvision
	}
	return changes
}

// JobPostFilter narrows the job post listing
type JobPostFilter struct {
	EmployerID string `form:"employer_id"`
	TypeOfWork string `form:"type_of_work"`
}

// JobPostListResponse lists job posts
type JobPostListResponse struct {
	Jobs  []models.JobPost `json:"jobs"`
	Count int              `json:"count"`
}
