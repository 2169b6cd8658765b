package models

// RoleType is the role claim issued by the identity provider
type RoleType string

const (
	RoleWorker   RoleType = "worker"
	RoleEmployer RoleType = "employer"
)

// IsValid reports whether r is one of the two supported roles
func (r RoleType) IsValid() bool {
	return r == RoleWorker || r == RoleEmployer
}
