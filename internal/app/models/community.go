package models

import "time"

// CommunityType controls who may discover a community
type CommunityType string

const (
	CommunityPublic     CommunityType = "public"
	CommunityRestricted CommunityType = "restricted"
	CommunityPrivate    CommunityType = "private"
)

// IsValid reports whether t is a known community type
func (t CommunityType) IsValid() bool {
	switch t {
	case CommunityPublic, CommunityRestricted, CommunityPrivate:
		return true
	}
	return false
}

// Community is a group workers can join. MemberCount mirrors the number of
// Membership rows and is only changed together with them.
type Community struct {
	ID                 string        `json:"communityId" db:"id"`
	Name               string        `json:"communityName" db:"name"`
	NameLower          string        `json:"-" db:"name_lower"`
	Description        string        `json:"communityDescription" db:"description"`
	Type               CommunityType `json:"communityType" db:"community_type"`
	Topics             []string      `json:"communityTopics" db:"topics"`
	Rules              []string      `json:"communityRules" db:"rules"`
	ProfilePhotoURL    *string       `json:"communityProfilePhoto,omitempty" db:"profile_photo_url"`
	BackgroundPhotoURL *string       `json:"communityBackgroundPhoto,omitempty" db:"background_photo_url"`
	MemberCount        int           `json:"memberCount" db:"member_count"`
	CreatedAt          time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time     `json:"updatedAt" db:"updated_at"`
}

// MembershipStatus is the state of a membership. Only active exists today.
type MembershipStatus string

const MembershipActive MembershipStatus = "active"

// Membership records that a user belongs to a community. Its identity is the
// (CommunityID, UserID) pair.
type Membership struct {
	CommunityID   string           `json:"communityId" db:"community_id"`
	UserID        string           `json:"userId" db:"user_id"`
	CommunityName string           `json:"communityName" db:"community_name"`
	Status        MembershipStatus `json:"status" db:"status"`
	JoinedAt      time.Time        `json:"joinedAt" db:"joined_at"`
}
