package models

import "time"

const (
	MemberActive   = "Active"
	MemberInactive = "Inactive"
	MemberExMember = "Ex-Member"
)

type MemberSocialMedia struct {
	LinkedIn        string `bson:"LinkedIn" json:"LinkedIn"`
	Twitter         string `bson:"Twitter" json:"Twitter"`
	Facebook        string `bson:"Facebook" json:"Facebook"`
	Instagram       string `bson:"Instagram" json:"Instagram"`
	PersonalWebsite string `bson:"PersonalWebsite" json:"PersonalWebsite"`
}

// Member is a club member record. Wire names keep the PascalCase the website expects.
type Member struct {
	Base        `bson:",inline"`
	FullName    string            `bson:"FullName" json:"FullName" validate:"required"`
	Discipline  string            `bson:"Discipline" json:"Discipline" validate:"required"`
	YearBatch   string            `bson:"YearBatch" json:"YearBatch" validate:"required"`
	Email       string            `bson:"Email" json:"Email" validate:"required"`
	PhoneNumber string            `bson:"PhoneNumber" json:"PhoneNumber" validate:"required"`
	PhotoURL    string            `bson:"PhotoURL" json:"PhotoURL"`
	JoinDate    *Date             `bson:"JoinDate" json:"JoinDate"`
	TimeLine    string            `bson:"TimeLine" json:"TimeLine"`
	EndDate     *Date             `bson:"EndDate" json:"EndDate"`
	Status      string            `bson:"Status" json:"Status" validate:"oneof=Active Inactive Ex-Member"`
	Position    string            `bson:"Position" json:"Position"`
	Bio         string            `bson:"Bio" json:"Bio"`
	SocialMedia MemberSocialMedia `bson:"SocialMedia" json:"SocialMedia"`
}

func NewMember() *Member {
	return &Member{
		JoinDate: NewDate(time.Now().UTC()),
		Status:   MemberActive,
		Position: "General",
	}
}
