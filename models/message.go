package models

const (
	MessageAdvisor = "advisor"
	MessageLeader  = "leader"

	DefaultMessagePhoto = "/kuic.jpg"
)

type MessageSocialMedia struct {
	LinkedIn  string `bson:"linkedin" json:"linkedin"`
	Twitter   string `bson:"twitter" json:"twitter"`
	Facebook  string `bson:"facebook" json:"facebook"`
	Instagram string `bson:"instagram" json:"instagram"`
	Email     string `bson:"email" json:"email"`
}

type MessageMetadata struct {
	CreatedBy string   `bson:"createdBy" json:"createdBy"`
	UpdatedBy string   `bson:"updatedBy" json:"updatedBy"`
	Tags      []string `bson:"tags" json:"tags"`
}

// Message is a leadership message shown on the website. At most one active
// document may have MessageType advisor.
type Message struct {
	Base        `bson:",inline"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Role        string             `bson:"role" json:"role" validate:"required,oneof='Advisor' 'President' 'General Secretary' 'Vice President' 'Treasurer' 'Organizing Secretary' 'Director'"`
	Photo       string             `bson:"photo" json:"photo"`
	Message     string             `bson:"message" json:"message" validate:"required"`
	MessageType string             `bson:"messageType" json:"messageType" validate:"required,oneof=advisor leader"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Order       int                `bson:"order" json:"order"`
	SocialMedia MessageSocialMedia `bson:"socialMedia" json:"socialMedia"`
	Metadata    MessageMetadata    `bson:"metadata" json:"metadata"`
}

func NewMessage() *Message {
	return &Message{
		Photo:    DefaultMessagePhoto,
		IsActive: true,
		Metadata: MessageMetadata{Tags: []string{}},
	}
}

// IsActiveAdvisor reports whether m holds the advisor slot.
func (m *Message) IsActiveAdvisor() bool {
	return m.MessageType == MessageAdvisor && m.IsActive
}

func (m *Message) Stamp(subject string, creating bool) {
	if creating {
		m.Metadata.CreatedBy = subject
	}
	m.Metadata.UpdatedBy = subject
}
