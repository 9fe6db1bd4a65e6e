package models

const (
	EventUpcoming  = "upcoming"
	EventPast      = "past"
	EventCompleted = "completed"
)

type GuestSocial struct {
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
}

type Guest struct {
	Name   string      `bson:"name" json:"name"`
	Title  string      `bson:"title" json:"title"`
	Bio    string      `bson:"bio" json:"bio"`
	Image  string      `bson:"image" json:"image"`
	Social GuestSocial `bson:"social" json:"social"`
}

type AgendaItem struct {
	Time    string `bson:"time" json:"time"`
	Event   string `bson:"event" json:"event"`
	Speaker string `bson:"speaker" json:"speaker"`
}

// Event is a club event. Date and time stay free text; nothing ties Status to them.
type Event struct {
	Base                 `bson:",inline"`
	Title                string       `bson:"title" json:"title"`
	Category             string       `bson:"category" json:"category"`
	Date                 string       `bson:"date" json:"date" validate:"required"`
	Time                 string       `bson:"time" json:"time" validate:"required"`
	Location             string       `bson:"location" json:"location" validate:"required"`
	ShortDesc            string       `bson:"short_dec" json:"short_dec"`
	Thumb                string       `bson:"thumb" json:"thumb"`
	Images               []string     `bson:"images" json:"images"`
	Status               string       `bson:"status" json:"status" validate:"oneof=upcoming past completed"`
	Description          string       `bson:"description" json:"description"`
	MaxAttendees         *int         `bson:"maxAttendees,omitempty" json:"maxAttendees,omitempty"`
	CurrentAttendees     *int         `bson:"currentAttendees,omitempty" json:"currentAttendees,omitempty"`
	Price                string       `bson:"price" json:"price"`
	RegistrationDeadline string       `bson:"registrationDeadline" json:"registrationDeadline"`
	Organizer            string       `bson:"organizer" json:"organizer"`
	ContactEmail         string       `bson:"contactEmail" json:"contactEmail"`
	ContactPhone         string       `bson:"contactPhone" json:"contactPhone"`
	Website              string       `bson:"website" json:"website"`
	Tags                 []string     `bson:"tags" json:"tags"`
	Guests               []Guest      `bson:"guests" json:"guests"`
	Agenda               []AgendaItem `bson:"agenda" json:"agenda"`
	RegLink              string       `bson:"regLink" json:"regLink"`
	IsPinned             bool         `bson:"isPinned" json:"isPinned"`
}

func NewEvent() *Event {
	return &Event{
		Status: EventUpcoming,
		Images: []string{},
		Tags:   []string{},
		Guests: []Guest{},
		Agenda: []AgendaItem{},
	}
}
