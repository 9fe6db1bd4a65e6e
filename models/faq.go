package models

type FAQ struct {
	Base     `bson:",inline"`
	Question string `bson:"question" json:"question" validate:"required"`
	Answer   string `bson:"answer" json:"answer" validate:"required"`
	Category string `bson:"category" json:"category"`
	Order    int    `bson:"order" json:"order"`
}

func NewFAQ() *FAQ {
	return &FAQ{}
}
