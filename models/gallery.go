package models

type GalleryItem struct {
	Base     `bson:",inline"`
	Title    string `bson:"title" json:"title"`
	Date     *Date  `bson:"date,omitempty" json:"date,omitempty"`
	Location string `bson:"location" json:"location"`
	Category string `bson:"category" json:"category"`
	Image    string `bson:"image" json:"image"`
}

func NewGalleryItem() *GalleryItem {
	return &GalleryItem{}
}
