package models

const DefaultOverlay = "from-black/60 via-black/30 to-transparent"

type SlideSettings struct {
	ShowCTA        bool `bson:"showCTA" json:"showCTA"`
	AutoPlay       bool `bson:"autoPlay" json:"autoPlay"`
	TransitionTime int  `bson:"transitionTime" json:"transitionTime"`
	Interval       int  `bson:"interval" json:"interval"`
}

type SlideMetadata struct {
	CreatedBy string   `bson:"createdBy" json:"createdBy"`
	UpdatedBy string   `bson:"updatedBy" json:"updatedBy"`
	Category  string   `bson:"category" json:"category" validate:"oneof=event general hero promotion announcement"`
	Tags      []string `bson:"tags" json:"tags"`
}

// Carousel is one homepage slide. Order sorts, IsActive gates public visibility.
type Carousel struct {
	Base          `bson:",inline"`
	Title         string        `bson:"title" json:"title" validate:"required"`
	Subtitle      string        `bson:"subtitle" json:"subtitle" validate:"required"`
	Description   string        `bson:"description" json:"description" validate:"required"`
	Image         string        `bson:"image" json:"image" validate:"required"`
	CTA           string        `bson:"cta" json:"cta"`
	CTALink       string        `bson:"ctaLink" json:"ctaLink"`
	Overlay       string        `bson:"overlay" json:"overlay"`
	IsActive      bool          `bson:"isActive" json:"isActive"`
	Order         int           `bson:"order" json:"order"`
	SlideSettings SlideSettings `bson:"slideSettings" json:"slideSettings"`
	Metadata      SlideMetadata `bson:"metadata" json:"metadata"`
}

func NewCarousel() *Carousel {
	return &Carousel{
		Overlay:  DefaultOverlay,
		IsActive: true,
		SlideSettings: SlideSettings{
			ShowCTA:        true,
			AutoPlay:       true,
			TransitionTime: 800,
			Interval:       5000,
		},
		Metadata: SlideMetadata{
			Category: "general",
			Tags:     []string{},
		},
	}
}

// Stamp records subject as the author of this write.
func (c *Carousel) Stamp(subject string, creating bool) {
	if creating {
		c.Metadata.CreatedBy = subject
	}
	c.Metadata.UpdatedBy = subject
}
