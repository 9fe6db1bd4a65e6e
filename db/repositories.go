package db

import (
	"kuic/metrics"
	"kuic/models"
)

// Repositories bundles one repository per collection.
type Repositories struct {
	Members  Repository[models.Member]
	Events   Repository[models.Event]
	FAQs     Repository[models.FAQ]
	Gallery  Repository[models.GalleryItem]
	Carousel Repository[models.Carousel]
	Messages Repository[models.Message]
	Segments Repository[models.Segment]
}

// NewMongoRepositories binds every repository to its collection in s.
func NewMongoRepositories(s *Store, m *metrics.Registry) *Repositories {
	return &Repositories{
		Members:  Instrument[models.Member](NewMongoRepository[models.Member](s.Collection(MembersCollection)), MembersCollection, m),
		Events:   Instrument[models.Event](NewMongoRepository[models.Event](s.Collection(EventsCollection)), EventsCollection, m),
		FAQs:     Instrument[models.FAQ](NewMongoRepository[models.FAQ](s.Collection(FAQsCollection)), FAQsCollection, m),
		Gallery:  Instrument[models.GalleryItem](NewMongoRepository[models.GalleryItem](s.Collection(GalleryCollection)), GalleryCollection, m),
		Carousel: Instrument[models.Carousel](NewMongoRepository[models.Carousel](s.Collection(CarouselCollection)), CarouselCollection, m),
		Messages: Instrument[models.Message](NewMongoRepository[models.Message](s.Collection(MessagesCollection)), MessagesCollection, m),
		Segments: Instrument[models.Segment](NewMongoRepository[models.Segment](s.Collection(SegmentsCollection)), SegmentsCollection, m),
	}
}

// NewMemoryRepositories returns in-process repositories with the same
// uniqueness rules as the Mongo indexes.
func NewMemoryRepositories(m *metrics.Registry) *Repositories {
	return &Repositories{
		Members:  Instrument[models.Member](memory[models.Member](MembersCollection), MembersCollection, m),
		Events:   Instrument[models.Event](memory[models.Event](EventsCollection), EventsCollection, m),
		FAQs:     Instrument[models.FAQ](memory[models.FAQ](FAQsCollection), FAQsCollection, m),
		Gallery:  Instrument[models.GalleryItem](memory[models.GalleryItem](GalleryCollection), GalleryCollection, m),
		Carousel: Instrument[models.Carousel](memory[models.Carousel](CarouselCollection), CarouselCollection, m),
		Messages: Instrument[models.Message](memory[models.Message](MessagesCollection), MessagesCollection, m),
		Segments: Instrument[models.Segment](memory[models.Segment](SegmentsCollection), SegmentsCollection, m),
	}
}

func memory[T any](collection string) *MemoryRepository[T] {
	return NewMemoryRepository[T](collection, UniquePaths(collection)...)
}
