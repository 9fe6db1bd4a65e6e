package carousel

import (
	"kuic/db"
	"kuic/models"
	"kuic/resource"

	"github.com/julienschmidt/httprouter"
)

// Handler serves /api/carousel. Public lists only show active slides.
type Handler struct {
	*resource.Handler[models.Carousel]
}

func NewHandler(repo db.Repository[models.Carousel], deps resource.Deps) *Handler {
	return &Handler{resource.New(repo, resource.Spec[models.Carousel]{
		Entity:  "Carousel slide",
		Label:   "Slide",
		Plural:  "Slides",
		Key:     "slide",
		Missing: resource.Strict,
		New:     models.NewCarousel,
		Active:  func(s *models.Carousel) bool { return s.IsActive },
	}, deps)}
}

func (h *Handler) GetSlides() httprouter.Handle {
	return h.List("slides", resource.Query(resource.Filters{
		Fixed: db.Fields{"isActive": true},
	}, resource.ByOrder))
}

func (h *Handler) GetAllSlides() httprouter.Handle {
	return h.List("slides", resource.Query(resource.Filters{
		Strings: map[string]string{"category": "metadata.category"},
		Bools:   map[string]string{"isActive": "isActive"},
	}, resource.ByOrder))
}

func (h *Handler) ReorderSlides() httprouter.Handle {
	return h.Reorder("slideOrders", "slides")
}
