package faqs

import (
	"kuic/db"
	"kuic/models"
	"kuic/resource"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	*resource.Handler[models.FAQ]
}

func NewHandler(repo db.Repository[models.FAQ], deps resource.Deps) *Handler {
	return &Handler{resource.New(repo, resource.Spec[models.FAQ]{
		Entity:  "FAQ",
		Key:     "faq",
		Missing: resource.NullOnMissing,
		New:     models.NewFAQ,
	}, deps)}
}

func (h *Handler) GetFAQs() httprouter.Handle {
	return h.List("faqs", resource.Query(resource.Filters{}, resource.ByOrder))
}

func (h *Handler) GetAllFAQs() httprouter.Handle {
	return h.List("faqs", resource.Query(resource.Filters{
		Strings: map[string]string{"category": "category"},
	}, resource.ByOrder))
}
