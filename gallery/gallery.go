package gallery

import (
	"kuic/db"
	"kuic/models"
	"kuic/resource"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	*resource.Handler[models.GalleryItem]
}

func NewHandler(repo db.Repository[models.GalleryItem], deps resource.Deps) *Handler {
	return &Handler{resource.New(repo, resource.Spec[models.GalleryItem]{
		Entity:  "Gallery item",
		Key:     "galleryItem",
		Missing: resource.NullOnMissing,
		New:     models.NewGalleryItem,
	}, deps)}
}

func (h *Handler) GetGalleryItems() httprouter.Handle {
	return h.List("galleryItems", resource.Query(resource.Filters{}, resource.Newest))
}

func (h *Handler) GetAllGalleryItems() httprouter.Handle {
	return h.List("galleryItems", resource.Query(resource.Filters{
		Strings: map[string]string{"category": "category"},
	}, resource.Newest))
}
