package events

import (
	"kuic/db"
	"kuic/models"
	"kuic/resource"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	*resource.Handler[models.Event]
}

func NewHandler(repo db.Repository[models.Event], deps resource.Deps) *Handler {
	return &Handler{resource.New(repo, resource.Spec[models.Event]{
		Entity:  "Event",
		Key:     "event",
		Missing: resource.NullOnMissing,
		New:     models.NewEvent,
	}, deps)}
}

// GetEvents lists events newest first; ?isPinned=true narrows to pinned ones.
func (h *Handler) GetEvents() httprouter.Handle {
	return h.List("events", resource.Query(resource.Filters{
		Bools: map[string]string{"isPinned": "isPinned"},
	}, resource.Newest))
}

func (h *Handler) GetAllEvents() httprouter.Handle {
	return h.List("events", resource.Query(resource.Filters{
		Strings: map[string]string{"status": "status", "category": "category"},
		Bools:   map[string]string{"isPinned": "isPinned"},
	}, resource.Newest))
}
