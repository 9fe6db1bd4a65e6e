package members

import (
	"kuic/db"
	"kuic/models"
	"kuic/resource"

	"github.com/julienschmidt/httprouter"
)

// Handler serves /api/members. A missing id answers 200 with a null member.
type Handler struct {
	*resource.Handler[models.Member]
}

func NewHandler(repo db.Repository[models.Member], deps resource.Deps) *Handler {
	return &Handler{resource.New(repo, resource.Spec[models.Member]{
		Entity:  "Member",
		Key:     "member",
		Missing: resource.NullOnMissing,
		New:     models.NewMember,
	}, deps)}
}

// GetMembers lists members, optionally by Status.
func (h *Handler) GetMembers() httprouter.Handle {
	return h.List("members", resource.Query(resource.Filters{
		Strings: map[string]string{"Status": "Status"},
	}, resource.Newest))
}

// GetAllMembers is the admin list, filterable by Status and Position.
func (h *Handler) GetAllMembers() httprouter.Handle {
	return h.List("members", resource.Query(resource.Filters{
		Strings: map[string]string{"Status": "Status", "Position": "Position"},
	}, resource.Newest))
}
