// Package messages serves the leadership messages. Any add or update whose
// payload names messageType advisor deactivates every other advisor first,
// and toggling an advisor on does the same afterwards. The two steps are not
// atomic, so concurrent advisor writes can still leave two active.
package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"kuic/db"
	"kuic/models"
	"kuic/resource"
	"kuic/utils"

	"github.com/julienschmidt/httprouter"
)

var byTypeThenOrder = append([]db.SortField{db.Asc("messageType")}, resource.ByOrder...)

type Handler struct {
	*resource.Handler[models.Message]
}

func NewHandler(repo db.Repository[models.Message], deps resource.Deps) *Handler {
	h := &Handler{}
	h.Handler = resource.New(repo, resource.Spec[models.Message]{
		Entity:      "Message",
		Plural:      "Messages",
		Key:         "data",
		GetKey:      "message",
		Missing:     resource.Strict,
		New:         models.NewMessage,
		BeforeWrite: h.replaceAdvisor,
		Active:      func(m *models.Message) bool { return m.IsActive },
		AfterToggle: h.claimAdvisor,
	}, deps)
	return h
}

// replaceAdvisor runs before an add or update: a payload that sets
// messageType advisor retires every other advisor, active or not.
func (h *Handler) replaceAdvisor(ctx context.Context, _ *models.Message, id string, body []byte) error {
	var payload struct {
		MessageType string `json:"messageType"`
	}
	if json.Unmarshal(body, &payload) != nil || strings.TrimSpace(payload.MessageType) != models.MessageAdvisor {
		return nil
	}
	return h.deactivateAdvisors(ctx, id)
}

// claimAdvisor runs after a toggle and retires the other advisors when m
// became the active one.
func (h *Handler) claimAdvisor(ctx context.Context, m *models.Message, id string) error {
	if !m.IsActiveAdvisor() {
		return nil
	}
	return h.deactivateAdvisors(ctx, id)
}

// deactivateAdvisors sets isActive false on every advisor except id.
func (h *Handler) deactivateAdvisors(ctx context.Context, id string) error {
	f := db.Filter{
		Equals: db.Fields{"messageType": models.MessageAdvisor},
		NotID:  id,
	}
	if _, err := h.Repo().SetMany(ctx, f, db.Fields{"isActive": false}); err != nil {
		return fmt.Errorf("deactivate other advisors: %w", err)
	}
	return nil
}

// GetMessages answers the public page: the active advisor and the active leaders.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.Context(r)
	defer cancel()

	msgs, err := h.Repo().Find(ctx, db.Query{
		Filter: db.Where(db.Fields{"isActive": true}),
		Sort:   byTypeThenOrder,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	var advisor *models.Message
	leaders := []models.Message{}
	for i := range msgs {
		switch msgs[i].MessageType {
		case models.MessageAdvisor:
			if advisor == nil {
				advisor = &msgs[i]
			}
		case models.MessageLeader:
			leaders = append(leaders, msgs[i])
		}
	}
	utils.RespondOK(w, http.StatusOK, utils.M{"advisor": advisor, "leaders": leaders})
}

// GetAdvisorMessage returns the newest active advisor, or null.
func (h *Handler) GetAdvisorMessage() httprouter.Handle {
	return h.First("advisor", func(*http.Request, httprouter.Params) db.Query {
		return db.Query{
			Filter: db.Where(db.Fields{"messageType": models.MessageAdvisor, "isActive": true}),
			Sort:   resource.Newest,
		}
	}, resource.NullOnMissing)
}

func (h *Handler) GetLeaderMessages() httprouter.Handle {
	return h.List("leaders", resource.Query(resource.Filters{
		Fixed: db.Fields{"messageType": models.MessageLeader, "isActive": true},
	}, resource.ByOrder))
}

func (h *Handler) GetAllMessages() httprouter.Handle {
	return h.List("messages", resource.Query(resource.Filters{
		Strings: map[string]string{"messageType": "messageType", "role": "role"},
		Bools:   map[string]string{"isActive": "isActive"},
	}, byTypeThenOrder))
}

// GetMessagesByRole lists active messages signed with the :role title.
func (h *Handler) GetMessagesByRole() httprouter.Handle {
	return h.List("messages", func(_ *http.Request, ps httprouter.Params) db.Query {
		return db.Query{
			Filter: db.Where(db.Fields{"role": ps.ByName("role"), "isActive": true}),
			Sort:   resource.ByOrder,
		}
	})
}

func (h *Handler) ReorderMessages() httprouter.Handle {
	return h.Reorder("messageOrders", "data")
}
