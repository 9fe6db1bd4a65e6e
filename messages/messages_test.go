package messages

import (
	"net/http"
	"testing"

	"kuic/db"
	"kuic/models"
	"kuic/resource"
	"kuic/resource/resourcetest"

	"github.com/julienschmidt/httprouter"
)

func newRouter() *httprouter.Router {
	h := NewHandler(db.NewMemoryRepository[models.Message](db.MessagesCollection), resource.Deps{})
	r := httprouter.New()
	r.GET("/getMessages", h.GetMessages)
	r.GET("/getAdvisorMessage", h.GetAdvisorMessage())
	r.GET("/getLeaderMessages", h.GetLeaderMessages())
	r.GET("/getAllMessages", h.GetAllMessages())
	r.GET("/getMessagesByRole/:role", h.GetMessagesByRole())
	r.GET("/getMessage/:id", h.Get)
	r.POST("/addMessage", h.Create)
	r.PATCH("/updateMessage/:id", h.Update)
	r.DELETE("/deleteMessage/:id", h.Delete)
	r.PATCH("/toggleMessage/:id", h.Toggle)
	r.PATCH("/reorderMessages", h.ReorderMessages())
	return r
}

func advisor(name string) map[string]any {
	return map[string]any{
		"name": name, "title": "Prof.", "role": "Advisor",
		"message": "Welcome", "messageType": "advisor",
	}
}

func leader(name, role string, order int) map[string]any {
	return map[string]any{
		"name": name, "title": "Student", "role": role,
		"message": "Hello", "messageType": "leader", "order": order,
	}
}

func add(t *testing.T, r http.Handler, body map[string]any) string {
	t.Helper()
	res, out := resourcetest.Do(t, r, http.MethodPost, "/addMessage", body)
	if res.Code != http.StatusCreated {
		t.Fatalf("addMessage: %d %v", res.Code, out)
	}
	return resourcetest.ID(t, resourcetest.Object(t, out, "data"))
}

func activeAdvisors(t *testing.T, r http.Handler) []map[string]any {
	t.Helper()
	_, out := resourcetest.Do(t, r, http.MethodGet, "/getAllMessages?messageType=advisor&isActive=true", nil)
	return resourcetest.List(t, out, "messages")
}

func TestAddMessageDefaults(t *testing.T) {
	r := newRouter()
	_, out := resourcetest.Do(t, r, http.MethodPost, "/addMessage", leader("Rafi", "General Secretary", 1))
	m := resourcetest.Object(t, out, "data")
	if m["photo"] != "/kuic.jpg" || m["isActive"] != true {
		t.Errorf("defaults = %v", m)
	}
	if out["message"] != "Message added successfully" {
		t.Errorf("message = %v", out["message"])
	}
}

func TestAddMessageValidatesEnums(t *testing.T) {
	r := newRouter()
	body := leader("x", "Captain", 0)
	body["messageType"] = "guest"
	res, out := resourcetest.Do(t, r, http.MethodPost, "/addMessage", body)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", res.Code)
	}
	if n := len(resourcetest.List(t, out, "errors")); n != 2 {
		t.Errorf("errors = %v", out["errors"])
	}
}

func TestNewAdvisorReplacesPrevious(t *testing.T) {
	r := newRouter()
	first := add(t, r, advisor("Old"))
	second := add(t, r, advisor("New"))

	active := activeAdvisors(t, r)
	if len(active) != 1 || resourcetest.ID(t, active[0]) != second {
		t.Fatalf("active advisors = %v", active)
	}

	_, out := resourcetest.Do(t, r, http.MethodGet, "/getAdvisorMessage", nil)
	if got := resourcetest.Object(t, out, "advisor"); got["name"] != "New" {
		t.Errorf("advisor = %v", got)
	}

	_, out = resourcetest.Do(t, r, http.MethodGet, "/getMessage/"+first, nil)
	if old := resourcetest.Object(t, out, "message"); old["isActive"] != false {
		t.Errorf("previous advisor still active: %v", old)
	}
}

func TestInactiveAdvisorStillRetiresCurrent(t *testing.T) {
	r := newRouter()
	add(t, r, advisor("Current"))
	draft := advisor("Draft")
	draft["isActive"] = false
	add(t, r, draft)

	if active := activeAdvisors(t, r); len(active) != 0 {
		t.Errorf("active advisors = %v, want none", active)
	}
}

func TestUpdateToAdvisorRetiresCurrent(t *testing.T) {
	r := newRouter()
	current := add(t, r, advisor("A"))
	hidden := leader("L", "President", 1)
	hidden["isActive"] = false
	promoted := add(t, r, hidden)

	res, out := resourcetest.Do(t, r, http.MethodPatch, "/updateMessage/"+promoted, map[string]any{"messageType": "advisor"})
	if res.Code != http.StatusOK {
		t.Fatalf("update: %d %v", res.Code, out)
	}
	if active := activeAdvisors(t, r); len(active) != 0 {
		t.Errorf("active advisors = %v, want none", active)
	}

	_, out = resourcetest.Do(t, r, http.MethodGet, "/getMessage/"+current, nil)
	if got := resourcetest.Object(t, out, "message"); got["isActive"] != false {
		t.Errorf("previous advisor still active: %v", got)
	}
}

func TestUpdateWithoutMessageTypeKeepsAdvisors(t *testing.T) {
	r := newRouter()
	a := add(t, r, advisor("A"))
	resourcetest.Do(t, r, http.MethodPatch, "/toggleMessage/"+a, nil)
	b := add(t, r, advisor("B"))

	// a is inactive; editing its text alone must not retire b
	res, out := resourcetest.Do(t, r, http.MethodPatch, "/updateMessage/"+a, map[string]any{"message": "Edited"})
	if res.Code != http.StatusOK {
		t.Fatalf("update: %d %v", res.Code, out)
	}
	if active := activeAdvisors(t, r); len(active) != 1 || resourcetest.ID(t, active[0]) != b {
		t.Errorf("active advisors = %v", active)
	}
}

func TestUpdateAndToggleClaimAdvisor(t *testing.T) {
	r := newRouter()
	a := add(t, r, advisor("A"))
	b := add(t, r, advisor("B"))

	// b holds the slot; an advisor update of a takes it over
	res, out := resourcetest.Do(t, r, http.MethodPatch, "/updateMessage/"+a, map[string]any{"isActive": true, "messageType": "advisor"})
	if res.Code != http.StatusOK {
		t.Fatalf("update: %d %v", res.Code, out)
	}
	if active := activeAdvisors(t, r); len(active) != 1 || resourcetest.ID(t, active[0]) != a {
		t.Fatalf("after update: %v", active)
	}

	_, out = resourcetest.Do(t, r, http.MethodPatch, "/toggleMessage/"+b, nil)
	if out["message"] != "Message activated successfully" {
		t.Errorf("toggle message = %v", out["message"])
	}
	if active := activeAdvisors(t, r); len(active) != 1 || resourcetest.ID(t, active[0]) != b {
		t.Fatalf("after toggle: %v", active)
	}
}

func TestGetMessagesSplitsAdvisorAndLeaders(t *testing.T) {
	r := newRouter()
	add(t, r, leader("L2", "Treasurer", 2))
	add(t, r, advisor("Adv"))
	add(t, r, leader("L1", "President", 1))
	hidden := leader("L3", "Director", 0)
	hidden["isActive"] = false
	add(t, r, hidden)

	_, out := resourcetest.Do(t, r, http.MethodGet, "/getMessages", nil)
	if adv := resourcetest.Object(t, out, "advisor"); adv["name"] != "Adv" {
		t.Errorf("advisor = %v", adv)
	}
	leaders := resourcetest.List(t, out, "leaders")
	if len(leaders) != 2 || leaders[0]["name"] != "L1" || leaders[1]["name"] != "L2" {
		t.Errorf("leaders = %v", leaders)
	}

	_, out = resourcetest.Do(t, r, http.MethodGet, "/getLeaderMessages", nil)
	if n := len(resourcetest.List(t, out, "leaders")); n != 2 {
		t.Errorf("getLeaderMessages = %d", n)
	}
	_, out = resourcetest.Do(t, r, http.MethodGet, "/getMessagesByRole/President", nil)
	if list := resourcetest.List(t, out, "messages"); len(list) != 1 || list[0]["name"] != "L1" {
		t.Errorf("by role = %v", list)
	}
}

func TestNoAdvisorIsNull(t *testing.T) {
	r := newRouter()
	res, out := resourcetest.Do(t, r, http.MethodGet, "/getAdvisorMessage", nil)
	if res.Code != http.StatusOK || out["advisor"] != nil {
		t.Fatalf("status = %d, body = %v", res.Code, out)
	}
	_, out = resourcetest.Do(t, r, http.MethodGet, "/getMessages", nil)
	if out["advisor"] != nil {
		t.Errorf("advisor = %v", out["advisor"])
	}
	if leaders, ok := out["leaders"].([]any); !ok || len(leaders) != 0 {
		t.Errorf("leaders = %#v", out["leaders"])
	}
}

func TestMissingMessageIs404(t *testing.T) {
	r := newRouter()
	res, out := resourcetest.Do(t, r, http.MethodDelete, "/deleteMessage/64b7f0c2a1b2c3d4e5f60718", nil)
	if res.Code != http.StatusNotFound || out["error"] != "Message not found" {
		t.Fatalf("status = %d, body = %v", res.Code, out)
	}
}

func TestReorderMessagesKeys(t *testing.T) {
	r := newRouter()
	id := add(t, r, leader("L", "President", 0))
	res, out := resourcetest.Do(t, r, http.MethodPatch, "/reorderMessages", map[string]any{
		"messageOrders": []map[string]any{{"id": id, "order": 7}},
	})
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", res.Code, out)
	}
	if list := resourcetest.List(t, out, "data"); len(list) != 1 || list[0]["order"] != float64(7) {
		t.Errorf("data = %v", list)
	}
	res, out = resourcetest.Do(t, r, http.MethodPatch, "/reorderMessages", map[string]any{"slideOrders": []any{}})
	if res.Code != http.StatusBadRequest || out["error"] != "messageOrders must be an array" {
		t.Errorf("wrong key: %d %v", res.Code, out)
	}
}
