package events

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
	h := NewHandler(db.NewMemoryRepository[models.Event](db.EventsCollection), resource.Deps{})
	r := httprouter.New()
	r.POST("/addEvent", h.Create)
	r.GET("/getEvents", h.GetEvents())
	r.GET("/getAllEvents", h.GetAllEvents())
	r.GET("/getEvent/:id", h.Get)
	r.PATCH("/updateEvent/:id", h.Update)
	r.DELETE("/deleteEvent/:id", h.Delete)
	return r
}

func event(title string, extra map[string]any) map[string]any {
	e := map[string]any{
		"title":    title,
		"date":     "12 May",
		"time":     "10:00 AM",
		"location": "Hall 2",
	}
	for k, v := range extra {
		e[k] = v
	}
	return e
}

func TestAddEvent(t *testing.T) {
	r := newRouter()
	res, out := resourcetest.Do(t, r, http.MethodPost, "/addEvent", event("Hackathon", map[string]any{
		"short_dec":    "24h build",
		"maxAttendees": 120,
		"guests": []map[string]any{
			{"name": "Dr. X", "social": map[string]any{"linkedin": "in/x"}},
		},
		"agenda": []map[string]any{{"time": "10:00", "event": "Opening"}},
	}))
	if res.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", res.Code, out)
	}
	e := resourcetest.Object(t, out, "event")
	if e["status"] != models.EventUpcoming || e["isPinned"] != false {
		t.Errorf("defaults = %v", e)
	}
	if e["short_dec"] != "24h build" || e["maxAttendees"] != float64(120) {
		t.Errorf("fields = %v", e)
	}
	if _, ok := e["currentAttendees"]; ok {
		t.Errorf("unset currentAttendees should be omitted")
	}
	guests := e["guests"].([]any)
	if len(guests) != 1 {
		t.Fatalf("guests = %v", guests)
	}
}

func TestAddEventValidation(t *testing.T) {
	r := newRouter()
	res, out := resourcetest.Do(t, r, http.MethodPost, "/addEvent", map[string]any{
		"title":  "No place",
		"status": "cancelled",
	})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", res.Code)
	}
	want := map[string]bool{"date": true, "time": true, "location": true, "status": true}
	for _, e := range resourcetest.List(t, out, "errors") {
		delete(want, e["field"].(string))
	}
	if len(want) != 0 {
		t.Errorf("missing errors for %v", want)
	}
}

func TestPastStatusNotTiedToDate(t *testing.T) {
	r := newRouter()
	res, _ := resourcetest.Do(t, r, http.MethodPost, "/addEvent", event("Future but past", map[string]any{
		"date":   "2999-01-01",
		"status": models.EventPast,
	}))
	if res.Code != http.StatusCreated {
		t.Fatalf("status = %d", res.Code)
	}
}

func TestEventFilters(t *testing.T) {
	r := newRouter()
	resourcetest.Do(t, r, http.MethodPost, "/addEvent", event("pinned", map[string]any{"isPinned": true, "category": "talk"}))
	resourcetest.Do(t, r, http.MethodPost, "/addEvent", event("done", map[string]any{"status": "completed", "category": "talk"}))
	resourcetest.Do(t, r, http.MethodPost, "/addEvent", event("plain", map[string]any{"category": "workshop"}))

	_, out := resourcetest.Do(t, r, http.MethodGet, "/getEvents?isPinned=true", nil)
	if list := resourcetest.List(t, out, "events"); len(list) != 1 || list[0]["title"] != "pinned" {
		t.Errorf("isPinned=true = %v", list)
	}
	_, out = resourcetest.Do(t, r, http.MethodGet, "/getEvents?isPinned=false", nil)
	if n := len(resourcetest.List(t, out, "events")); n != 2 {
		t.Errorf("isPinned=false = %d, want 2", n)
	}
	_, out = resourcetest.Do(t, r, http.MethodGet, "/getAllEvents?category=talk&status=completed", nil)
	if list := resourcetest.List(t, out, "events"); len(list) != 1 || list[0]["title"] != "done" {
		t.Errorf("category+status = %v", list)
	}
	_, out = resourcetest.Do(t, r, http.MethodGet, "/getEvents", nil)
	if n := len(resourcetest.List(t, out, "events")); n != 3 {
		t.Errorf("unfiltered = %d", n)
	}
}

func TestUpdateEventReplacesAgenda(t *testing.T) {
	r := newRouter()
	_, out := resourcetest.Do(t, r, http.MethodPost, "/addEvent", event("talk", map[string]any{
		"agenda": []map[string]any{{"time": "1", "event": "a", "speaker": "s1"}, {"time": "2", "event": "b"}},
	}))
	id := resourcetest.ID(t, resourcetest.Object(t, out, "event"))

	_, out = resourcetest.Do(t, r, http.MethodPatch, "/updateEvent/"+id, map[string]any{
		"agenda": []map[string]any{{"time": "3", "event": "c"}},
	})
	agenda := resourcetest.Object(t, out, "event")["agenda"].([]any)
	if len(agenda) != 1 {
		t.Fatalf("agenda = %v", agenda)
	}
	item := agenda[0].(map[string]any)
	if item["event"] != "c" || item["speaker"] != "" {
		t.Errorf("agenda item leaked old values: %v", item)
	}
}

func TestMissingEventIsNull(t *testing.T) {
	r := newRouter()
	res, out := resourcetest.Do(t, r, http.MethodGet, "/getEvent/64b7f0c2a1b2c3d4e5f60718", nil)
	if res.Code != http.StatusOK || out["event"] != nil {
		t.Fatalf("status = %d, body = %v", res.Code, out)
	}
}
