package segments

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
	repo := db.NewMemoryRepository[models.Segment](db.SegmentsCollection, db.UniquePaths(db.SegmentsCollection)...)
	h := NewHandler(repo, resource.Deps{})
	r := httprouter.New()
	r.GET("/getSegments", h.GetSegments())
	r.GET("/getAllSegments", h.GetAllSegments())
	r.GET("/getSegment/:id", h.Get)
	r.GET("/getSegmentBySlug/:slug", h.GetSegmentBySlug())
	r.GET("/getCoreSegments", h.GetCoreSegments())
	r.GET("/getSegmentsByCategory/:category", h.GetSegmentsByCategory())
	r.GET("/searchSegments", h.SearchSegments())
	r.POST("/addSegment", h.Create)
	r.PATCH("/updateSegment/:id", h.Update)
	r.DELETE("/deleteSegment/:id", h.Delete)
	r.PATCH("/toggleSegment/:id", h.Toggle)
	r.PATCH("/reorderSegments", h.ReorderSegments())
	r.PATCH("/updateStatistics/:id", h.UpdateStatistics())
	r.PATCH("/addResource/:id", h.AddResource())
	r.PATCH("/addCourse/:id", h.AddCourse())
	return r
}

func segment(title string, extra map[string]any) map[string]any {
	s := map[string]any{"title": title, "description": "About " + title}
	for k, v := range extra {
		s[k] = v
	}
	return s
}

func add(t *testing.T, r http.Handler, body map[string]any) map[string]any {
	t.Helper()
	res, out := resourcetest.Do(t, r, http.MethodPost, "/addSegment", body)
	if res.Code != http.StatusCreated {
		t.Fatalf("addSegment: %d %v", res.Code, out)
	}
	return resourcetest.Object(t, out, "segment")
}

func TestSlugDerivedOnCreate(t *testing.T) {
	r := newRouter()
	s := add(t, r, segment("Hello, World!", nil))
	if s["slug"] != "hello-world" {
		t.Errorf("slug = %v", s["slug"])
	}
	if s["icon"] != "FaRocket" || s["accentColor"] != "bg-blue-500" {
		t.Errorf("defaults = %v / %v", s["icon"], s["accentColor"])
	}

	custom := add(t, r, segment("Anything", map[string]any{"slug": "  My-Track "}))
	if custom["slug"] != "my-track" {
		t.Errorf("custom slug = %v", custom["slug"])
	}

	res, out := resourcetest.Do(t, r, http.MethodPatch, "/updateSegment/"+resourcetest.ID(t, s), map[string]any{"title": "Renamed"})
	if res.Code != http.StatusOK {
		t.Fatalf("update: %d %v", res.Code, out)
	}
	if got := resourcetest.Object(t, out, "segment"); got["slug"] != "hello-world" || got["title"] != "Renamed" {
		t.Errorf("title edit regenerated slug: %v", got)
	}
}

func TestDuplicateSlugRejected(t *testing.T) {
	r := newRouter()
	add(t, r, segment("Robotics", nil))
	res, out := resourcetest.Do(t, r, http.MethodPost, "/addSegment", segment("ROBOTICS", nil))
	if res.Code != http.StatusBadRequest || out["success"] != false {
		t.Fatalf("status = %d, body = %v", res.Code, out)
	}
}

func TestSegmentValidation(t *testing.T) {
	r := newRouter()
	res, out := resourcetest.Do(t, r, http.MethodPost, "/addSegment", segment("Bad", map[string]any{
		"icon":     "FaSkull",
		"features": []string{"ok", "  "},
		"detailedInfo": map[string]any{
			"resources": []map[string]any{{"title": "x", "type": "podcast"}},
		},
	}))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", res.Code)
	}
	want := map[string]bool{"icon": true, "features[1]": true, "detailedInfo.resources[0].type": true}
	for _, e := range resourcetest.List(t, out, "errors") {
		delete(want, e["field"].(string))
	}
	if len(want) != 0 {
		t.Errorf("missing errors for %v in %v", want, out["errors"])
	}
}

func TestListsAreProjected(t *testing.T) {
	r := newRouter()
	full := add(t, r, segment("Deep", map[string]any{
		"detailedInfo": map[string]any{
			"overview":       "ov",
			"relatedCourses": []map[string]any{{"title": "C1"}},
			"resources":      []map[string]any{{"title": "R1", "type": "book"}},
		},
	}))

	for _, path := range []string{"/getSegments", "/getCoreSegments", "/getSegmentsByCategory/core", "/searchSegments?q=deep"} {
		_, out := resourcetest.Do(t, r, http.MethodGet, path, nil)
		list := resourcetest.List(t, out, "segments")
		if len(list) != 1 {
			t.Fatalf("%s: %v", path, list)
		}
		info := resourcetest.Object(t, list[0], "detailedInfo")
		if _, ok := info["relatedCourses"]; ok {
			t.Errorf("%s returned relatedCourses", path)
		}
		if _, ok := info["resources"]; ok {
			t.Errorf("%s returned resources", path)
		}
		if info["overview"] != "ov" {
			t.Errorf("%s lost overview: %v", path, info)
		}
	}

	_, out := resourcetest.Do(t, r, http.MethodGet, "/getSegment/"+resourcetest.ID(t, full), nil)
	info := resourcetest.Object(t, resourcetest.Object(t, out, "segment"), "detailedInfo")
	courses := info["relatedCourses"].([]any)
	if len(courses) != 1 || courses[0].(map[string]any)["level"] != "Beginner" {
		t.Errorf("full detail = %v", info)
	}

	_, out = resourcetest.Do(t, r, http.MethodGet, "/getAllSegments", nil)
	list := resourcetest.List(t, out, "segments")
	if _, ok := resourcetest.Object(t, list[0], "detailedInfo")["resources"]; !ok {
		t.Errorf("admin list should return full documents")
	}
}

func TestSearchMatchesFeaturesAndTags(t *testing.T) {
	r := newRouter()
	add(t, r, segment("Electronics", map[string]any{"features": []string{"PCB design", "Soldering"}}))
	add(t, r, segment("Programming", map[string]any{
		"metadata": map[string]any{"tags": []string{"golang"}, "category": "workshop"},
	}))
	add(t, r, segment("Hidden", map[string]any{"features": []string{"soldering"}, "isActive": false}))

	tests := []struct {
		query string
		want  []string
	}{
		{"?q=solder", []string{"Electronics"}},
		{"?q=GOLANG", []string{"Programming"}},
		{"?q=golang&category=core", nil},
		{"?category=workshop", []string{"Programming"}},
		{"?q=(", nil},
		{"", []string{"Electronics", "Programming"}},
	}
	for _, tt := range tests {
		res, out := resourcetest.Do(t, r, http.MethodGet, "/searchSegments"+tt.query, nil)
		if res.Code != http.StatusOK {
			t.Fatalf("%s: %d %v", tt.query, res.Code, out)
		}
		list := resourcetest.List(t, out, "segments")
		if len(list) != len(tt.want) {
			t.Errorf("%s: got %d results, want %v", tt.query, len(list), tt.want)
			continue
		}
		for i, s := range list {
			if s["title"] != tt.want[i] {
				t.Errorf("%s: [%d] = %v, want %s", tt.query, i, s["title"], tt.want[i])
			}
		}
	}
}

func TestGetSegmentBySlug(t *testing.T) {
	r := newRouter()
	s := add(t, r, segment("Space Lab", nil))

	res, out := resourcetest.Do(t, r, http.MethodGet, "/getSegmentBySlug/space-lab", nil)
	if res.Code != http.StatusOK || resourcetest.Object(t, out, "segment")["title"] != "Space Lab" {
		t.Fatalf("status = %d, body = %v", res.Code, out)
	}

	resourcetest.Do(t, r, http.MethodPatch, "/toggleSegment/"+resourcetest.ID(t, s), nil)
	res, out = resourcetest.Do(t, r, http.MethodGet, "/getSegmentBySlug/space-lab", nil)
	if res.Code != http.StatusNotFound || out["error"] != "Segment not found" {
		t.Errorf("inactive by slug: %d %v", res.Code, out)
	}
}

func TestSubDocumentOperations(t *testing.T) {
	r := newRouter()
	id := resourcetest.ID(t, add(t, r, segment("Ops", nil)))

	res, out := resourcetest.Do(t, r, http.MethodPatch, "/updateStatistics/"+id, map[string]any{
		"statistics": map[string]any{"enrolledMembers": 40, "activeProjects": 3},
	})
	if res.Code != http.StatusOK || out["message"] != "Segment statistics updated successfully" {
		t.Fatalf("updateStatistics: %d %v", res.Code, out)
	}
	stats := resourcetest.Object(t, resourcetest.Object(t, out, "segment"), "statistics")
	if stats["enrolledMembers"] != float64(40) || stats["completedProjects"] != float64(0) {
		t.Errorf("statistics = %v", stats)
	}

	res, out = resourcetest.Do(t, r, http.MethodPatch, "/addResource/"+id, map[string]any{
		"resource": map[string]any{"title": "Docs", "type": "website", "url": "https://go.dev"},
	})
	if res.Code != http.StatusOK {
		t.Fatalf("addResource: %d %v", res.Code, out)
	}
	res, out = resourcetest.Do(t, r, http.MethodPatch, "/addResource/"+id, map[string]any{
		"resource": map[string]any{"title": "Bad"},
	})
	if res.Code != http.StatusBadRequest {
		t.Errorf("resource without type accepted: %d %v", res.Code, out)
	}
	res, _ = resourcetest.Do(t, r, http.MethodPatch, "/addResource/"+id, map[string]any{})
	if res.Code != http.StatusBadRequest {
		t.Errorf("missing resource accepted: %d", res.Code)
	}

	res, out = resourcetest.Do(t, r, http.MethodPatch, "/addCourse/"+id, map[string]any{
		"course": map[string]any{"title": "Intro", "duration": "4 weeks"},
	})
	if res.Code != http.StatusOK || out["message"] != "Course added successfully" {
		t.Fatalf("addCourse: %d %v", res.Code, out)
	}

	_, out = resourcetest.Do(t, r, http.MethodGet, "/getSegment/"+id, nil)
	info := resourcetest.Object(t, resourcetest.Object(t, out, "segment"), "detailedInfo")
	if n := len(info["resources"].([]any)); n != 1 {
		t.Errorf("resources = %d, want 1 (invalid append must not persist)", n)
	}
	courses := info["relatedCourses"].([]any)
	if len(courses) != 1 || courses[0].(map[string]any)["level"] != "Beginner" {
		t.Errorf("courses = %v", courses)
	}

	res, out = resourcetest.Do(t, r, http.MethodPatch, "/addCourse/64b7f0c2a1b2c3d4e5f60718", map[string]any{
		"course": map[string]any{"title": "x"},
	})
	if res.Code != http.StatusNotFound {
		t.Errorf("missing segment: %d %v", res.Code, out)
	}
}
