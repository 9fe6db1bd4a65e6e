package segments

import (
	"encoding/json"
	"net/http"
	"strings"

	"kuic/db"
	"kuic/models"
	"kuic/resource"
	"kuic/utils"

	"github.com/julienschmidt/httprouter"
)

// heavy are left out of every list view.
var heavy = []string{"detailedInfo.relatedCourses", "detailedInfo.resources"}

var searchPaths = []string{"title", "description", "features", "metadata.tags"}

type Handler struct {
	*resource.Handler[models.Segment]
}

func NewHandler(repo db.Repository[models.Segment], deps resource.Deps) *Handler {
	return &Handler{resource.New(repo, resource.Spec[models.Segment]{
		Entity:  "Segment",
		Plural:  "Segments",
		Key:     "segment",
		Missing: resource.Strict,
		New:     models.NewSegment,
		Prepare: prepare,
		Active:  func(s *models.Segment) bool { return s.IsActive },
	}, deps)}
}

// prepare derives the slug on creation only; later edits keep whatever slug is stored.
func prepare(s *models.Segment, creating bool) {
	if creating {
		s.PrepareSlug()
	} else {
		s.Slug = strings.ToLower(s.Slug)
	}
	s.FillCourseLevels()
}

func summaries(docs []models.Segment) any {
	out := make([]models.SegmentSummary, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].Summary())
	}
	return out
}

func (h *Handler) GetSegments() httprouter.Handle {
	return h.ListView("segments", resource.Query(resource.Filters{
		Fixed: db.Fields{"isActive": true},
	}, resource.ByOrder, heavy...), summaries)
}

// GetAllSegments is the admin list and returns full documents.
func (h *Handler) GetAllSegments() httprouter.Handle {
	return h.List("segments", resource.Query(resource.Filters{
		Strings: map[string]string{"category": "metadata.category"},
		Bools:   map[string]string{"isActive": "isActive"},
	}, resource.ByOrder))
}

func (h *Handler) GetCoreSegments() httprouter.Handle {
	return h.ListView("segments", resource.Query(resource.Filters{
		Fixed: db.Fields{"isActive": true, "metadata.category": models.SegmentCore},
	}, resource.ByOrder, heavy...), summaries)
}

func (h *Handler) GetSegmentsByCategory() httprouter.Handle {
	return h.ListView("segments", func(_ *http.Request, ps httprouter.Params) db.Query {
		return db.Query{
			Filter: db.Where(db.Fields{"isActive": true, "metadata.category": ps.ByName("category")}),
			Sort:   resource.ByOrder,
			Omit:   heavy,
		}
	}, summaries)
}

// GetSegmentBySlug returns an active segment in full, or 404.
func (h *Handler) GetSegmentBySlug() httprouter.Handle {
	return h.First("segment", func(_ *http.Request, ps httprouter.Params) db.Query {
		return db.Query{Filter: db.Where(db.Fields{
			"slug":     strings.ToLower(ps.ByName("slug")),
			"isActive": true,
		})}
	}, resource.Strict)
}

// SearchSegments matches ?q literally and case-insensitively against the
// title, description, features and tags of active segments.
func (h *Handler) SearchSegments() httprouter.Handle {
	return h.ListView("segments", func(r *http.Request, _ httprouter.Params) db.Query {
		q := r.URL.Query()
		f := db.Where(db.Fields{"isActive": true})
		if c := q.Get("category"); c != "" {
			f.Equals["metadata.category"] = c
		}
		if term := strings.TrimSpace(q.Get("q")); term != "" {
			f.Search = &db.Search{Term: term, Paths: searchPaths}
		}
		return db.Query{Filter: f, Sort: resource.ByOrder, Omit: heavy}
	}, summaries)
}

func (h *Handler) ReorderSegments() httprouter.Handle {
	return h.Reorder("segmentOrders", "segments")
}

// UpdateStatistics replaces the statistics sub-document with body.statistics.
func (h *Handler) UpdateStatistics() httprouter.Handle {
	return h.Patch("Segment statistics updated successfully", func(_ *http.Request, body []byte, s *models.Segment) error {
		var stats models.Statistics
		if err := field(body, "statistics", &stats); err != nil {
			return err
		}
		s.Statistics = stats
		return nil
	})
}

// AddResource appends body.resource to detailedInfo.resources.
func (h *Handler) AddResource() httprouter.Handle {
	return h.Patch("Resource added successfully", func(_ *http.Request, body []byte, s *models.Segment) error {
		var res models.Resource
		if err := field(body, "resource", &res); err != nil {
			return err
		}
		s.DetailedInfo.Resources = append(s.DetailedInfo.Resources, res)
		return nil
	})
}

// AddCourse appends body.course to detailedInfo.relatedCourses.
func (h *Handler) AddCourse() httprouter.Handle {
	return h.Patch("Course added successfully", func(_ *http.Request, body []byte, s *models.Segment) error {
		course := models.NewCourse()
		if err := field(body, "course", course); err != nil {
			return err
		}
		s.DetailedInfo.RelatedCourses = append(s.DetailedInfo.RelatedCourses, *course)
		return nil
	})
}

// field decodes the object under key into dst.
func field(body []byte, key string, dst any) error {
	fields, err := utils.DecodeObject(body)
	if err != nil {
		return err
	}
	raw, ok := fields[key]
	if !ok || !strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		return resource.BadRequest(key + " must be an object")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return resource.BadRequestf("%s: %v", key, err)
	}
	return nil
}
