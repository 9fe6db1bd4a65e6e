package routes

import (
	"fmt"
	"net/http"
	"time"

	"kuic/carousel"
	"kuic/db"
	"kuic/events"
	"kuic/faqs"
	"kuic/gallery"
	"kuic/members"
	"kuic/messages"
	"kuic/metrics"
	"kuic/middleware"
	"kuic/mq"
	"kuic/ratelim"
	"kuic/resource"
	"kuic/segments"

	"github.com/julienschmidt/httprouter"
)

// Deps is everything the route table needs to build handlers.
type Deps struct {
	Repos     *db.Repositories
	Publisher mq.Publisher
	Metrics   *metrics.Registry
	Limiter   *ratelim.RateLimiter
	JWTSecret string
	Timeout   time.Duration
}

func (d Deps) handlerDeps() resource.Deps {
	return resource.Deps{Publisher: d.Publisher, Metrics: d.Metrics, Timeout: d.Timeout}
}

// group registers the routes under one prefix. Every route is instrumented;
// writes also go through the rate limiter and admin auth.
type group struct {
	router *httprouter.Router
	prefix string
	deps   Deps
	guard  func(httprouter.Handle) httprouter.Handle
}

func newGroup(router *httprouter.Router, prefix string, deps Deps) *group {
	return &group{
		router: router,
		prefix: prefix,
		deps:   deps,
		guard:  middleware.Chain(deps.Limiter.Limit, middleware.Authenticate(deps.JWTSecret)),
	}
}

func (g *group) read(path string, h httprouter.Handle) {
	route := g.prefix + path
	g.router.GET(route, middleware.Instrument(g.deps.Metrics, route, h))
}

func (g *group) write(method, path string, h httprouter.Handle) {
	route := g.prefix + path
	g.router.Handle(method, route, middleware.Instrument(g.deps.Metrics, route, g.guard(h)))
}

// New builds the full route table.
func New(deps Deps) *httprouter.Router {
	router := httprouter.New()
	AddShellRoutes(router, deps)
	AddMemberRoutes(router, deps)
	AddEventRoutes(router, deps)
	AddFAQRoutes(router, deps)
	AddGalleryRoutes(router, deps)
	AddCarouselRoutes(router, deps)
	AddMessageRoutes(router, deps)
	AddSegmentRoutes(router, deps)
	return router
}

func AddShellRoutes(router *httprouter.Router, deps Deps) {
	router.GET("/", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		fmt.Fprint(w, "Hello World!")
	})
	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		fmt.Fprint(w, "200")
	})
	if deps.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
}

func AddMemberRoutes(router *httprouter.Router, deps Deps) {
	h := members.NewHandler(deps.Repos.Members, deps.handlerDeps())
	g := newGroup(router, "/api/members", deps)

	g.read("/getMembers", h.GetMembers())
	g.read("/getAllMembers", h.GetAllMembers())
	g.read("/getMember/:id", h.Get)
	g.write(http.MethodPost, "/addMember", h.Create)
	g.write(http.MethodPatch, "/updateMember/:id", h.Update)
	g.write(http.MethodDelete, "/deleteMember/:id", h.Delete)
}

func AddEventRoutes(router *httprouter.Router, deps Deps) {
	h := events.NewHandler(deps.Repos.Events, deps.handlerDeps())
	g := newGroup(router, "/api/events", deps)

	g.read("/getEvents", h.GetEvents())
	g.read("/getAllEvents", h.GetAllEvents())
	g.read("/getEvent/:id", h.Get)
	g.write(http.MethodPost, "/addEvent", h.Create)
	g.write(http.MethodPatch, "/updateEvent/:id", h.Update)
	g.write(http.MethodDelete, "/deleteEvent/:id", h.Delete)
}

func AddFAQRoutes(router *httprouter.Router, deps Deps) {
	h := faqs.NewHandler(deps.Repos.FAQs, deps.handlerDeps())
	g := newGroup(router, "/api/faqs", deps)

	g.read("/getFAQs", h.GetFAQs())
	g.read("/getAllFAQs", h.GetAllFAQs())
	g.read("/getFAQ/:id", h.Get)
	g.write(http.MethodPost, "/addFAQ", h.Create)
	g.write(http.MethodPatch, "/updateFAQ/:id", h.Update)
	g.write(http.MethodDelete, "/deleteFAQ/:id", h.Delete)
}

func AddGalleryRoutes(router *httprouter.Router, deps Deps) {
	h := gallery.NewHandler(deps.Repos.Gallery, deps.handlerDeps())
	g := newGroup(router, "/api/gallery", deps)

	g.read("/getGalleryItems", h.GetGalleryItems())
	g.read("/getAllGalleryItems", h.GetAllGalleryItems())
	g.read("/getGalleryItem/:id", h.Get)
	g.write(http.MethodPost, "/addGalleryItem", h.Create)
	g.write(http.MethodPatch, "/updateGalleryItem/:id", h.Update)
	g.write(http.MethodDelete, "/deleteGalleryItem/:id", h.Delete)
}

func AddCarouselRoutes(router *httprouter.Router, deps Deps) {
	h := carousel.NewHandler(deps.Repos.Carousel, deps.handlerDeps())
	g := newGroup(router, "/api/carousel", deps)

	g.read("/getSlides", h.GetSlides())
	g.read("/getAllSlides", h.GetAllSlides())
	g.read("/getSlide/:id", h.Get)
	g.write(http.MethodPost, "/addSlide", h.Create)
	g.write(http.MethodPatch, "/updateSlide/:id", h.Update)
	g.write(http.MethodDelete, "/deleteSlide/:id", h.Delete)
	g.write(http.MethodPatch, "/toggleSlide/:id", h.Toggle)
	g.write(http.MethodPatch, "/reorderSlides", h.ReorderSlides())
}

func AddMessageRoutes(router *httprouter.Router, deps Deps) {
	h := messages.NewHandler(deps.Repos.Messages, deps.handlerDeps())
	g := newGroup(router, "/api/messages", deps)

	g.read("/getMessages", h.GetMessages)
	g.read("/getAdvisorMessage", h.GetAdvisorMessage())
	g.read("/getLeaderMessages", h.GetLeaderMessages())
	g.read("/getAllMessages", h.GetAllMessages())
	g.read("/getMessagesByRole/:role", h.GetMessagesByRole())
	g.read("/getMessage/:id", h.Get)
	g.write(http.MethodPost, "/addMessage", h.Create)
	g.write(http.MethodPatch, "/updateMessage/:id", h.Update)
	g.write(http.MethodDelete, "/deleteMessage/:id", h.Delete)
	g.write(http.MethodPatch, "/toggleMessage/:id", h.Toggle)
	g.write(http.MethodPatch, "/reorderMessages", h.ReorderMessages())
}

func AddSegmentRoutes(router *httprouter.Router, deps Deps) {
	h := segments.NewHandler(deps.Repos.Segments, deps.handlerDeps())
	g := newGroup(router, "/api/segments", deps)

	g.read("/getSegments", h.GetSegments())
	g.read("/getAllSegments", h.GetAllSegments())
	g.read("/getSegment/:id", h.Get)
	g.read("/getSegmentBySlug/:slug", h.GetSegmentBySlug())
	g.read("/getCoreSegments", h.GetCoreSegments())
	g.read("/getSegmentsByCategory/:category", h.GetSegmentsByCategory())
	g.read("/searchSegments", h.SearchSegments())
	g.write(http.MethodPost, "/addSegment", h.Create)
	g.write(http.MethodPatch, "/updateSegment/:id", h.Update)
	g.write(http.MethodDelete, "/deleteSegment/:id", h.Delete)
	g.write(http.MethodPatch, "/toggleSegment/:id", h.Toggle)
	g.write(http.MethodPatch, "/reorderSegments", h.ReorderSegments())
	g.write(http.MethodPatch, "/updateStatistics/:id", h.UpdateStatistics())
	g.write(http.MethodPatch, "/addResource/:id", h.AddResource())
	g.write(http.MethodPatch, "/addCourse/:id", h.AddCourse())
}
