// Package resource implements the CRUD contract shared by every content
// collection: create, get, update, delete, list, toggle and reorder.
package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kuic/db"
	"kuic/globals"
	"kuic/logging"
	"kuic/metrics"
	"kuic/middleware"
	"kuic/models"
	"kuic/mq"
	"kuic/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// NotFoundPolicy decides how a missing id is answered.
type NotFoundPolicy int

const (
	// Strict answers 404 { success: false, error: "<Label> not found" }.
	Strict NotFoundPolicy = iota
	// NullOnMissing answers 200 with the payload key set to null.
	NullOnMissing
)

const DefaultTimeout = 10 * time.Second

// Spec describes one collection to the generic handler.
type Spec[T any] struct {
	Entity string // success messages: "<Entity> added successfully"
	Label  string // not-found and toggle messages, defaults to Entity
	Plural string // reorder message
	Key    string // payload key of a single document
	GetKey string // payload key of get, defaults to Key

	Missing NotFoundPolicy
	New     func() *T

	// Prepare runs after trimming and before validation.
	Prepare func(doc *T, creating bool)
	// BeforeWrite runs after validation, right before insert or replace.
	// id is empty on create; body is the request payload as sent.
	BeforeWrite func(ctx context.Context, doc *T, id string, body []byte) error
	// Active reads isActive for toggle messages.
	Active func(doc *T) bool
	// AfterToggle runs once the flip is stored and announced. A failure
	// answers 400 but leaves the flip in place.
	AfterToggle func(ctx context.Context, doc *T, id string) error
}

// Deps are the collaborators every handler shares.
type Deps struct {
	Publisher mq.Publisher
	Metrics   *metrics.Registry
	Timeout   time.Duration
}

// QueryFunc builds a store query from the request.
type QueryFunc func(r *http.Request, ps httprouter.Params) db.Query

// Handler serves one collection.
type Handler[T any] struct {
	spec Spec[T]
	repo db.Repository[T]
	deps Deps
}

func New[T any](repo db.Repository[T], spec Spec[T], deps Deps) *Handler[T] {
	if spec.Label == "" {
		spec.Label = spec.Entity
	}
	if spec.GetKey == "" {
		spec.GetKey = spec.Key
	}
	if deps.Publisher == nil {
		deps.Publisher = mq.Nop{}
	}
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultTimeout
	}
	return &Handler[T]{spec: spec, repo: repo, deps: deps}
}

func (h *Handler[T]) Repo() db.Repository[T] { return h.repo }

// Context derives the store deadline from the request.
func (h *Handler[T]) Context(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.deps.Timeout)
}

func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := utils.ReadBody(w, r)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	doc := h.spec.New()
	if err := utils.MergeJSON(doc, body); err != nil {
		h.Fail(w, r, err)
		return
	}
	*meta(doc) = models.Base{}

	ctx, cancel := h.Context(r)
	defer cancel()

	if err := h.prepare(ctx, doc, "", body); err != nil {
		h.Fail(w, r, err)
		return
	}
	if err := h.repo.Insert(ctx, doc); err != nil {
		h.Fail(w, r, err)
		return
	}

	h.Changed(r, mq.MethodCreate, meta(doc).ID.Hex())
	utils.RespondOK(w, http.StatusCreated, utils.M{
		"message":  h.spec.Entity + " added successfully",
		h.spec.Key: doc,
	})
}

func (h *Handler[T]) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.Context(r)
	defer cancel()

	doc, err := h.repo.FindByID(ctx, ps.ByName("id"))
	if errors.Is(err, db.ErrNotFound) {
		h.Missing(w, h.spec.GetKey, "")
		return
	}
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	utils.RespondOK(w, http.StatusOK, utils.M{h.spec.GetKey: doc})
}

// Update merges the body onto the stored document and revalidates the result.
func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.modify(w, r, ps, h.spec.Entity+" updated successfully", func(_ *http.Request, body []byte, doc *T) error {
		return utils.MergeJSON(doc, body)
	})
}

// Patch builds a targeted update: apply edits the loaded document, which is
// then revalidated and stored like an update.
func (h *Handler[T]) Patch(message string, apply func(r *http.Request, body []byte, doc *T) error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		h.modify(w, r, ps, message, apply)
	}
}

func (h *Handler[T]) modify(w http.ResponseWriter, r *http.Request, ps httprouter.Params, message string, apply func(*http.Request, []byte, *T) error) {
	id := ps.ByName("id")
	body, err := utils.ReadBody(w, r)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	ctx, cancel := h.Context(r)
	defer cancel()

	doc, err := h.repo.FindByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		h.Missing(w, h.spec.Key, message)
		return
	}
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	base := *meta(doc)
	if err := apply(r, body, doc); err != nil {
		h.Fail(w, r, err)
		return
	}
	*meta(doc) = base

	if err := h.prepare(ctx, doc, id, body); err != nil {
		h.Fail(w, r, err)
		return
	}
	err = h.repo.Replace(ctx, id, doc)
	if errors.Is(err, db.ErrNotFound) {
		h.Missing(w, h.spec.Key, message)
		return
	}
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	h.Changed(r, mq.MethodUpdate, id)
	utils.RespondOK(w, http.StatusOK, utils.M{
		"message":  message,
		h.spec.Key: doc,
	})
}

func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	ctx, cancel := h.Context(r)
	defer cancel()

	message := h.spec.Entity + " deleted successfully"
	doc, err := h.repo.Delete(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		h.Missing(w, h.spec.Key, message)
		return
	}
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	h.Changed(r, mq.MethodDelete, id)
	utils.RespondOK(w, http.StatusOK, utils.M{
		"message":  message,
		h.spec.Key: doc,
	})
}

// Toggle flips isActive in one store operation. The change is published
// before AfterToggle runs; a hook failure does not undo the flip.
func (h *Handler[T]) Toggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	ctx, cancel := h.Context(r)
	defer cancel()

	doc, err := h.repo.Toggle(ctx, id, "isActive")
	if errors.Is(err, db.ErrNotFound) {
		h.Missing(w, h.spec.Key, "")
		return
	}
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Changed(r, mq.MethodToggle, id)
	if h.spec.AfterToggle != nil {
		if err := h.spec.AfterToggle(ctx, doc, id); err != nil {
			h.Fail(w, r, err)
			return
		}
	}

	state := "deactivated"
	if h.spec.Active != nil && h.spec.Active(doc) {
		state = "activated"
	}
	utils.RespondOK(w, http.StatusOK, utils.M{
		"message":  fmt.Sprintf("%s %s successfully", h.spec.Label, state),
		h.spec.Key: doc,
	})
}

// List answers { key: [...] } for the query build returns.
func (h *Handler[T]) List(key string, build QueryFunc) httprouter.Handle {
	return h.ListView(key, build, func(docs []T) any { return docs })
}

// ListView is List with the documents mapped through view before encoding.
func (h *Handler[T]) ListView(key string, build QueryFunc, view func([]T) any) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := h.Context(r)
		defer cancel()

		docs, err := h.repo.Find(ctx, build(r, ps))
		if err != nil {
			h.Fail(w, r, err)
			return
		}
		utils.RespondOK(w, http.StatusOK, utils.M{key: view(docs)})
	}
}

// First answers with the first document the query matches, or applies
// policy when nothing does.
func (h *Handler[T]) First(key string, build QueryFunc, policy NotFoundPolicy) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := h.Context(r)
		defer cancel()

		doc, err := h.repo.FindOne(ctx, build(r, ps))
		if errors.Is(err, db.ErrNotFound) {
			if policy == Strict {
				utils.RespondWithError(w, http.StatusNotFound, h.spec.Label+" not found")
				return
			}
			utils.RespondOK(w, http.StatusOK, utils.M{key: nil})
			return
		}
		if err != nil {
			h.Fail(w, r, err)
			return
		}
		utils.RespondOK(w, http.StatusOK, utils.M{key: doc})
	}
}

// Missing answers a lookup that found nothing according to the collection's policy.
func (h *Handler[T]) Missing(w http.ResponseWriter, key, message string) {
	if h.spec.Missing == Strict {
		utils.RespondWithError(w, http.StatusNotFound, h.spec.Label+" not found")
		return
	}
	payload := utils.M{key: nil}
	if message != "" {
		payload["message"] = message
	}
	utils.RespondOK(w, http.StatusOK, payload)
}

// Fail maps err onto the error envelope. Every failure that is not an
// explicit not-found is a 400 carrying the message verbatim.
func (h *Handler[T]) Fail(w http.ResponseWriter, r *http.Request, err error) {
	log := h.logger(r)

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		log.Warnw("validation failed", "error", err)
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"success": false,
			"error":   verr.Error(),
			"errors":  verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, db.ErrInvalidID), errors.Is(err, db.ErrDuplicate),
		errors.Is(err, utils.ErrBadJSON), errors.Is(err, ErrBadRequest):
		log.Warnw("bad request", "error", err)
	default:
		log.Errorw("request failed", "error", err)
	}
	utils.RespondWithError(w, http.StatusBadRequest, err.Error())
}

// Changed counts a successful write and announces it.
func (h *Handler[T]) Changed(r *http.Request, method, id string) {
	if h.deps.Metrics != nil {
		h.deps.Metrics.ContentChangesTotal.WithLabelValues(h.spec.Entity, method).Inc()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 2*time.Second)
	defer cancel()
	change := mq.Change{Entity: h.spec.Entity, Method: method, ID: id, At: time.Now().UTC()}
	if err := h.deps.Publisher.Publish(ctx, change); err != nil {
		h.logger(r).Warnw("change not published", "method", method, "id", id, "error", err)
	}
}

func (h *Handler[T]) prepare(ctx context.Context, doc *T, id string, body []byte) error {
	models.Normalize(doc)
	if a, ok := any(doc).(models.Authored); ok {
		if subject := middleware.Subject(ctx); subject != "" {
			a.Stamp(subject, id == "")
		}
	}
	if h.spec.Prepare != nil {
		h.spec.Prepare(doc, id == "")
	}
	if err := models.Validate(doc); err != nil {
		return err
	}
	if h.spec.BeforeWrite != nil {
		return h.spec.BeforeWrite(ctx, doc, id, body)
	}
	return nil
}

func (h *Handler[T]) logger(r *http.Request) *zap.SugaredLogger {
	log := logging.With("entity", h.spec.Entity, "path", r.URL.Path)
	if id, ok := r.Context().Value(globals.RequestIDKey).(string); ok {
		log = log.With("requestId", id)
	}
	return log
}

func meta[T any](doc *T) *models.Base {
	return any(doc).(models.Document).Meta()
}
