package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"kuic/db"
	"kuic/mq"
	"kuic/utils"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"
)

type orderPair struct {
	ID    string     `json:"id"`
	Order orderValue `json:"order"`
}

// orderValue accepts an integer or a numeric string such as "3".
type orderValue int

func (o *orderValue) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return fmt.Errorf("order %v is not an integer", x)
		}
		*o = orderValue(x)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return fmt.Errorf("order %q is not a number", x)
		}
		*o = orderValue(n)
	default:
		return fmt.Errorf("order must be a number, got %s", b)
	}
	return nil
}

// Reorder sets order on every {id, order} pair under bodyKey. The updates run
// concurrently and all of them finish before the response; one failure fails
// the request without undoing the others. Ids that match nothing come back
// as null.
func (h *Handler[T]) Reorder(bodyKey, respKey string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		body, err := utils.ReadBody(w, r)
		if err != nil {
			h.Fail(w, r, err)
			return
		}
		fields, err := utils.DecodeObject(body)
		if err != nil {
			h.Fail(w, r, err)
			return
		}
		raw, ok := fields[bodyKey]
		if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			h.Fail(w, r, BadRequest(bodyKey+" must be an array"))
			return
		}
		var pairs []orderPair
		if err := json.Unmarshal(raw, &pairs); err != nil {
			h.Fail(w, r, BadRequestf("%s: %v", bodyKey, err))
			return
		}

		ctx, cancel := h.Context(r)
		defer cancel()

		updated := make([]*T, len(pairs))
		var g errgroup.Group
		for i, p := range pairs {
			g.Go(func() error {
				doc, err := h.repo.Set(ctx, p.ID, db.Fields{"order": int(p.Order)})
				if errors.Is(err, db.ErrNotFound) {
					return nil
				}
				if err != nil {
					return err
				}
				updated[i] = doc
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			h.Fail(w, r, err)
			return
		}

		h.Changed(r, mq.MethodReorder, "")
		utils.RespondOK(w, http.StatusOK, utils.M{
			"message": h.spec.Plural + " reordered successfully",
			respKey:   updated,
		})
	}
}
