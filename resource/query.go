package resource

import (
	"net/http"

	"kuic/db"
	"kuic/utils"

	"github.com/julienschmidt/httprouter"
)

var (
	// ByOrder is the list order of collections that carry an order field.
	ByOrder = []db.SortField{db.Asc("order"), db.Asc("createdAt")}
	// Newest is the list order of everything else.
	Newest = []db.SortField{db.Desc("createdAt")}
)

// Filters maps query parameters onto equality filters.
type Filters struct {
	Fixed   db.Fields         // always applied
	Strings map[string]string // parameter -> path, applied when non-empty
	Bools   map[string]string // parameter -> path, "true"-compared when present
}

// Query builds a QueryFunc from f, sorted by sort and leaving out omit.
func Query(f Filters, sort []db.SortField, omit ...string) QueryFunc {
	return func(r *http.Request, _ httprouter.Params) db.Query {
		q := r.URL.Query()
		eq := db.Fields{}
		for path, v := range f.Fixed {
			eq[path] = v
		}
		utils.QueryEquals(q, eq, f.Strings)
		for param, path := range f.Bools {
			if v, ok := utils.QueryBool(q, param); ok {
				eq[path] = v
			}
		}
		return db.Query{Filter: db.Where(eq), Sort: sort, Omit: omit}
	}
}
