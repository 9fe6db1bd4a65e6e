package middleware

import (
	"net/http"
	"strconv"
	"time"

	"kuic/metrics"

	"github.com/julienschmidt/httprouter"
)

// Instrument records request count and latency under the route pattern, so
// ids in the path never reach a label.
func Instrument(reg *metrics.Registry, route string, next httprouter.Handle) httprouter.Handle {
	if reg == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := NewStatusRecorder(w)
		next(rec, r, ps)

		reg.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.Status())).Inc()
		reg.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	}
}
