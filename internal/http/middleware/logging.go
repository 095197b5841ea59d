package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
)

type stateKey struct{}

// requestState lets inner middlewares report back to RequestLogger.
type requestState struct {
	actorID int64
}

func stateFrom(ctx context.Context) *requestState {
	st, _ := ctx.Value(stateKey{}).(*requestState)
	return st
}

// RequestLogger attaches a request scoped logger and logs one line per request.
func RequestLogger(base *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			st := &requestState{}

			l := base.With("request_id", chimw.GetReqID(r.Context()))
			ctx := context.WithValue(logger.WithLogger(r.Context(), l), stateKey{}, st)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			}
			if st.actorID > 0 {
				kv = append(kv, "actor_id", st.actorID)
			}
			if status >= http.StatusInternalServerError {
				l.Errorw("http request", kv...)
				return
			}
			l.Infow("http request", kv...)
		})
	}
}
