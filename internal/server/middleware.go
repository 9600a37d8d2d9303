package server

import (
	"context"
	"log"
	"net/http"

	"github.com/Tomlord1122/memo-app/internal/service"
)

type ctxKey int

const memoServiceKey ctxKey = iota

// withMemoService binds a request-scoped MemoService to the request context.
// When the database could not be opened the chain stops with 503.
func (s *Server) withMemoService(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		db, err := s.db.Session(r.Context())
		if err != nil {
			log.Printf("Initializing database failed: %v", err)
			respondWithText(w, http.StatusServiceUnavailable, "Database not found")
			return
		}
		ctx := context.WithValue(r.Context(), memoServiceKey, s.newService(db))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func memoServiceFrom(ctx context.Context) service.MemoService {
	svc, _ := ctx.Value(memoServiceKey).(service.MemoService)
	return svc
}
