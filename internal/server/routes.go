package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/memo-app/internal/domain"
	"github.com/Tomlord1122/memo-app/internal/service"
	"github.com/Tomlord1122/memo-app/internal/view"
)

// RegisterRoutes builds the chi router with the middleware chain and all pages.
func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(s.gate.Middleware)

	r.Get("/health", s.healthHandler)
	r.Handle("/favicon.png", view.Static())
	r.Handle("/static/*", http.StripPrefix("/static", view.Static()))

	r.Group(func(r chi.Router) {
		r.Use(s.withMemoService)

		r.Get("/", s.listMemosHandler)
		r.Route("/memo/{id}", func(r chi.Router) {
			r.Get("/", s.editMemoHandler)
			r.Post("/save", s.saveMemoHandler)
			r.Post("/delete", s.deleteMemoHandler)
		})
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) listMemosHandler(w http.ResponseWriter, r *http.Request) {
	memos, err := memoServiceFrom(r.Context()).ListMemos(r.Context())
	if err != nil {
		log.Printf("Error calling ListMemos service: %v", err)
		respondWithText(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.render(w, "list", view.Page{
		Title: view.DefaultTitle,
		Data:  map[string]any{"Memos": memos},
	})
}

func (s *Server) editMemoHandler(w http.ResponseWriter, r *http.Request) {
	// An id that does not parse can never match a row, so it opens the
	// blank form just like an unknown id.
	id, err := parseMemoID(r)
	if err != nil {
		id = domain.UnsavedID
	}

	memo, err := memoServiceFrom(r.Context()).GetMemoForEdit(r.Context(), id)
	if err != nil {
		log.Printf("Error calling GetMemoForEdit service: %v", err)
		respondWithText(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.render(w, "edit", view.Page{
		Title: "Submit | " + view.DefaultTitle,
		Data:  map[string]any{"Memo": memo},
	})
}

func (s *Server) saveMemoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseMemoID(r)
	if err != nil {
		respondWithText(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := r.ParseForm(); err != nil {
		respondWithText(w, http.StatusBadRequest, "invalid form data")
		return
	}

	err = memoServiceFrom(r.Context()).SaveMemo(r.Context(), service.SaveMemoRequest{
		ID:   id,
		Body: r.PostForm.Get("body"),
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyBody) {
			respondWithText(w, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("Error calling SaveMemo service: %v", err)
			respondWithText(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) deleteMemoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseMemoID(r)
	if err != nil {
		// No row can have this id, so there is nothing to delete.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	err = memoServiceFrom(r.Context()).DeleteMemo(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUnsavedMemo) {
			respondWithText(w, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("Error calling DeleteMemo service: %v", err)
			respondWithText(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseMemoID reads the {id} path segment.
func parseMemoID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *Server) render(w http.ResponseWriter, name string, page view.Page) {
	if err := s.renderer.Render(w, http.StatusOK, name, page); err != nil {
		log.Printf("Error rendering %s page: %v", name, err)
		respondWithText(w, http.StatusInternalServerError, "internal server error")
	}
}

func respondWithText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(message))
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
