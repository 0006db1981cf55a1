package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hamzaoui/ayahreels/internal/db"
	"github.com/hamzaoui/ayahreels/internal/models"
	"github.com/hamzaoui/ayahreels/internal/queue"
	"github.com/hamzaoui/ayahreels/internal/quran"
	"github.com/hamzaoui/ayahreels/internal/reciters"
)

type Handler struct {
	db               *db.DB
	queue            *queue.Queue
	quran            *quran.Client
	defaultReciterID string
}

func NewHandler(database *db.DB, q *queue.Queue, quranClient *quran.Client, defaultReciterID string) *Handler {
	return &Handler{
		db:               database,
		queue:            q,
		quran:            quranClient,
		defaultReciterID: defaultReciterID,
	}
}

// CreateReel handles POST /v1/reels
func (h *Handler) CreateReel(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate
	if req.Surah < 1 || req.Surah > 114 {
		respondError(w, http.StatusBadRequest, "surah must be between 1 and 114")
		return
	}
	if req.FromAyah < 1 || req.ToAyah < req.FromAyah {
		respondError(w, http.StatusBadRequest, "invalid ayah range")
		return
	}

	reciterID := req.ReciterID
	if reciterID == "" {
		reciterID = h.defaultReciterID
	}
	if _, ok := reciters.Lookup(reciterID); !ok {
		respondError(w, http.StatusBadRequest, "unknown reciter_id")
		return
	}

	if req.BackgroundPath != nil && *req.BackgroundPath != "" {
		if _, err := os.Stat(*req.BackgroundPath); err != nil {
			respondError(w, http.StatusBadRequest, "background_path does not exist on the server")
			return
		}
	}

	reel := &models.Reel{
		ID:             uuid.New(),
		ReciterID:      reciterID,
		Surah:          req.Surah,
		FromAyah:       req.FromAyah,
		ToAyah:         req.ToAyah,
		BackgroundPath: req.BackgroundPath,
		Status:         models.ReelStatusQueued,
	}

	if err := h.db.CreateReel(r.Context(), reel); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create reel")
		return
	}

	if err := h.queue.EnqueueRenderReel(r.Context(), reel.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to enqueue render job")
		return
	}

	respondJSON(w, http.StatusCreated, models.CreateReelResponse{
		ReelID: reel.ID,
		Status: reel.Status,
	})
}

// GetReel handles GET /v1/reels/{id}
func (h *Handler) GetReel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reel ID")
		return
	}

	reel, err := h.db.GetReel(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Reel not found")
		return
	}

	respondJSON(w, http.StatusOK, reel)
}

// ListReels handles GET /v1/reels
// Query params:
//   - limit:  max results per page (default 20, max 100)
//   - offset: number of results to skip (default 0)
func (h *Handler) ListReels(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}

	reels, err := h.db.ListReels(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list reels")
		return
	}
	if reels == nil {
		reels = []models.Reel{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reels":  reels,
		"limit":  limit,
		"offset": offset,
	})
}

// ListReciters handles GET /v1/reciters
func (h *Handler) ListReciters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reciters": reciters.All(),
		"default":  h.defaultReciterID,
	})
}

// ListSurahs handles GET /v1/surahs
func (h *Handler) ListSurahs(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.quran.ListChapters(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch chapter list")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"surahs": chapters})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
