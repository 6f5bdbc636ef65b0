package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/noteman/internal/middleware"
	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/repository"
	"github.com/hitoshi/noteman/internal/security"
)

// NoteHandler はノートCRUDのHTTPハンドラー。
// 各操作はリポジトリへの薄いラッパーで、認証ミドルウェア通過後にのみ到達する。
// 所有者チェックは行わない（認証ゲートの契約は身元確認のみ）。
type NoteHandler struct {
	repo      repository.NoteRepository
	sanitizer security.NoteSanitizerService
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(repo repository.NoteRepository, sanitizer security.NoteSanitizerService) *NoteHandler {
	return &NoteHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// noteResponse はノートのJSON表現。
type noteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createNoteRequest はノート作成リクエストのボディ。
type createNoteRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID string `json:"id_user"`
}

// updateNoteRequest はノート更新リクエストのボディ。
type updateNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ListNotes は指定ユーザーのノート一覧を返す。
// GET /api/notes/{userId}
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	notes, err := h.repo.ListByUserID(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list notes", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	resp := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		resp = append(resp, toNoteResponse(note))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetNote は指定IDのノートを返す。
// GET /api/note/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	note, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("failed to find note", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	if note == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNoteNotFoundError(id))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toNoteResponse(note))
}

// CreateNote はノートを作成する。タイトルと本文は保存前にサニタイズする。
// POST /api/note/
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("invalid JSON body"))
		return
	}

	now := time.Now()
	note := &model.Note{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Title:     h.sanitizer.SanitizeTitle(req.Title),
		Body:      h.sanitizer.SanitizeBody(req.Body),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(r.Context(), note); err != nil {
		slog.Error("failed to create note", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateNote は指定IDのノートのタイトルと本文を更新する。
// PUT /api/note/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("invalid JSON body"))
		return
	}

	title := h.sanitizer.SanitizeTitle(req.Title)
	body := h.sanitizer.SanitizeBody(req.Body)

	if err := h.repo.Update(r.Context(), id, title, body); err != nil {
		if errors.Is(err, model.ErrNoteNotFound) {
			middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNoteNotFoundError(id))
			return
		}
		slog.Error("failed to update note", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteNote は指定IDのノートを削除する。
// DELETE /api/note/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete note", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toNoteResponse(note *model.Note) noteResponse {
	return noteResponse{
		ID:        note.ID,
		UserID:    note.UserID,
		Title:     note.Title,
		Body:      note.Body,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
