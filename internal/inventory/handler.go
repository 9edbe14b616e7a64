// internal/inventory/handler.go
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MemberDirectory answers whether a member identity is known. The
// circulation routes validate members before mutating the inventory;
// a nil directory disables the check.
type MemberDirectory interface {
	MemberExists(ctx context.Context, id MemberID) bool
}

type Handler struct {
	service Service
	members MemberDirectory
}

func NewHandler(service Service, members MemberDirectory) *Handler {
	return &Handler{service: service, members: members}
}

// Routes mounts the inventory API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/titles", h.handleAddTitle)
	r.Get("/titles/{id}", h.handleTitleStatus)
	r.Delete("/titles/{id}", h.handleRemoveTitle)
	r.Post("/titles/{id}/checkout", h.handleCheckout)
	r.Post("/titles/{id}/return", h.handleReturn)
	r.Post("/titles/{id}/holds", h.handleReserve)
	r.Delete("/titles/{id}/holds/{member}", h.handleCancelReservation)
	r.Post("/titles/{id}/touch", h.handleTouch)
	r.Get("/shelf", h.handleShelfSequence)
	r.Get("/shelf/least-recent", h.handleLeastRecent)
	return r
}

// statusFor maps the inventory error taxonomy onto HTTP status codes:
// not-found 404, conflict 409, illegal-state 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownTitle), errors.Is(err, ErrEmptyShelf):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateTitle),
		errors.Is(err, ErrAlreadyQueued),
		errors.Is(err, ErrNotQueued):
		return http.StatusConflict
	case errors.Is(err, ErrNotAvailable),
		errors.Is(err, ErrReservedForOther),
		errors.Is(err, ErrNotCheckedOut),
		errors.Is(err, ErrWrongHolder),
		errors.Is(err, ErrNotOnShelf),
		errors.Is(err, ErrTitleInUse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

// decodeMember reads the member_id body field and, when a directory is
// configured, rejects identities it does not know.
func (h *Handler) decodeMember(w http.ResponseWriter, r *http.Request) (MemberID, bool) {
	var req struct {
		MemberID MemberID `json:"member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	if req.MemberID == "" {
		http.Error(w, "missing member_id", http.StatusBadRequest)
		return "", false
	}
	if h.members != nil && !h.members.MemberExists(r.Context(), req.MemberID) {
		http.Error(w, "unknown member", http.StatusForbidden)
		return "", false
	}
	return req.MemberID, true
}

func (h *Handler) handleAddTitle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID BookID `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "missing title id", http.StatusBadRequest)
		return
	}

	if err := h.service.AddTitle(req.ID); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleTitleStatus(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.TitleStatus(BookID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, err)
		return
	}
	json.NewEncoder(w).Encode(title)
}

func (h *Handler) handleRemoveTitle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveTitle(BookID(chi.URLParam(r, "id"))); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	member, ok := h.decodeMember(w, r)
	if !ok {
		return
	}
	if err := h.service.Checkout(BookID(chi.URLParam(r, "id")), member); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	member, ok := h.decodeMember(w, r)
	if !ok {
		return
	}
	if err := h.service.Return(BookID(chi.URLParam(r, "id")), member); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	member, ok := h.decodeMember(w, r)
	if !ok {
		return
	}
	if err := h.service.Reserve(BookID(chi.URLParam(r, "id")), member); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	id := BookID(chi.URLParam(r, "id"))
	member := MemberID(chi.URLParam(r, "member"))
	if err := h.service.CancelReservation(id, member); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTouch(w http.ResponseWriter, r *http.Request) {
	if err := h.service.TouchAccess(BookID(chi.URLParam(r, "id"))); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleShelfSequence(w http.ResponseWriter, r *http.Request) {
	seq := h.service.ShelfSequence()
	json.NewEncoder(w).Encode(struct {
		Shelf []BookID `json:"shelf"`
	}{Shelf: seq})
}

func (h *Handler) handleLeastRecent(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.LeastRecentCandidate()
	if err != nil {
		h.fail(w, err)
		return
	}
	json.NewEncoder(w).Encode(struct {
		ID BookID `json:"id"`
	}{ID: id})
}
