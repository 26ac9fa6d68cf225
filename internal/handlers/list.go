package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/hearthshare/hearthshare/internal/models"
	"github.com/hearthshare/hearthshare/internal/services"
)

type ListHandler struct {
	listService services.ListServiceInterface
}

func NewListHandler(listService services.ListServiceInterface) *ListHandler {
	return &ListHandler{listService: listService}
}

type CreateListRequest struct {
	Name string `json:"name"`
}

type AddItemRequest struct {
	Name string `json:"name"`
}

type RenameItemRequest struct {
	Name string `json:"name"`
}

type SetItemStatusRequest struct {
	Status string `json:"status"`
}

type AssignItemRequest struct {
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

// requireFamily pulls the authenticated user and their family out of the
// request. It writes the error response itself when either is missing.
func requireFamily(w http.ResponseWriter, r *http.Request) (*models.User, uuid.UUID, bool) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, uuid.Nil, false
	}
	if user.FamilyID == nil {
		writeError(w, http.StatusConflict, "You are not in a family")
		return nil, uuid.Nil, false
	}
	return user, *user.FamilyID, true
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	list, err := h.listService.CreateList(r.Context(), user.ID, familyID, req.Name)
	if err != nil {
		h.writeListError(w, err, "Error creating list")
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	lists, err := h.listService.ListsByFamily(r.Context(), familyID)
	if err != nil {
		h.writeListError(w, err, "Error listing lists")
		return
	}

	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	listID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid list ID")
		return
	}

	if err := h.listService.DeleteList(r.Context(), familyID, listID); err != nil {
		h.writeListError(w, err, "Error deleting list")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "List deleted"})
}

func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	listID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid list ID")
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.listService.AddItem(r.Context(), user.ID, familyID, models.AddItemParams{
		ListID: listID,
		Name:   req.Name,
	})
	if err != nil {
		h.writeListError(w, err, "Error adding item")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *ListHandler) Items(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	listID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid list ID")
		return
	}

	items, err := h.listService.ItemsByList(r.Context(), familyID, listID)
	if err != nil {
		h.writeListError(w, err, "Error listing items")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *ListHandler) RenameItem(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req RenameItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.listService.RenameItem(r.Context(), familyID, itemID, req.Name); err != nil {
		h.writeListError(w, err, "Error renaming item")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Item renamed"})
}

func (h *ListHandler) SetItemStatus(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req SetItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.listService.SetItemStatus(r.Context(), user.ID, familyID, itemID, req.Status)
	if err != nil {
		h.writeListError(w, err, "Error updating item status")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *ListHandler) AssignItem(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req AssignItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.listService.AssignItem(r.Context(), familyID, itemID, req.AssignedTo); err != nil {
		h.writeListError(w, err, "Error assigning item")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Item assigned"})
}

func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.listService.DeleteItem(r.Context(), familyID, itemID); err != nil {
		h.writeListError(w, err, "Error deleting item")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Item deleted"})
}

func (h *ListHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	suggestions, err := h.listService.Suggestions(r.Context(), familyID)
	if err != nil {
		h.writeListError(w, err, "Error listing suggestions")
		return
	}

	writeJSON(w, http.StatusOK, suggestions)
}

func (h *ListHandler) writeListError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, services.ErrListNameRequired),
		errors.Is(err, services.ErrItemNameRequired),
		errors.Is(err, services.ErrInvalidItemStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrListNotFound),
		errors.Is(err, services.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("%s: %v", logMsg, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
