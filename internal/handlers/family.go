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

type FamilyHandler struct {
	familyService services.FamilyServiceInterface
	authService   services.AuthServiceInterface
}

func NewFamilyHandler(familyService services.FamilyServiceInterface, authService services.AuthServiceInterface) *FamilyHandler {
	return &FamilyHandler{familyService: familyService, authService: authService}
}

type CreateFamilyRequest struct {
	Name string `json:"name"`
}

type CreateFamilyResponse struct {
	FamilyID   uuid.UUID `json:"family_id"`
	InviteCode string    `json:"invite_code"`
	// Epoch milliseconds, the shape the mobile client stores.
	ExpiresAt int64 `json:"expires_at"`
}

type JoinFamilyRequest struct {
	Code string `json:"code"`
}

type JoinFamilyResponse struct {
	FamilyID   uuid.UUID `json:"family_id"`
	FamilyName string    `json:"family_name"`
}

type InviteResponse struct {
	InviteCode string `json:"invite_code"`
	ExpiresAt  int64  `json:"expires_at"`
}

type FamilyResponse struct {
	Family  *models.Family `json:"family"`
	Members []models.User  `json:"members"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.familyService.CreateFamily(r.Context(), user.ID, req.Name)
	if err != nil {
		h.writeFamilyError(w, err, "Error creating family")
		return
	}

	writeJSON(w, http.StatusCreated, CreateFamilyResponse{
		FamilyID:   result.FamilyID,
		InviteCode: result.InviteCode,
		ExpiresAt:  result.ExpiresAt.UnixMilli(),
	})
}

func (h *FamilyHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req JoinFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.familyService.JoinFamily(r.Context(), user.ID, req.Code)
	if err != nil {
		h.writeFamilyError(w, err, "Error joining family")
		return
	}

	writeJSON(w, http.StatusOK, JoinFamilyResponse{
		FamilyID:   result.FamilyID,
		FamilyName: result.FamilyName,
	})
}

func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if user.FamilyID == nil {
		writeError(w, http.StatusNotFound, "You are not in a family")
		return
	}

	family, err := h.familyService.GetByID(r.Context(), *user.FamilyID)
	if err != nil {
		h.writeFamilyError(w, err, "Error loading family")
		return
	}

	members, err := h.familyService.ListMembers(r.Context(), family.ID)
	if err != nil {
		h.writeFamilyError(w, err, "Error loading members")
		return
	}

	writeJSON(w, http.StatusOK, FamilyResponse{Family: family, Members: members})
}

func (h *FamilyHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if user.FamilyID == nil {
		writeError(w, http.StatusConflict, "You are not in a family")
		return
	}

	result, err := h.familyService.CreateInvite(r.Context(), user.ID, *user.FamilyID)
	if err != nil {
		h.writeFamilyError(w, err, "Error creating invite")
		return
	}

	writeJSON(w, http.StatusCreated, InviteResponse{
		InviteCode: result.InviteCode,
		ExpiresAt:  result.ExpiresAt.UnixMilli(),
	})
}

func (h *FamilyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if user.FamilyID == nil {
		writeError(w, http.StatusConflict, "You are not in a family")
		return
	}

	if err := h.familyService.LeaveFamily(r.Context(), user.ID, *user.FamilyID); err != nil {
		h.writeFamilyError(w, err, "Error leaving family")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Left family"})
}

func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if user.FamilyID == nil {
		writeError(w, http.StatusConflict, "You are not in a family")
		return
	}

	memberID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid member ID")
		return
	}

	if err := h.familyService.RemoveMember(r.Context(), user.ID, *user.FamilyID, memberID); err != nil {
		h.writeFamilyError(w, err, "Error removing member")
		return
	}

	// Force the evicted member to re-authenticate
	if err := h.authService.DeleteAllUserSessions(r.Context(), memberID); err != nil {
		log.Printf("Error revoking sessions for removed member: %v", err)
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Member removed"})
}

func (h *FamilyHandler) Disband(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if user.FamilyID == nil {
		writeError(w, http.StatusConflict, "You are not in a family")
		return
	}

	// Snapshot the membership before it is cleared so non-owner sessions
	// can be revoked afterwards.
	members, err := h.familyService.ListMembers(r.Context(), *user.FamilyID)
	if err != nil {
		log.Printf("Error listing members before disband: %v", err)
	}

	if err := h.familyService.DisbandFamily(r.Context(), user.ID, *user.FamilyID); err != nil {
		h.writeFamilyError(w, err, "Error disbanding family")
		return
	}

	for _, member := range members {
		if member.ID == user.ID {
			continue
		}
		if err := h.authService.DeleteAllUserSessions(r.Context(), member.ID); err != nil {
			log.Printf("Error revoking sessions after disband: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Family disbanded"})
}

// writeFamilyError maps service errors onto statuses. Unrecognized errors
// are logged and reported as a plain 500.
func (h *FamilyHandler) writeFamilyError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, services.ErrFamilyNameRequired),
		errors.Is(err, services.ErrInviteCodeLength):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrFamilyNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyInFamily),
		errors.Is(err, services.ErrInviteExpired),
		errors.Is(err, services.ErrInviteUsed),
		errors.Is(err, services.ErrOwnerCannotLeave),
		errors.Is(err, services.ErrCannotRemoveSelf):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFamilyOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrCreateRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		log.Printf("%s: %v", logMsg, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
