// Package api exposes the party and rsvp state over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pregame-dev/pregame/auth"
	"github.com/pregame-dev/pregame/auth/gate"
	"github.com/pregame-dev/pregame/internal/logutil"
	"github.com/pregame-dev/pregame/partydb"
)

type (
	handlers struct {
		store *partydb.Store
	}
)

// AsHandler mounts the route table. Everything except the party
// listing and lookup sits behind the realm.
func AsHandler(store *partydb.Store, realm *gate.Realm) http.Handler {
	h := handlers{store: store}
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/parties", h.listParties)
	router.Handler(http.MethodGet, "/parties/:party_id", http.HandlerFunc(h.getParty))
	router.Handler(http.MethodPost, "/parties", realm.Protect(http.HandlerFunc(h.createParty)))
	router.Handler(http.MethodPut, "/parties/:party_id", realm.Protect(http.HandlerFunc(h.updateParty)))
	router.Handler(http.MethodDelete, "/parties/:party_id", realm.Protect(http.HandlerFunc(h.deleteParty)))
	router.Handler(http.MethodGet, "/parties/:party_id/rsvps", realm.Protect(http.HandlerFunc(h.listPartyRsvps)))
	router.Handler(http.MethodGet, "/parties/:party_id/rsvp", realm.Protect(http.HandlerFunc(h.getRsvp)))
	router.Handler(http.MethodDelete, "/parties/:party_id/rsvp", realm.Protect(http.HandlerFunc(h.deleteRsvp)))
	router.Handler(http.MethodPut, "/rsvp", realm.Protect(http.HandlerFunc(h.updateRsvp)))
	router.Handler(http.MethodGet, "/me", realm.Protect(http.HandlerFunc(h.me)))
	return router
}

func pathParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// storeError maps storage failures to status codes without leaking the
// cause to the caller.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, partydb.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, "Not Found")
		return
	}
	logger := logutil.RequestLogger(r)
	logger.Error().Err(err).Msg("Storage operation failed")
	gate.Deny(w, http.StatusInternalServerError)
}

// identity fails closed: a protected handler reached without an
// attached identity rejects the request instead of guessing.
func identity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	id, ok := gate.IdentityFromContext(r.Context())
	if !ok {
		gate.Deny(w, http.StatusUnauthorized)
		return nil, false
	}
	return id, true
}

func (h handlers) listParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.store.ListParties(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}
	if parties == nil {
		parties = []partydb.Party{}
	}
	writeJSON(w, http.StatusOK, parties)
}

func (h handlers) getParty(w http.ResponseWriter, r *http.Request) {
	party, err := h.store.GetParty(r.Context(), pathParam(r, "party_id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, party)
}

func (h handlers) createParty(w http.ResponseWriter, r *http.Request) {
	var fields partydb.PartyFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, "Invalid Request Body")
		return
	}
	party, err := h.store.CreateParty(r.Context(), fields)
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, party)
}

func (h handlers) updateParty(w http.ResponseWriter, r *http.Request) {
	var fields partydb.PartyFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, "Invalid Request Body")
		return
	}
	party, err := h.store.UpdateParty(r.Context(), pathParam(r, "party_id"), fields)
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, party)
}

func (h handlers) deleteParty(w http.ResponseWriter, r *http.Request) {
	err := h.store.SoftDeleteParty(r.Context(), pathParam(r, "party_id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handlers) listPartyRsvps(w http.ResponseWriter, r *http.Request) {
	rsvps, err := h.store.ListPartyRsvps(r.Context(), pathParam(r, "party_id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	if rsvps == nil {
		rsvps = []partydb.Rsvp{}
	}
	writeJSON(w, http.StatusOK, rsvps)
}

// getRsvp returns the caller's rsvp for the party, creating a pending
// one on first access.
func (h handlers) getRsvp(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	rsvp, err := h.store.GetOrCreateRsvp(r.Context(), pathParam(r, "party_id"), id.UserID)
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvp)
}

type updateRsvpRequest struct {
	RsvpID string `json:"rsvp_id"`
	Status string `json:"status"`
}

func (h handlers) updateRsvp(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var payload updateRsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, "Invalid Request Body")
		return
	}
	status, ok := partydb.ParseStatus(payload.Status)
	if !ok {
		writeJSON(w, http.StatusBadRequest, "Invalid Status")
		return
	}
	// callers can only touch their own rows
	rsvp, err := h.store.UpdateRsvp(r.Context(), payload.RsvpID, id.UserID, status)
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvp)
}

func (h handlers) deleteRsvp(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	err := h.store.SoftDeleteRsvp(r.Context(), pathParam(r, "party_id"), id.UserID)
	if err != nil {
		storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// me echoes the authenticated identity back to the caller.
func (h handlers) me(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, id)
}
