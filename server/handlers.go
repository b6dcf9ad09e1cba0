package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pointledger/models"
	"pointledger/service"

	"github.com/gorilla/mux"
)

type amountPayload struct {
	Amount json.Number `json:"amount"`
}

type transferPayload struct {
	To     string      `json:"to"`
	Amount json.Number `json:"amount"`
	Note   string      `json:"note"`
}

type profilePayload struct {
	Handle      *string `json:"handle"`
	DisplayName *string `json:"displayName"`
}

type createRequestPayload struct {
	From   string      `json:"from"`
	Amount json.Number `json:"amount"`
	Note   string      `json:"note"`
}

type acceptResponse struct {
	Request  *models.PaymentRequest `json:"request"`
	Transfer *models.TransferResult `json:"transfer"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

// decode reads a JSON body; malformed input is an InvalidRequest
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.LedgerError{Kind: service.KindInvalidRequest, Message: "invalid request body", Err: err}
	}
	return nil
}

// parseAmount accepts only whole numbers; the sign is checked by the services
func parseAmount(n json.Number) (int64, error) {
	amount, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, service.ErrInvalidAmount
	}
	return amount, nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	overview, err := s.deps.Users.GetOrCreateUser(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Games.Play(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var payload amountPayload
	if err := decode(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := parseAmount(payload.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.deps.Transfer.Withdraw(r.Context(), GetUserID(r.Context()), amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var payload transferPayload
	if err := decode(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := parseAmount(payload.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.deps.Transfer.Transfer(r.Context(), GetUserID(r.Context()), payload.To, amount, payload.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.deps.Users.GetProfile(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profilePayload
	if err := decode(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := s.deps.Users.UpdateProfile(r.Context(), GetUserID(r.Context()), payload.Handle, payload.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleResolveHandle(w http.ResponseWriter, r *http.Request) {
	profile, err := s.deps.Users.ResolveHandle(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := s.deps.Users.ListActivity(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if activity == nil {
		activity = []*models.Transaction{}
	}
	writeJSON(w, http.StatusOK, listResponse[*models.Transaction]{Items: activity})
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	pending, err := s.deps.Requests.ListPendingRequests(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if pending == nil {
		pending = []*models.PaymentRequest{}
	}
	writeJSON(w, http.StatusOK, listResponse[*models.PaymentRequest]{Items: pending})
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var payload createRequestPayload
	if err := decode(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := parseAmount(payload.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := s.deps.Requests.CreateRequest(r.Context(), GetUserID(r.Context()), payload.From, amount, payload.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	req, transfer, err := s.deps.Requests.AcceptRequest(r.Context(), GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acceptResponse{Request: req, Transfer: transfer})
}

func (s *Server) handleDeclineRequest(w http.ResponseWriter, r *http.Request) {
	req, err := s.deps.Requests.DeclineRequest(r.Context(), GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if s.deps.Quotes == nil {
		writeJSON(w, http.StatusOK, models.Quotes{})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Quotes.Latest(r.Context()))
}
