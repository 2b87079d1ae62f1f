package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/messagely/internal/common"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sendMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

// handleRegister creates the account and logs it straight in, so the
// response carries both the public profile and a session token.
func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrorInvalidInput)
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Password, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		s.logger.Error(r.Context(), "registration failed", "username", req.Username, "error", err.Error())
		writeError(w, err)
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  user.Summary(),
		"token": token,
	})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrorInvalidInput)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, common.ErrorInvalidInput)
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// One body for wrong password and unknown account alike.
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user logged in", "username", req.Username)
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	result, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": result})
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *HTTPServer) handleListTo(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthenticated)
		return
	}

	result, err := s.messages.ListTo(r.Context(), r.PathValue("username"), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": result})
}

func (s *HTTPServer) handleListFrom(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthenticated)
		return
	}

	result, err := s.messages.ListFrom(r.Context(), r.PathValue("username"), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": result})
}

// handleSendMessage derives the sender from the verified caller
// identity; the request body only names the recipient.
func (s *HTTPServer) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthenticated)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrorInvalidInput)
		return
	}

	message, err := s.messages.Send(r.Context(), caller, req.ToUsername, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "message sent", "from", caller, "to", req.ToUsername, "id", message.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"message": message})
}

func (s *HTTPServer) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthenticated)
		return
	}

	id, err := messageID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	message, err := s.messages.Get(r.Context(), id, caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": message})
}

func (s *HTTPServer) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthenticated)
		return
	}

	id, err := messageID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	message, err := s.messages.MarkRead(r.Context(), id, caller)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "message read", "id", message.ID, "by", caller)
	writeJSON(w, http.StatusOK, map[string]any{"message": message})
}

func messageID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, common.ErrorInvalidInput
	}
	return id, nil
}
