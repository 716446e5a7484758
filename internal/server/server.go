// Package server implements the subscriber-registration HTTP API and the
// update broadcast endpoint the notifier posts to.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbichoffe/worldcup-notifier/internal/logger"
	"github.com/mbichoffe/worldcup-notifier/internal/subscribers"
	"github.com/mbichoffe/worldcup-notifier/internal/twilio"
)

const welcomeMessage = "Welcome to the World Cup live updates!"

// SMSGateway is the slice of the Twilio client the server uses.
type SMSGateway interface {
	SendMessage(to, body string) (*twilio.Message, error)
	Broadcast(numbers []string, body string) error
	Verify(number string) error
}

// Server handles subscriber registration and update broadcasts.
type Server struct {
	store  *subscribers.Store
	sms    SMSGateway
	router *mux.Router
}

// New creates a Server over a subscriber store and SMS gateway.
func New(store *subscribers.Store, sms SMSGateway) *Server {
	s := &Server{
		store: store,
		sms:   sms,
	}

	r := mux.NewRouter()
	r.HandleFunc("/subscribe", s.handleSubscribe).Methods(http.MethodPost)
	r.HandleFunc("/subscribe", s.handleUnsubscribe).Methods(http.MethodDelete)
	r.HandleFunc("/updates", s.handleUpdates).Methods(http.MethodPost)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type subscribeRequest struct {
	Number string `json:"number"`
}

type updateRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Number == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid number"})
		return
	}

	if err := s.sms.Verify(req.Number); err != nil {
		if !errors.Is(err, twilio.ErrInvalidNumber) {
			logger.Error("Number verification failed", logger.Fields{
				"number": req.Number,
			}, err)
		}
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid number"})
		return
	}

	if err := s.store.Add(req.Number); err != nil {
		logger.Error("Adding subscriber failed", nil, err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "could not subscribe"})
		return
	}

	msg, err := s.sms.SendMessage(req.Number, welcomeMessage)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}
	if msg.Status != "accepted" && msg.Status != "queued" && msg.Status != "sent" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msg.ErrorMessage})
		return
	}

	logger.Info("Subscriber added", logger.Fields{"number": req.Number})
	writeJSON(w, http.StatusOK, messageResponse{Message: "You are subscribed!"})
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Number == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid number"})
		return
	}

	if err := s.store.Remove(req.Number); err != nil {
		logger.Error("Removing subscriber failed", nil, err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "could not unsubscribe"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "You are unsubscribed."})
}

// handleUpdates relays a match update to every subscriber as SMS.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "message is required"})
		return
	}

	numbers, err := s.store.List()
	if err != nil {
		logger.Error("Listing subscribers failed", nil, err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "could not load subscribers"})
		return
	}

	if err := s.sms.Broadcast(numbers, req.Message); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}

	logger.Info("Update broadcast", logger.Fields{
		"subscribers": len(numbers),
	})
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Encoding response failed", nil, err)
	}
}
