package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	gmux "github.com/gorilla/mux"

	"github.com/corkboard-im/corkboard/log"
)

// Management API. Read-only views over the registry and the hub, for
// operators rather than chat clients.

type apiResponse struct {
	Version uint32      `json:"v"`
	Code    uint32      `json:"code"`
	Msg     string      `json:"msg,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	API_SUCCEED         = uint32(0)
	API_GROUP_NOT_FOUND = uint32(1)
)

func writeAPI(w http.ResponseWriter, statusCode int, resp *apiResponse) {
	resp.Version = 1
	raw, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(raw)
}

func Health(writer http.ResponseWriter, req *http.Request) {
	io.WriteString(writer, "ok")
}

func (s *Server) apiStatus(w http.ResponseWriter, r *http.Request) {
	writeAPI(w, http.StatusOK, &apiResponse{
		Code: API_SUCCEED,
		Data: map[string]interface{}{
			"connections": s.hub.Count(),
			"groups":      len(s.registry.Groups()),
		},
	})
}

type apiGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) apiGroups(w http.ResponseWriter, r *http.Request) {
	infos := s.registry.Groups()
	groups := make([]apiGroup, 0, len(infos))
	for _, info := range infos {
		groups = append(groups, apiGroup{ID: info.ID, Name: info.Name})
	}
	writeAPI(w, http.StatusOK, &apiResponse{Code: API_SUCCEED, Data: groups})
}

func (s *Server) apiGroupUsers(w http.ResponseWriter, r *http.Request) {
	id := gmux.Vars(r)["id"]
	users, err := s.registry.Users(id)
	if err != nil {
		writeAPI(w, http.StatusNotFound, &apiResponse{
			Code: API_GROUP_NOT_FOUND,
			Msg:  err.Error(),
		})
		return
	}
	writeAPI(w, http.StatusOK, &apiResponse{Code: API_SUCCEED, Data: users})
}

type apiPost struct {
	ID      int    `json:"id"`
	Sender  string `json:"sender"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (s *Server) apiGroupMessages(w http.ResponseWriter, r *http.Request) {
	id := gmux.Vars(r)["id"]
	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			n = parsed
		}
	}
	posts, err := s.registry.Messages(id, n)
	if err != nil {
		writeAPI(w, http.StatusNotFound, &apiResponse{
			Code: API_GROUP_NOT_FOUND,
			Msg:  err.Error(),
		})
		return
	}
	out := make([]apiPost, 0, len(posts))
	for idx := range posts {
		out = append(out, apiPost{
			ID:      posts[idx].ID,
			Sender:  posts[idx].Sender,
			Date:    posts[idx].Date.Format(postDateLayout),
			Subject: posts[idx].Subject,
			Body:    posts[idx].Body,
		})
	}
	writeAPI(w, http.StatusOK, &apiResponse{Code: API_SUCCEED, Data: out})
}

// APIRouter wires the management endpoints plus the websocket transport.
func (s *Server) APIRouter() http.Handler {
	mux := gmux.NewRouter()
	mux.HandleFunc("/healthz", Health).Methods("GET")
	mux.HandleFunc("/v1/status", s.apiStatus).Methods("GET")
	mux.HandleFunc("/v1/groups", s.apiGroups).Methods("GET")
	mux.HandleFunc("/v1/groups/{id}/users", s.apiGroupUsers).Methods("GET")
	mux.HandleFunc("/v1/groups/{id}/messages", s.apiGroupMessages).Methods("GET")
	mux.HandleFunc("/v1/connect", s.WebsocketConnect)
	return log.TagLogHandler(mux, map[string]interface{}{
		"entity": "http-api",
	})
}

// GoServeAPI starts the management HTTP endpoint in the background.
func (s *Server) GoServeAPI() {
	if s.config.APIEndpoint == "" {
		return
	}
	s.httpSrv = &http.Server{
		Addr:    s.config.APIEndpoint,
		Handler: s.APIRouter(),
	}
	s.log.Infof0("Serving management API at %v.", s.config.APIEndpoint)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("Management API failure: " + err.Error())
		}
	}()
}
