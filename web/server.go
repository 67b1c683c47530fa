package web

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mogaika/smd2fbx/config"
	"github.com/mogaika/smd2fbx/logger"
)

type Server struct {
	cfg *config.Config
}

func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/convert/{format}", s.HandlerConvert).Methods("POST")
	r.HandleFunc("/convert", s.HandlerConvert).Methods("POST")
	r.HandleFunc("/formats", s.HandlerFormats).Methods("GET")
	r.HandleFunc("/encodings", s.HandlerEncodings).Methods("GET")
	return r
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	h = handlers.LoggingHandler(os.Stdout, h)
	return h
}

func StartServer(cfg *config.Config) error {
	logger.Info("[web] Starting server", zap.String("addr", cfg.Server.Addr))
	return http.ListenAndServe(cfg.Server.Addr, NewServer(cfg).Handler())
}
