package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Root and WebSocket
	mux.HandleFunc("/", s.app.APIHandler.RootHandler)
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Semantic role labeling
	mux.HandleFunc("/api/v1/srl/analyze", s.app.SRLHandler.AnalyzeHandler)       // POST - analyze text
	mux.HandleFunc("/api/v1/srl/predicates", s.app.SRLHandler.PredicatesHandler) // GET - predicate extraction only
	mux.HandleFunc("/api/v1/srl/groups", s.app.ResourcesHandler.GroupsHandler)   // GET - known predicate groups
	mux.HandleFunc("/api/v1/srl/reload", s.app.ResourcesHandler.ReloadHandler)   // POST - hot reload resource files

	// API routes - Key/value store (API keys, secrets)
	mux.HandleFunc("/api/v1/kv", s.handleKVCollection)
	mux.HandleFunc("/api/v1/kv/", s.handleKVItem)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleKVCollection routes /api/v1/kv requests (list and create)
func (s *Server) handleKVCollection(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r,
		s.app.KVHandler.ListKVHandler,
		s.app.KVHandler.CreateKVHandler,
	)
}

// handleKVItem routes /api/v1/kv/{key} requests
func (s *Server) handleKVItem(w http.ResponseWriter, r *http.Request) {
	RouteResourceItem(w, r,
		s.app.KVHandler.GetKVHandler,
		s.app.KVHandler.UpdateKVHandler,
		s.app.KVHandler.DeleteKVHandler,
	)
}
