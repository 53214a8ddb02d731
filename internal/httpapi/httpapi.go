// Package httpapi implements the HTTP API surface not delegated to the MCP
// transport, routed over a plain net/http.ServeMux following a handler
// idiom: a struct holding its dependencies, one method per route, errors
// via http.Error / encoding/json, rather than a third-party router.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/augmentorium/augmentorium/internal/apperrors"
	"github.com/augmentorium/augmentorium/internal/coordinator"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/query"
)

// Server wires the Coordinator to the HTTP API's handlers.
type Server struct {
	co *coordinator.Coordinator
}

// New builds a Server over a running Coordinator.
func New(co *coordinator.Coordinator) *Server {
	return &Server{co: co}
}

// Handler returns the mux of every route this server exposes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/projects/", s.handleListProjects)
	mux.HandleFunc("POST /api/projects/", s.handleAddProject)
	mux.HandleFunc("DELETE /api/projects/{name}", s.handleRemoveProject)
	mux.HandleFunc("POST /api/projects/{name}/reindex", s.handleReindex)

	mux.HandleFunc("POST /api/query/", s.handleQuery)
	mux.HandleFunc("DELETE /api/query/cache", s.handleClearQueryCache)

	mux.HandleFunc("POST /api/chunks/search", s.handleChunksSearch)

	mux.HandleFunc("POST /api/graph/neighbors/", s.handleGraphNeighbors)
	mux.HandleFunc("GET /api/graph/", s.handleGraph)

	mux.HandleFunc("GET /api/files/", s.handleFiles)
	mux.HandleFunc("GET /api/stats/", s.handleStats)

	mux.HandleFunc("POST /api/indexer/status", s.handlePushStatus)
	mux.HandleFunc("GET /api/indexer/status", s.handleGetStatus)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"projects": s.co.Projects()})
}

type addProjectRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	var req addProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.KindBadRequest, err))
		return
	}
	name := req.Name
	if name == "" {
		name = req.Path
	}

	p, err := s.co.AddProject(r.Context(), name, req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleRemoveProject(w http.ResponseWriter, r *http.Request) {
	s.co.RemoveProject(r.PathValue("name"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if err := s.co.Reindex(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type queryRequest struct {
	Query           string            `json:"query"`
	NResults        int               `json:"n_results"`
	MinScore        float32           `json:"min_score"`
	Filters         map[string]string `json:"filters"`
	FileName        string            `json:"file_name"`
	Project         string            `json:"project"`
	IncludeMetadata bool              `json:"include_metadata"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.KindBadRequest, err))
		return
	}
	if req.Project == "" || req.Query == "" {
		writeError(w, apperrors.New(apperrors.KindBadRequest, apperrors.ErrBadRequest))
		return
	}

	resp, err := s.co.Query(r.Context(), req.Project, query.Request{
		Text:            req.Query,
		NResults:        req.NResults,
		MinScore:        req.MinScore,
		Where:           req.Filters,
		FileName:        req.FileName,
		IncludeMetadata: req.IncludeMetadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"context": resp.Context, "results": resp.Results})
}

func (s *Server) handleClearQueryCache(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		writeError(w, apperrors.New(apperrors.KindBadRequest, apperrors.ErrBadRequest))
		return
	}
	if err := s.co.ClearQueryCache(project); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type chunksSearchRequest struct {
	Project  string `json:"project"`
	Query    string `json:"query"`
	NResults int    `json:"n_results"`
	FileName string `json:"file_name"`
}

func (s *Server) handleChunksSearch(w http.ResponseWriter, r *http.Request) {
	var req chunksSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.KindBadRequest, err))
		return
	}
	if req.Project == "" || req.Query == "" {
		writeError(w, apperrors.New(apperrors.KindBadRequest, apperrors.ErrBadRequest))
		return
	}

	results, err := s.co.SearchChunks(r.Context(), req.Project, req.Query, req.NResults, req.FileName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type neighborsRequest struct {
	Project  string `json:"project"`
	NodeID   string `json:"node_id"`
	FileName string `json:"file_name"`
	Depth    int    `json:"depth"`
}

func (s *Server) handleGraphNeighbors(w http.ResponseWriter, r *http.Request) {
	var req neighborsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.KindBadRequest, err))
		return
	}
	if req.Project == "" || (req.NodeID == "" && req.FileName == "") {
		writeError(w, apperrors.New(apperrors.KindBadRequest, apperrors.ErrBadRequest))
		return
	}

	nodeIDs := []string{req.NodeID}
	if req.NodeID == "" {
		nodes, err := s.co.NodesByFilePath(req.Project, req.FileName)
		if err != nil {
			writeError(w, err)
			return
		}
		nodeIDs = nodeIDs[:0]
		for _, n := range nodes {
			nodeIDs = append(nodeIDs, n.ID)
		}
	}

	seen := make(map[string]bool)
	var neighbors []coordinatorNeighbor
	for _, id := range nodeIDs {
		ns, err := s.co.Neighbors(req.Project, id, req.Depth)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, n := range ns {
			key := n.Direction + "|" + n.RelationType + "|" + n.NeighborID
			if seen[key] {
				continue
			}
			seen[key] = true
			neighbors = append(neighbors, coordinatorNeighbor{
				RelationType: n.RelationType,
				Direction:    n.Direction,
				NeighborID:   n.NeighborID,
				NeighborNode: n.NeighborNode,
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"neighbors": neighbors})
}

// coordinatorNeighbor mirrors graphstore.Neighbor for JSON encoding without
// importing the graphstore package's exact field tags.
type coordinatorNeighbor struct {
	RelationType string           `json:"relation_type"`
	Direction    string           `json:"direction"`
	NeighborID   string           `json:"neighbor_id"`
	NeighborNode *model.GraphNode `json:"neighbor_node,omitempty"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		writeError(w, apperrors.New(apperrors.KindBadRequest, apperrors.ErrBadRequest))
		return
	}
	nodes, edges, err := s.co.Graph(project)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes, "links": edges})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		writeError(w, apperrors.New(apperrors.KindBadRequest, apperrors.ErrBadRequest))
		return
	}
	maxFiles, _ := strconv.Atoi(r.URL.Query().Get("max_files"))

	files, err := s.co.Files(r.Context(), project, maxFiles)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		writeError(w, apperrors.New(apperrors.KindBadRequest, apperrors.ErrBadRequest))
		return
	}
	stats, err := s.co.Stats(project)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePushStatus(w http.ResponseWriter, r *http.Request) {
	var status model.IndexerStatus
	if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
		writeError(w, apperrors.New(apperrors.KindBadRequest, err))
		return
	}
	if status.Name == "" {
		writeError(w, apperrors.New(apperrors.KindBadRequest, apperrors.ErrBadRequest))
		return
	}
	s.co.PushStatus(status)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"projects": s.co.Statuses()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an apperrors.Kind to its HTTP status.
func writeError(w http.ResponseWriter, err error) {
	kind, _ := apperrors.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindBadRequest:
		status = http.StatusBadRequest
	case apperrors.KindConfigInvalid:
		status = http.StatusBadRequest
	}
	if errors.Is(err, apperrors.ErrProjectExists) {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
