package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/projection"
	"github.com/thenoetrevino/studio/internal/revalidate"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBody(w http.ResponseWriter, contentType string, body []byte, cache string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", cache)
	_, _ = w.Write(body)
}

// pathID parses a positive integer path value
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// serveCached answers from the cache or renders with build and caches the result.
// build returns false when the resource does not exist.
func (s *Server) serveCached(w http.ResponseWriter, path, contentType string, build func() ([]byte, bool, error)) {
	if body, ok := s.cache.Get(path); ok {
		writeBody(w, contentType, body, "hit")
		return
	}

	body, found, err := build()
	if err != nil {
		s.logger.Error("render failed", "path", path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "render failed"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}

	s.cache.Put(path, body)
	writeBody(w, contentType, body, "miss")
}

// serveJSON caches the JSON encoding of what load returns
func serveJSON[T any](s *Server, w http.ResponseWriter, path string, load func() (T, bool)) {
	s.serveCached(w, path, "application/json", func() ([]byte, bool, error) {
		v, ok := load()
		if !ok {
			return nil, false, nil
		}
		body, err := json.Marshal(v)
		return body, true, err
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	live := s.feed != nil && s.feed.Live()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"live":   live,
		"cache":  s.cache.Stats(),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	serveJSON(s, w, revalidate.DashboardPath, func() (*models.Dashboard, bool) {
		d := s.reader.Dashboard(r.Context())
		return d, d != nil
	})
}

func (s *Server) handleContracts(w http.ResponseWriter, r *http.Request) {
	serveJSON(s, w, revalidate.ContractsPath, func() ([]*models.Contract, bool) {
		return s.reader.ListContracts(r.Context(), models.ContractFilter{}), true
	})
}

type boardColumn struct {
	Status *models.Status        `json:"status"`
	Tasks  []*models.TaskSummary `json:"tasks"`
}

type boardBody struct {
	ProjectID int           `json:"project_id"`
	Columns   []boardColumn `json:"columns"`
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	serveJSON(s, w, revalidate.BoardPath(id), func() (boardBody, bool) {
		statuses := s.reader.ListStatuses(r.Context(), id)
		if len(statuses) == 0 {
			return boardBody{}, false
		}
		b := projection.GroupByStatus(statuses, s.reader.ListWorkItems(r.Context(), id, models.TaskFilter{}))
		out := boardBody{ProjectID: id, Columns: make([]boardColumn, len(b.Columns))}
		for i, col := range b.Columns {
			out.Columns[i] = boardColumn{Status: col.Status, Tasks: col.Tasks}
		}
		return out, true
	})
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	serveJSON(s, w, revalidate.TaskPath(id), func() (*models.TaskDetail, bool) {
		d := s.reader.GetTaskDetail(r.Context(), id)
		return d, d != nil
	})
}

type treeNode struct {
	Folder    *models.Folder     `json:"folder"`
	Children  []treeNode         `json:"children"`
	Documents []*models.Document `json:"documents"`
}

func toTreeNodes(nodes []*projection.TreeNode) []treeNode {
	out := make([]treeNode, len(nodes))
	for i, n := range nodes {
		out[i] = treeNode{Folder: n.Folder, Children: toTreeNodes(n.Children), Documents: n.Documents}
	}
	return out
}

type treeBody struct {
	Scope     models.Scope       `json:"scope"`
	Roots     []treeNode         `json:"roots"`
	Documents []*models.Document `json:"documents"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	scope, err := models.ParseScope(r.PathValue("scope"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	serveJSON(s, w, revalidate.TreePath(scope), func() (treeBody, bool) {
		t := projection.BuildTree(scope, s.reader.ListScopeFolders(r.Context(), scope), s.reader.ListScopeDocuments(r.Context(), scope))
		return treeBody{Scope: scope, Roots: toTreeNodes(t.Roots), Documents: t.Documents}, true
	})
}

type listingBody struct {
	Folder    *models.Folder     `json:"folder"`
	Folders   []*models.Folder   `json:"folders"`
	Documents []*models.Document `json:"documents"`
}

func (s *Server) handleFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	serveJSON(s, w, revalidate.FolderPath(id), func() (listingBody, bool) {
		f := s.reader.GetContainer(r.Context(), id)
		if f == nil {
			return listingBody{}, false
		}
		return listingBody{
			Folder:    f,
			Folders:   s.reader.ListContainers(r.Context(), &id, f.Scope),
			Documents: s.reader.ListDocuments(r.Context(), &id, f.Scope),
		}, true
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if r.URL.Query().Get("format") == "html" {
		s.serveCached(w, revalidate.DocumentHTMLPath(id), "text/html; charset=utf-8", func() ([]byte, bool, error) {
			d := s.reader.GetDocument(r.Context(), id)
			if d == nil {
				return nil, false, nil
			}
			body, err := renderDocument(d)
			return body, true, err
		})
		return
	}
	serveJSON(s, w, revalidate.DocumentPath(id), func() (*models.Document, bool) {
		d := s.reader.GetDocument(r.Context(), id)
		return d, d != nil
	})
}
