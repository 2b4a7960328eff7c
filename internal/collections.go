package internal

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/auth"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
)

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.Categories)
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := sessionFrom(r).Groups(r.Context())
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) listGroupItems(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	p := parseListParams(r)
	items := sess.Items.InGroup(chi.URLParam(r, "id"))
	sendListResponse(w, presentAll(sess.Gate, page(items, p)), len(items), p)
}

func (s *Server) listContainers(w http.ResponseWriter, r *http.Request) {
	tree, err := sessionFrom(r).Containers(r.Context())
	if err != nil {
		sendError(w, err)
		return
	}
	containers := make([]models.Container, 0, tree.Len())
	for _, e := range tree.Walk() {
		containers = append(containers, e.Container)
	}
	writeJSON(w, http.StatusOK, containers)
}

// treeNode is one container in the nested tree response.
type treeNode struct {
	models.Container
	Depth    int         `json:"depth"`
	Children []*treeNode `json:"children"`
}

// containerTree nests the pre-order walk by depth.
func (s *Server) containerTree(w http.ResponseWriter, r *http.Request) {
	tree, err := sessionFrom(r).Containers(r.Context())
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nest(tree.Walk()))
}

func nest(entries []tracker.TreeEntry) []*treeNode {
	roots := []*treeNode{}
	var stack []*treeNode
	for _, e := range entries {
		n := &treeNode{Container: e.Container, Depth: e.Depth, Children: []*treeNode{}}
		for len(stack) > e.Depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
		}
		stack = append(stack, n)
	}
	return roots
}

// containerPath returns the containers from the root down to id.
func (s *Server) containerPath(w http.ResponseWriter, r *http.Request) {
	tree, err := sessionFrom(r).Containers(r.Context())
	if err != nil {
		sendError(w, err)
		return
	}
	path := tree.Path(chi.URLParam(r, "id"))
	if path == nil {
		auth.SendErrorResponse(w, "container not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, path)
}

// listContainerItems lists items in a container; nested=true includes the
// containers below it.
func (s *Server) listContainerItems(w http.ResponseWriter, r *http.Request) {
	nested, _ := strconv.ParseBool(r.URL.Query().Get("nested"))
	sess := sessionFrom(r)
	p := parseListParams(r)
	items, err := sess.ItemsInContainer(r.Context(), chi.URLParam(r, "id"), nested)
	if err != nil {
		sendError(w, err)
		return
	}
	sendListResponse(w, presentAll(sess.Gate, page(items, p)), len(items), p)
}

func (s *Server) listVisualMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := sessionFrom(r).VisualMaps(r.Context())
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, maps)
}
