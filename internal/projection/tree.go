package projection

import (
	"cmp"
	"slices"
	"strings"

	"github.com/thenoetrevino/studio/internal/models"
)

// TreeNode is one folder of a scope's tree with its subfolders and documents
type TreeNode struct {
	Folder    *models.Folder     `json:"folder"`
	Children  []*TreeNode        `json:"children"`
	Documents []*models.Document `json:"documents"`
	Depth     int                `json:"depth"`
}

// Tree is the folder forest of one scope. Documents holds the documents that sit at
// the scope root.
type Tree struct {
	Scope     models.Scope       `json:"scope"`
	Roots     []*TreeNode        `json:"roots"`
	Documents []*models.Document `json:"documents"`
}

func compareFolders(a, b *models.Folder) int {
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareDocuments(a, b *models.Document) int {
	if c := cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// BuildForest turns a flat folder list into a forest rooted at folders without a
// parent. Children are indexed by parent in one pass, and every level is ordered by
// name. Folders whose parent is missing from the input are unreachable and left out.
func BuildForest(folders []*models.Folder) []*TreeNode {
	roots, _ := buildForest(folders)
	return roots
}

func buildForest(folders []*models.Folder) ([]*TreeNode, map[int]*TreeNode) {
	children := make(map[int][]*models.Folder, len(folders))
	var top []*models.Folder
	for _, f := range folders {
		if f.ParentID == nil {
			top = append(top, f)
			continue
		}
		children[*f.ParentID] = append(children[*f.ParentID], f)
	}

	index := make(map[int]*TreeNode, len(folders))
	var attach func(level []*models.Folder, depth int) []*TreeNode
	attach = func(level []*models.Folder, depth int) []*TreeNode {
		if len(level) == 0 {
			return nil
		}
		slices.SortFunc(level, compareFolders)
		nodes := make([]*TreeNode, 0, len(level))
		for _, f := range level {
			if _, seen := index[f.ID]; seen {
				continue
			}
			node := &TreeNode{Folder: f, Depth: depth}
			index[f.ID] = node
			node.Children = attach(children[f.ID], depth+1)
			nodes = append(nodes, node)
		}
		return nodes
	}
	return attach(top, 0), index
}

// BuildTree builds the forest and files every document under its folder. Documents
// in unreachable folders are left out.
func BuildTree(scope models.Scope, folders []*models.Folder, docs []*models.Document) *Tree {
	roots, index := buildForest(folders)
	tree := &Tree{Scope: scope, Roots: roots}
	for _, d := range docs {
		if d.FolderID == nil {
			tree.Documents = append(tree.Documents, d)
			continue
		}
		if node, ok := index[*d.FolderID]; ok {
			node.Documents = append(node.Documents, d)
		}
	}
	slices.SortFunc(tree.Documents, compareDocuments)
	for _, node := range index {
		slices.SortFunc(node.Documents, compareDocuments)
	}
	return tree
}

// Flatten walks the forest in pre-order
func Flatten(forest []*TreeNode) []*TreeNode {
	var out []*TreeNode
	var walk func(nodes []*TreeNode)
	walk = func(nodes []*TreeNode) {
		for _, n := range nodes {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(forest)
	return out
}

// Find returns the node of a folder, or nil
func (t *Tree) Find(folderID int) *TreeNode {
	if t == nil {
		return nil
	}
	for _, n := range Flatten(t.Roots) {
		if n.Folder.ID == folderID {
			return n
		}
	}
	return nil
}

// Len counts the folders in the tree
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(Flatten(t.Roots))
}
