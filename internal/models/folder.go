package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScopeKind tells which part of the workspace a folder or document belongs to
type ScopeKind string

const (
	ScopeGlobal  ScopeKind = "global"
	ScopeClient  ScopeKind = "client"
	ScopeProject ScopeKind = "project"
)

// Scope places a folder tree in the workspace. RefID is the client or project ID and
// is zero for the global scope.
type Scope struct {
	Kind  ScopeKind `json:"kind"`
	RefID int       `json:"ref_id,omitempty"`
}

// GlobalScope is the workspace-wide scope
var GlobalScope = Scope{Kind: ScopeGlobal}

// ProjectScope returns the scope of a project's documents
func ProjectScope(projectID int) Scope { return Scope{Kind: ScopeProject, RefID: projectID} }

// ClientScope returns the scope of a client's documents
func ClientScope(clientID int) Scope { return Scope{Kind: ScopeClient, RefID: clientID} }

// Key renders the scope as "global", "client:3" or "project:7"
func (s Scope) Key() string {
	if s.Kind == ScopeGlobal || s.Kind == "" {
		return string(ScopeGlobal)
	}
	return fmt.Sprintf("%s:%d", s.Kind, s.RefID)
}

func (s Scope) String() string { return s.Key() }

// Validate checks that the kind is known and RefID is set exactly when required
func (s Scope) Validate() error {
	switch s.Kind {
	case ScopeGlobal:
		if s.RefID != 0 {
			return fmt.Errorf("%w: global scope cannot reference id %d", ErrInvalidScope, s.RefID)
		}
	case ScopeClient, ScopeProject:
		if s.RefID <= 0 {
			return fmt.Errorf("%w: %s scope requires a positive id", ErrInvalidScope, s.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown scope kind %q", ErrInvalidScope, s.Kind)
	}
	return nil
}

// ParseScope is the inverse of Scope.Key
func ParseScope(key string) (Scope, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" || key == string(ScopeGlobal) {
		return GlobalScope, nil
	}
	kind, ref, ok := strings.Cut(key, ":")
	if !ok {
		return Scope{}, fmt.Errorf("invalid scope %q (want global, client:<id> or project:<id>)", key)
	}
	id, err := strconv.Atoi(ref)
	if err != nil {
		return Scope{}, fmt.Errorf("invalid scope id in %q: %w", key, err)
	}
	s := Scope{Kind: ScopeKind(kind), RefID: id}
	if err := s.Validate(); err != nil {
		return Scope{}, err
	}
	return s, nil
}

// Folder is a node of a document tree. ParentID is nil for root folders.
// Children of a folder are the folders whose ParentID equals its ID within the same scope.
type Folder struct {
	ID        int       `json:"id"`
	ParentID  *int      `json:"parent_id,omitempty"`
	Scope     Scope     `json:"scope"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GetID returns the folder ID
func (f *Folder) GetID() int { return f.ID }

// Document is a markdown page stored in a folder (or at the root of a scope when FolderID is nil)
type Document struct {
	ID        int       `json:"id"`
	FolderID  *int      `json:"folder_id,omitempty"`
	Scope     Scope     `json:"scope"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the document ID
func (d *Document) GetID() int { return d.ID }
