package crud

import (
	"strconv"
	"strings"
)

// Endpoints are the upstream paths for one managed collection. Update, Delete
// and ToggleStatus may contain ":id".
type Endpoints struct {
	List         string
	Create       string
	Update       string
	Delete       string
	ToggleStatus string
}

func (e Endpoints) withID(tmpl string, id int64) string {
	return strings.ReplaceAll(tmpl, ":id", strconv.FormatInt(id, 10))
}

// Config parameterizes the engine for one entity. Every managed screen used to
// repeat this logic inline; the differences between screens live here.
type Config[T any] struct {
	Name      string // plural, e.g. "categories"
	Endpoints Endpoints

	ID        func(*T) int64
	Active    func(*T) bool
	SetActive func(*T, bool)

	// SearchFields returns the values the text filter matches against.
	SearchFields func(T) []string

	// Validate returns the field → message map; nil means tag validation only.
	Validate func(*T) map[string]string

	// PageSize is the default page size for views; 10 when zero.
	PageSize int

	// Mutable reports whether delete/toggle are offered at all (purchases and
	// sales are append-only ledgers).
	Mutable bool
}

func (c *Config[T]) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return 10
}

func (c *Config[T]) validateRecord(rec *T) map[string]string {
	if c.Validate != nil {
		return c.Validate(rec)
	}
	return CheckStruct(rec)
}

// Mode discriminates the two dialog submissions.
type Mode int

const (
	ModeCreate Mode = iota + 1
	ModeUpdate
)

// Draft is the unsaved projection of one record plus its validation state.
type Draft[T any] struct {
	Mode     Mode
	Record   T
	Original *T // set in update mode
	Errors   map[string]string
}
