package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotReady means the store client was never connected. The process has to
// be restarted with working configuration to recover.
var ErrNotReady = errors.New("document store not initialized")

// ErrNotFound is returned by GetByID when no document has the given id.
var ErrNotFound = errors.New("document not found")

// Document is a schemaless JSON document keyed by "id".
type Document map[string]any

// Str returns the named field if it is a string, otherwise "".
func (d Document) Str(field string) string {
	s, _ := d[field].(string)
	return s
}

// ID returns the document id, or "" when unset.
func (d Document) ID() string {
	return d.Str("id")
}

type Op string

const (
	// OpContains matches when the lowercased field value contains the
	// lowercased condition value as a substring.
	OpContains Op = "contains"
	// OpEquals matches on exact string equality.
	OpEquals Op = "eq"
	// OpIn matches when the field value equals any of Values.
	OpIn Op = "in"
)

// Condition is one bound predicate term. Values are data, never spliced
// into query text, so there is nothing to inject into.
type Condition struct {
	Field  string
	Op     Op
	Value  string
	Values []string
}

// Query is an AND over Conditions with optional ordering and a result cap.
// Limit <= 0 means unbounded.
type Query struct {
	Conditions []Condition
	OrderBy    string
	Limit      int
}

// String renders a diagnostic form of the query for logs and error
// payloads. It is never executed.
func (q Query) String() string {
	var b strings.Builder
	b.WriteString("SELECT * FROM c")
	for i, c := range q.Conditions {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		switch c.Op {
		case OpContains:
			fmt.Fprintf(&b, "CONTAINS(LOWER(c.%s), @p%d)", c.Field, i)
		case OpEquals:
			fmt.Fprintf(&b, "c.%s = @p%d", c.Field, i)
		case OpIn:
			fmt.Fprintf(&b, "ARRAY_CONTAINS(@p%d, c.%s)", i, c.Field)
		}
	}
	if q.OrderBy != "" {
		fmt.Fprintf(&b, " ORDER BY c.%s", q.OrderBy)
	}
	return b.String()
}

// QueryError wraps a failed store read together with the attempted query.
type QueryError struct {
	Collection string
	Query      string
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("store query failed on %s: %v", e.Collection, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Store is the narrow document-store contract the tools depend on.
// Reads are eventually consistent; Query may stop early once Limit
// matches are collected.
type Store interface {
	GetByID(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	ListAll(ctx context.Context, collection string, maxItems int) ([]Document, error)
	Upsert(ctx context.Context, collection string, doc Document) error
}

// Matches evaluates the query conditions against a single document.
// Backends without server-side predicates use this during scans.
func (q Query) Matches(doc Document) bool {
	for _, c := range q.Conditions {
		val := doc.Str(c.Field)
		switch c.Op {
		case OpContains:
			if !strings.Contains(strings.ToLower(val), strings.ToLower(c.Value)) {
				return false
			}
		case OpEquals:
			if val != c.Value {
				return false
			}
		case OpIn:
			found := false
			for _, v := range c.Values {
				if val == v {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}
