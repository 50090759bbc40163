package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/coursedesk/course-survey-mcp/internal/models"
	"github.com/coursedesk/course-survey-mcp/internal/search"
	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/rs/zerolog"
)

const listAllCap = 1000

// CourseTools exposes the read-only course operations: the full listing
// and the three field searches backed by the ranking engine.
type CourseTools struct {
	store  store.Store
	engine *search.Engine
	logger *zerolog.Logger
}

// NewCourseTools wires the tools to an already-connected store. A nil
// store means the connection failed at startup; every call then reports
// DependencyNotReady instead of retrying.
func NewCourseTools(st store.Store, engine *search.Engine, logger *zerolog.Logger) *CourseTools {
	return &CourseTools{
		store:  st,
		engine: engine,
		logger: logger,
	}
}

// ListAll returns up to 1000 course documents unconditionally. Arguments
// are accepted and ignored so future filters stay backward compatible.
func (t *CourseTools) ListAll(ctx context.Context, args Arguments) Payload {
	return Guard(t.logger, "list_all_courses", func() Payload {
		_ = args
		if t.store == nil {
			return Error(KindDependencyNotReady, "document store not initialized")
		}

		docs, err := t.store.ListAll(ctx, models.CollectionCourses, listAllCap)
		if err != nil {
			t.logger.Warn().Err(err).Msg("Course listing failed")
			return StoreError(err)
		}

		return Payload{
			"query":     store.Query{}.String(),
			"count":     len(docs),
			"truncated": len(docs) >= listAllCap,
			"results":   docs,
		}
	})
}

func (t *CourseTools) SearchByName(ctx context.Context, args Arguments) Payload {
	return t.search(ctx, "search_courses_by_name", models.FieldCourseName, args)
}

func (t *CourseTools) SearchByDescription(ctx context.Context, args Arguments) Payload {
	return t.search(ctx, "search_courses_by_description", models.FieldDescription, args)
}

func (t *CourseTools) SearchByCompany(ctx context.Context, args Arguments) Payload {
	return t.search(ctx, "search_courses_by_company", models.FieldTargetCompany, args)
}

func (t *CourseTools) search(ctx context.Context, tool, field string, args Arguments) Payload {
	return Guard(t.logger, tool, func() Payload {
		// Plain-string input lands under the raw fallback key.
		term := args.String("searchTerm")
		if term == "" {
			term = args.Raw()
		}
		if strings.TrimSpace(term) == "" {
			return ErrorWith(KindValidation, "searchTerm is required", "", Payload{"field": "searchTerm"})
		}

		topK := args.Int("topK", 0) // 0 lets the engine apply its default

		if t.engine == nil {
			return Error(KindDependencyNotReady, "document store not initialized")
		}

		res, err := t.engine.Search(ctx, field, term, search.Options{TopK: topK})
		if errors.Is(err, search.ErrEmptyTerm) {
			return ErrorWith(KindValidation, "searchTerm is required", "", Payload{"field": "searchTerm"})
		}
		if err != nil {
			return StoreError(err)
		}

		p := Payload{
			"query":   res.Query,
			"field":   res.Field,
			"matched": res.Matched,
			"topK":    res.TopK,
			"results": res.Results,
		}
		if res.Tokens != nil {
			p["tokens"] = res.Tokens
			p["storeQuery"] = res.StoreQuery
		} else {
			p["maxScan"] = res.MaxScan
			p["minScore"] = res.MinScore
		}
		return p
	})
}
