package tools

import (
	"context"
	"strings"

	"github.com/coursedesk/course-survey-mcp/internal/models"
	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/rs/zerolog"
)

const defaultCompanyTopK = 200

// UserTools looks up user documents by id set or by company.
type UserTools struct {
	store  store.Store
	logger *zerolog.Logger
}

func NewUserTools(st store.Store, logger *zerolog.Logger) *UserTools {
	return &UserTools{store: st, logger: logger}
}

// normalizeIDs splits a comma- or newline-delimited id string, trimming
// whitespace and dropping empties. "id1,id2 , id3" -> [id1 id2 id3].
func normalizeIDs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(strings.ReplaceAll(raw, "\n", ","), ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// GetByIDs fetches users for a delimited id string and reports the ids
// that were not found. An empty id list is a usage hint, not an error.
func (t *UserTools) GetByIDs(ctx context.Context, args Arguments) Payload {
	return Guard(t.logger, "get_users_by_ids", func() Payload {
		ids := normalizeIDs(args.String("userIds"))
		if len(ids) == 0 {
			return Payload{
				"query":        nil,
				"count":        0,
				"results":      []store.Document{},
				"info":         "userIds にカンマ区切り文字列を指定してください (例: id1,id2,id3)",
				"usageExample": Payload{"userIds": "id1,id2,id3"},
			}
		}

		if t.store == nil {
			return Error(KindDependencyNotReady, "document store not initialized")
		}

		q := store.Query{
			Conditions: []store.Condition{{Field: "id", Op: store.OpIn, Values: ids}},
			Limit:      len(ids),
		}
		docs, err := t.store.Query(ctx, models.CollectionUsers, q)
		if err != nil {
			t.logger.Warn().Err(err).Strs("ids", head(ids, 5)).Msg("User id lookup failed")
			return StoreError(err)
		}

		found := make(map[string]struct{}, len(docs))
		for _, d := range docs {
			found[d.ID()] = struct{}{}
		}
		missing := make([]string, 0)
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}

		return Payload{
			"query":      q.String(),
			"requested":  len(ids),
			"count":      len(docs),
			"missingIds": missing,
			"results":    docs,
		}
	})
}

// GetByCompany lists a company's users ordered by userName ascending,
// capped at topK (default 200). companyName doubles as the partition key,
// so this stays a single-partition read on partition-aware backends.
func (t *UserTools) GetByCompany(ctx context.Context, args Arguments) Payload {
	return Guard(t.logger, "get_users_by_company", func() Payload {
		company := strings.TrimSpace(args.String("companyName"))
		topK := args.Int("topK", defaultCompanyTopK)
		if company == "" {
			return Payload{
				"query":        nil,
				"count":        0,
				"results":      []store.Document{},
				"info":         "companyName を指定してください",
				"usageExample": Payload{"companyName": "ABC商事株式会社"},
			}
		}

		if t.store == nil {
			return Error(KindDependencyNotReady, "document store not initialized")
		}

		q := store.Query{
			Conditions: []store.Condition{{Field: "companyName", Op: store.OpEquals, Value: company}},
			OrderBy:    "userName",
			Limit:      topK,
		}
		docs, err := t.store.Query(ctx, models.CollectionUsers, q)
		if err != nil {
			t.logger.Warn().Err(err).Str("company", company).Msg("Company lookup failed")
			return StoreError(err)
		}

		return Payload{
			"query":     q.String(),
			"company":   company,
			"count":     len(docs),
			"truncated": len(docs) >= topK,
			"results":   docs,
		}
	})
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
