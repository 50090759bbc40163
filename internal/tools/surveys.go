package tools

import (
	"context"
	"strings"

	"github.com/coursedesk/course-survey-mcp/internal/models"
	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/rs/zerolog"
)

const defaultSurveyTopK = 20

// SurveyTools queries surveys by exactly one of courseId or userId.
type SurveyTools struct {
	store  store.Store
	logger *zerolog.Logger
}

func NewSurveyTools(st store.Store, logger *zerolog.Logger) *SurveyTools {
	return &SurveyTools{store: st, logger: logger}
}

func surveyUsageHint(extra Payload) Payload {
	p := Payload{
		"mode":    nil,
		"id":      nil,
		"query":   nil,
		"count":   0,
		"results": []store.Document{},
		"info":    "courseId か userId のいずれかを指定するとアンケートを取得します",
		"usageExamples": []Payload{
			{"courseId": "<course-id>"},
			{"userId": "<user-id>"},
		},
	}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

// Query looks up surveys referencing a course or a user. Supplying both
// ids is a validation error; supplying neither returns a usage hint.
func (t *SurveyTools) Query(ctx context.Context, args Arguments) Payload {
	return Guard(t.logger, "query_surveys", func() Payload {
		courseID := strings.TrimSpace(args.String("courseId"))
		userID := strings.TrimSpace(args.String("userId"))
		topK := args.Int("topK", defaultSurveyTopK)

		// A bare string body parses to the raw fallback with no usable keys.
		if courseID == "" && userID == "" && args.Raw() != "" {
			return surveyUsageHint(Payload{
				"info": "courseId か userId を JSON で指定してください",
				"raw":  args.Raw(),
			})
		}
		if courseID != "" && userID != "" {
			return Error(KindValidation, "courseId と userId は同時指定できません")
		}
		if courseID == "" && userID == "" {
			return surveyUsageHint(nil)
		}

		mode, targetID := "courseId", courseID
		if userID != "" {
			mode, targetID = "userId", userID
		}

		if t.store == nil {
			return Error(KindDependencyNotReady, "document store not initialized")
		}

		q := store.Query{
			Conditions: []store.Condition{{Field: mode, Op: store.OpEquals, Value: targetID}},
			Limit:      topK,
		}
		docs, err := t.store.Query(ctx, models.CollectionSurveys, q)
		if err != nil {
			t.logger.Warn().Err(err).Str("id", targetID).Msg("Survey lookup failed")
			return StoreError(err)
		}

		return Payload{
			"mode":    mode,
			"id":      targetID,
			"query":   q.String(),
			"count":   len(docs),
			"results": docs,
		}
	})
}
