package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/coursedesk/course-survey-mcp/internal/models"
	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/rs/zerolog"
)

// VerifyReport is the referential-consistency check result: every
// courseId/userId referenced by a survey must exist in its collection.
type VerifyReport struct {
	SurveyCourseIDs  int
	SurveyUserIDs    int
	MissingCourseIDs []string
	MissingUserIDs   []string
}

func (r *VerifyReport) Consistent() bool {
	return len(r.MissingCourseIDs) == 0 && len(r.MissingUserIDs) == 0
}

// Verify checks survey references against the courses and users
// collections. Integrity is an invariant checked out-of-band like this,
// never enforced transactionally.
func Verify(ctx context.Context, st store.Store, logger *zerolog.Logger) (*VerifyReport, error) {
	surveys, err := st.ListAll(ctx, models.CollectionSurveys, 0)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	surveyCourseIDs := make(map[string]struct{})
	surveyUserIDs := make(map[string]struct{})
	for _, s := range surveys {
		if id := s.Str("courseId"); id != "" {
			surveyCourseIDs[id] = struct{}{}
		}
		if id := s.Str("userId"); id != "" {
			surveyUserIDs[id] = struct{}{}
		}
	}

	courseIDs, err := collectIDs(ctx, st, models.CollectionCourses)
	if err != nil {
		return nil, err
	}
	userIDs, err := collectIDs(ctx, st, models.CollectionUsers)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{
		SurveyCourseIDs:  len(surveyCourseIDs),
		SurveyUserIDs:    len(surveyUserIDs),
		MissingCourseIDs: missing(surveyCourseIDs, courseIDs),
		MissingUserIDs:   missing(surveyUserIDs, userIDs),
	}

	logger.Info().
		Int("survey_course_ids", report.SurveyCourseIDs).
		Int("missing_courses", len(report.MissingCourseIDs)).
		Int("survey_user_ids", report.SurveyUserIDs).
		Int("missing_users", len(report.MissingUserIDs)).
		Msg("Verification complete")
	return report, nil
}

func collectIDs(ctx context.Context, st store.Store, collection string) (map[string]struct{}, error) {
	docs, err := st.ListAll(ctx, collection, 0)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", collection, err)
	}
	ids := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if id := d.ID(); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

func missing(wanted, have map[string]struct{}) []string {
	var out []string
	for id := range wanted {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
