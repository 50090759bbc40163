package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/coursedesk/course-survey-mcp/internal/store/mocks"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func testEngine(st store.Store, cfg Config) *Engine {
	return NewEngine(st, "courses", cfg, testLogger())
}

func courseDoc(id, name string) store.Document {
	return store.Document{"id": id, "courseName": name}
}

func TestSearchEmptyTermNoStoreCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECT: any store call fails the test.
	mockStore := mocks.NewMockStore(ctrl)
	engine := testEngine(mockStore, Defaults())

	for _, term := range []string{"", "   ", "　"} {
		if _, err := engine.Search(context.Background(), "courseName", term, Options{}); !errors.Is(err, ErrEmptyTerm) {
			t.Errorf("Search(%q) error = %v, want ErrEmptyTerm", term, err)
		}
	}
}

func TestSearchPredicateQueryShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := testEngine(mockStore, Defaults())

	want := store.Query{
		Conditions: []store.Condition{
			{Field: "courseName", Op: store.OpContains, Value: "python"},
			{Field: "courseName", Op: store.OpContains, Value: "入門"},
		},
		Limit: 15, // topK 5 × lookahead 3
	}
	mockStore.EXPECT().Query(gomock.Any(), "courses", want).Return(nil, nil)

	res, err := engine.Search(context.Background(), "courseName", "Python 入門", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Matched != 0 || len(res.Results) != 0 {
		t.Errorf("expected no matches, got %+v", res)
	}
	if res.StoreQuery != want.String() {
		t.Errorf("StoreQuery = %q, want %q", res.StoreQuery, want.String())
	}
}

func TestSearchPredicateScoring(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := testEngine(mockStore, Defaults())

	mockStore.EXPECT().Query(gomock.Any(), "courses", gomock.Any()).Return([]store.Document{
		courseDoc("c1", "Python 入門講座"),
	}, nil)

	res, err := engine.Search(context.Background(), "courseName", "Python 入門", Options{TopK: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Matched != 1 {
		t.Fatalf("Matched = %d, want 1", res.Matched)
	}
	r := res.Results[0]
	if r.ID != "c1" {
		t.Errorf("ID = %q, want c1", r.ID)
	}
	// coverage 1.0, length bonus 9/11 runes, 0.7×1 + 0.3×(9/11) = 0.945454…
	if r.Score != 0.9455 {
		t.Errorf("Score = %v, want 0.9455", r.Score)
	}
	if r.FieldValue != "Python 入門講座" {
		t.Errorf("FieldValue = %q", r.FieldValue)
	}
	if r.Snippet != "Python 入門講座" {
		t.Errorf("Snippet = %q, want untruncated value", r.Snippet)
	}
}

func TestSearchPredicateRankingAndTruncation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := testEngine(mockStore, Defaults())

	// Same coverage everywhere; shorter values get a bigger length bonus.
	mockStore.EXPECT().Query(gomock.Any(), "courses", gomock.Any()).Return([]store.Document{
		courseDoc("long", "go "+strings.Repeat("x", 60)),
		courseDoc("short", "go basics"),
		courseDoc("exact", "go"),
		courseDoc("mid", "go for teams"),
	}, nil)

	res, err := engine.Search(context.Background(), "courseName", "go", Options{TopK: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Results) != 3 {
		t.Fatalf("len(results) = %d, want topK 3", len(res.Results))
	}
	if res.Results[0].ID != "exact" {
		t.Errorf("top result = %q, want exact", res.Results[0].ID)
	}
	for i := 1; i < len(res.Results); i++ {
		if res.Results[i].Score > res.Results[i-1].Score {
			t.Errorf("results not sorted descending at %d: %v > %v", i, res.Results[i].Score, res.Results[i-1].Score)
		}
	}
	for _, r := range res.Results {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score %v out of [0,1]", r.Score)
		}
		for _, tok := range res.Tokens {
			if !strings.Contains(strings.ToLower(r.FieldValue), tok) {
				t.Errorf("result %q missing token %q", r.FieldValue, tok)
			}
		}
	}
}

func TestSearchPredicateTiesKeepFetchOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := testEngine(mockStore, Defaults())

	docs := []store.Document{
		courseDoc("a", "golang 123"),
		courseDoc("b", "golang 456"),
		courseDoc("c", "golang 789"),
	}
	mockStore.EXPECT().Query(gomock.Any(), "courses", gomock.Any()).Return(docs, nil).Times(2)

	first, err := engine.Search(context.Background(), "courseName", "golang", Options{TopK: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Search(context.Background(), "courseName", "golang", Options{TopK: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first.Results {
		if first.Results[i].ID != docs[i].ID() {
			t.Errorf("tie order changed: got %q at %d, want %q", first.Results[i].ID, i, docs[i].ID())
		}
		if first.Results[i].ID != second.Results[i].ID {
			t.Errorf("search is not idempotent at %d", i)
		}
	}
}

func TestSearchPredicateStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := testEngine(mockStore, Defaults())

	qErr := &store.QueryError{Collection: "courses", Query: "q", Err: errors.New("boom")}
	mockStore.EXPECT().Query(gomock.Any(), "courses", gomock.Any()).Return(nil, qErr)

	_, err := engine.Search(context.Background(), "courseName", "golang", Options{})
	var got *store.QueryError
	if !errors.As(err, &got) {
		t.Fatalf("error = %v, want *store.QueryError", err)
	}
}

func TestSearchScanStrategy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := Defaults()
	cfg.Strategy = StrategyScan

	mockStore := mocks.NewMockStore(ctrl)
	engine := testEngine(mockStore, cfg)

	mockStore.EXPECT().ListAll(gomock.Any(), "courses", 200).Return([]store.Document{
		courseDoc("hit", "python 入門講座"),   // substring -> 1.0
		courseDoc("near", "pythen 講座"),     // similar but below 1.0
		courseDoc("miss", "簿記3級対策"),        // no resemblance
		{"id": "notext", "courseName": 42}, // non-string field skipped
	}, nil)

	res, err := engine.Search(context.Background(), "courseName", "python", Options{TopK: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.MaxScan != 200 || res.MinScore != 0.4 {
		t.Errorf("diagnostics = %d/%v, want 200/0.4", res.MaxScan, res.MinScore)
	}
	if len(res.Results) == 0 || res.Results[0].ID != "hit" {
		t.Fatalf("expected hit first, got %+v", res.Results)
	}
	if res.Results[0].Score != 1.0 {
		t.Errorf("substring score = %v, want 1.0", res.Results[0].Score)
	}
	for _, r := range res.Results {
		if r.Score < cfg.MinScore {
			t.Errorf("result %q below minScore: %v", r.ID, r.Score)
		}
		if r.ID == "miss" || r.ID == "notext" {
			t.Errorf("result %q should have been filtered", r.ID)
		}
	}
}

func TestSnippetTruncation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := testEngine(mockStore, Defaults())

	long := "golang " + strings.Repeat("あ", 150)
	mockStore.EXPECT().Query(gomock.Any(), "courses", gomock.Any()).Return([]store.Document{
		courseDoc("c1", long),
	}, nil)

	res, err := engine.Search(context.Background(), "courseName", "golang", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snip := res.Results[0].Snippet
	if !strings.HasSuffix(snip, "...") {
		t.Errorf("snippet missing ellipsis: %q", snip)
	}
	if got := len([]rune(snip)); got != 123 {
		t.Errorf("snippet length = %d runes, want 123", got)
	}
}
