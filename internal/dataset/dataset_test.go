package dataset

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
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

func TestExportWritesOneFilePerDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().ListAll(gomock.Any(), "courses", 0).Return([]store.Document{
		{"id": "c1", "courseName": "Python 入門講座"},
		{"id": "c2", "courseName": "SQL 基礎"},
		{"courseName": "no id, skipped"},
	}, nil)

	dir := t.TempDir()
	n, err := Export(context.Background(), mockStore, "courses", dir, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("exported = %d, want 2", n)
	}

	data, err := os.ReadFile(filepath.Join(dir, "courses", "c1.json"))
	if err != nil {
		t.Fatalf("exported file missing: %v", err)
	}
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("exported file is not JSON: %v", err)
	}
	if doc.Str("courseName") != "Python 入門講座" {
		t.Errorf("courseName = %q", doc.Str("courseName"))
	}
}

func TestImportArrayFileAssignsIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	file := filepath.Join(dir, "users.json")
	content := `[
  {"userName": "佐藤 太郎", "companyName": "Acme"},
  {"id": "u2", "userName": "鈴木 花子", "companyName": "Acme"}
]`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var upserted []store.Document
	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().Upsert(gomock.Any(), "users", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, doc store.Document) error {
			upserted = append(upserted, doc)
			return nil
		}).Times(2)

	n, err := Import(context.Background(), mockStore, "users", file, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("imported = %d, want 2", n)
	}

	if upserted[0].ID() == "" {
		t.Error("missing id was not generated")
	}
	if upserted[1].ID() != "u2" {
		t.Errorf("existing id overwritten: %q", upserted[1].ID())
	}
}

func TestImportDirectoryOfDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	for _, f := range []struct{ name, body string }{
		{"c1.json", `{"id": "c1", "courseName": "A"}`},
		{"c2.json", `{"id": "c2", "courseName": "B"}`},
		{"notes.txt", "ignored"},
	} {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(f.body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().Upsert(gomock.Any(), "courses", gomock.Any()).Return(nil).Times(2)

	n, err := Import(context.Background(), mockStore, "courses", dir, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("imported = %d, want 2", n)
	}
}

func TestVerifyReportsMissingReferences(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().ListAll(gomock.Any(), "surveys", 0).Return([]store.Document{
		{"id": "s1", "courseId": "c1", "userId": "u1"},
		{"id": "s2", "courseId": "c2", "userId": "u2"},
		{"id": "s3", "courseId": "c1", "userId": "u9"},
	}, nil)
	mockStore.EXPECT().ListAll(gomock.Any(), "courses", 0).Return([]store.Document{
		{"id": "c1"}, {"id": "c2"},
	}, nil)
	mockStore.EXPECT().ListAll(gomock.Any(), "users", 0).Return([]store.Document{
		{"id": "u1"}, {"id": "u2"},
	}, nil)

	report, err := Verify(context.Background(), mockStore, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Consistent() {
		t.Error("expected inconsistency")
	}
	if len(report.MissingCourseIDs) != 0 {
		t.Errorf("MissingCourseIDs = %v, want none", report.MissingCourseIDs)
	}
	if !reflect.DeepEqual(report.MissingUserIDs, []string{"u9"}) {
		t.Errorf("MissingUserIDs = %v, want [u9]", report.MissingUserIDs)
	}
	if report.SurveyCourseIDs != 2 || report.SurveyUserIDs != 3 {
		t.Errorf("counts = %d/%d, want 2/3", report.SurveyCourseIDs, report.SurveyUserIDs)
	}
}

func TestVerifyConsistent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().ListAll(gomock.Any(), "surveys", 0).Return([]store.Document{
		{"id": "s1", "courseId": "c1", "userId": "u1"},
	}, nil)
	mockStore.EXPECT().ListAll(gomock.Any(), "courses", 0).Return([]store.Document{{"id": "c1"}}, nil)
	mockStore.EXPECT().ListAll(gomock.Any(), "users", 0).Return([]store.Document{{"id": "u1"}}, nil)

	report, err := Verify(context.Background(), mockStore, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Consistent() {
		t.Errorf("expected consistency, got %+v", report)
	}
}
