package models

// Collection names as provisioned in the document store.
const (
	CollectionCourses = "courses"
	CollectionUsers   = "users"
	CollectionSurveys = "surveys"
)

// Searchable course fields. Callers pick one of these by construction;
// anything else is a wiring bug, not caller input.
const (
	FieldCourseName    = "courseName"
	FieldDescription   = "description"
	FieldTargetCompany = "targetCompany"
)

type Course struct {
	ID            string `json:"id"`
	CourseName    string `json:"courseName"`
	Description   string `json:"description"`
	TargetCompany string `json:"targetCompany"`
	ConductedAt   string `json:"conductedAt,omitempty"`
}

// User records are partitioned by CompanyName.
type User struct {
	ID             string `json:"id"`
	UserName       string `json:"userName"`
	CompanyName    string `json:"companyName"`
	DepartmentName string `json:"departmentName"`
	JobTitle       string `json:"jobTitle"`
}

type Survey struct {
	ID                  string `json:"id"`
	CourseID            string `json:"courseId"`
	UserID              string `json:"userId"`
	SatisfactionRating  int    `json:"satisfactionRating"`
	SatisfactionComment string `json:"satisfactionComment"`
	DifficultyRating    int    `json:"difficultyRating"`
	DifficultyComment   string `json:"difficultyComment"`
	ImprovementRequest  string `json:"improvementRequest"`
}

// SearchResult is one scored match. Transient, never persisted.
type SearchResult struct {
	ID         string         `json:"id"`
	Score      float64        `json:"score"`
	FieldValue string         `json:"fieldValue"`
	Snippet    string         `json:"snippet"`
	Doc        map[string]any `json:"doc"`
}
