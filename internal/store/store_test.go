package store

import "testing"

func TestQueryString(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{
			name: "no conditions",
			q:    Query{},
			want: "SELECT * FROM c",
		},
		{
			name: "contains conditions",
			q: Query{Conditions: []Condition{
				{Field: "courseName", Op: OpContains, Value: "python"},
				{Field: "courseName", Op: OpContains, Value: "入門"},
			}},
			want: "SELECT * FROM c WHERE CONTAINS(LOWER(c.courseName), @p0) AND CONTAINS(LOWER(c.courseName), @p1)",
		},
		{
			name: "equality with order",
			q: Query{
				Conditions: []Condition{{Field: "companyName", Op: OpEquals, Value: "Acme"}},
				OrderBy:    "userName",
			},
			want: "SELECT * FROM c WHERE c.companyName = @p0 ORDER BY c.userName",
		},
		{
			name: "id set",
			q: Query{Conditions: []Condition{
				{Field: "id", Op: OpIn, Values: []string{"u1", "u2"}},
			}},
			want: "SELECT * FROM c WHERE ARRAY_CONTAINS(@p0, c.id)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQueryMatches(t *testing.T) {
	doc := Document{
		"id":          "u1",
		"userName":    "佐藤 太郎",
		"companyName": "ABC商事株式会社",
		"courseName":  "Python 入門講座",
	}

	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{
			name: "contains is case-insensitive",
			q:    Query{Conditions: []Condition{{Field: "courseName", Op: OpContains, Value: "PYTHON"}}},
			want: true,
		},
		{
			name: "all conditions must hold",
			q: Query{Conditions: []Condition{
				{Field: "courseName", Op: OpContains, Value: "python"},
				{Field: "courseName", Op: OpContains, Value: "上級"},
			}},
			want: false,
		},
		{
			name: "equality",
			q:    Query{Conditions: []Condition{{Field: "companyName", Op: OpEquals, Value: "ABC商事株式会社"}}},
			want: true,
		},
		{
			name: "equality is exact",
			q:    Query{Conditions: []Condition{{Field: "companyName", Op: OpEquals, Value: "abc商事株式会社"}}},
			want: false,
		},
		{
			name: "in set",
			q:    Query{Conditions: []Condition{{Field: "id", Op: OpIn, Values: []string{"u9", "u1"}}}},
			want: true,
		},
		{
			name: "in set miss",
			q:    Query{Conditions: []Condition{{Field: "id", Op: OpIn, Values: []string{"u9"}}}},
			want: false,
		},
		{
			name: "missing field never matches",
			q:    Query{Conditions: []Condition{{Field: "absent", Op: OpContains, Value: "x"}}},
			want: false,
		},
		{
			name: "no conditions match everything",
			q:    Query{},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Matches(doc); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocumentHelpers(t *testing.T) {
	doc := Document{"id": "c1", "count": 5}
	if doc.ID() != "c1" {
		t.Errorf("ID() = %q", doc.ID())
	}
	if doc.Str("count") != "" {
		t.Errorf("non-string field should read as empty, got %q", doc.Str("count"))
	}
	if doc.Str("absent") != "" {
		t.Errorf("absent field should read as empty")
	}
}
