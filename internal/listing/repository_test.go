package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whereClause(t *testing.T, query string) string {
	t.Helper()
	parts := strings.SplitN(query, "\n\tWHERE ", 2)
	require.Len(t, parts, 2)
	where := strings.TrimSuffix(parts[1], "\n\tORDER BY l.created_at DESC")
	require.NotEqual(t, parts[1], where, "query must end with the created_at ordering")
	return where
}

func TestSearchQuery(t *testing.T) {
	const active = "(l.status = 'active' OR l.status IS NULL)"
	tests := []struct {
		name    string
		kind    Kind
		c       Criteria
		want    []string
		absent  []string
		args    []interface{}
		fromTbl string
		clauses int
	}{
		{
			name:    "no criteria lists active only",
			kind:    KindJob,
			c:       Criteria{},
			want:    []string{active},
			fromTbl: "FROM jobs l",
			clauses: 1,
		},
		{
			name: "query is escaped for ILIKE",
			kind: KindJob,
			c:    Criteria{Query: `50%_off\`},
			want: []string{
				"(l.title ILIKE '%' || $1 || '%' OR c.name ILIKE '%' || $1 || '%')",
			},
			args:    []interface{}{`50\%\_off\\`},
			fromTbl: "FROM jobs l",
			clauses: 2,
		},
		{
			name:    "job category and city",
			kind:    KindJob,
			c:       Criteria{Category: "full-time", City: "Mumbai"},
			want:    []string{"l.job_type = $1", "lower(loc.city) = lower($2)"},
			args:    []interface{}{"full-time", "Mumbai"},
			fromTbl: "FROM jobs l",
			clauses: 3,
		},
		{
			name:    "duration ignored for jobs",
			kind:    KindJob,
			c:       Criteria{Duration: "3 months"},
			absent:  []string{"l.duration ="},
			fromTbl: "FROM jobs l",
			clauses: 1,
		},
		{
			name:    "internship category and duration",
			kind:    KindInternship,
			c:       Criteria{Category: "summer", Duration: "3 months"},
			want:    []string{"l.internship_type = $1", "l.duration = $2"},
			args:    []interface{}{"summer", "3 months"},
			fromTbl: "FROM internships l",
			clauses: 3,
		},
		{
			name: "salary bounds use fixed amount or range edges",
			kind: KindJob,
			c:    Criteria{Query: "go", Min: f(50000), Max: f(70000)},
			want: []string{
				"(CASE WHEN l.pay_type = 'fixed' THEN l.amount ELSE COALESCE(l.min_amount, l.amount) END) >= $2",
				"(CASE WHEN l.pay_type = 'fixed' THEN l.amount ELSE COALESCE(l.max_amount, l.amount) END) <= $3",
			},
			args:    []interface{}{"go", 50000.0, 70000.0},
			fromTbl: "FROM jobs l",
			clauses: 4,
		},
		{
			name: "stipend bounds use stipend type",
			kind: KindInternship,
			c:    Criteria{Max: f(15000)},
			want: []string{
				"(CASE WHEN l.stipend_type = 'fixed' THEN l.amount ELSE COALESCE(l.max_amount, l.amount) END) <= $1",
			},
			absent:  []string{"pay_type", "min_amount, l.amount) END) >="},
			args:    []interface{}{15000.0},
			fromTbl: "FROM internships l",
			clauses: 2,
		},
		{
			name: "every criterion numbered in order",
			kind: KindInternship,
			c:    Criteria{Query: "intern", Category: "winter", City: "Delhi", Duration: "6 months", Min: f(1000), Max: f(5000)},
			want: []string{
				"ILIKE '%' || $1 || '%'",
				"l.internship_type = $2",
				"lower(loc.city) = lower($3)",
				"l.duration = $4",
				"END) >= $5",
				"END) <= $6",
			},
			args:    []interface{}{"intern", "winter", "Delhi", "6 months", 1000.0, 5000.0},
			fromTbl: "FROM internships l",
			clauses: 7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := searchQuery(tt.kind, tt.c)
			assert.Contains(t, query, tt.fromTbl)
			where := whereClause(t, query)
			assert.True(t, strings.HasPrefix(where, active), where)
			for _, w := range tt.want {
				assert.Contains(t, where, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, where, a)
			}
			assert.Equal(t, tt.args, args)
			assert.Equal(t, tt.clauses, strings.Count(where, " AND ")+1)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"engineer", "engineer"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`C:\path`, `C:\\path`},
		{`\%`, `\\\%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), tt.in)
	}
}
