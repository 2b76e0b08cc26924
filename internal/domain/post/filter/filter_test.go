package filter

import (
	"testing"

	"blog_api/internal/domain/post/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

const (
	authorA = "6f1c2a0e-3b4d-4c5e-8f90-1a2b3c4d5e6f"
	authorB = "0b7e9d2c-5a41-4f3e-9c8d-7e6f5a4b3c2d"
)

func boolPtr(b bool) *bool { return &b }

func TestBuild(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		assert.Empty(t, Build(Params{}))
	})

	t.Run("only featured false", func(t *testing.T) {
		clauses := Build(Params{IsFeatured: boolPtr(false)})
		assert.Equal(t, []Clause{featuredClause{featured: false}}, clauses)
	})

	t.Run("fixed order", func(t *testing.T) {
		clauses := Build(Params{
			AuthorID:   authorA,
			Status:     "DRAFT",
			IsFeatured: boolPtr(true),
			Tags:       []string{"go", " db "},
			Search:     "rust",
		})
		assert.Equal(t, []Clause{
			searchClause{term: "rust"},
			tagsClause{tags: []string{"go", "db"}},
			featuredClause{featured: true},
			statusClause{status: model.StatusDraft},
			authorClause{authorID: authorA},
		}, clauses)
	})

	t.Run("unknown status ignored", func(t *testing.T) {
		assert.Empty(t, Build(Params{Status: "DELETED"}))
	})

	t.Run("malformed author ignored", func(t *testing.T) {
		assert.Empty(t, Build(Params{AuthorID: "not-a-uuid"}))
		assert.Empty(t, Build(Params{AuthorID: "a1"}))
	})

	t.Run("blank tags ignored", func(t *testing.T) {
		assert.Empty(t, Build(Params{Tags: []string{"", " "}}))
	})
}

func TestMatch(t *testing.T) {
	post := &model.Post{
		AuthorID:   authorA,
		Title:      "Learning Rust",
		Content:    "ownership and borrowing",
		Tags:       pq.StringArray{"lang", "systems"},
		Status:     model.StatusPublished,
		IsFeatured: true,
	}

	tests := []struct {
		name   string
		params Params
		want   bool
	}{
		{"search title case insensitive", Params{Search: "rust"}, true},
		{"search content", Params{Search: "BORROW"}, true},
		{"search exact tag", Params{Search: "systems"}, true},
		{"search tag is not substring", Params{Search: "system"}, false},
		{"search miss", Params{Search: "golang"}, false},
		{"tags superset", Params{Tags: []string{"lang"}}, true},
		{"tags all required", Params{Tags: []string{"lang", "web"}}, false},
		{"featured", Params{IsFeatured: boolPtr(true)}, true},
		{"not featured", Params{IsFeatured: boolPtr(false)}, false},
		{"status", Params{Status: "PUBLISHED"}, true},
		{"status mismatch", Params{Status: "DRAFT"}, false},
		{"author", Params{AuthorID: authorA}, true},
		{"author mismatch", Params{AuthorID: authorB}, false},
		{"combined", Params{Search: "rust", Tags: []string{"lang"}, AuthorID: authorA}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchAll(Build(tt.params), post))
		})
	}
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseTags("a, b,"))
	assert.Nil(t, ParseTags(""))

	assert.Equal(t, boolPtr(true), ParseBool("true"))
	assert.Equal(t, boolPtr(false), ParseBool("false"))
	assert.Nil(t, ParseBool("yes"))
	assert.Nil(t, ParseBool(""))
}
