package getter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Map(t *testing.T) {
	record := map[string]any{
		"title": "The Great Gatsby",
		"author": map[string]any{
			"firstName": "Scott",
			"lastName":  "Fitzgerald",
		},
	}

	v, ok := Get(record, "title")
	require.True(t, ok)
	assert.Equal(t, "The Great Gatsby", v)

	v, ok = Get(record, "author.lastName")
	require.True(t, ok)
	assert.Equal(t, "Fitzgerald", v)
}

func TestGet_Missing(t *testing.T) {
	record := map[string]any{"title": "x"}

	_, ok := Get(record, "publisher")
	assert.False(t, ok)

	_, ok = Get(record, "title.nested")
	assert.False(t, ok)

	_, ok = Get(nil, "title")
	assert.False(t, ok)
}

type author struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	secret    string
}

type book struct {
	Title  string   `json:"title"`
	Author author   `json:"author"`
	Tags   []string `json:"tags"`
}

func TestGet_Struct(t *testing.T) {
	b := book{
		Title:  "Slaughterhouse-Five",
		Author: author{FirstName: "Kurt", LastName: "Vonnegut", secret: "x"},
		Tags:   []string{"war", "satire"},
	}

	v, ok := Get(b, "author.firstName")
	require.True(t, ok)
	assert.Equal(t, "Kurt", v)

	// Field name works as well as the json tag.
	v, ok = Get(b, "Title")
	require.True(t, ok)
	assert.Equal(t, "Slaughterhouse-Five", v)

	// Pointers are dereferenced on the way down.
	v, ok = Get(&b, "title")
	require.True(t, ok)
	assert.Equal(t, "Slaughterhouse-Five", v)

	_, ok = Get(b, "author.secret")
	assert.False(t, ok, "unexported fields are invisible")
}

func TestGet_SliceIndex(t *testing.T) {
	record := map[string]any{"tags": []any{"war", "satire"}}

	v, ok := Get(record, "tags.1")
	require.True(t, ok)
	assert.Equal(t, "satire", v)

	_, ok = Get(record, "tags.5")
	assert.False(t, ok)
}

func TestGet_SliceFanOut(t *testing.T) {
	record := map[string]any{
		"authors": []any{
			map[string]any{"name": "Good"},
			map[string]any{"name": "Gaiman"},
		},
	}

	v, ok := Get(record, "authors.name")
	require.True(t, ok)
	assert.Equal(t, []any{"Good", "Gaiman"}, v)
}

func TestStrings(t *testing.T) {
	record := map[string]any{
		"title": "Good Omens",
		"tags":  []any{"comedy", "fantasy"},
		"pages": 412,
	}

	vals := Strings(record, "title")
	require.Len(t, vals, 1)
	assert.Equal(t, "Good Omens", vals[0].Text)
	assert.Equal(t, -1, vals[0].ArrayIndex)

	vals = Strings(record, "tags")
	require.Len(t, vals, 2)
	assert.Equal(t, "comedy", vals[0].Text)
	assert.Equal(t, 0, vals[0].ArrayIndex)
	assert.Equal(t, "fantasy", vals[1].Text)
	assert.Equal(t, 1, vals[1].ArrayIndex)

	assert.Empty(t, Strings(record, "pages"), "non-string leaves are skipped")
	assert.Empty(t, Strings(record, "missing"))
}
