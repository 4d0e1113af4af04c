// Package source loads record collections for searching.
//
// Two loaders are provided:
//
//   - JSON files containing an array of objects or an array of strings:
//
//     records, err := source.LoadJSONFile("books.json")
//
//   - SQLite queries, one record per row with columns as field keys:
//
//     records, err := source.LoadSQLite(ctx, "library.db",
//     "SELECT title, author FROM books")
//
// Loaded collections are plain in-memory []any values handed to
// fuzzy.New; nothing about the search index is ever persisted.
//
// # SQLite Drivers
//
// The SQLite driver is selected at build time. The default pure Go build
// uses modernc.org/sqlite and needs no C compiler; building with CGO and
// the cgo_sqlite tag switches to github.com/mattn/go-sqlite3. See
// build_cgo.go and build_purego.go.
package source
