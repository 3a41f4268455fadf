// Package assets embeds the SQL migrations for each supported dialect.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed sql
var FS embed.FS

// Migration is one schema step, applied once and recorded by name.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the *.sql files under sql/<dialect>, in lexical order.
func Migrations(dialect string) ([]Migration, error) {
	dir := path.Join("sql", dialect)
	entries, err := fs.ReadDir(FS, dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, n := range names {
		b, err := fs.ReadFile(FS, path.Join(dir, n))
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: path.Join(dialect, n), SQL: string(b)})
	}
	return out, nil
}
