package v1

import (
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// stringFilters narrows account and allocation lists by their free text
// columns. name and note match as substrings. A parameter sent without a
// value only matches rows where the column is empty. search matches
// either column.
func stringFilters(db, query *gorm.DB, setFields []string, name, note, search string) *gorm.DB {
	columns := []struct {
		column, field, value string
	}{
		{"name", "Name", name},
		{"note", "Note", note},
	}

	for _, c := range columns {
		switch {
		case c.value != "":
			query = query.Where(c.column+" LIKE ?", like(c.value))
		case slices.Contains(setFields, c.field):
			query = query.Where(c.column + " = ''")
		}
	}

	if search != "" {
		pattern := like(search)
		query = query.Where(db.Where("name LIKE ?", pattern).Or("note LIKE ?", pattern))
	}

	return query
}

// like returns the LIKE pattern matching s anywhere in a column.
func like(s string) string {
	return "%" + s + "%"
}
