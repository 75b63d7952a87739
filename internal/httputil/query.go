package httputil

import (
	"net/url"
	"reflect"
)

// GetURLFields matches the query parameters of url against the form tags of
// filter, which must be a struct or a pointer to one.
//
// setFields names every field whose parameter is present, even with an
// empty value. queryFields is the part of it that gorm can filter on
// directly and is typed []any to be passed to Where as the field list.
// Fields tagged filterField:"false" are handled by the controller and only
// show up in setFields.
func GetURLFields(url *url.URL, filter any) (queryFields []any, setFields []string) {
	query := url.Query()
	t := reflect.Indirect(reflect.ValueOf(filter)).Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		param := field.Tag.Get("form")
		if param == "" || !query.Has(param) {
			continue
		}

		setFields = append(setFields, field.Name)
		if field.Tag.Get("filterField") != "false" {
			queryFields = append(queryFields, field.Name)
		}
	}

	return queryFields, setFields
}
