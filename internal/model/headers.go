package model

import (
	"net/http"
	"slices"
	"strings"
)

// HeaderField is a single header name with all of its values.
type HeaderField struct {
	// Name is the header name as it should be printed.
	Name string
	// Values are the header values in the order they were added.
	Values []string
}

// Headers is an ordered header collection.
type Headers []HeaderField

// HeadersFromHTTP converts an http.Header into Headers sorted by canonical key.
// http.Header does not remember insertion order, so sorting keeps output stable.
func HeadersFromHTTP(header http.Header) Headers {
	if len(header) == 0 {
		return nil
	}

	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}

	slices.Sort(names)

	result := make(Headers, 0, len(names))
	for _, name := range names {
		result = append(result, HeaderField{
			Name:   name,
			Values: slices.Clone(header[name]),
		})
	}

	return result
}

// Get returns the first value of the named header, matching names case-insensitively.
func (h Headers) Get(name string) string {
	for _, field := range h {
		if strings.EqualFold(field.Name, name) && len(field.Values) > 0 {
			return field.Values[0]
		}
	}

	return ""
}

// Values returns all values of the named header, matching names case-insensitively.
func (h Headers) Values(name string) []string {
	var values []string

	for _, field := range h {
		if strings.EqualFold(field.Name, name) {
			values = append(values, field.Values...)
		}
	}

	return values
}

// Len returns the number of header values.
func (h Headers) Len() int {
	count := 0
	for _, field := range h {
		count += len(field.Values)
	}

	return count
}
