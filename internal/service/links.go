package service

import (
	"net/url"
	"strings"
)

// Links builds client-facing paths under the API prefix.
type Links struct {
	prefix string
}

// NewLinks normalises the prefix; an empty prefix defaults to /api/v1.
func NewLinks(prefix string) Links {
	if prefix == "" {
		prefix = "/api/v1"
	}
	return Links{prefix: "/" + strings.Trim(prefix, "/")}
}

func (l Links) Catalog() string { return l.prefix + "/" }

func (l Links) Course(slug string) string { return l.prefix + "/" + slug }

func (l Links) Video(id string) string { return l.prefix + "/videos/" + id }

func (l Links) Dashboard() string { return l.prefix + "/dashboard" }

func (l Links) Stream(id, token string) string {
	return l.prefix + "/videos/" + id + "/stream?token=" + url.QueryEscape(token)
}
