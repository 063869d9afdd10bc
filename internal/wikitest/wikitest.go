// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikitest serves a small in-memory encyclopedia over httptest for
// crawler, expansion and recommender tests.
package wikitest

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Page is one served article.
type Page struct {
	// Title is rendered as the page's <h1>. Empty omits the heading.
	Title string

	// Paragraphs are rendered as <p> elements.
	Paragraphs []string

	// Links are rendered verbatim as <a href> values.
	Links []string

	// Status, when non-zero, is returned instead of the page.
	Status int
}

// Server is a fake encyclopedia rooted at /wiki/.
type Server struct {
	*httptest.Server

	mu    sync.Mutex
	pages map[string]Page
	hits  map[string]int
	order []string
}

// New starts a server serving pages keyed by article name (the path after /wiki/).
func New(pages map[string]Page) *Server {
	s := &Server{pages: pages, hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// ArticleURL returns the absolute URL of an article name.
func (s *Server) ArticleURL(name string) string {
	return s.Server.URL + "/wiki/" + name
}

// Hits returns how many times name was requested.
func (s *Server) Hits(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[name]
}

// Requests returns the requested article names in arrival order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/wiki/")

	s.mu.Lock()
	s.hits[name]++
	s.order = append(s.order, name)
	page, ok := s.pages[name]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if page.Status != 0 {
		w.WriteHeader(page.Status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, Render(page))
}

// Render returns the HTML document for page.
func Render(page Page) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>wiki</title></head><body>")
	if page.Title != "" {
		fmt.Fprintf(&b, "<h1><span>%s</span></h1>", html.EscapeString(page.Title))
	}
	for _, p := range page.Paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(p))
	}
	b.WriteString("<ul>")
	for _, l := range page.Links {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, html.EscapeString(l), html.EscapeString(l))
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}
