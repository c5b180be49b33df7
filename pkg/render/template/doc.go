// Package template defines the renderer-agnostic template engine seam the
// document renderers rely on. The concrete adapter under gotemplate wraps the
// github.com/goliatone/go-template (pongo2) engine; alternative engines only
// need to satisfy TemplateRenderer.
package template
