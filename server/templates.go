package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eregister/console/sessions"
)

const contentTypeHTML = "text/html; charset=utf-8"

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}

// renderToString executes a template into a buffer so the result can be
// embedded inside another template.
func renderToString(name string, data any) (template.HTML, error) {
	tmpl, err := ParseTemplate(name)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// renderPartial renders a single template without the page layout. Used by
// the table and form-fragment endpoints.
func (s *Server) renderPartial(w http.ResponseWriter, name string, data any) {
	tmpl, err := ParseTemplate(name)
	if err != nil {
		log.Err(err).Str("template", name).Msg("Failed to parse template")
		http.Error(w, "Failed to load template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("template", name).Msg("Failed to render template")
	}
}

// renderPage renders a content template inside the console layout.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, activePage, pageTitle, contentTemplate string, data any) {
	contentTmpl, err := ParseTemplate(contentTemplate)
	if err != nil {
		log.Err(err).Str("template", contentTemplate).Msg("Failed to parse content template")
		http.Error(w, "Failed to load content template", http.StatusInternalServerError)
		return
	}

	var contentBuf strings.Builder
	if err := contentTmpl.Execute(&contentBuf, data); err != nil {
		log.Err(err).Str("template", contentTemplate).Msg("Failed to render content template")
		http.Error(w, "Failed to render content", http.StatusInternalServerError)
		return
	}

	layoutTmpl, err := ParseTemplate("layout.html")
	if err != nil {
		http.Error(w, "Failed to load layout template", http.StatusInternalServerError)
		return
	}

	userName := ""
	var notices []sessions.Notice
	if session, ok := sessions.FromContext(r.Context()); ok {
		if session.User != nil {
			userName = session.User.Name
		}
		notices = s.sessions.PopNotices(session.ID)
	}

	layoutData := map[string]interface{}{
		"AppName":    "E-Register Console",
		"ActivePage": activePage,
		"PageTitle":  pageTitle,
		"UserName":   userName,
		"Notices":    notices,
		"Content":    template.HTML(contentBuf.String()),
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	if err := layoutTmpl.Execute(w, layoutData); err != nil {
		log.Err(err).Msg("Failed to render layout template")
	}
}
