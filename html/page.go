// Package html renders structured page content to markup. It is the only
// place markup is assembled; handlers build the data model and never
// concatenate HTML themselves.
package html

import (
	"fmt"
	"html/template"
	"strings"
)

// Link is a navigable entry.
type Link struct {
	Label string
	Href  string
}

// FileEntry is one file row in a directory listing. PreviewSrc and
// ThumbSrc are optional inline image sources.
type FileEntry struct {
	Link
	// PreviewSrc inlines the file itself as an image.
	PreviewSrc string
	// ThumbHref links the thumbnail to the document; ThumbSrc is the
	// cached thumbnail image.
	ThumbHref string
	ThumbSrc  string
}

// ListingPage is the data model for a directory listing.
type ListingPage struct {
	Title string
	// Nav links render in order: Top, Parent, Show/Hide, Logout.
	Nav []Link
	// UploadAction, when non-empty, renders a multipart upload form
	// posting to it.
	UploadAction string
	Directories  []Link
	Files        []FileEntry
}

// IndexPage is the data model for the route overview at "/".
type IndexPage struct {
	Routes []IndexRoute
	// Logout renders a logout link when authentication is active.
	Logout string
}

// IndexRoute is one configured share on the index page.
type IndexRoute struct {
	Link
	// Path is the absolute directory, shown only when configured.
	Path string
}

var baseTmpl = template.Must(template.New("base").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/assets/style.css">
</head>
<body>
{{.Body}}
</body>
</html>
`))

var listingTmpl = template.Must(template.New("listing").Parse(`<h2>Listing Directory: ./{{.Title}}</h2>
<p class="nav">
{{- range $i, $l := .Nav}}{{if $i}} / {{end}}<a href="{{$l.Href}}">{{$l.Label}}</a>{{end -}}
</p>
{{- if .UploadAction}}
<form method="post" action="{{.UploadAction}}" enctype="multipart/form-data">
<button>Upload</button>
<input type="file" name="files" multiple>
</form>
{{- end}}
<h3>Directories</h3>
<ul>
{{- range .Directories}}
<li><a href="{{.Href}}">{{.Label}}</a></li>
{{- end}}
</ul>
<h3>Files</h3>
<ul>
{{- range .Files}}
<li><a href="{{.Href}}">{{.Label}}</a>
{{- if .ThumbSrc}}
<br><a href="{{.ThumbHref}}"><img class="thumb" src="{{.ThumbSrc}}" alt="{{.Label}}"></a>
{{- end}}
{{- if .PreviewSrc}}
<br><img class="preview" src="{{.PreviewSrc}}" alt="{{.Label}}">
{{- end}}
</li>
{{- end}}
</ul>
`))

var indexTmpl = template.Must(template.New("index").Parse(`<h2>Shared Directories</h2>
{{- if .Logout}}
<p><a href="{{.Logout}}">Logout</a></p>
{{- end}}
<ul>
{{- range .Routes}}
<li><a href="{{.Href}}">{{.Label}}</a>{{if .Path}} =&gt; {{.Path}}{{end}}</li>
{{- end}}
</ul>
`))

func renderBase(title string, body string) (string, error) {
	var sb strings.Builder
	err := baseTmpl.Execute(&sb, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body)}) //nolint:gosec // body comes from our own templates
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return sb.String(), nil
}

// RenderListing renders a directory listing page.
func RenderListing(p ListingPage) (string, error) {
	var sb strings.Builder
	if err := listingTmpl.Execute(&sb, p); err != nil {
		return "", fmt.Errorf("render listing: %w", err)
	}
	return renderBase(p.Title, sb.String())
}

// RenderIndex renders the route overview page.
func RenderIndex(p IndexPage) (string, error) {
	var sb strings.Builder
	if err := indexTmpl.Execute(&sb, p); err != nil {
		return "", fmt.Errorf("render index: %w", err)
	}
	return renderBase("Shared Directories", sb.String())
}
