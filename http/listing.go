package http

import (
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"dirshare"
	"dirshare/html"
	"dirshare/session"
)

// handleIndex renders the route overview at "/".
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := html.IndexPage{}
	if h.config.Auth.Enabled() && h.config.Auth.Scheme != dirshare.SchemeBasic {
		page.Logout = "/logout"
	}

	for _, rt := range h.config.Registry.Routes() {
		ir := html.IndexRoute{Link: html.Link{
			Label: rt.Label,
			Href:  escapePath(h.config.Registry.ListingRoute(rt.Label)) + "/",
		}}
		if h.config.Listing.ShowPaths {
			ir.Path = rt.Root
		}
		page.Routes = append(page.Routes, ir)
	}

	body, err := html.RenderIndex(page)
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteHTML(w, body)
}

// handleToggleImage flips inline image previews for the session and
// returns to the listing named by the url parameter. Only local paths
// are accepted as redirect targets.
func (h *Handler) handleToggleImage(w http.ResponseWriter, r *http.Request) {
	back := r.URL.Query().Get("url")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = "/"
	}

	err := h.sessions.Update(w, r, func(st *session.State) {
		st.ImagesEnabled = !st.ImagesEnabled
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	http.Redirect(w, r, back, http.StatusFound)
}

// handleBrowse serves everything under /directory/{label}/: generated
// listings for directories and file delivery for files. A directory with
// its own index.html is served as that file unless forced listings are
// on.
func (h *Handler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	rt, ok := h.routeFor(r)
	if !ok {
		WritePlain(w, http.StatusNotFound, "Error: unknown share.")
		return
	}

	raw := rawSubPath(r, dirshare.ListingPrefix+"/"+rt.Label)
	target, err := dirshare.Resolve(rt.Root, raw)
	if err != nil {
		HandleError(w, err)
		return
	}

	if !target.IsDirectory {
		h.serveFile(w, r, target)
		return
	}

	if !h.config.Listing.Force {
		if own, err := dirshare.Resolve(target.AbsolutePath, "index.html"); err == nil && !own.IsDirectory {
			h.serveFile(w, r, own)
			return
		}
	}

	page, err := h.buildListing(r, rt, target)
	if err != nil {
		HandleError(w, err)
		return
	}

	body, err := html.RenderListing(page)
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteHTML(w, body)
}

// buildListing assembles the page model for one directory: nav links,
// the optional upload form target, and the filtered, sorted entries.
func (h *Handler) buildListing(r *http.Request, rt dirshare.Route, target dirshare.ResolvedTarget) (html.ListingPage, error) {
	rel := dirshare.RelativeTo(rt.Root, target.AbsolutePath)
	st := h.sessions.Load(r)

	title := rt.Label
	if rel != "" {
		title += "/" + rel
	}
	page := html.ListingPage{Title: title}

	base := dirshare.ListingPrefix + "/" + rt.Label

	page.Nav = append(page.Nav, html.Link{Label: "Top", Href: "/"})
	if rel != "" {
		parent := path.Dir(rel)
		href := escapePath(base) + "/"
		if parent != "." {
			href = escapePath(base+"/"+parent) + "/"
		}
		page.Nav = append(page.Nav, html.Link{Label: "Parent (..)", Href: href})
	}

	toggleLabel := "Show images"
	if st.ImagesEnabled {
		toggleLabel = "Hide images"
	}
	page.Nav = append(page.Nav, html.Link{
		Label: toggleLabel,
		Href:  "/toggle-image?url=" + url.QueryEscape(r.URL.RequestURI()),
	})

	if h.config.Auth.Enabled() && h.config.Auth.Scheme != dirshare.SchemeBasic {
		page.Nav = append(page.Nav, html.Link{Label: "Logout", Href: "/logout"})
	}

	if h.config.Uploads.Enabled {
		page.UploadAction = escapePath(dirshare.UploadPrefix + "/" + rt.Label + "/" + rel)
	}

	entries, err := os.ReadDir(target.AbsolutePath)
	if err != nil {
		return html.ListingPage{}, err
	}

	for _, ent := range entries {
		name := ent.Name()
		if hiddenEntry(name) {
			continue
		}

		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}
		href := escapePath(base + "/" + childRel)

		if ent.IsDir() {
			page.Directories = append(page.Directories, html.Link{Label: name, Href: href + "/"})
			continue
		}

		fe := html.FileEntry{Link: html.Link{Label: name, Href: href}}
		if st.ImagesEnabled && dirshare.IsImage(name) {
			fe.PreviewSrc = href
		}
		if h.thumbs != nil && dirshare.IsPDF(name) {
			fe.ThumbHref = href
			fe.ThumbSrc = escapePath(dirshare.ThumbnailPrefix+"/"+rt.Label) + "?pdf=" + url.QueryEscape(filepath.ToSlash(childRel))
		}
		page.Files = append(page.Files, fe)
	}

	sortLinks(page.Directories)
	sort.Slice(page.Files, func(i, j int) bool {
		return lessFold(page.Files[i].Label, page.Files[j].Label)
	})

	return page, nil
}

// hiddenEntry filters dot files and editor backups out of listings.
func hiddenEntry(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}

func sortLinks(links []html.Link) {
	sort.Slice(links, func(i, j int) bool {
		return lessFold(links[i].Label, links[j].Label)
	})
}

// lessFold orders names case-insensitively, falling back to a byte
// comparison so equal-fold names still sort deterministically.
func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
