// Package router maps URL paths to site pages and wraps them in the layout.
package router

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/yaklabco/folio/internal/assets"
	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/internal/site"
)

// AssetsPrefix is where static assets are served.
const AssetsPrefix = "/assets/"

// Route binds a path pattern to a page. Patterns use httprouter syntax;
// ":name" segments become request parameters.
type Route struct {
	Name string
	Path string
	Page site.Page
}

// Static reports whether the route has no parameters.
func (r Route) Static() bool {
	return !strings.Contains(r.Path, ":") && !strings.Contains(r.Path, "*")
}

// Router serves site pages and assets.
type Router struct {
	site   *site.Site
	assets *assets.Assets
	routes []Route
	byName map[string]Route
	mux    *httprouter.Router
}

// New creates the router for s. Assets may be nil when none are served.
func New(s *site.Site, a *assets.Assets) *Router {
	r := &Router{
		site:   s,
		assets: a,
		routes: []Route{
			{Name: site.RouteHome, Path: "/", Page: s.Landing()},
			{Name: site.RouteBlog, Path: "/blog", Page: s.Blog()},
			{Name: site.RouteArticle, Path: "/blog/:slug", Page: s.Article()},
			{Name: site.RoutePortfolio, Path: "/portfolio", Page: s.Portfolio()},
			{Name: site.RouteAbout, Path: "/about", Page: s.About()},
			{Name: site.RouteContact, Path: "/contact", Page: s.Contact()},
		},
		byName: map[string]Route{},
		mux:    httprouter.New(),
	}

	for _, route := range r.routes {
		r.byName[route.Name] = route
		handle := r.pageHandler(route)
		r.mux.GET(route.Path, handle)
		r.mux.HEAD(route.Path, handle)
	}
	if a != nil {
		r.mux.GET(AssetsPrefix+"*filepath", r.serveAsset)
		r.mux.HEAD(AssetsPrefix+"*filepath", r.serveAsset)
	}
	r.mux.NotFound = http.HandlerFunc(r.notFound)

	return r
}

// Routes returns the page routes in declaration order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Site returns the site the router serves.
func (r *Router) Site() *site.Site {
	return r.site
}

// Assets returns the served assets, or nil.
func (r *Router) Assets() *assets.Assets {
	return r.assets
}

// Handler returns the router wrapped in request logging.
func (r *Router) Handler() http.Handler {
	return Logging(r)
}

// ServeHTTP dispatches to the matching route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Render writes the complete document for the named route to w and returns
// its HTTP status. When the page fails, the error page is written with the
// mapped status and the page error is returned as well.
func (r *Router) Render(ctx context.Context, w io.Writer, req site.Request) (int, error) {
	var page site.Page
	if req.Route == site.RouteNotFound {
		page = r.site.NotFound()
	} else {
		route, ok := r.byName[req.Route]
		if !ok {
			return http.StatusInternalServerError, fmt.Errorf("unknown route %q", req.Route)
		}
		page = route.Page
	}

	resp, pageErr := page.Render(ctx, req)
	if pageErr != nil {
		resp = r.site.ErrorPage(StatusFor(pageErr), req.Path)
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	if err := r.site.Document(w, req.Route, req.Path, resp); err != nil {
		return http.StatusInternalServerError, err
	}
	return status, pageErr
}

func (r *Router) pageHandler(route Route) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
		values := make(map[string]string, len(params))
		for _, p := range params {
			values[p.Key] = p.Value
		}
		r.respond(w, req, site.Request{Route: route.Name, Path: req.URL.Path, Params: values})
	}
}

func (r *Router) notFound(w http.ResponseWriter, req *http.Request) {
	r.respond(w, req, site.Request{Route: site.RouteNotFound, Path: req.URL.Path})
}

// respond renders into a buffer first so a failed page can still send a
// proper status.
func (r *Router) respond(w http.ResponseWriter, req *http.Request, sreq site.Request) {
	ctx := req.Context()

	var buf bytes.Buffer
	status, err := r.Render(ctx, &buf, sreq)
	if err != nil {
		logging.FromContext(ctx).Error("page failed",
			logging.FieldRoute, sreq.Route,
			logging.FieldStatus, status,
			logging.FieldError, err,
		)
		if buf.Len() == 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if req.Method == http.MethodHead {
		return
	}
	_, _ = buf.WriteTo(w)
}

func (r *Router) serveAsset(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
	name := params.ByName("filepath")
	content, ok := r.assets.Get(name)
	if !ok {
		r.notFound(w, req)
		return
	}

	w.Header().Set("Content-Type", assets.ContentType(name))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if req.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(content)
}
