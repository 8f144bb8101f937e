package site

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/yaklabco/folio/pkg/view"
)

// Stylesheets linked from every page.
const (
	StylesheetPath = "/assets/site.css"
	HighlightPath  = "/assets/highlight.css"
)

// MainID is the id of the <main> element holding page content. Heading
// anchors inside articles must not reuse it.
const MainID = "content"

// titleSeparator joins the page and site titles.
const titleSeparator = " · "

type navItem struct {
	label string
	href  string
	route string
}

//nolint:gochecknoglobals // Fixed navigation.
var nav = []navItem{
	{"Home", "/", RouteHome},
	{"Blog", "/blog", RouteBlog},
	{"Portfolio", "/portfolio", RoutePortfolio},
	{"About", "/about", RouteAbout},
	{"Contact", "/contact", RouteContact},
}

// Title returns the document title for a page: "PAGE · SITE", or the site
// title alone when the page has none.
func (s *Site) Title(page string) string {
	page = strings.TrimSpace(page)
	if page == "" || page == s.cfg.Title {
		return s.cfg.Title
	}
	return page + titleSeparator + s.cfg.Title
}

// Document writes resp as a complete HTML document with the site chrome.
// path is the request path, used for the canonical link.
func (s *Site) Document(w io.Writer, route, path string, resp Response) error {
	head := view.Fragment(
		view.El("meta", view.Attrs("charset", "utf-8")),
		view.El("meta", view.Attrs("name", "viewport", "content", "width=device-width, initial-scale=1")),
		view.El("title", nil, view.Text(s.Title(resp.Title))),
		s.description(),
		s.canonical(path),
		view.El("link", view.Attrs("rel", "stylesheet", "href", StylesheetPath)),
		view.El("link", view.Attrs("rel", "stylesheet", "href", HighlightPath)),
	)

	body := view.Fragment(
		s.Header(route),
		view.El("main", view.Attrs("class", "site-main", "id", MainID), resp.Body),
		s.Footer(),
	)

	if err := view.RenderDocument(w, s.cfg.Language, head, body); err != nil {
		return fmt.Errorf("write %s page: %w", route, err)
	}
	return nil
}

func (s *Site) description() *view.Node {
	if s.cfg.Tagline == "" {
		return nil
	}
	return view.El("meta", view.Attrs("name", "description", "content", s.cfg.Tagline))
}

func (s *Site) canonical(path string) *view.Node {
	if s.cfg.BaseURL == "" || path == "" {
		return nil
	}
	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return nil
	}
	href := base.JoinPath(path).String()
	return view.El("link", view.Attrs("rel", "canonical", "href", href))
}

// Header renders the site title and navigation. The link for route, or for
// the blog when route is an article, is marked active.
func (s *Site) Header(route string) *view.Node {
	if route == RouteArticle {
		route = RouteBlog
	}

	list := view.El("ul", view.Class("nav-list"))
	for _, item := range nav {
		link := view.Link(item.href, "nav-link", view.Text(item.label))
		if item.route == route {
			link.AddClass("active")
			link.SetAttr("aria-current", "page")
		}
		list.Append(view.El("li", view.Class("nav-item"), link))
	}

	return view.El("header", view.Class("site-header"),
		view.Link("/", "site-title", view.Text(s.cfg.Title)),
		view.El("nav", view.Attrs("class", "site-nav", "aria-label", "Main"), list),
	)
}

// Footer renders the copyright line and contact links.
func (s *Site) Footer() *view.Node {
	owner := s.cfg.Author
	if owner == "" {
		owner = s.cfg.Title
	}
	copyright := "© " + strconv.Itoa(s.now().Year()) + " " + owner

	footer := view.El("footer", view.Class("site-footer"),
		view.El("p", view.Class("copyright"), view.Text(copyright)),
	)
	if len(s.cfg.Contacts) > 0 {
		footer.Append(s.contactList("footer-contacts"))
	}
	return footer
}

func (s *Site) contactList(class string) *view.Node {
	list := view.El("ul", view.Class(class))
	for _, c := range s.cfg.Contacts {
		list.Append(view.El("li", nil, view.Link(c.Href(), "contact-link", view.Text(c.Label))))
	}
	return list
}
