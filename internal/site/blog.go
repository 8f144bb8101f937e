package site

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/yaklabco/folio/internal/store"
	"github.com/yaklabco/folio/pkg/render"
	"github.com/yaklabco/folio/pkg/view"
)

// dateFormat is how post dates are shown.
const dateFormat = "January 2, 2006"

// minTOCEntries is the smallest table of contents worth showing.
const minTOCEntries = 2

// PostPath returns the URL path of a post.
func PostPath(slug string) string {
	return "/blog/" + slug
}

// Blog lists every post, newest first.
func (s *Site) Blog() Page {
	return PageFunc(func(context.Context, Request) (Response, error) {
		section := view.El("section", view.Class("blog"),
			view.El("h1", nil, view.Text("Blog")),
		)

		posts := s.store.Posts()
		if len(posts) == 0 {
			section.Append(view.El("p", view.Class("empty"), view.Text("No posts yet.")))
		} else {
			section.Append(postList(posts))
		}
		return Response{Title: "Blog", Body: section}, nil
	})
}

// Article renders the post named by the "slug" parameter and selects it in
// the store. Unknown slugs return an error wrapping store.ErrPostNotFound.
func (s *Site) Article() Page {
	return PageFunc(func(ctx context.Context, req Request) (Response, error) {
		slug := req.Param("slug")

		post, index, err := s.store.Open(ctx, slug)
		if err != nil {
			return Response{}, err
		}

		return Response{
			Title: post.Title,
			Body:  s.articleBody(post, post.Article, index),
		}, nil
	})
}

func (s *Site) articleBody(post store.Post, article *store.Article, index int) *view.Node {
	meta := view.El("div", view.Class("post-meta"),
		dateNode(post.Date),
		view.El("span", view.Class("reading-time"), view.Text(readingTime(article.ReadingMinutes))),
	)

	header := view.El("header", view.Class("post-header"))
	if article.Title == "" {
		header.Append(view.El("h1", view.Class("post-title"), view.Text(post.Title)))
	}
	header.Append(meta, tagList(post.Tags))

	return view.El("div", view.Class("post"),
		header,
		tableOfContents(article.TOC),
		article.View,
		s.postNav(index),
	)
}

// postNav links the neighbouring posts. Previous is the older post, which
// follows in index order; next is the newer one.
func (s *Site) postNav(index int) *view.Node {
	nav := view.El("nav", view.Attrs("class", "post-nav", "aria-label", "Posts"))

	if older, err := s.store.Post(index + 1); err == nil {
		link := view.Link(PostPath(older.Slug), "post-nav-prev", view.Text("← "+older.Title))
		link.SetAttr("rel", "prev")
		nav.Append(link)
	}
	if index > 0 {
		if newer, err := s.store.Post(index - 1); err == nil {
			link := view.Link(PostPath(newer.Slug), "post-nav-next", view.Text(newer.Title+" →"))
			link.SetAttr("rel", "next")
			nav.Append(link)
		}
	}

	if len(nav.Children) == 0 {
		return nil
	}
	return nav
}

func tableOfContents(toc []render.Heading) *view.Node {
	if len(toc) < minTOCEntries {
		return nil
	}

	list := view.El("ol", nil)
	for _, h := range toc {
		list.Append(view.El("li", view.Class("toc-level-"+strconv.Itoa(h.Level)),
			view.Link("#"+h.ID, "", view.Text(h.Text)),
		))
	}
	return view.El("nav", view.Attrs("class", "toc", "aria-label", "Contents"),
		view.El("h2", view.Class("toc-title"), view.Text("Contents")),
		list,
	)
}

// postList renders post summaries. Reading time is shown for posts whose
// article has already been loaded.
func postList(posts []store.Post) *view.Node {
	list := view.El("ul", view.Class("post-list"))
	for _, p := range posts {
		item := view.El("li", view.Class("post-item"),
			view.El("h3", view.Class("post-item-title"),
				view.Link(PostPath(p.Slug), "post-link", view.Text(p.Title)),
			),
		)

		meta := view.El("div", view.Class("post-meta"), dateNode(p.Date))
		if p.Article != nil {
			meta.Append(view.El("span", view.Class("reading-time"), view.Text(readingTime(p.Article.ReadingMinutes))))
		}
		if len(meta.Children) > 0 {
			item.Append(meta)
		}

		if p.Summary != "" {
			item.Append(view.El("p", view.Class("post-summary"), view.Text(p.Summary)))
		}
		item.Append(tagList(p.Tags))
		list.Append(item)
	}
	return list
}

func dateNode(t time.Time) *view.Node {
	if t.IsZero() {
		return nil
	}
	return view.El("time", view.Attrs("datetime", t.Format(time.DateOnly)), view.Text(t.Format(dateFormat)))
}

func readingTime(minutes int) string {
	return fmt.Sprintf("%d min read", minutes)
}
