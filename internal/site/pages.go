package site

import (
	"context"
	"fmt"

	"github.com/yaklabco/folio/pkg/view"
)

// Landing is the home page: tagline, intro and the latest posts.
func (s *Site) Landing() Page {
	return PageFunc(func(ctx context.Context, _ Request) (Response, error) {
		intro, err := s.markdown(ctx, "intro", s.cfg.Intro)
		if err != nil {
			return Response{}, fmt.Errorf("landing: %w", err)
		}

		hero := view.El("section", view.Class("hero"),
			view.El("h1", view.Class("hero-title"), view.Text(s.cfg.Title)),
		)
		if s.cfg.Tagline != "" {
			hero.Append(view.El("p", view.Class("tagline"), view.Text(s.cfg.Tagline)))
		}
		if intro != nil {
			hero.Append(view.El("div", view.Class("intro"), intro))
		}

		body := view.Fragment(hero)

		posts := s.store.Posts()
		if n := s.cfg.LatestPosts; n > 0 && len(posts) > 0 {
			if len(posts) > n {
				posts = posts[:n]
			}
			body.Append(view.El("section", view.Class("latest"),
				view.El("h2", nil, view.Text("Latest posts")),
				postList(posts),
				view.El("p", view.Class("more"), view.Link("/blog", "", view.Text("All posts"))),
			))
		}

		return Response{Body: body}, nil
	})
}

// About renders the configured about text.
func (s *Site) About() Page {
	return PageFunc(func(ctx context.Context, _ Request) (Response, error) {
		about, err := s.markdown(ctx, "about", s.cfg.About)
		if err != nil {
			return Response{}, fmt.Errorf("about: %w", err)
		}
		if about == nil {
			about = view.El("p", view.Class("empty"), view.Text("Nothing here yet."))
		}

		return Response{
			Title: "About",
			Body: view.El("section", view.Class("about"),
				view.El("h1", nil, view.Text("About")),
				about,
			),
		}, nil
	})
}

// Portfolio lists the configured projects.
func (s *Site) Portfolio() Page {
	return PageFunc(func(context.Context, Request) (Response, error) {
		section := view.El("section", view.Class("portfolio"),
			view.El("h1", nil, view.Text("Portfolio")),
		)

		if len(s.cfg.Projects) == 0 {
			section.Append(view.El("p", view.Class("empty"), view.Text("No projects yet.")))
			return Response{Title: "Portfolio", Body: section}, nil
		}

		list := view.El("ul", view.Class("projects"))
		for _, p := range s.cfg.Projects {
			name := view.Text(p.Name)
			if p.URL != "" {
				name = view.Link(p.URL, "project-link", name)
			}

			item := view.El("li", view.Class("project"),
				view.El("h2", view.Class("project-name"), name),
			)
			if p.Description != "" {
				item.Append(view.El("p", view.Class("project-description"), view.Text(p.Description)))
			}
			item.Append(tagList(p.Tags))
			list.Append(item)
		}
		section.Append(list)

		return Response{Title: "Portfolio", Body: section}, nil
	})
}

// Contact lists the configured contact links.
func (s *Site) Contact() Page {
	return PageFunc(func(context.Context, Request) (Response, error) {
		section := view.El("section", view.Class("contact"),
			view.El("h1", nil, view.Text("Contact")),
		)
		if len(s.cfg.Contacts) == 0 {
			section.Append(view.El("p", view.Class("empty"), view.Text("No contact details yet.")))
		} else {
			section.Append(s.contactList("contacts"))
		}
		return Response{Title: "Contact", Body: section}, nil
	})
}

func tagList(tags []string) *view.Node {
	if len(tags) == 0 {
		return nil
	}
	list := view.El("ul", view.Class("tags"))
	for _, tag := range tags {
		list.Append(view.El("li", view.Class("tag"), view.Text(tag)))
	}
	return list
}
