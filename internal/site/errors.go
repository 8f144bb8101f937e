package site

import (
	"context"
	"net/http"

	"github.com/yaklabco/folio/pkg/view"
)

// NotFound renders the 404 page.
func (s *Site) NotFound() Page {
	return PageFunc(func(_ context.Context, req Request) (Response, error) {
		return s.ErrorPage(http.StatusNotFound, req.Path), nil
	})
}

// ErrorPage renders the page shown for a failed request. path is the
// request path, if known.
func (s *Site) ErrorPage(status int, path string) Response {
	title := http.StatusText(status)
	if title == "" {
		title = "Error"
	}

	message := "Something went wrong while rendering this page."
	switch {
	case status == http.StatusNotFound && path != "":
		message = "There is no page at " + path + "."
	case status == http.StatusNotFound:
		message = "The page you asked for does not exist."
	case status == http.StatusBadGateway:
		message = "The post could not be fetched. Try again later."
	}

	return Response{
		Title:  title,
		Status: status,
		Body: view.El("section", view.Class("error-page"),
			view.El("h1", nil, view.Text(title)),
			view.El("p", nil, view.Text(message)),
			view.El("p", nil, view.Link("/", "", view.Text("Back to the home page"))),
		),
	}
}
