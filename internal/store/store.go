// Package store holds the loaded post index and the selected article.
//
// Article bodies are fetched, parsed and rendered lazily the first time they
// are requested. Observers registered with Subscribe are notified of every
// change after the store's lock is released, so they may call back into the
// store.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/internal/source"
	"github.com/yaklabco/folio/pkg/mdast"
	"github.com/yaklabco/folio/pkg/render"
)

// NoSelection is the selected index before anything is selected.
const NoSelection = -1

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrPostNotFound indicates an unknown slug.
	ErrPostNotFound = errors.New("post not found")

	// ErrIndexOutOfRange indicates an index outside the post list.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Source supplies the post index and bodies.
type Source interface {
	Index(ctx context.Context) ([]source.Entry, error)
	Body(ctx context.Context, entry source.Entry) ([]byte, error)
}

// Parser turns a Markdown body into a document.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*mdast.Document, error)
}

// Article is a parsed and rendered post body.
type Article struct {
	*render.Result

	// Doc is the parsed Markdown the result was rendered from.
	Doc *mdast.Document
}

// Post is a snapshot of one entry in the store.
type Post struct {
	source.Entry

	// Article is nil until the body has been loaded.
	Article *Article

	// Err is the most recent load failure, cleared by a successful load.
	Err error
}

// Loaded reports whether the article body is available.
func (p Post) Loaded() bool {
	return p.Article != nil
}

// Store is the observable post store. It is safe for concurrent use.
type Store struct {
	src      Source
	parser   Parser
	renderer *render.Renderer

	mu       sync.RWMutex
	entries  []source.Entry
	bySlug   map[string]int
	selected int
	articles map[string]*Article
	errs     map[string]error
	versions map[string]uint64

	group singleflight.Group

	observersMu sync.Mutex
	observers   []observer
	nextID      uint64
}

type observer struct {
	id uint64
	fn func(Event)
}

// New creates an empty store. Call Load to populate it.
func New(src Source, parser Parser, renderer *render.Renderer) *Store {
	return &Store{
		src:      src,
		parser:   parser,
		renderer: renderer,
		bySlug:   map[string]int{},
		selected: NoSelection,
		articles: map[string]*Article{},
		errs:     map[string]error{},
		versions: map[string]uint64{},
	}
}

// Renderer returns the renderer used for articles.
func (s *Store) Renderer() *render.Renderer {
	return s.renderer
}

// Load rebuilds the post index. The selection follows its slug when the post
// still exists and is cleared otherwise. Cached articles of posts that are no
// longer listed are dropped. On error the store is unchanged.
func (s *Store) Load(ctx context.Context) error {
	entries, err := s.src.Index(ctx)
	if err != nil {
		return fmt.Errorf("load posts: %w", err)
	}

	bySlug := make(map[string]int, len(entries))
	for i, e := range entries {
		bySlug[e.Slug] = i
	}

	s.mu.Lock()
	selected := NoSelection
	if s.selected != NoSelection {
		if i, ok := bySlug[s.entries[s.selected].Slug]; ok {
			selected = i
		}
	}
	for slug := range s.articles {
		if _, ok := bySlug[slug]; !ok {
			s.dropLocked(slug)
		}
	}
	for slug := range s.errs {
		if _, ok := bySlug[slug]; !ok {
			s.dropLocked(slug)
		}
	}
	s.entries = entries
	s.bySlug = bySlug
	s.selected = selected
	s.mu.Unlock()

	logging.FromContext(ctx).Debug("posts loaded", logging.FieldPosts, len(entries))
	s.emit(Event{Kind: PostsLoaded, Index: selected})
	return nil
}

// Len returns the number of posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Posts returns a snapshot of all posts in index order.
func (s *Store) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]Post, len(s.entries))
	for i := range s.entries {
		posts[i] = s.postLocked(i)
	}
	return posts
}

// Post returns the post at index i.
func (s *Store) Post(i int) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.entries) {
		return Post{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(s.entries))
	}
	return s.postLocked(i), nil
}

// PostBySlug returns the post with the given slug and its index.
func (s *Store) PostBySlug(slug string) (Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.bySlug[slug]
	if !ok {
		return Post{}, NoSelection, fmt.Errorf("%w: %q", ErrPostNotFound, slug)
	}
	return s.postLocked(i), i, nil
}

// Select sets the selected index.
func (s *Store) Select(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.entries) {
		n := len(s.entries)
		s.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, n)
	}
	s.selected = i
	slug := s.entries[i].Slug
	s.mu.Unlock()

	s.emit(Event{Kind: Selected, Index: i, Slug: slug})
	return nil
}

// SelectSlug selects the post with the given slug and returns its index.
func (s *Store) SelectSlug(slug string) (int, error) {
	s.mu.Lock()
	i, ok := s.bySlug[slug]
	if !ok {
		s.mu.Unlock()
		return NoSelection, fmt.Errorf("%w: %q", ErrPostNotFound, slug)
	}
	s.selected = i
	s.mu.Unlock()

	s.emit(Event{Kind: Selected, Index: i, Slug: slug})
	return i, nil
}

// Selected returns the selected post and its index. The index is
// NoSelection and ok is false when nothing is selected.
func (s *Store) Selected() (Post, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == NoSelection {
		return Post{}, NoSelection, false
	}
	return s.postLocked(s.selected), s.selected, true
}

// Article returns the rendered body of the i-th post, loading it on first
// use. Concurrent requests for the same post share one load. Failed loads
// are not cached.
func (s *Store) Article(ctx context.Context, i int) (*Article, error) {
	s.mu.RLock()
	if i < 0 || i >= len(s.entries) {
		n := len(s.entries)
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, n)
	}
	entry := s.entries[i]
	s.mu.RUnlock()

	return s.article(ctx, entry)
}

// ArticleBySlug is Article addressed by slug. The returned index is the
// post's position when the slug was resolved.
func (s *Store) ArticleBySlug(ctx context.Context, slug string) (*Article, int, error) {
	s.mu.RLock()
	i, ok := s.bySlug[slug]
	if !ok {
		s.mu.RUnlock()
		return nil, NoSelection, fmt.Errorf("%w: %q", ErrPostNotFound, slug)
	}
	entry := s.entries[i]
	s.mu.RUnlock()

	article, err := s.article(ctx, entry)
	return article, i, err
}

// Open selects the post with the given slug and loads its article. The
// post, its article and its index come from one resolution of the slug, so
// a concurrent Load cannot pair the article with a different post. The
// returned post's Article is set on success.
func (s *Store) Open(ctx context.Context, slug string) (Post, int, error) {
	s.mu.Lock()
	i, ok := s.bySlug[slug]
	if !ok {
		s.mu.Unlock()
		return Post{}, NoSelection, fmt.Errorf("%w: %q", ErrPostNotFound, slug)
	}
	s.selected = i
	post := s.postLocked(i)
	s.mu.Unlock()

	s.emit(Event{Kind: Selected, Index: i, Slug: slug})

	article, err := s.article(ctx, post.Entry)
	if err != nil {
		return post, i, err
	}
	post.Article = article
	post.Err = nil
	return post, i, nil
}

// article returns the cached body of entry or loads it.
func (s *Store) article(ctx context.Context, entry source.Entry) (*Article, error) {
	s.mu.RLock()
	if article, ok := s.articles[entry.Slug]; ok {
		s.mu.RUnlock()
		return article, nil
	}
	version := s.versions[entry.Slug]
	s.mu.RUnlock()

	// The shared load outlives any single caller; each caller still honours
	// its own context.
	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(entry.Slug, func() (any, error) {
		return s.load(loadCtx, entry, version)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("article %s: %w", entry.Slug, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		article, _ := res.Val.(*Article)
		return article, nil
	}
}

// load fetches, parses and renders one post, then records the outcome
// unless the post was invalidated meanwhile.
func (s *Store) load(ctx context.Context, entry source.Entry, version uint64) (*Article, error) {
	logger := logging.FromContext(ctx).With(logging.FieldSlug, entry.Slug)

	article, err := s.build(ctx, entry)

	s.mu.Lock()
	index, listed := s.bySlug[entry.Slug]
	current := listed && s.versions[entry.Slug] == version
	if current {
		if err != nil {
			s.errs[entry.Slug] = err
		} else {
			s.articles[entry.Slug] = article
			delete(s.errs, entry.Slug)
		}
	}
	s.mu.Unlock()

	if !listed {
		index = NoSelection
	}
	if err != nil {
		logger.Warn("article failed", logging.FieldError, err)
		s.emit(Event{Kind: ArticleFailed, Index: index, Slug: entry.Slug, Err: err})
		return nil, err
	}

	logger.Debug("article loaded", logging.FieldWords, article.Words)
	s.emit(Event{Kind: ArticleLoaded, Index: index, Slug: entry.Slug})
	return article, nil
}

func (s *Store) build(ctx context.Context, entry source.Entry) (*Article, error) {
	body, err := s.src.Body(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("article %s: %w", entry.Slug, err)
	}

	doc, err := s.parser.Parse(ctx, entry.File, body)
	if err != nil {
		return nil, fmt.Errorf("article %s: %w", entry.Slug, err)
	}

	return &Article{Result: s.renderer.Render(doc), Doc: doc}, nil
}

// Invalidate drops the cached article for slug so the next request reloads
// it. Loads already in flight are not recorded.
func (s *Store) Invalidate(slug string) {
	s.mu.Lock()
	s.dropLocked(slug)
	s.mu.Unlock()

	s.group.Forget(slug)
}

// InvalidateFile invalidates every post read from file.
func (s *Store) InvalidateFile(file string) {
	var slugs []string

	s.mu.RLock()
	for _, e := range s.entries {
		if e.File == file {
			slugs = append(slugs, e.Slug)
		}
	}
	s.mu.RUnlock()

	for _, slug := range slugs {
		s.Invalidate(slug)
	}
}

func (s *Store) dropLocked(slug string) {
	delete(s.articles, slug)
	delete(s.errs, slug)
	s.versions[slug]++
}

func (s *Store) postLocked(i int) Post {
	e := s.entries[i]
	return Post{Entry: e, Article: s.articles[e.Slug], Err: s.errs[e.Slug]}
}
