package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/folio/internal/source"
	"github.com/yaklabco/folio/internal/store"
	"github.com/yaklabco/folio/pkg/parser/goldmark"
	"github.com/yaklabco/folio/pkg/render"
)

var errBoom = errors.New("boom")

// fakeSource serves a fixed index and bodies. A non-nil gate blocks Body
// until it is closed.
type fakeSource struct {
	mu      sync.Mutex
	entries []source.Entry
	bodies  map[string]string
	fail    map[string]bool
	gate    chan struct{}
	calls   atomic.Int32
}

func (f *fakeSource) Index(context.Context) ([]source.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries == nil {
		return nil, errBoom
	}
	return append([]source.Entry(nil), f.entries...), nil
}

func (f *fakeSource) Body(_ context.Context, e source.Entry) ([]byte, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[e.Slug] {
		return nil, errBoom
	}
	body, ok := f.bodies[e.File]
	if !ok {
		return nil, source.ErrNotFound
	}
	return []byte(body), nil
}

func (f *fakeSource) setFail(slug string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[slug] = fail
}

func newFake() *fakeSource {
	return &fakeSource{
		entries: []source.Entry{
			{File: "b.md", Slug: "b", Title: "B"},
			{File: "a.md", Slug: "a", Title: "A"},
		},
		bodies: map[string]string{
			"a.md": "# Alpha\n\nFirst post.\n",
			"b.md": "# Beta\n\nSecond post.\n",
		},
		fail: map[string]bool{},
	}
}

func newStore(t *testing.T, src store.Source) *store.Store {
	t.Helper()
	s := store.New(src, goldmark.New(goldmark.FlavorGFM), render.New(render.DefaultOptions()))
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestLoad(t *testing.T) {
	t.Parallel()

	s := newStore(t, newFake())

	assert.Equal(t, 2, s.Len())
	posts := s.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "b", posts[0].Slug)
	assert.False(t, posts[0].Loaded())

	_, i, ok := s.Selected()
	assert.False(t, ok)
	assert.Equal(t, store.NoSelection, i)
}

func TestLoad_ErrorKeepsState(t *testing.T) {
	t.Parallel()

	src := newFake()
	s := newStore(t, src)

	src.mu.Lock()
	src.entries = nil
	src.mu.Unlock()

	require.ErrorIs(t, s.Load(context.Background()), errBoom)
	assert.Equal(t, 2, s.Len())
}

func TestLoad_SelectionFollowsSlug(t *testing.T) {
	t.Parallel()

	src := newFake()
	s := newStore(t, src)
	require.NoError(t, s.Select(1))

	src.mu.Lock()
	src.entries = []source.Entry{
		{File: "c.md", Slug: "c"},
		{File: "b.md", Slug: "b"},
		{File: "a.md", Slug: "a"},
	}
	src.mu.Unlock()
	require.NoError(t, s.Load(context.Background()))

	post, i, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, "a", post.Slug)

	src.mu.Lock()
	src.entries = []source.Entry{{File: "c.md", Slug: "c"}}
	src.mu.Unlock()
	require.NoError(t, s.Load(context.Background()))

	_, i, ok = s.Selected()
	assert.False(t, ok)
	assert.Equal(t, store.NoSelection, i)
}

func TestSelect(t *testing.T) {
	t.Parallel()

	s := newStore(t, newFake())

	require.NoError(t, s.Select(0))
	post, i, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, "b", post.Slug)

	require.ErrorIs(t, s.Select(2), store.ErrIndexOutOfRange)
	require.ErrorIs(t, s.Select(-1), store.ErrIndexOutOfRange)

	i, err := s.SelectSlug("a")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = s.SelectSlug("zzz")
	require.ErrorIs(t, err, store.ErrPostNotFound)

	_, i, _ = s.Selected()
	assert.Equal(t, 1, i, "failed selection keeps the previous one")
}

func TestOpen(t *testing.T) {
	t.Parallel()

	s := newStore(t, newFake())

	var (
		mu     sync.Mutex
		events []store.Event
	)
	unsubscribe := s.Subscribe(func(ev store.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	defer unsubscribe()

	post, i, err := s.Open(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "a", post.Slug)
	require.True(t, post.Loaded())
	assert.Equal(t, "Alpha", post.Article.Title)

	selected, si, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, si)
	assert.Equal(t, "a", selected.Slug)

	mu.Lock()
	require.NotEmpty(t, events)
	assert.Equal(t, store.Selected, events[0].Kind)
	assert.Equal(t, "a", events[0].Slug)
	mu.Unlock()

	_, _, err = s.Open(context.Background(), "zzz")
	require.ErrorIs(t, err, store.ErrPostNotFound)
}

func TestOpen_ReloadDuringLoadKeepsPairing(t *testing.T) {
	t.Parallel()

	src := newFake()
	s := newStore(t, src)
	src.gate = make(chan struct{})

	type opened struct {
		post store.Post
		err  error
	}
	done := make(chan opened, 1)
	go func() {
		post, _, err := s.Open(context.Background(), "a")
		done <- opened{post, err}
	}()

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)

	src.mu.Lock()
	src.entries = []source.Entry{
		{File: "a.md", Slug: "a", Title: "A"},
		{File: "b.md", Slug: "b", Title: "B"},
	}
	src.mu.Unlock()
	require.NoError(t, s.Load(context.Background()))
	close(src.gate)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "a", res.post.Slug)
	assert.Equal(t, "Alpha", res.post.Article.Title)

	article, i, err := s.ArticleBySlug(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Same(t, res.post.Article, article)
}

func TestPostBySlug(t *testing.T) {
	t.Parallel()

	s := newStore(t, newFake())

	post, i, err := s.PostBySlug("b")
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Equal(t, "B", post.Title)

	_, i, err = s.PostBySlug("nope")
	require.ErrorIs(t, err, store.ErrPostNotFound)
	assert.Equal(t, store.NoSelection, i)
}

func TestArticle_LazyAndCached(t *testing.T) {
	t.Parallel()

	src := newFake()
	s := newStore(t, src)
	ctx := context.Background()

	article, err := s.Article(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", article.Title)
	assert.Equal(t, 1, article.ReadingMinutes)
	require.NotNil(t, article.Doc)

	again, err := s.Article(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, article, again)
	assert.Equal(t, int32(1), src.calls.Load())

	post, err := s.Post(1)
	require.NoError(t, err)
	assert.True(t, post.Loaded())

	_, err = s.Article(ctx, 5)
	require.ErrorIs(t, err, store.ErrIndexOutOfRange)
}

func TestArticle_FailureNotCached(t *testing.T) {
	t.Parallel()

	src := newFake()
	src.setFail("a", true)
	s := newStore(t, src)
	ctx := context.Background()

	_, _, err := s.ArticleBySlug(ctx, "a")
	require.ErrorIs(t, err, errBoom)

	post, err := s.Post(1)
	require.NoError(t, err)
	require.ErrorIs(t, post.Err, errBoom)
	assert.False(t, post.Loaded())

	src.setFail("a", false)
	article, i, err := s.ArticleBySlug(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "Alpha", article.Title)

	post, err = s.Post(1)
	require.NoError(t, err)
	assert.NoError(t, post.Err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestArticle_MissingBody(t *testing.T) {
	t.Parallel()

	src := newFake()
	delete(src.bodies, "b.md")
	s := newStore(t, src)

	_, err := s.Article(context.Background(), 0)
	require.ErrorIs(t, err, source.ErrNotFound)

	_, _, err = s.ArticleBySlug(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrPostNotFound)
}

func TestArticle_ConcurrentLoadsShareFetch(t *testing.T) {
	t.Parallel()

	src := newFake()
	s := newStore(t, src)
	src.gate = make(chan struct{})

	const callers = 8
	var (
		wg       sync.WaitGroup
		articles [callers]*store.Article
		errs     [callers]error
	)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			articles[i], errs[i] = s.Article(context.Background(), 0)
		}()
	}

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Same(t, articles[0], articles[i])
	}
}

func TestArticle_CallerContextCancelled(t *testing.T) {
	t.Parallel()

	src := newFake()
	s := newStore(t, src)
	src.gate = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Article(ctx, 0)
		done <- err
	}()

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(src.gate)
	require.Eventually(t, func() bool {
		post, err := s.Post(0)
		return err == nil && post.Loaded()
	}, time.Second, time.Millisecond, "the shared load still completes")
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	src := newFake()
	s := newStore(t, src)
	ctx := context.Background()

	first, err := s.Article(ctx, 0)
	require.NoError(t, err)

	src.mu.Lock()
	src.bodies["b.md"] = "# Beta v2\n"
	src.mu.Unlock()

	s.Invalidate("b")
	post, err := s.Post(0)
	require.NoError(t, err)
	assert.False(t, post.Loaded())

	second, err := s.Article(ctx, 0)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, "Beta v2", second.Title)

	s.InvalidateFile("b.md")
	post, err = s.Post(0)
	require.NoError(t, err)
	assert.False(t, post.Loaded())
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	src := newFake()
	src.setFail("a", true)
	s := store.New(src, goldmark.New(goldmark.FlavorGFM), render.New(render.DefaultOptions()))

	var (
		mu    sync.Mutex
		kinds []store.EventKind
	)
	unsubscribe := s.Subscribe(func(ev store.Event) {
		// Observers may read the store.
		_ = s.Len()
		mu.Lock()
		kinds = append(kinds, ev.Kind)
		mu.Unlock()
	})

	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Select(0))
	_, err := s.Article(ctx, 0)
	require.NoError(t, err)
	_, err = s.Article(ctx, 1)
	require.Error(t, err)

	unsubscribe()
	require.NoError(t, s.Select(1))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []store.EventKind{
		store.PostsLoaded,
		store.Selected,
		store.ArticleLoaded,
		store.ArticleFailed,
	}, kinds)
}

func TestSubscribe_Order(t *testing.T) {
	t.Parallel()

	s := newStore(t, newFake())

	var order []string
	s.Subscribe(func(store.Event) { order = append(order, "first") })
	unsubscribe := s.Subscribe(func(store.Event) { order = append(order, "second") })
	s.Subscribe(func(store.Event) { order = append(order, "third") })

	require.NoError(t, s.Select(0))
	unsubscribe()
	require.NoError(t, s.Select(1))

	assert.Equal(t, []string{"first", "second", "third", "first", "third"}, order)
}

func TestEventKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "posts-loaded", store.PostsLoaded.String())
	assert.Equal(t, "article-failed", store.ArticleFailed.String())
	assert.Equal(t, "unknown", store.EventKind(0).String())
}
