package store

// EventKind identifies a store change.
type EventKind int

const (
	// PostsLoaded follows a successful Load.
	PostsLoaded EventKind = iota + 1

	// Selected follows Select, SelectSlug and Open.
	Selected

	// ArticleLoaded follows a successful article load.
	ArticleLoaded

	// ArticleFailed follows a failed article load.
	ArticleFailed
)

func (k EventKind) String() string {
	switch k {
	case PostsLoaded:
		return "posts-loaded"
	case Selected:
		return "selected"
	case ArticleLoaded:
		return "article-loaded"
	case ArticleFailed:
		return "article-failed"
	default:
		return "unknown"
	}
}

// Event describes a change to the store.
type Event struct {
	Kind EventKind

	// Index is the affected post, or the selection after PostsLoaded.
	// It is NoSelection when there is none.
	Index int

	Slug string

	// Err is set for ArticleFailed.
	Err error
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Observers run synchronously on the goroutine that caused
// the event, in subscription order.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.observersMu.Lock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	s.observersMu.Unlock()

	return func() {
		s.observersMu.Lock()
		defer s.observersMu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) emit(ev Event) {
	s.observersMu.Lock()
	observers := make([]observer, len(s.observers))
	copy(observers, s.observers)
	s.observersMu.Unlock()

	for _, o := range observers {
		o.fn(ev)
	}
}
