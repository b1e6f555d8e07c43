package phoneme

import (
	"log/slog"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of lookups memoized by a Lookup.
const DefaultCacheSize = 4096

// LookupResult is the outcome of resolving one word. When Phonemes is nil
// the word was not found and Err returns a *NotFoundError.
type LookupResult struct {
	// Word is the normalized query.
	Word string

	// Phonemes is the preferred pronunciation, nil when not found.
	Phonemes Sequence
}

// Found reports whether the lookup produced a pronunciation.
func (r LookupResult) Found() bool { return len(r.Phonemes) > 0 }

// Err returns a *NotFoundError for failed lookups and nil otherwise.
func (r LookupResult) Err() error {
	if r.Found() {
		return nil
	}
	return &NotFoundError{Word: r.Word}
}

// Recorder receives lookup outcomes. *observe.Metrics implements it.
type Recorder interface {
	RecordLookup(found, cached bool)
}

// Option configures a Lookup.
type Option func(*Lookup)

// WithCacheSize bounds the memoization cache. Zero or a negative size
// disables caching.
func WithCacheSize(size int) Option {
	return func(l *Lookup) {
		l.cacheSize = size
	}
}

// WithoutStress strips stress digits from every returned token. Stress is
// preserved by default.
func WithoutStress() Option {
	return func(l *Lookup) {
		l.stripStress = true
	}
}

// WithRecorder reports every lookup to r.
func WithRecorder(r Recorder) Option {
	return func(l *Lookup) {
		l.recorder = r
	}
}

// Lookup resolves words to their preferred pronunciation. The dictionary is
// treated as immutable for the lifetime of the Lookup, so results are
// memoized by normalized word. A Lookup is safe for concurrent use.
type Lookup struct {
	dict        Dictionary
	cache       *lru.Cache[string, LookupResult]
	cacheSize   int
	stripStress bool
	recorder    Recorder
}

// NewLookup creates a lookup adapter over dict.
func NewLookup(dict Dictionary, opts ...Option) *Lookup {
	l := &Lookup{
		dict:      dict,
		cacheSize: DefaultCacheSize,
	}
	for _, o := range opts {
		o(l)
	}
	if l.cacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		l.cache, _ = lru.New[string, LookupResult](l.cacheSize)
	}
	return l
}

// Lookup returns the first listed pronunciation of word. A miss, an empty
// word or an unavailable dictionary all produce a not-found result.
func (l *Lookup) Lookup(word string) LookupResult {
	key := Normalize(word)

	if l.cache != nil {
		if res, ok := l.cache.Get(key); ok {
			l.record(res.Found(), true)
			return clone(res)
		}
	}

	res, cacheable := l.resolve(key)
	if cacheable && l.cache != nil {
		l.cache.Add(key, res)
	}
	l.record(res.Found(), false)
	return clone(res)
}

// Dictionary returns the underlying dictionary.
func (l *Lookup) Dictionary() Dictionary {
	return l.dict
}

func (l *Lookup) resolve(key string) (LookupResult, bool) {
	res := LookupResult{Word: key}
	if key == "" {
		return res, true
	}
	if l.dict == nil {
		slog.Warn("phoneme lookup without dictionary", "word", key)
		return res, false
	}

	variants, err := l.dict.Pronunciations(key)
	if err != nil {
		// Unavailable sources are not memoized; they may recover.
		slog.Warn("pronunciation dictionary query failed", "word", key, "error", err)
		return res, false
	}

	for _, v := range variants {
		seq := ParseSequence(v)
		if len(seq) == 0 {
			continue
		}
		if l.stripStress {
			seq = seq.WithoutStress()
		}
		res.Phonemes = seq
		break
	}
	return res, true
}

func (l *Lookup) record(found, cached bool) {
	if l.recorder != nil {
		l.recorder.RecordLookup(found, cached)
	}
}

func clone(r LookupResult) LookupResult {
	r.Phonemes = slices.Clone(r.Phonemes)
	return r
}
