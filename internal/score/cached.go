package score

import (
	"github.com/tonalspace/cadenza/internal/cache"
	"github.com/tonalspace/cadenza/internal/sign"
)

// CachedModel memoizes another model's probability lookups. Chart filling
// asks for the same (expansion, category) probabilities once per derivation
// attempt, so even a small input repeats lookups heavily.
type CachedModel struct {
	model Model
	store cache.Cache
}

type cachedLexicalModel struct {
	*CachedModel
	lexical LexicalModel
}

// NewCachedModel wraps model with the given cache store. When the wrapped
// model also implements LexicalModel the returned model does too; otherwise
// the lexical fallback behaviour is preserved.
func NewCachedModel(model Model, store cache.Cache) Model {
	cached := &CachedModel{model: model, store: store}
	if lex, ok := model.(LexicalModel); ok {
		return &cachedLexicalModel{CachedModel: cached, lexical: lex}
	}
	return cached
}

func (m *CachedModel) lookup(key string, compute func() float64) float64 {
	if v, ok := m.store.Get(key); ok {
		if p, ok := v.(float64); ok {
			return p
		}
	}
	p := compute()
	m.store.Set(key, p)
	return p
}

// InsideProbability implements Model.
func (m *CachedModel) InsideProbability(kind Expansion, parent *sign.Sign, children ...*sign.Sign) float64 {
	parts := make([]string, 0, len(children)+3)
	parts = append(parts, "inside", string(kind), parent.Category.Label())
	for _, c := range children {
		parts = append(parts, c.Category.Label())
	}
	return m.lookup(cache.Key(parts...), func() float64 {
		return m.model.InsideProbability(kind, parent, children...)
	})
}

// OutsideProbability implements Model.
func (m *CachedModel) OutsideProbability(s *sign.Sign) float64 {
	return m.lookup(cache.Key("outside", s.Category.Label()), func() float64 {
		return m.model.OutsideProbability(s)
	})
}

// Invalidate drops every memoized probability. Call it after mutating the
// underlying model.
func (m *CachedModel) Invalidate() {
	m.store.Clear()
}

// LexicalProbability implements LexicalModel.
func (m *cachedLexicalModel) LexicalProbability(s *sign.Sign, word string) float64 {
	key := cache.Key("lexical", s.Category.Label(), s.Tag, word)
	return m.lookup(key, func() float64 {
		return m.lexical.LexicalProbability(s, word)
	})
}
