package tokenizer

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Shared loads a tokenizer once, on first use, and hands the same instance
// to every caller. A failed load is remembered and returned on every call.
type Shared struct {
	once sync.Once
	load func() (*GLM, error)
	tok  *GLM
	err  error
}

// NewShared wraps a load function.
func NewShared(load func() (*GLM, error)) *Shared {
	return &Shared{load: load}
}

// SharedFile returns a Shared that loads the asset at path.
func SharedFile(path string, opts LoadOptions) *Shared {
	return NewShared(func() (*GLM, error) {
		return AutoLoadTokenizer(path, opts)
	})
}

// Get returns the tokenizer, loading it on the first call.
func (s *Shared) Get() (*GLM, error) {
	s.once.Do(func() {
		start := time.Now()
		s.tok, s.err = s.load()
		if s.err != nil {
			log.Error().Err(s.err).Msg("failed to load tokenizer")
			return
		}
		log.Debug().
			Str("name", s.tok.Name()).
			Int("vocab", s.tok.VocabSize()).
			Dur("took", time.Since(start)).
			Msg("tokenizer loaded")
	})
	return s.tok, s.err
}

// MustGet is like Get but panics if loading failed.
func (s *Shared) MustGet() *GLM {
	tok, err := s.Get()
	if err != nil {
		panic("tokenizer: " + err.Error())
	}
	return tok
}
