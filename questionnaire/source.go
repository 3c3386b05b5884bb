package questionnaire

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Catalog fetches the live question list.
type Catalog interface {
	FetchQuestions(ctx context.Context) ([]Question, error)
}

// Origin tells where a loaded question set came from.
type Origin string

const (
	OriginRemote   Origin = "remote"
	OriginFallback Origin = "fallback"
)

var ErrCatalogUnavailable = errors.New("question catalog unavailable")

// Source loads the questions for a new session. It never fails: any problem
// with the catalog yields the built-in set.
type Source struct {
	catalog Catalog
	log     logrus.FieldLogger
}

func NewSource(catalog Catalog, log logrus.FieldLogger) *Source {
	return &Source{catalog: catalog, log: orDiscard(log)}
}

// Load makes a single catalog request; there is no retry.
func (s *Source) Load(ctx context.Context) ([]Question, Origin) {
	qs, err := s.fetch(ctx)
	if err != nil {
		s.log.WithError(err).Warn("using built-in questions")
		return FallbackQuestions(), OriginFallback
	}
	return qs, OriginRemote
}

func (s *Source) fetch(ctx context.Context) ([]Question, error) {
	if s.catalog == nil {
		return nil, ErrCatalogUnavailable
	}
	qs, err := s.catalog.FetchQuestions(ctx)
	if err != nil {
		return nil, errors.Join(ErrCatalogUnavailable, err)
	}
	qs = SortQuestions(qs)
	if err := ValidateQuestions(qs); err != nil {
		return nil, errors.Join(ErrCatalogUnavailable, err)
	}
	return qs, nil
}
