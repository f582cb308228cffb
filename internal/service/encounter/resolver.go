package encounter

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agendasalud/scheduling-api/internal/repository"
)

// Resolver matches free-text diagnosis fields against the catalog.
// Resolution is best effort and never fails: inputs typically come
// from an autocomplete that renders entries as "CODE - NAME", but
// hand-typed text must still save.
type Resolver struct {
	repo repository.DiagnosisRepository
}

func NewResolver(repo repository.DiagnosisRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the catalog ID for a diagnosis text, or nil when no
// match is found. Lookup order: exact ICD-10 code from a "CODE - NAME"
// value, then partial name match on the name portion, then partial
// match on the full text.
func (r *Resolver) Resolve(ctx context.Context, text string) *uuid.UUID {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if code, name, found := strings.Cut(text, " - "); found {
		diagnosis, err := r.repo.GetByCode(ctx, strings.TrimSpace(code))
		if err != nil {
			log.Warn().Err(err).Str("code", code).Msg("diagnosis code lookup failed")
		} else if diagnosis != nil {
			return &diagnosis.ID
		}

		if id := r.searchFirst(ctx, strings.TrimSpace(name)); id != nil {
			return id
		}
	}

	return r.searchFirst(ctx, text)
}

func (r *Resolver) searchFirst(ctx context.Context, term string) *uuid.UUID {
	if term == "" {
		return nil
	}

	matches, err := r.repo.SearchByName(ctx, term, 1)
	if err != nil {
		log.Warn().Err(err).Str("term", term).Msg("diagnosis name search failed")
		return nil
	}
	if len(matches) == 0 {
		return nil
	}
	return &matches[0].ID
}
