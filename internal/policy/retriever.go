package policy

import (
	"context"
	"strings"

	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/retrieval"
	"github.com/rs/zerolog"
)

const passagesPerQuery = 3

// Retriever assembles policy text for a query set. It never fails outward:
// every path yields usable policy text with a provenance tag.
type Retriever struct {
	searcher retrieval.PassageSearcher
	logger   *zerolog.Logger
}

// NewRetriever accepts a nil searcher, which selects the default policy text.
func NewRetriever(searcher retrieval.PassageSearcher, logger *zerolog.Logger) *Retriever {
	return &Retriever{
		searcher: searcher,
		logger:   logger,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, querySet models.PolicyQuerySet) models.PolicyContext {
	if r.searcher == nil {
		r.logger.Warn().Msg("retrieval backend not configured, using default policy text")
		return models.PolicyContext{
			PolicyText:      DefaultPolicyText,
			Source:          models.SourceDefault,
			ChunksRetrieved: 0,
		}
	}

	var all []string
	for _, query := range querySet.Queries {
		passages, err := r.searcher.Search(ctx, query, passagesPerQuery)
		if err != nil {
			r.logger.Warn().Err(err).Str("query", query).Msg("retrieval failed, using default policy text")
			return models.PolicyContext{
				PolicyText:      DefaultPolicyText,
				Source:          models.SourceDefaultFallback,
				ChunksRetrieved: 0,
			}
		}
		for _, p := range passages {
			all = append(all, p.Content)
		}
	}

	unique := dedupe(all)
	if len(unique) == 0 {
		r.logger.Warn().Int("queries", len(querySet.Queries)).Msg("retrieval returned no passages, using default policy text")
		return models.PolicyContext{
			PolicyText:      DefaultPolicyText,
			Source:          models.SourceDefaultFallback,
			ChunksRetrieved: 0,
		}
	}

	r.logger.Info().
		Int("queries", len(querySet.Queries)).
		Int("chunks", len(unique)).
		Msg("policy text retrieved")

	return models.PolicyContext{
		PolicyText:      strings.Join(unique, "\n\n"),
		Source:          models.SourceRetrieved,
		ChunksRetrieved: len(unique),
	}
}

// dedupe removes exact duplicates preserving first-seen order.
func dedupe(texts []string) []string {
	seen := make(map[string]bool, len(texts))
	var unique []string
	for _, t := range texts {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}
	return unique
}
