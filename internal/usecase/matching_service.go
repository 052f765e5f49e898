package usecase

import (
	"log/slog"

	"github.com/grocerycompare/backend/internal/domain"
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	EnableDebugLogging bool
	Logger             *slog.Logger
}

// MatchingService resolves requested items to catalog entries, store by store
type MatchingService struct {
	enableDebugLogging bool
	log                *slog.Logger
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MatchingService{
		enableDebugLogging: config.EnableDebugLogging,
		log:                logger.With("op", "MatchingService.Match"),
	}
}

// Match selects at most one catalog entry per requested item for every store.
//
// With allowSubstitutions false only an exact, case-sensitive name match counts.
// Otherwise the entry with the highest TokenSortRatio wins when it reaches
// MinSimilarityScore. In both modes ties go to the entry listed first.
// Items without a match are omitted from that store's lines.
// The result holds one StoreMatches per catalog, in catalog order.
func (s *MatchingService) Match(
	items []domain.RequestedItem,
	catalogs []domain.StoreCatalog,
	allowSubstitutions bool,
) ([]domain.StoreMatches, error) {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	results := make([]domain.StoreMatches, 0, len(catalogs))
	for _, catalog := range catalogs {
		lines := make([]domain.MatchedLine, 0, len(items))

		for _, item := range items {
			var (
				entry *domain.CatalogEntry
				score float64
			)
			if allowSubstitutions {
				entry, score = bestFuzzyMatch(item.Name, catalog.Entries)
			} else {
				entry = exactMatch(item.Name, catalog.Entries)
				score = 100
			}

			if entry == nil {
				if s.enableDebugLogging {
					s.log.Debug("no match", "store", catalog.Store, "item", item.Name, "best_score", score)
				}
				continue
			}

			if s.enableDebugLogging {
				s.log.Debug("matched", "store", catalog.Store, "item", item.Name,
					"matched", entry.Name, "score", score)
			}

			lines = append(lines, domain.MatchedLine{
				Requested: item.Name,
				Matched:   entry.Name,
				UnitPrice: entry.UnitPrice,
				Quantity:  item.Quantity,
			})
		}

		results = append(results, domain.StoreMatches{Store: catalog.Store, Lines: lines})
	}

	return results, nil
}

// exactMatch returns the first entry whose name equals name byte for byte
func exactMatch(name string, entries []domain.CatalogEntry) *domain.CatalogEntry {
	for i := range entries {
		if entries[i].Name == name {
			return &entries[i]
		}
	}
	return nil
}

// bestFuzzyMatch returns the highest scoring entry if it clears MinSimilarityScore,
// along with the best score seen
func bestFuzzyMatch(name string, entries []domain.CatalogEntry) (*domain.CatalogEntry, float64) {
	best := -1
	highestScore := -1.0 // any score, including 0, replaces the initial value

	for i := range entries {
		score := TokenSortRatio(name, entries[i].Name)
		if score > highestScore {
			highestScore = score
			best = i
		}
	}

	if best < 0 {
		return nil, 0
	}
	if highestScore < MinSimilarityScore {
		return nil, highestScore
	}
	return &entries[best], highestScore
}
