package cache

import (
	"testing"

	"carmarket_backend/internal/listings/domain"

	"github.com/google/uuid"
)

func TestSearchKeyIsOrderIndependent(t *testing.T) {
	min := int64(1_000_000)
	a := domain.FilterCriteria{
		Makes:         []string{"Toyota", "honda"},
		Features:      []string{"Sunroof", "navigation"},
		MinPriceCents: &min,
		PageSize:      20,
		Sort:          domain.SortNewest,
	}
	b := domain.FilterCriteria{
		Makes:         []string{"HONDA", "toyota"},
		Features:      []string{"Navigation", "sunroof"},
		MinPriceCents: &min,
		PageSize:      20,
		Sort:          domain.SortNewest,
	}

	if SearchKey(a) != SearchKey(b) {
		t.Fatal("logically identical criteria must share a cache key")
	}
}

func TestSearchKeyDistinguishesNilFromZero(t *testing.T) {
	zero := int64(0)
	withNil := domain.FilterCriteria{PageSize: 20, Sort: domain.SortNewest}
	withZero := domain.FilterCriteria{PageSize: 20, Sort: domain.SortNewest, MinPriceCents: &zero}

	if SearchKey(withNil) == SearchKey(withZero) {
		t.Fatal("unset and zero-valued price bounds must hash differently")
	}
}

func TestSearchKeyVariesWithPagination(t *testing.T) {
	base := domain.FilterCriteria{PageSize: 20, Sort: domain.SortNewest}
	nextPage := base
	nextPage.Page = 1

	if SearchKey(base) == SearchKey(nextPage) {
		t.Fatal("different pages must hash differently")
	}
}

func TestSimilarKeyIncludesRankerTuning(t *testing.T) {
	id := uuid.New()
	if SimilarKey(id, 6, 5, 50) == SimilarKey(id, 6, 3, 50) {
		t.Fatal("ranker tuning must participate in the similar key")
	}
	if SimilarKey(id, 6, 5, 50) != SimilarKey(id, 6, 5, 50) {
		t.Fatal("similar key must be stable")
	}
}

func TestEntityKeysDifferAcrossKinds(t *testing.T) {
	id := uuid.New()
	if DetailKey(id) == DealerKey(id) {
		t.Fatal("listing and dealer keys for the same UUID must differ")
	}
	if MakesKey() == StatsKey() {
		t.Fatal("aggregate keys must differ")
	}
}
