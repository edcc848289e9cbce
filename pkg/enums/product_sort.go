package enums

import "fmt"

// ProductSort is a whitelisted column products may be ordered by.
type ProductSort string

const (
	ProductSortTitle       ProductSort = "title"
	ProductSortPrice       ProductSort = "price"
	ProductSortCreatedAt   ProductSort = "created_at"
	ProductSortUpdatedAt   ProductSort = "updated_at"
	ProductSortRating      ProductSort = "rating"
	ProductSortRatingCount ProductSort = "rating_count"
)

var validProductSorts = []ProductSort{
	ProductSortTitle,
	ProductSortPrice,
	ProductSortCreatedAt,
	ProductSortUpdatedAt,
	ProductSortRating,
	ProductSortRatingCount,
}

// String implements fmt.Stringer.
func (p ProductSort) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductSort converts raw input into a ProductSort.
func ParseProductSort(value string) (ProductSort, error) {
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort %q", value)
}

// SortDirection orders a sorted listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// IsValid reports whether the value is known.
func (s SortDirection) IsValid() bool {
	return s == SortAsc || s == SortDesc
}

// String implements fmt.Stringer.
func (s SortDirection) String() string {
	return string(s)
}
