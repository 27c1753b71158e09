package ports

import "context"

// ListingInvalidator drops the cached available-crops listing. Settlement
// changes stock, so the cache must not serve the old quantities. The crops
// module's cache satisfies this interface.
type ListingInvalidator interface {
	Invalidate(ctx context.Context) error
}
