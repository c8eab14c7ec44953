package catalog

import (
	"context"
	"net/url"
)

// RawRecord is a single undecoded record as returned by the storefront API.
// The upstream envelope shape is not fixed per endpoint, so records stay
// untyped until the normalizer flattens them into catalog entities.
type RawRecord = map[string]any

// Gateway defines the port interface to the remote storefront REST API.
// This interface follows the Ports & Adapters pattern - it's defined in the
// domain layer and implemented by the infrastructure layer (storefront client).
type Gateway interface {
	// FetchAll retrieves every record of one logical collection across all of
	// its pages. It returns an error only when the first page is unobtainable
	// after the retry budget; later page failures degrade to empty
	// contributions.
	FetchAll(ctx context.Context, endpoint string, extra url.Values) ([]RawRecord, error)

	// CreateBrand creates a brand upstream and returns the created record,
	// unwrapped from whatever envelope the API chose to use.
	CreateBrand(ctx context.Context, data map[string]any, opts url.Values) (RawRecord, error)

	// CreateCategory creates a category upstream.
	CreateCategory(ctx context.Context, data map[string]any, opts url.Values) (RawRecord, error)

	// CreateProduct creates a product upstream.
	CreateProduct(ctx context.Context, data map[string]any, opts url.Values) (RawRecord, error)
}
