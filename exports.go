package folio

import (
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/types"
)

// Re-export common types for convenience so users don't have to import the
// leaf packages for everyday calls.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Item is one requested line of a quotation or invoice.
type Item = pricing.Request

// Re-export Money constructors
var (
	MXN  = types.MXN
	USD  = types.USD
	EUR  = types.EUR
	Zero = types.Zero
	Sum  = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
