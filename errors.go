package depcache

import "errors"

var (
	ErrProviderRequired  = errors.New("depcache: provider is required")
	ErrNamespaceRequired = errors.New("depcache: namespace is required")
)
