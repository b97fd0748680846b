package contracts

import (
	"errors"
	"slices"
	"strings"
)

const (
	ErrorCategoryAPI     = "api"
	ErrorCategoryParams  = "params"
	ErrorCategoryLedger  = "ledger"
	ErrorCategoryNetwork = "network"
	ErrorCategoryFaucet  = "faucet"
)

var errorCategories = []string{
	ErrorCategoryAPI,
	ErrorCategoryParams,
	ErrorCategoryLedger,
	ErrorCategoryNetwork,
	ErrorCategoryFaucet,
}

// ErrorCategories lists every category, api first.
func ErrorCategories() []string {
	return slices.Clone(errorCategories)
}

func normalizeErrorCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if slices.Contains(errorCategories, normalized) {
		return normalized
	}
	return ErrorCategoryAPI
}

// WrapCategorizedError tags err with a category. An error chain that
// already carries one is returned as is.
func WrapCategorizedError(category string, err error) error {
	if err == nil {
		return nil
	}
	var existing *CategorizedError
	if errors.As(err, &existing) {
		return err
	}
	return &CategorizedError{Category: normalizeErrorCategory(category), Err: err}
}

// ErrorCategory reports the outermost category in err's chain, api when
// there is none.
func ErrorCategory(err error) string {
	var classified *CategorizedError
	if errors.As(err, &classified) {
		return normalizeErrorCategory(classified.Category)
	}
	return ErrorCategoryAPI
}
