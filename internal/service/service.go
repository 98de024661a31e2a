// Package service contains the business logic between the HTTP layer and the store.
package service

import (
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()
