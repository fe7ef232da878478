package handlers

import "github.com/go-playground/validator/v10"

// validate is shared by every handler that checks a request body beyond
// JSON shape.
var validate = validator.New()
