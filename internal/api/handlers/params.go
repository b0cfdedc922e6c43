package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Use a single instance of Validate, it caches struct info.
var validate = validator.New()

// subscribeParams binds the one query parameter every /sub endpoint needs.
type subscribeParams struct {
	ID string `validate:"required"`
}

// publishParams binds /single/pub's query parameters. /broad/pub does not
// use it; that handler reads only the `id` query parameter directly.
type publishParams struct {
	ID   string `validate:"required"`
	Mode string `validate:"omitempty,oneof=shot ping_pong"`
}

func parseSubscribeParams(r *http.Request) (subscribeParams, error) {
	p := subscribeParams{ID: r.URL.Query().Get("id")}
	if err := validate.Struct(p); err != nil {
		return p, err
	}
	return p, nil
}

func parsePublishParams(r *http.Request) (publishParams, error) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "shot"
	}
	p := publishParams{ID: r.URL.Query().Get("id"), Mode: mode}
	if err := validate.Struct(p); err != nil {
		return p, err
	}
	return p, nil
}
