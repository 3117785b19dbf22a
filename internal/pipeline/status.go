package pipeline

import (
	"context"
	"errors"

	"github.com/assistify/assistify/internal/article"
	"github.com/assistify/assistify/internal/chat"
	"github.com/assistify/assistify/internal/config"
	"github.com/assistify/assistify/internal/prompt"
)

// StatusFor maps an exchange or fetch error to a status-line message.
// A nil error renders the ready message.
func StatusFor(ui config.UI, err error) string {
	if err == nil {
		return ui.Ready
	}

	var apiErr *chat.APIError
	var fetchErr *article.FetchError

	switch {
	case errors.Is(err, prompt.ErrNoInput):
		return ui.ErrorNoInput
	case errors.Is(err, article.ErrNoURL), errors.Is(err, article.ErrInvalidURL):
		return ui.ErrorNoURL
	case errors.As(err, &fetchErr):
		return ui.ErrorLoadArticle
	case errors.As(err, &apiErr):
		return ui.Warning + " " + chat.Truncate(apiErr.Message, chat.DisplayLimit) + " ..."
	case errors.Is(err, ErrBusy):
		return ui.Waiting
	case errors.Is(err, context.Canceled):
		return ui.Ready
	default:
		return ui.Error + " " + chat.Truncate(err.Error(), chat.DisplayLimit)
	}
}
