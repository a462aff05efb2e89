package gateway

import (
	"strings"

	"github.com/thenoetrevino/studio/internal/models"
)

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if len(name) > models.MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if len(title) > models.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	if len(body) > models.MaxCommentLength {
		return "", ErrBodyTooLong
	}
	return body, nil
}

func validateIDs(ids ...int) error {
	for _, id := range ids {
		if id <= 0 {
			return ErrInvalidID
		}
	}
	return nil
}
