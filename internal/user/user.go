// Package user works out which workspace member is running a command
package user

import (
	"os"
	osuser "os/user"
	"strings"

	"github.com/thenoetrevino/studio/internal/models"
)

// Env names the workspace member explicitly, ahead of the login name
const Env = "STUDIO_USER"

// CurrentName returns $STUDIO_USER, else the login name of the process owner, else
// $USER. Empty when none is known.
func CurrentName() string {
	if name := strings.TrimSpace(os.Getenv(Env)); name != "" {
		return name
	}
	if u, err := osuser.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

// Find returns the member whose name, or the local part of whose email, matches
// login case-insensitively
func Find(users []*models.User, login string) *models.User {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil
	}
	for _, u := range users {
		if strings.EqualFold(u.Name, login) {
			return u
		}
	}
	for _, u := range users {
		local, _, ok := strings.Cut(u.Email, "@")
		if ok && strings.EqualFold(local, login) {
			return u
		}
	}
	return nil
}
