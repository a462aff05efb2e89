package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/models"
)

// ProjectEnv holds the project used when --project is not given
const ProjectEnv = "STUDIO_PROJECT"

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateColorHex validates that a color string is in valid hex format #RRGGBB
func ValidateColorHex(color string) error {
	if !hexColor.MatchString(color) {
		return fmt.Errorf("color must be in hex format #RRGGBB (e.g., #FF0000), got: %s", color)
	}
	return nil
}

// GetProjectID returns --project, falling back to $STUDIO_PROJECT
func GetProjectID(cmd *cobra.Command) (int, error) {
	if f := cmd.Flags().Lookup("project"); f != nil && f.Changed {
		id, err := cmd.Flags().GetInt("project")
		if err != nil || id <= 0 {
			return 0, Usage("--project must be a positive integer")
		}
		return id, nil
	}

	if env := os.Getenv(ProjectEnv); env != "" {
		id, err := strconv.Atoi(env)
		if err != nil || id <= 0 {
			return 0, Usage("invalid %s: %q", ProjectEnv, env)
		}
		return id, nil
	}
	return 0, Usage("no project selected: pass --project or run 'eval $(studio use project <id>)'")
}

// ParseID parses a positive integer argument
func ParseID(what, s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || id <= 0 {
		return 0, Usage("invalid %s ID: %s", what, s)
	}
	return id, nil
}

// OptionalID returns a pointer to the value of an int flag when it was set
func OptionalID(cmd *cobra.Command, name string) (*int, error) {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil, nil
	}
	id, err := cmd.Flags().GetInt(name)
	if err != nil || id <= 0 {
		return nil, Usage("--%s must be a positive integer", name)
	}
	return &id, nil
}

// GetScope parses the --scope flag (global, client:<id> or project:<id>)
func GetScope(cmd *cobra.Command) (models.Scope, error) {
	raw, _ := cmd.Flags().GetString("scope")
	scope, err := models.ParseScope(raw)
	if err != nil {
		return models.Scope{}, Invalid(err)
	}
	return scope, nil
}

// ReadText returns value, or all of stdin when value is "-"
func ReadText(value string, stdin io.Reader) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", &CommandError{Code: ExitDataErr, Err: fmt.Errorf("failed to read stdin: %w", err)}
	}
	return string(data), nil
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, Invalid(fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s))
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM month
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, Invalid(fmt.Errorf("invalid month %q (want YYYY-MM)", s))
	}
	return t, nil
}

// FormatMinutes renders minutes as "1h 30m"
func FormatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
