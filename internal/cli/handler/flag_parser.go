package handler

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/models"
)

// FlagParser provides common flag extraction patterns
type FlagParser struct {
	cmd *cobra.Command
}

// NewFlagParser creates a new flag parser
func NewFlagParser(cmd *cobra.Command) *FlagParser {
	return &FlagParser{cmd: cmd}
}

// Changed reports whether the flag was given on the command line
func (p *FlagParser) Changed(name string) bool {
	f := p.cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// ProjectID extracts the project ID from --project or $STUDIO_PROJECT
func (p *FlagParser) ProjectID() (int, error) {
	return cli.GetProjectID(p.cmd)
}

// ID extracts a required positive ID from a flag
func (p *FlagParser) ID(name string) (int, error) {
	id, err := p.cmd.Flags().GetInt(name)
	if err != nil || id <= 0 {
		return 0, cli.Usage("--%s must be greater than 0", name)
	}
	return id, nil
}

// OptionalID extracts an ID flag only when it was set
func (p *FlagParser) OptionalID(name string) (*int, error) {
	return cli.OptionalID(p.cmd, name)
}

// String returns a string flag as given
func (p *FlagParser) String(name string) string {
	v, _ := p.cmd.Flags().GetString(name)
	return v
}

// RequiredString extracts a string flag that must not be blank
func (p *FlagParser) RequiredString(name string) (string, error) {
	v := strings.TrimSpace(p.String(name))
	if v == "" {
		return "", cli.Usage("--%s is required", name)
	}
	return v, nil
}

// Text returns a string flag, reading stdin when its value is "-"
func (p *FlagParser) Text(name string) (string, error) {
	return cli.ReadText(p.String(name), p.cmd.InOrStdin())
}

// OptionalText is Text for flags that were set, nil otherwise
func (p *FlagParser) OptionalText(name string) (*string, error) {
	if !p.Changed(name) {
		return nil, nil
	}
	v, err := p.Text(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Int returns an int flag
func (p *FlagParser) Int(name string) int {
	v, _ := p.cmd.Flags().GetInt(name)
	return v
}

// Bool returns a bool flag
func (p *FlagParser) Bool(name string) bool {
	v, _ := p.cmd.Flags().GetBool(name)
	return v
}

// Strings returns a repeatable string flag
func (p *FlagParser) Strings(name string) []string {
	v, _ := p.cmd.Flags().GetStringSlice(name)
	return v
}

// Duration returns a duration flag
func (p *FlagParser) Duration(name string) time.Duration {
	v, _ := p.cmd.Flags().GetDuration(name)
	return v
}

// Priority parses a priority flag; unset yields nil
func (p *FlagParser) Priority(name string) (*models.Priority, error) {
	if !p.Changed(name) {
		return nil, nil
	}
	prio, err := models.ParsePriority(p.String(name))
	if err != nil {
		return nil, cli.WithSuggestion(cli.Invalid(err), "Valid priorities are: low, medium, high, urgent")
	}
	return &prio, nil
}

// Date parses a YYYY-MM-DD flag; unset yields nil
func (p *FlagParser) Date(name string) (*time.Time, error) {
	if !p.Changed(name) {
		return nil, nil
	}
	d, err := cli.ParseDate(p.String(name))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Scope parses --scope
func (p *FlagParser) Scope() (models.Scope, error) {
	return cli.GetScope(p.cmd)
}
