package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
	Out   io.Writer
	Err   io.Writer
}

// AddOutputFlags registers --json and --quiet on cmd
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

// NewFormatter builds a formatter from the output flags of cmd, writing to the
// command's output streams
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// Success outputs a successful result. In quiet mode only IDs are printed (one per
// line for lists); human renders everything else, falling back to %+v when nil.
func (f *OutputFormatter) Success(data any, human func(w io.Writer)) error {
	if f.Quiet {
		if f.printIDs(data) {
			return nil
		}
	}

	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	if f.Quiet {
		return nil
	}
	if human != nil {
		human(f.out())
		return nil
	}
	return f.prettyPrint(data)
}

// Result is the output of a write that returns no record
type Result struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// GetID returns the ID of the changed record
func (r *Result) GetID() int { return r.ID }

// Done outputs a Result for the record id
func (f *OutputFormatter) Done(id int, message string) error {
	return f.Success(&Result{ID: id, Message: message}, func(w io.Writer) {
		fmt.Fprintln(w, message)
	})
}

type idGetter interface{ GetID() int }

// printIDs prints the ID of data, or of each element when data is a slice
func (f *OutputFormatter) printIDs(data any) bool {
	if g, ok := data.(idGetter); ok {
		fmt.Fprintf(f.out(), "%d\n", g.GetID())
		return true
	}

	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return false
	}
	for i := range v.Len() {
		g, ok := v.Index(i).Interface().(idGetter)
		if !ok {
			return false
		}
		fmt.Fprintf(f.out(), "%d\n", g.GetID())
	}
	return true
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	fmt.Fprintf(f.errOut(), "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(f.errOut(), "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}

// Fail reports err and returns it for the command to exit with. Errors that carry no
// exit code get one from their gateway classification.
func (f *OutputFormatter) Fail(err error) error {
	_ = f.ErrorWithSuggestion(ErrorCode(err), errorMessage(err), suggestionOf(err))
	var exit *CommandError
	if errors.As(err, &exit) {
		return err
	}
	return &CommandError{Code: ExitCode(err), Err: err}
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data any) error {
	_, err := fmt.Fprintf(f.out(), "%+v\n", data)
	return err
}
