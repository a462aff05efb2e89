package task

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/cli/styles"
	"github.com/thenoetrevino/studio/internal/projection"
)

const descriptionWidth = 76

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with its checklist, comments and time log",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runShow),
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(ctx context.Context, env *handler.Env) error {
	_, view, err := openTask(ctx, env)
	if err != nil {
		return err
	}
	defer view.Close()

	task := view.Get()
	return env.Out.Success(task.TaskDetail, func(w io.Writer) {
		fmt.Fprintln(w, RenderTask(task))
	})
}

// RenderTask renders the task page as a card
func RenderTask(task *projection.TaskAggregate) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("#%d %s", task.ID, task.Title)))
	b.WriteString("\n\n")

	field := func(label, value string) {
		b.WriteString(styles.LabelStyle.Render(label+": ") + styles.ValueStyle.Render(value) + "\n")
	}
	b.WriteString(styles.LabelStyle.Render("Status: ") + styles.RenderStatus(task.Status) + "\n")
	field("Priority", string(task.Priority))
	if task.DueDate != nil {
		field("Due", task.DueDate.Format("Jan 2, 2006"))
	}
	if len(task.Assignees) > 0 {
		names := make([]string, len(task.Assignees))
		for i, u := range task.Assignees {
			names[i] = "@" + u.Name
		}
		field("Assignees", strings.Join(names, " "))
	}
	if len(task.Tags) > 0 {
		chips := make([]string, len(task.Tags))
		for i, t := range task.Tags {
			chips[i] = styles.RenderTagChip(t)
		}
		b.WriteString(styles.LabelStyle.Render("Tags: ") + strings.Join(chips, " ") + "\n")
	}
	field("Time logged", cli.FormatMinutes(task.TotalMinutes()))

	if task.Description != "" {
		b.WriteString("\n" + styles.SectionStyle.Render("Description") + "\n")
		b.WriteString(strings.TrimRight(styles.RenderMarkdown(task.Description, descriptionWidth), "\n") + "\n")
	}

	if len(task.Checklist) > 0 {
		done, total := task.ChecklistProgress()
		b.WriteString("\n" + styles.SectionStyle.Render(fmt.Sprintf("Checklist (%d/%d)", done, total)) + "\n")
		for _, item := range task.Checklist {
			mark := "[ ]"
			if item.IsDone {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "  %s %s %s\n", mark, item.Content, styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", item.ID)))
		}
	}

	if len(task.Comments) > 0 {
		b.WriteString("\n" + styles.SectionStyle.Render(fmt.Sprintf("Comments (%d)", len(task.Comments))) + "\n")
		for _, c := range task.Comments {
			author := c.Author
			if author == "" {
				author = "anonymous"
			}
			fmt.Fprintf(&b, "  %s %s\n", styles.LabelStyle.Render(author), styles.SubtitleStyle.Render(c.CreatedAt.Format("Jan 2 15:04")))
			fmt.Fprintf(&b, "    %s\n", c.Body)
		}
	}

	if len(task.TimeEntries) > 0 {
		b.WriteString("\n" + styles.SectionStyle.Render("Time log") + "\n")
		for _, e := range task.TimeEntries {
			line := fmt.Sprintf("  %s  %s", e.SpentOn.Format("2006-01-02"), cli.FormatMinutes(e.Minutes))
			if e.Note != "" {
				line += "  " + e.Note
			}
			b.WriteString(line + "\n")
		}
	}

	if len(task.Attachments) > 0 {
		b.WriteString("\n" + styles.SectionStyle.Render("Attachments") + "\n")
		for _, a := range task.Attachments {
			fmt.Fprintf(&b, "  %s %s\n", a.Name, styles.SubtitleStyle.Render(a.URL))
		}
	}

	return styles.RenderCard(strings.TrimRight(b.String(), "\n"))
}
