package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"daylist-cli/internal/client"
	"daylist-cli/internal/model"
	"daylist-cli/internal/session"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands (talk to a running daylist server)",
	}

	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))
	cmd.AddCommand(newTasksReorderCmd(app))
	cmd.AddCommand(newTasksImportCmd(app))

	return cmd
}

func checkDate(date string) error {
	if !model.ValidDate(date) {
		return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
	}
	return nil
}

func newTasksListCmd(app *App) *cobra.Command {
	var date string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a day's tasks in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if all {
				date = ""
			} else if err := checkDate(date); err != nil {
				return writeErr(cmd, err)
			}
			items, err := c.ListTasks(cmd.Context(), date)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": taskRows(items)})
		},
	}

	cmd.Flags().StringVar(&date, "date", today(), "Day to list (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&all, "all", false, "List every date")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := c.GetTask(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, taskErr(args[0], err))
			}
			return writeOut(cmd, app, map[string]any{"data": taskDetail(t)})
		},
	}
}

func newTasksAddCmd(app *App) *cobra.Command {
	var date, title, notes, priority string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return writeErr(cmd, errors.New("missing --title"))
			}
			if err := checkDate(date); err != nil {
				return writeErr(cmd, err)
			}
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := c.CreateTask(cmd.Context(), model.Task{
				Date:     date,
				Title:    title,
				Notes:    notes,
				Priority: model.Priority(strings.ToLower(strings.TrimSpace(priority))),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": taskDetail(t)})
		},
	}

	cmd.Flags().StringVar(&date, "date", today(), "Day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes (markdown)")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority (high|medium|low)")
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	var date, title, notes, priority string

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task's fields (order changes go through reorder)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p client.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("date") {
				if err := checkDate(date); err != nil {
					return writeErr(cmd, err)
				}
				p.Date = &date
			}
			if flags.Changed("title") {
				p.Title = &title
			}
			if flags.Changed("notes") {
				p.Notes = &notes
			}
			if flags.Changed("priority") {
				v := strings.ToLower(strings.TrimSpace(priority))
				p.Priority = &v
			}
			if p == (client.TaskPatch{}) {
				return writeErr(cmd, errors.New("nothing to change (use --date, --title, --notes or --priority)"))
			}

			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := c.UpdateTask(cmd.Context(), args[0], p)
			if err != nil {
				return writeErr(cmd, taskErr(args[0], err))
			}
			return writeOut(cmd, app, map[string]any{"data": taskDetail(t)})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Move to day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority (high|medium|low)")
	return cmd
}

func newTasksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.DeleteTask(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, taskErr(args[0], err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

func newTasksReorderCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "reorder <task-id>...",
		Short: "Put the given tasks first, in the given order",
		Long: strings.TrimSpace(`
Reorder a day's list. The ids are the new order of the tasks you care about;
they move to the top, numbered from 0. Other tasks of the day keep their
relative order after them.
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDate(date); err != nil {
				return writeErr(cmd, err)
			}
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := c.ListTasks(cmd.Context(), date)
			if err != nil {
				return writeErr(cmd, err)
			}
			st := session.NewState(date, items)

			visible := make([]model.Task, 0, len(args))
			seen := map[string]bool{}
			for _, id := range args {
				t, ok := st.Lookup(id)
				if !ok {
					return writeErr(cmd, errNotFound("task on "+date, id))
				}
				if seen[id] {
					return writeErr(cmd, fmt.Errorf("task listed twice: %s", id))
				}
				seen[id] = true
				visible = append(visible, t)
			}

			p := &session.Persistor{State: st, Remote: c}
			out, err := p.Submit(cmd.Context(), visible)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": reorderResult{Outcome: out, Items: st.Snapshot()}})
		},
	}

	cmd.Flags().StringVar(&date, "date", today(), "Day (YYYY-MM-DD)")
	return cmd
}

// importFile is the YAML seed format:
//
//	tasks:
//	  - date: 2026-03-01
//	    title: Write report
//	    priority: high
//	    order: 0
type importFile struct {
	Tasks []importTask `yaml:"tasks"`
}

type importTask struct {
	Date     string `yaml:"date"`
	Title    string `yaml:"title"`
	Notes    string `yaml:"notes"`
	Priority string `yaml:"priority"`
	Order    *int   `yaml:"order"`
}

func readImportFile(path string) ([]importTask, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f importFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i, t := range f.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("%s: tasks[%d]: missing title", path, i)
		}
		if !model.ValidDate(t.Date) {
			return nil, fmt.Errorf("%s: tasks[%d]: invalid date %q", path, i, t.Date)
		}
		if t.Order != nil && *t.Order < 0 {
			return nil, fmt.Errorf("%s: tasks[%d]: negative order", path, i)
		}
	}
	return f.Tasks, nil
}

func newTasksImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create tasks from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := readImportFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			res := importResult{Created: taskRows{}}
			var req model.ReorderRequest
			for _, s := range seed {
				t, err := c.CreateTask(cmd.Context(), model.Task{
					Date:     s.Date,
					Title:    s.Title,
					Notes:    s.Notes,
					Priority: model.Priority(strings.ToLower(strings.TrimSpace(s.Priority))),
				})
				if err != nil {
					return writeErr(cmd, fmt.Errorf("import %q: %w", s.Title, err))
				}
				res.Created = append(res.Created, t)
				if s.Order != nil {
					req.Tasks = append(req.Tasks, model.ReorderEntry{ID: t.ID, Order: *s.Order})
				}
			}
			if len(req.Tasks) > 0 {
				out, err := c.UpdateOrder(cmd.Context(), req)
				if err != nil {
					return writeErr(cmd, err)
				}
				res.Outcome = &out
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
}
