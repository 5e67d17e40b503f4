package cmd

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskdeck/internal/task"
)

func addCommand(w io.Writer, d *deps, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	description := fs.String("d", "", "Task description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	title := strings.Join(fs.Args(), " ")

	t, err := d.tasks.Add(title, *description)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "added %s: %s\n", t.ID, t.Title)
	return nil
}

func lsCommand(w io.Writer, d *deps, args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	filterName := fs.String("filter", "all", "Filter: all, active, completed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var f task.Filter
	switch *filterName {
	case "all":
		f = task.FilterAll
	case "active":
		f = task.FilterActive
	case "completed":
		f = task.FilterCompleted
	default:
		return fmt.Errorf("unknown filter: %s", *filterName)
	}

	tasks := d.tasks.Filter(f)
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return nil
	}
	for i, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "%3d [%s] %s", i+1, mark, t.Title)
		if t.Description != "" {
			fmt.Fprintf(w, "  (%s)", t.Description)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func doneCommand(w io.Writer, d *deps, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskdeck done <ref>")
	}
	id, err := resolveTask(d.tasks, args[0])
	if err != nil {
		return err
	}
	t, err := d.tasks.ToggleCompletion(id)
	if err != nil {
		return err
	}
	state := "active"
	if t.Completed {
		state = "done"
	}
	fmt.Fprintf(w, "%s: %s\n", state, t.Title)
	return nil
}

func rmCommand(w io.Writer, d *deps, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskdeck rm <ref>")
	}
	id, err := resolveTask(d.tasks, args[0])
	if err != nil {
		return err
	}
	t, err := d.tasks.Get(id)
	if err != nil {
		return err
	}
	d.tasks.Remove(id)
	fmt.Fprintf(w, "removed: %s\n", t.Title)
	return nil
}

func clearCommand(w io.Writer, d *deps) error {
	n := d.tasks.ClearCompleted()
	fmt.Fprintf(w, "cleared %d completed task(s)\n", n)
	return nil
}

func statsCommand(w io.Writer, d *deps) error {
	s := d.tasks.Stats()
	fmt.Fprintf(w, "total: %d\nactive: %d\ncompleted: %d (%d%%)\n",
		s.Total, s.Active, s.Completed, s.CompletionPercentage())
	return nil
}

// resolveTask turns a CLI reference into a task id. A reference is either
// a 1-based position in the unfiltered list or a task id.
func resolveTask(store *task.Store, ref string) (string, error) {
	tasks := store.List()
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(tasks) {
		return tasks[n-1].ID, nil
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("no task matches %q", ref)
}
