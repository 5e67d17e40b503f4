package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/pagination"
	"taskdeck/internal/posts"
)

func postsCommand(ctx context.Context, w io.Writer, d *deps, args []string) error {
	fs := flag.NewFlagSet("posts", flag.ContinueOnError)
	page := fs.Int("page", 1, "Page to fetch")
	user := fs.Int("user", 0, "Only posts by this user id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *user > 0 {
		items, err := d.client.PostsByUser(ctx, *user)
		if err != nil {
			return err
		}
		u, err := d.client.User(ctx, *user)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d post(s) by %s\n\n", len(items), u.Name)
		for _, p := range items {
			fmt.Fprintf(w, "#%d %s\n", p.ID, p.Title)
		}
		return nil
	}

	result, err := d.aggregator.FetchPage(ctx, posts.PageRequest{
		Page: *page,
		Size: d.cfg.PostsPerPage,
	})
	if err != nil {
		return err
	}
	printPage(w, result)
	return nil
}

func searchCommand(ctx context.Context, w io.Writer, d *deps, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	page := fs.Int("page", 1, "Page of results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("usage: taskdeck search <query>")
	}

	result, err := d.aggregator.Search(ctx, posts.SearchRequest{
		Query: query,
		Page:  *page,
		Size:  d.cfg.PostsPerPage,
	})
	if err != nil {
		return err
	}
	if result.Total == 0 {
		fmt.Fprintf(w, "no posts match %q\n", query)
		return nil
	}
	printPage(w, result)
	return nil
}

func printPage(w io.Writer, result posts.PageResult[posts.EnrichedPost]) {
	for _, p := range result.Data {
		author := "unknown"
		if p.User != nil {
			author = p.User.Name
		}
		fmt.Fprintf(w, "#%d %s\n    by %s\n", p.ID, p.Title, author)
	}

	window := pagination.Window(result.Page, result.TotalPages, pagination.DefaultMaxVisible)
	marks := make([]string, 0, len(window))
	for _, n := range window {
		if n == result.Page {
			marks = append(marks, fmt.Sprintf("[%d]", n))
		} else {
			marks = append(marks, fmt.Sprintf("%d", n))
		}
	}
	fmt.Fprintf(w, "\npage %d of %d (%d total)  %s\n",
		result.Page, result.TotalPages, result.Total, strings.Join(marks, " "))
}
