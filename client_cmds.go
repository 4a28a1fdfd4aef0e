package main

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"notekeep/client"
	"notekeep/model"
	"notekeep/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	httpClient = &http.Client{Timeout: 30 * time.Second}

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginTop(1)
	pinStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func apiClient() *client.Client {
	return client.New(serverURL, httpClient)
}

func addClientCommands(root *cobra.Command) {
	root.PersistentFlags().StringVar(&serverURL, "server",
		envOr("NOTEKEEP_SERVER", "http://localhost:3000"), "notekeep server base URL")

	root.AddCommand(
		newListCmd(),
		newShowCmd(),
		newAddCmd(),
		newPinCmd(),
		newArchiveCmd(),
		newIDCmd("rm", "Move a note to the trash", func(cmd *cobra.Command, id int64) error {
			page := client.NewNotesPage(apiClient(), logger)
			return page.Delete(cmd.Context(), id)
		}),
		newIDCmd("restore", "Restore a note from the trash", func(cmd *cobra.Command, id int64) error {
			return client.NewTrashPage(apiClient(), logger).Restore(cmd.Context(), id)
		}),
		newIDCmd("purge", "Delete a note permanently", func(cmd *cobra.Command, id int64) error {
			return client.NewTrashPage(apiClient(), logger).Purge(cmd.Context(), id)
		}),
		newCalendarCmd(),
		newUploadCmd(),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}

func newIDCmd(use, short string, run func(cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := run(cmd, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d: ok\n", use, id)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var (
		query    string
		sortKey  string
		desc     bool
		trash    bool
		archived bool
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List notes, filtered, sorted and grouped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := view.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			spec := view.SortSpec{Key: key}
			if desc {
				spec.Direction = view.Descending
			}
			opts := view.DefaultOptions()

			var groups []view.Group
			switch {
			case trash:
				page := client.NewTrashPage(apiClient(), logger)
				if err := page.Load(cmd.Context()); err != nil {
					return err
				}
				groups = view.Derive(page.Notes(), query, spec, opts)
			case archived:
				page := client.NewArchivePage(apiClient(), logger)
				if err := page.Load(cmd.Context()); err != nil {
					return err
				}
				groups = page.View(query, spec, opts)
			case key == view.SortByPinned:
				page := client.NewPinnedPage(apiClient(), logger)
				if err := page.Load(cmd.Context()); err != nil {
					return err
				}
				groups = page.View(query, spec, opts)
			default:
				page := client.NewNotesPage(apiClient(), logger)
				if err := page.Load(cmd.Context()); err != nil {
					return err
				}
				groups = page.View(query, spec, opts)
			}

			renderGroups(cmd.OutOrStdout(), groups, opts)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive search over title, description, category and date")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "date", "sort mode: title, date, category or pinned")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&trash, "trash", false, "list the trash")
	cmd.Flags().BoolVar(&archived, "archived", false, "list archived notes")
	cmd.MarkFlagsMutuallyExclusive("trash", "archived")
	return cmd
}

func renderGroups(w io.Writer, groups []view.Group, opts view.Options) {
	empty := true
	for _, g := range groups {
		if len(g.Notes) == 0 {
			continue
		}
		empty = false
		if g.Key != "" {
			fmt.Fprintln(w, headingStyle.Render(g.Key))
		}
		for _, n := range g.Notes {
			fmt.Fprintln(w, noteLine(n, opts))
		}
	}
	if empty {
		fmt.Fprintln(w, dimStyle.Render("no notes"))
	}
}

func noteLine(n *model.Note, opts view.Options) string {
	marker := " "
	if n.IsPinned {
		marker = pinStyle.Render("*")
	}
	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	extra := []string{view.CategoryKey(n.Category), opts.FormatDate(n.CreatedAt)}
	if n.IsArchived {
		extra = append(extra, "archived")
	}
	return fmt.Sprintf("%s %5d  %s  %s", marker, n.ID, title, dimStyle.Render(strings.Join(extra, " · ")))
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := apiClient().GetNote(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			opts := view.DefaultOptions()
			fmt.Fprintln(w, headingStyle.Render(note.Title))
			fmt.Fprintln(w, dimStyle.Render(view.CategoryKey(note.Category)+" · "+opts.FormatDate(note.CreatedAt)))
			if note.Cover != "" {
				fmt.Fprintln(w, "cover:", note.Cover)
			}
			fmt.Fprintf(w, "pinned: %t  archived: %t\n\n", note.IsPinned, note.IsArchived)
			fmt.Fprintln(w, note.Desc)
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var title, category, desc, cover string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apiClient().CreateNote(cmd.Context(), title, category, desc, cover)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created note %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category (default \""+model.DefaultCategory+"\")")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "description, may contain HTML")
	cmd.Flags().StringVar(&cover, "cover", "", "cover image URL")
	return cmd
}

// newPinCmd toggles the pinned flag of a loaded note.
func newPinCmd() *cobra.Command {
	return newIDCmd("pin", "Toggle whether a note is pinned", func(cmd *cobra.Command, id int64) error {
		page := client.NewNotesPage(apiClient(), logger)
		if err := page.Load(cmd.Context()); err != nil {
			return err
		}
		return page.TogglePin(cmd.Context(), id)
	})
}

func newArchiveCmd() *cobra.Command {
	return newIDCmd("archive", "Toggle whether a note is archived", func(cmd *cobra.Command, id int64) error {
		page := client.NewNotesPage(apiClient(), logger)
		if err := page.Load(cmd.Context()); err != nil {
			return err
		}
		return page.ToggleArchive(cmd.Context(), id)
	})
}

func newCalendarCmd() *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "cal",
		Short: "List notes by the day they were created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := view.DefaultOptions()
			page := client.NewCalendarPage(apiClient(), opts, logger)
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}

			days := page.Days()
			if day != "" {
				t, err := time.ParseInLocation(time.DateOnly, day, opts.Location)
				if err != nil {
					return fmt.Errorf("invalid day %q, want YYYY-MM-DD", day)
				}
				days = []time.Time{t}
			}

			w := cmd.OutOrStdout()
			for _, d := range days {
				notes := page.NotesOn(d)
				fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s (%d)", opts.FormatDate(d), len(notes))))
				for _, n := range notes {
					fmt.Fprintln(w, noteLine(n, opts))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "only show this day (YYYY-MM-DD)")
	return cmd
}

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a cover image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			name := filepath.Base(args[0])
			img, err := apiClient().UploadImage(cmd.Context(), name, mime.TypeByExtension(filepath.Ext(name)), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), img.URL)
			return nil
		},
	}
}
