package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"savekeeper/internal/title"
)

type titleView struct {
	ID          string   `json:"id"`
	Media       string   `json:"media"`
	ProductCode string   `json:"product_code"`
	Title       string   `json:"title"`
	Publisher   string   `json:"publisher"`
	SaveTypes   []string `json:"save_types"`
	Favorite    bool     `json:"favorite"`
	Shared      bool     `json:"shared"`
	BackupPath  string   `json:"backup_path,omitempty"`
}

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	var typeFlag string
	var showPaths bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "titles",
		Short: "List cataloged titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				filter    title.SaveType
				hasFilter bool
			)
			if typeFlag != "" {
				parsed, err := title.ParseSaveType(typeFlag)
				if err != nil {
					return err
				}
				filter, hasFilter = parsed, true
			}
			if showPaths && !hasFilter {
				return errors.New("--paths requires --type")
			}

			sess, err := ctx.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			outcome := sess.catalog.Load(cmd.Context(), nil)
			if outcome.Degraded {
				return fmt.Errorf("catalog incomplete: %w", outcome.Err)
			}
			sess.catalog.HotSwapCheck(cmd.Context())

			records := sess.catalog.Titles()
			if hasFilter {
				records = sess.catalog.TitlesWithType(filter)
			}

			views := make([]titleView, 0, len(records))
			for _, r := range records {
				view := newTitleView(r)
				if showPaths {
					view.BackupPath = filepath.Join(sess.cfg.Paths.BackupDir, filter.FolderName(), r.PathSafeTitle())
				}
				views = append(views, view)
			}

			if asJSON {
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			if showPaths {
				for _, v := range views {
					fmt.Fprintln(out, v.BackupPath)
				}
				return nil
			}
			if len(views) == 0 {
				fmt.Fprintln(out, "No titles")
				return nil
			}
			headers := []string{"ID", "Media", "Code", "Title", "Publisher", "Saves", "Fav"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{
					v.ID, v.Media, v.ProductCode, v.Title, v.Publisher,
					joinTypes(v.SaveTypes), yesNo(v.Favorite),
				})
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
			} else {
				fmt.Fprint(out, renderPlain(headers, rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "Only list titles with this save type (user, extdata, shared, boss, system)")
	cmd.Flags().BoolVar(&showPaths, "paths", false, "Print the backup directory of each title for --type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newTitleView(r *title.Record) titleView {
	view := titleView{
		ID:          r.ID().String(),
		Media:       r.Media().String(),
		ProductCode: r.ProductCode().String(),
		Title:       r.Title().String(),
		Publisher:   r.Publisher().String(),
		SaveTypes:   []string{},
		Favorite:    r.IsFavorite(),
		Shared:      r.IsSharedBucket(),
	}
	for _, t := range title.AllSaveTypes() {
		if r.Has(t) {
			view.SaveTypes = append(view.SaveTypes, t.String())
		}
	}
	return view
}

func joinTypes(types []string) string {
	if len(types) == 0 {
		return "none"
	}
	return strings.Join(types, ",")
}
