package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/terminology-bot/internal/app"
	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// defaultTerms is the initial glossary.
var defaultTerms = []string{"juba", "fixation", "valet", "wallet", "hydrocolloid"}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.OpenStore(cmd.Context(), e.cfg, e.logger, true)
			if err != nil {
				return err
			}
			defer store.Close()

			e.logger.Info("migrations up to date")
			return nil
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [name...]",
		Short: "Add terms unless a term with the same name exists",
		Long:  "Adds the given names, or the default glossary when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = defaultTerms
			}

			store, err := app.OpenStore(cmd.Context(), e.cfg, e.logger, false)
			if err != nil {
				return err
			}
			defer store.Close()

			var created int
			for _, name := range names {
				t, isNew, err := store.Terms.CreateIfAbsent(cmd.Context(), domain.NormalizeText(name))
				if err != nil {
					return fmt.Errorf("seed %q: %w", name, err)
				}
				if isNew {
					created++
				}
				e.logger.Info("term seeded",
					slog.String("term_id", t.ID.String()),
					slog.String("name", t.Name),
					slog.Bool("created", isNew),
				)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d terms created\n", created, len(names))
			return nil
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.OpenStore(cmd.Context(), e.cfg, e.logger, false)
			if err != nil {
				return err
			}
			defer store.Close()

			terms, err := store.Terms.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPART OF SPEECH\tMEDIA")
			for _, t := range terms {
				pos := "-"
				if t.PartOfSpeech != nil {
					pos = t.PartOfSpeech.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.ID, t.Name, pos, len(t.AttachedMedia()))
			}
			return w.Flush()
		},
	}
}

func newPublishCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <term-id>",
		Short: "Publish a term and its media to the wiki",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid term id %q: %w", args[0], err)
			}

			store, err := app.OpenStore(cmd.Context(), e.cfg, e.logger, false)
			if err != nil {
				return err
			}
			defer store.Close()

			publisher, err := store.NewPublisher(e.cfg.Wiki, e.logger)
			if err != nil {
				return err
			}

			page, err := publisher.Publish(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %q with %d media files\n", page.Title, len(page.Media))
			return nil
		},
	}
}
