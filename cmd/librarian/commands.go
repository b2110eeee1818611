package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/journal"
	"github.com/AntonStoeckl/library-circulation-go/report"
)

const shutdownTimeout = 5 * time.Second

// newRootCommand builds the command tree. Flag defaults come from cfg, so a flag that is
// set on the command line overrides the environment.
func newRootCommand(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "librarian",
		Short:        "Run a library catalog and circulation demo",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.Validate()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.LibraryName, "library-name", cfg.LibraryName, "name of the library")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	flags.StringVarP(&cfg.ReportFormat, "format", "f", cfg.ReportFormat, "output format (text, json)")
	flags.BoolVar(&cfg.ObservabilityEnabled, "observability", cfg.ObservabilityEnabled, "export spans, metrics and logs via OpenTelemetry")
	flags.StringVar(&cfg.ObservabilityLogger, "observability-logger", cfg.ObservabilityLogger, "OpenTelemetry logger (bridge, direct)")

	root.AddCommand(newDemoCommand(cfg), newJournalCommand(cfg))

	return root
}

func newDemoCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Seed a library, run circulation traffic and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withScenario(cmd.Context(), *cfg, cmd.ErrOrStderr(), func(d demo) error {
				if err := d.library.CheckConsistency(); err != nil {
					return err
				}

				summary := report.Generate(d.library, report.Options{Now: time.Now(), TopLimit: cfg.ReportTopLimit})

				if cfg.ReportFormat == formatJSON {
					return report.WriteJSON(cmd.OutOrStdout(), summary)
				}

				return report.WriteText(cmd.OutOrStdout(), summary)
			})
		},
	}

	cmd.Flags().IntVar(&cfg.ReportTopLimit, "top", cfg.ReportTopLimit, "size of the ranked report sections")

	return cmd
}

func newJournalCommand(cfg *Config) *cobra.Command {
	var (
		bookID     string
		userID     string
		eventTypes []string
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Run the demo traffic and print the recorded domain events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withScenario(cmd.Context(), *cfg, cmd.ErrOrStderr(), func(d demo) error {
				var predicates []journal.Predicate
				if bookID != "" {
					predicates = append(predicates, journal.P("BookID", bookID))
				}
				if userID != "" {
					predicates = append(predicates, journal.P("UserID", userID))
				}

				entries, _ := d.journal.Query(journalFilter(eventTypes, predicates))

				if cfg.ReportFormat == formatJSON {
					return writeEntriesJSON(cmd.OutOrStdout(), entries)
				}

				return writeEntriesText(cmd.OutOrStdout(), entries)
			})
		},
	}

	cmd.Flags().StringVar(&bookID, "book", "", "only events about this book id, e.g. book-1")
	cmd.Flags().StringVar(&userID, "user", "", "only events about this user id, e.g. user-2")
	cmd.Flags().StringSliceVar(&eventTypes, "type", nil, "only events of these types, e.g. BookLentToUser")

	return cmd
}

// withScenario wires telemetry, runs the demo scenario and hands the outcome to render.
func withScenario(ctx context.Context, cfg Config, logs io.Writer, render func(demo) error) error {
	tel, err := newTelemetry(cfg, logs)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if shutdownErr := tel.shutdown(shutdownCtx); shutdownErr != nil {
			fmt.Fprintf(logs, "telemetry shutdown: %v\n", shutdownErr)
		}
	}()

	d, err := runScenario(ctx, cfg.LibraryInfo(), time.Now, tel.options...)
	if err != nil {
		return err
	}

	return render(d)
}

// journalFilter combines event types (any of) with predicates (all of).
func journalFilter(eventTypes []string, predicates []journal.Predicate) journal.Filter {
	switch {
	case len(eventTypes) == 0 && len(predicates) == 0:
		return journal.BuildFilter().MatchingAnyEvent()
	case len(predicates) == 0:
		return journal.BuildFilter().Matching().AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).Finalize()
	case len(eventTypes) == 0:
		return journal.BuildFilter().Matching().AllPredicatesOf(predicates[0], predicates[1:]...).Finalize()
	default:
		return journal.BuildFilter().
			Matching().
			AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
			AndAllPredicatesOf(predicates[0], predicates[1:]...).
			Finalize()
	}
}

type entryLine struct {
	SequenceNumber uint                `json:"sequence_number"`
	EventType      string              `json:"event_type"`
	OccurredAt     time.Time           `json:"occurred_at"`
	MessageID      string              `json:"message_id"`
	Payload        jsoniter.RawMessage `json:"payload"`
}

func entryLines(entries journal.Entries) ([]entryLine, error) {
	lines := make([]entryLine, 0, len(entries))

	for _, entry := range entries {
		metadata, err := circulation.EventMetadataFrom(entry)
		if err != nil {
			return nil, err
		}

		lines = append(lines, entryLine{
			SequenceNumber: entry.SequenceNumber,
			EventType:      entry.EventType,
			OccurredAt:     entry.OccurredAt,
			MessageID:      metadata.MessageID,
			Payload:        entry.PayloadJSON,
		})
	}

	return lines, nil
}

func writeEntriesJSON(w io.Writer, entries journal.Entries) error {
	lines, err := entryLines(entries)
	if err != nil {
		return err
	}

	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(lines)
}

func writeEntriesText(w io.Writer, entries journal.Entries) error {
	lines, err := entryLines(entries)
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		_, err = fmt.Fprintln(w, "No events found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tTYPE\tOCCURRED AT\tPAYLOAD")

	for _, line := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", line.SequenceNumber, line.EventType, line.OccurredAt.Format(time.RFC3339), line.Payload)
	}

	return tw.Flush()
}
