// Package main provides an operator CLI for checking the attendance API
// without going through discord.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/danielholmes839/nyutai-log-bot/internal/bot"
	"github.com/danielholmes839/nyutai-log-bot/internal/config"
	"github.com/danielholmes839/nyutai-log-bot/internal/nyutai"
)

var (
	studentsName string

	reportName string
	reportID   int
)

func main() {
	godotenv.Load()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "logcli",
		Short:         "Inspect nyutai students and entrance/exit logs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newStudentsCmd())
	rootCmd.AddCommand(newReportCmd())

	return rootCmd
}

func newStudentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List the student directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadAPI(afero.NewOsFs(), os.Getenv)
			if err != nil {
				return err
			}
			client := nyutai.NewClient(cfg.NyutaiBaseURL, cfg.NyutaiToken, cfg.HTTPTimeout)
			return runStudents(cmd.Context(), client, cmd.OutOrStdout(), studentsName)
		},
	}

	cmd.Flags().StringVar(&studentsName, "name", "", "only list students whose name contains this")
	return cmd
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the attendance log for one student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (reportName == "") == (reportID == 0) {
				return errors.New("exactly one of --name or --id is required")
			}

			cfg, err := config.LoadAPI(afero.NewOsFs(), os.Getenv)
			if err != nil {
				return err
			}
			client := nyutai.NewClient(cfg.NyutaiBaseURL, cfg.NyutaiToken, cfg.HTTPTimeout)
			return runReport(cmd.Context(), client, cfg, cmd.OutOrStdout(), reportName, nyutai.ID(reportID), time.Now())
		},
	}

	cmd.Flags().StringVar(&reportName, "name", "", "student name (must match exactly one student)")
	cmd.Flags().IntVar(&reportID, "id", 0, "student id")
	return cmd
}

func runStudents(ctx context.Context, client bot.Client, w io.Writer, name string) error {
	students, err := client.GetStudents(ctx)
	if err != nil {
		return fmt.Errorf("failed to get students: %w", err)
	}

	if name != "" {
		students = nyutai.FilterStudents(students, name)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, student := range students {
		fmt.Fprintf(tw, "%s\t%s\n", student.ID, student.Name)
	}
	return tw.Flush()
}

func findStudent(students []nyutai.Student, name string, id nyutai.ID) (nyutai.Student, error) {
	if name == "" {
		for _, student := range students {
			if student.ID == id {
				return student, nil
			}
		}
		return nyutai.Student{}, fmt.Errorf("no student with id %s", id)
	}

	matched := nyutai.FilterStudents(students, name)
	switch len(matched) {
	case 0:
		return nyutai.Student{}, fmt.Errorf("no student matching %q", name)
	case 1:
		return matched[0], nil
	}

	names := make([]string, len(matched))
	for i, student := range matched {
		names[i] = fmt.Sprintf("%s (%s)", student.Name, student.ID)
	}
	return nyutai.Student{}, fmt.Errorf("%q matches %d students: %s", name, len(matched), strings.Join(names, ", "))
}

func runReport(ctx context.Context, client bot.Client, cfg config.Config, w io.Writer, name string, id nyutai.ID, now time.Time) error {
	students, err := client.GetStudents(ctx)
	if err != nil {
		return fmt.Errorf("failed to get students: %w", err)
	}

	student, err := findStudent(students, name, id)
	if err != nil {
		return err
	}

	r := nyutai.LastDays(now.In(cfg.Location), cfg.LookbackDays)
	records, err := client.GetLogs(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}

	log, ok := nyutai.BuildAttendanceLog(student, records, cfg.Location)
	if !ok {
		_, err := fmt.Fprintln(w, cfg.Messages.NoLogs)
		return err
	}

	embed := bot.FormatAttendanceLog(log, cfg.Messages)
	_, err = fmt.Fprintf(w, "%s\n\n%s\n\n%s\n", embed.Title, embed.Description, embed.Footer.Text)
	return err
}
