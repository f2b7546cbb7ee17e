package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Rally/internal/services"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	optionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	resultStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nivelador",
		Short: "Skill level questionnaire for racket sports",
		Long: `nivelador asks the calibration questionnaire in the terminal and turns
the answers into initial points (0-2000) and a level from 1 to 20.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newLevelsCmd(), newRateCmd())
	return root
}

func newLevelsCmd() *cobra.Command {
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Print the level table",
		Long:  "Print the twenty level bands and their point ranges.",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := services.Levels()
			if asCSV {
				b, err := services.ExportLevelsCSV(table)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Nivel  Puntos"))
			for _, b := range table {
				fmt.Fprintf(out, "%5d  %d-%d\n", b.Level, b.Min, b.Max)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write the table as CSV")
	return cmd
}

func newRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <raw-score>",
		Short: "Convert a raw questionnaire score to points and level",
		Long:  "Convert a raw questionnaire score to initial points and the matching level.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("raw score must be an integer: %w", err)
			}
			res, err := services.RateScore(raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatResult(res))
			return nil
		},
	}
}

func formatResult(res services.RatingResult) string {
	return fmt.Sprintf("Puntaje total: %d\nPuntos iniciales: %d\nNivel: %d (%d-%d puntos)",
		res.RawScore, res.Rating, res.Level.Level, res.Level.Min, res.Level.Max)
}
