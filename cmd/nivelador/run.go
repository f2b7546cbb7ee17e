package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Rally/internal/services"
)

const localUser = "local"

func newRunCmd() *cobra.Command {
	var (
		bankPath string
		sports   []string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Answer the questionnaire for one or more sports",
		Long: `Run the questionnaire once per sport. Answer each question with the
option number; type "o" to skip the current sport.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bank := services.DefaultBank()
			if bankPath != "" {
				b, err := services.LoadBank(bankPath)
				if err != nil {
					return err
				}
				bank = b
			}
			log := logrus.New()
			log.SetOutput(io.Discard)
			if verbose {
				log.SetOutput(cmd.ErrOrStderr())
				log.SetLevel(logrus.DebugLevel)
			}
			store := newLocalStore(sports)
			svc := services.NewCalibrationService(store, bank, log)
			s := &session{in: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			return s.run(cmd.Context(), svc, store)
		},
	}
	cmd.Flags().StringVar(&bankPath, "bank", "", "YAML question bank (default: built-in)")
	cmd.Flags().StringSliceVar(&sports, "sport", []string{"Tenis"}, "Sport to calibrate, repeatable")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log calibration events to stderr")
	return cmd
}

var errSkip = errors.New("skip sport")

type session struct {
	in  *bufio.Scanner
	out io.Writer
}

func (s *session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *session) run(ctx context.Context, svc *services.CalibrationService, store *localStore) error {
	flow, err := svc.Begin(ctx, localUser)
	if err != nil {
		return err
	}
	for flow.State() != services.StateAllCalibrated {
		sess := flow.Session()
		if flow.State() == services.StateAwaitingAnswer && len(sess.Answers) == 0 {
			fmt.Fprintln(s.out, titleStyle.Render("== "+sess.Sport.Name+" =="))
		}
		switch flow.State() {
		case services.StateAwaitingAnswer:
			idx, err := s.ask(sess.Batch.Questions[0])
			if errors.Is(err, errSkip) {
				fmt.Fprintf(s.out, "%s omitido.\n", sess.Sport.Name)
				if err := flow.Skip(); err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			if _, err := flow.Answer(services.AnswerInput{QuestionID: sess.Batch.Questions[0].ID, Option: &idx}); err != nil {
				return err
			}
		case services.StateSportComplete:
			sport, res, _ := flow.Pending()
			fmt.Fprintln(s.out, boxStyle.Render(resultStyle.Render(sport.Name)+"\n"+formatResult(res)))
			ok, err := s.confirm("¿Guardar estos puntos? [s/n] ")
			if err != nil {
				return err
			}
			if ok {
				if _, _, err := svc.Accept(ctx, localUser, flow); err != nil {
					return err
				}
			} else if err := flow.Skip(); err != nil {
				return err
			}
		}
	}
	s.summary(ctx, store)
	return nil
}

// ask prompts until a valid option number is entered and returns its index.
func (s *session) ask(q services.Question) (int, error) {
	fmt.Fprintf(s.out, "\n%d. %s\n", q.ID, q.Text)
	for i, o := range q.Options {
		fmt.Fprintln(s.out, optionStyle.Render(fmt.Sprintf("  %d) %s", i+1, o.Text)))
	}
	for {
		fmt.Fprint(s.out, "> ")
		line, err := s.readLine()
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(line, "o") {
			return 0, errSkip
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(q.Options) {
			return n - 1, nil
		}
		fmt.Fprintln(s.out, errorStyle.Render(fmt.Sprintf("Opción inválida, elige un número entre 1 y %d.", len(q.Options))))
	}
}

func (s *session) confirm(prompt string) (bool, error) {
	for {
		fmt.Fprint(s.out, prompt)
		line, err := s.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "s", "si", "sí", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (s *session) summary(ctx context.Context, store *localStore) {
	list, _ := store.ListUserSports(ctx, localUser)
	fmt.Fprintln(s.out, titleStyle.Render("\nResumen"))
	for _, us := range list {
		if !us.Calibrated() {
			fmt.Fprintf(s.out, "  %s: sin calibrar\n", us.Sport.Name)
			continue
		}
		info, err := services.LevelFor(us.Points.InitPoints)
		if err != nil {
			fmt.Fprintf(s.out, "  %s: %d puntos\n", us.Sport.Name, us.Points.InitPoints)
			continue
		}
		fmt.Fprintf(s.out, "  %s: %d puntos, nivel %d\n", us.Sport.Name, us.Points.InitPoints, info.Level)
	}
}
