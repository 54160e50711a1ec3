package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmadqo/student-course-roster/internal/client"
	"github.com/ahmadqo/student-course-roster/internal/config"
	"github.com/ahmadqo/student-course-roster/internal/model"
)

type app struct {
	server  string
	token   string
	timeout time.Duration
	logger  *log.Logger
}

func (a *app) client() *client.Client {
	return client.New(a.server, a.token, a.timeout)
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	a := &app{logger: log.New(os.Stderr, "roster: ", 0)}

	root := &cobra.Command{
		Use:           "roster",
		Short:         "Kelola siswa dan course lewat API roster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.server, "server", cfg.Client.BaseURL, "base URL API (env ROSTER_BASE_URL)")
	root.PersistentFlags().StringVar(&a.token, "token", cfg.Client.Token, "access token (env ROSTER_TOKEN)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", cfg.Client.Timeout, "timeout tiap request")

	root.AddCommand(newLoginCmd(a), newStudentsCmd(a), newCoursesCmd(a))
	return root
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login dan cetak access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Login sebagai %s (%s)\n", session.User.Name, session.User.Role)
			fmt.Fprintf(out, "export ROSTER_TOKEN=%s\n", session.Token.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email user")
	cmd.Flags().StringVar(&password, "password", "", "password user")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

// parseInputDate menerima DD-MM-YYYY (format tampilan) atau YYYY-MM-DD
func parseInputDate(s string) (model.Date, error) {
	if d, err := model.ParseDisplayDate(s); err == nil {
		return d, nil
	}
	return model.ParseDate(s)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Printf("Tersimpan: %s (%d bytes)", path, len(data))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
