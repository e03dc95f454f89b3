package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/hirelytics/internal/pkg/auth"
)

func newHashPasswordCommand() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "hash-password [PASSWORD]",
		Short: "Print a bcrypt hash for the colleges config",
		Long: "Print a bcrypt hash of PASSWORD, or of the first line of stdin when no argument is given.\n" +
			"With --user the output is a ready \"user:hash\" value for colleges or COLLEGE_CODES.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			if strings.Contains(user, ":") {
				return errors.New("user must not contain ':'")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}

			if user != "" {
				hash = user + ":" + hash
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "admin username to prefix")
	return cmd
}
