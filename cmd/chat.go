package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var chatID int64

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot on the terminal",
	Long: `Runs the conversation on stdin and stdout, one message per line.
Menu buttons are typed by their label or English alias (expense, income,
transfer, accounts, recent, new account, statement, dated statement,
bank message). Bank messages must fit on one line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		return runChat(cmd.Context(), a.bot, chatID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().Int64Var(&chatID, "chat-id", 1, "chat identifier for the session")
}

type turner interface {
	Turn(ctx context.Context, chatID int64, text string) []string
}

func runChat(ctx context.Context, bot turner, id int64, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for _, reply := range bot.Turn(ctx, id, "/start") {
		fmt.Fprintln(out, reply)
	}
	fmt.Fprint(out, "> ")

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		text := scanner.Text()
		if text == "" {
			fmt.Fprint(out, "> ")
			continue
		}
		for _, reply := range bot.Turn(ctx, id, text) {
			fmt.Fprintln(out, reply)
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
