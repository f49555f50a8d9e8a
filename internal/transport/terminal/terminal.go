// Package terminal runs the chat as a line-oriented console session.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"credit-agent/internal/usecase"
)

const (
	greeting = "Ipak Yo'li Bank Chatbotiga xush kelibsiz! Matn yozing.\nChiqish uchun 'exit', yangi suhbat uchun 'reset' yozing."
	farewell = "Xayr, yana ko'rishamiz!"
	prompt   = "Siz: "
)

type ChatUseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
	Reset(ctx context.Context, sessionID string) error
}

// Run reads one utterance per line from in until EOF, "exit" or ctx is done.
// The whole run is one session.
func Run(ctx context.Context, uc ChatUseCase, in io.Reader, out io.Writer) error {
	if uc == nil {
		return errors.New("terminal: use case must not be nil")
	}
	scanner := bufio.NewScanner(in)
	sessionID := ""

	fmt.Fprintln(out, greeting)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "exit":
			fmt.Fprintln(out, farewell)
			return nil
		case "reset":
			if sessionID != "" {
				if err := uc.Reset(ctx, sessionID); err != nil && !isNotFound(err) {
					return err
				}
				sessionID = ""
			}
			fmt.Fprintln(out, "Bot: Yangi suhbat boshlandi.")
			continue
		}

		res, err := uc.Chat(ctx, usecase.ChatInput{Message: line, SessionID: sessionID})
		if err != nil {
			var ucErr *usecase.Error
			if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidInput {
				fmt.Fprintf(out, "Bot: Xabar qabul qilinmadi (%s).\n", ucErr.Reason)
				continue
			}
			return err
		}
		sessionID = res.SessionID
		fmt.Fprintln(out, "Bot:", res.Reply)
	}
}

func isNotFound(err error) bool {
	var ucErr *usecase.Error
	return errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorNotFound
}
