package cli

import (
	"context"
	"fmt"
	"os"
)

// Chat prompts the user for a question and prints the assistant's answer.
func (a *App) Chat(ctx context.Context) error {
	message, err := getSimpleText(a.reader, "Ask about your finances", os.Stdout)
	if err != nil {
		return err
	}
	if message == "" {
		return nil
	}

	answer, err := a.client.Chat(ctx, message)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}

	fmt.Printf("bot> %s\n", answer)
	return nil
}
