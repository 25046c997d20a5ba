package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/hermes/pkg/chat"
	"mercator-hq/hermes/pkg/cli"
	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/providers"
)

var chatFlags struct {
	model       string
	provider    string
	stream      bool
	chatID      string
	system      string
	temperature float64
	maxTokens   int
}

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Send a prompt and print the completion",
	Long: `Send a chat prompt to a configured provider and print the response.

With --stream the response is printed as it is generated; without it the
command waits for the complete response. Interrupting a stream with Ctrl+C
keeps the partial output that was already printed (and saves it, when
history is enabled).

Examples:
  # Ask with the default provider and model
  hermes chat "explain goroutines in one paragraph"

  # Stream from a specific provider and model
  hermes chat --stream -p anthropic -m claude-sonnet-4-5 "write a haiku about queues"

  # Continue a saved conversation
  hermes chat --chat 6fa1b2c3 "and how do I close one safely?"`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatFlags.model, "model", "m", "", "model id (default from config defaults.model)")
	chatCmd.Flags().StringVarP(&chatFlags.provider, "provider", "p", "", "provider name (default from config defaults.provider)")
	chatCmd.Flags().BoolVar(&chatFlags.stream, "stream", false, "print the response incrementally as it arrives")
	chatCmd.Flags().StringVar(&chatFlags.chatID, "chat", "", "continue an existing chat by id (requires history)")
	chatCmd.Flags().StringVar(&chatFlags.system, "system", "", "system prompt for a new conversation")
	chatCmd.Flags().Float64Var(&chatFlags.temperature, "temperature", 0, "sampling temperature (0 leaves the provider default)")
	chatCmd.Flags().IntVar(&chatFlags.maxTokens, "max-tokens", 0, "completion token limit (0 leaves the provider default)")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	req, err := buildChatRequest(ctx, a, cfg, args[0])
	if err != nil {
		return err
	}

	if chatFlags.stream {
		return streamChat(ctx, a, req)
	}

	resp, err := a.chat.Send(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(resp.Content)
	noteSavedChat(a, resp)
	return nil
}

// buildChatRequest assembles the provider-ready request: the saved
// transcript when continuing a chat, an optional system prompt for new
// conversations, and the prompt itself.
func buildChatRequest(ctx context.Context, a *app, cfg *config.Config, prompt string) (*chat.Request, error) {
	providerName := chatFlags.provider
	if providerName == "" {
		providerName = cfg.Defaults.Provider
	}
	model := chatFlags.model
	if model == "" {
		model = cfg.Defaults.Model
	}

	var messages []providers.Message
	if chatFlags.chatID != "" {
		if a.history == nil {
			return nil, cli.NewConfigError("history", "--chat requires history to be enabled")
		}
		saved, err := a.history.Messages(ctx, chatFlags.chatID)
		if err != nil {
			return nil, fmt.Errorf("failed to load chat %s: %w", chatFlags.chatID, err)
		}
		for _, m := range saved {
			messages = append(messages, providers.Message{Role: m.Role, Content: m.Content})
		}
	}
	if chatFlags.system != "" && len(messages) == 0 {
		messages = append(messages, providers.Message{Role: providers.RoleSystem, Content: chatFlags.system})
	}
	messages = append(messages, providers.Message{Role: providers.RoleUser, Content: prompt})

	return &chat.Request{
		Provider:    providerName,
		Model:       model,
		Messages:    messages,
		Temperature: chatFlags.temperature,
		MaxTokens:   chatFlags.maxTokens,
		ChatID:      chatFlags.chatID,
	}, nil
}

// streamChat prints the response as it is generated. The callback receives
// the accumulated content after every delta; printing the suffix beyond what
// is already on screen turns that into an incremental print.
func streamChat(ctx context.Context, a *app, req *chat.Request) error {
	printed := 0
	resp, err := a.chat.SendStream(ctx, req, func(content string) {
		fmt.Print(content[printed:])
		printed = len(content)
	})
	if printed > 0 {
		fmt.Println()
	}

	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			// Interrupted: the partial output stays on the terminal and,
			// when history is enabled, in the saved chat.
			noteSavedChat(a, resp)
		case resp != nil && resp.Content != "":
			fmt.Fprintln(os.Stderr, "[stream failed after partial output]")
		}
		return err
	}

	if resp.Partial {
		fmt.Fprintln(os.Stderr, "[stream ended early; response may be incomplete]")
	}
	noteSavedChat(a, resp)
	return nil
}

// noteSavedChat tells the user where a new conversation went so they can
// continue it with --chat.
func noteSavedChat(a *app, resp *chat.Response) {
	if a.history == nil || resp == nil || resp.ChatID == "" || chatFlags.chatID != "" {
		return
	}
	fmt.Fprintf(os.Stderr, "[chat saved: %s]\n", resp.ChatID)
}
