package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tingly-dev/streambox/internal/protocol"
	"github.com/tingly-dev/streambox/pkg/assemble"
	"github.com/tingly-dev/streambox/pkg/client"
	"github.com/tingly-dev/streambox/pkg/event"
)

// StreamCommand issues a streaming chat request and prints events as they
// arrive.
func StreamCommand() *cobra.Command {
	var (
		apiBase  string
		apiStyle string
		model    string
		token    string
		proxyURL string
		system   string
		showRaw  bool
	)

	cmd := &cobra.Command{
		Use:   "stream [prompt]",
		Short: "Stream a chat completion and print events as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("STREAMBOX_TOKEN")
			}

			provider := &client.Provider{
				Name:     "cli",
				APIBase:  apiBase,
				Token:    token,
				APIStyle: protocol.APIStyle(apiStyle),
				ProxyURL: proxyURL,
			}
			c, err := client.New(provider)
			if err != nil {
				return err
			}

			req := &client.Request{
				Model: model,
				Messages: []client.Message{
					{Role: "user", Content: args[0]},
				},
			}
			if system != "" {
				req.Messages = append([]client.Message{{Role: "system", Content: system}}, req.Messages...)
			}

			sess, err := c.StreamChat(cmd.Context(), req)
			if err != nil {
				return err
			}
			defer sess.Close()

			for sess.Next() {
				ev := sess.Current()
				switch ev.Kind {
				case event.KindText:
					fmt.Print(ev.Text)
				case event.KindThinking:
					if showRaw {
						fmt.Fprintf(os.Stderr, "[thinking] %s", ev.Text)
					}
				case event.KindToolCall:
					fmt.Fprintf(os.Stderr, "\n[tool call #%d] %s%s\n", ev.ToolCall.Index, ev.ToolCall.Name, ev.ToolCall.Arguments)
				case event.KindCompletion:
					fmt.Println()
					if ev.Usage != nil {
						logrus.Infof("Finished (%s): %d prompt + %d completion tokens",
							ev.FinishReason, ev.Usage.PromptTokens, ev.Usage.CompletionTokens)
					}
				}
			}
			return sess.Err()
		},
	}

	cmd.Flags().StringVar(&apiBase, "api-base", "https://api.openai.com/v1", "provider API base URL")
	cmd.Flags().StringVar(&apiStyle, "api-style", "openai", "provider API style (openai, anthropic, google)")
	cmd.Flags().StringVarP(&model, "model", "m", "gpt-4o-mini", "model to request")
	cmd.Flags().StringVar(&token, "token", "", "API token (defaults to $STREAMBOX_TOKEN)")
	cmd.Flags().StringVar(&proxyURL, "proxy", "", "optional HTTP or SOCKS5 proxy URL")
	cmd.Flags().StringVar(&system, "system", "", "optional system prompt")
	cmd.Flags().BoolVar(&showRaw, "thinking", false, "print reasoning deltas to stderr")

	return cmd
}

// ChatCommand issues a streaming request but prints only the assembled
// final message as JSON.
func ChatCommand() *cobra.Command {
	var (
		apiBase  string
		apiStyle string
		model    string
		token    string
	)

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Stream a chat completion and print the assembled message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("STREAMBOX_TOKEN")
			}

			c, err := client.New(&client.Provider{
				Name:     "cli",
				APIBase:  apiBase,
				Token:    token,
				APIStyle: protocol.APIStyle(apiStyle),
			})
			if err != nil {
				return err
			}

			sess, err := c.StreamChat(cmd.Context(), &client.Request{
				Model:    model,
				Messages: []client.Message{{Role: "user", Content: args[0]}},
			})
			if err != nil {
				return err
			}
			defer sess.Close()

			msg, err := assemble.Assemble(sess)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), msg)
		},
	}

	cmd.Flags().StringVar(&apiBase, "api-base", "https://api.openai.com/v1", "provider API base URL")
	cmd.Flags().StringVar(&apiStyle, "api-style", "openai", "provider API style (openai, anthropic, google)")
	cmd.Flags().StringVarP(&model, "model", "m", "gpt-4o-mini", "model to request")
	cmd.Flags().StringVar(&token, "token", "", "API token (defaults to $STREAMBOX_TOKEN)")

	return cmd
}
