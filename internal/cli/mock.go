package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tingly-dev/streambox/internal/virtualmodel"
)

// MockCommand runs a local OpenAI-compatible mock provider that streams
// canned content, useful for testing consumers without burning tokens.
func MockCommand() *cobra.Command {
	var (
		addr    string
		content string
		delayMs int
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run a local mock provider streaming canned content over SSE",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := virtualmodel.NewRegistry()
			if err := registry.Register(&virtualmodel.VirtualModel{
				ID:      "virtual-echo",
				Content: content,
				Delay:   time.Duration(delayMs) * time.Millisecond,
			}); err != nil {
				return err
			}

			handler := virtualmodel.NewHandler(registry)
			logrus.Infof("Mock provider listening on %s (model: virtual-echo)", addr)
			return handler.Router().Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8090", "listen address")
	cmd.Flags().StringVar(&content, "content", "Hello from the virtual model!", "content to stream")
	cmd.Flags().IntVar(&delayMs, "delay-ms", 50, "delay between chunks in milliseconds")

	return cmd
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
