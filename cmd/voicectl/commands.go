package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/adapter/ai/anthropic"
	"github.com/seu-repo/voicebook/internal/adapter/ai/gemini"
	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/internal/service/auth"
	"github.com/seu-repo/voicebook/internal/service/nlu"
)

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "voicectl",
		Short:         "VoiceBook voice command tooling",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline decisions to stderr")

	logger := func() *zap.Logger {
		if !verbose {
			return zap.NewNop()
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}

	root.AddCommand(
		newResolveCmd(logger),
		newIntentsCmd(),
		newTokenCmd(logger),
		newStreamCmd(),
	)
	return root
}

type resolveOutput struct {
	Utterance string                 `json:"utterance"`
	Command   domain.ResolvedCommand `json:"command"`
	Source    string                 `json:"source"`
}

func newResolveCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		provider   string
		knownNames []string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "resolve [utterance...]",
		Short: "Classify utterances and print the resolved commands as JSON",
		Long: `Classify each argument as one utterance. Without arguments, utterances
are read from stdin, one per line. The remote fallback is only used when
--provider is set and its API key is in the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			llm, err := remoteClient(ctx, provider, log)
			if err != nil {
				return err
			}
			var fallback ports.IntentResolver
			if llm != nil {
				cfg := nlu.DefaultFallbackConfig()
				cfg.Timeout = timeout
				fallback = nlu.NewRemoteFallback(llm, cfg, log)
			}
			pipeline := nlu.NewPipeline(nlu.NewLocalMatcher(log), fallback, log)

			var cmdCtx *domain.CommandContext
			if len(knownNames) > 0 {
				cmdCtx = &domain.CommandContext{KnownNames: knownNames}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			resolve := func(u string) error {
				u = strings.TrimSpace(u)
				if u == "" {
					return nil
				}
				resolved, source := pipeline.ResolveWithSource(ctx, u, cmdCtx)
				return enc.Encode(resolveOutput{Utterance: u, Command: resolved, Source: source})
			}

			if len(args) > 0 {
				return resolve(strings.Join(args, " "))
			}
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				if err := resolve(scanner.Text()); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "remote fallback: gemini or anthropic (default offline)")
	cmd.Flags().StringSliceVar(&knownNames, "known-name", nil, "name hint for the remote classifier (repeatable)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "remote classification timeout")
	return cmd
}

func remoteClient(ctx context.Context, provider string, log *zap.Logger) (ports.LLMClient, error) {
	switch provider {
	case "":
		return nil, nil
	case "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		client, err := gemini.NewClient(ctx, gemini.Config{APIKey: key}, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return anthropic.NewClient(key, "", "", log), nil
	}
	return nil, fmt.Errorf("unknown provider %q", provider)
}

func newIntentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "List the intent catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, i := range domain.Intents() {
				fmt.Fprintln(cmd.OutOrStdout(), i)
			}
			return nil
		},
	}
}

func newTokenCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		secret   string
		issuer   string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint an access token for local development",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			svc := auth.NewJWTService(secret, issuer, duration, nil, logger())
			tok, err := svc.GenerateAccessToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "signing secret")
	cmd.Flags().StringVar(&issuer, "issuer", "voicebook", "token issuer")
	cmd.Flags().DurationVar(&duration, "ttl", time.Hour, "token lifetime")
	return cmd
}

func newStreamCmd() *cobra.Command {
	var (
		server string
		token  string
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Send stdin lines to a server's voice stream and print every frame received",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required")
			}
			u, err := streamURL(server, token)
			if err != nil {
				return err
			}

			conn, _, err := websocket.DefaultDialer.Dial(u, nil)
			if err != nil {
				return fmt.Errorf("dial %s: %w", server, err)
			}
			defer conn.Close()

			done := make(chan error, 1)
			go func() {
				for {
					_, msg, err := conn.ReadMessage()
					if err != nil {
						done <- err
						return
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(msg))
				}
			}()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				frame, _ := json.Marshal(map[string]string{"utterance": line})
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return err
				}
			}

			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case err := <-done:
				if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return nil
				}
				return err
			case <-time.After(2 * time.Second):
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "server base URL")
	cmd.Flags().StringVar(&token, "token", os.Getenv("VOICEBOOK_TOKEN"), "access token")
	return cmd
}

// streamURL turns the server base URL into the voice stream endpoint.
func streamURL(server, token string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http", "":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/voice"
	u.RawQuery = url.Values{"access_token": {token}}.Encode()
	return u.String(), nil
}
