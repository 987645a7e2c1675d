package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/service"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveBackend string
	serveModel   string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides serve.addr)")
	serveCmd.Flags().StringVarP(&serveBackend, "backend", "b", "", fmt.Sprintf("Reply backend: %v (overrides reply.backend)", service.Backends))
	serveCmd.Flags().StringVarP(&serveModel, "model", "m", "", "Provider model (overrides reply.model)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reply service the chat talks to",
	Long: `Serve POST /api/chat: the body is {"messages":[{"role","content"}...]} and
the reply streams back as plain UTF-8 text.

The built-in "coach" backend answers offline from your profile. The openai,
anthropic and gemini backends need reply.key and reply.model in the config
file or FITBOT_REPLY_KEY / FITBOT_REPLY_MODEL in the environment.

GET /healthz reports liveness and GET /metrics exposes Prometheus metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := data.NewConfigStore()
		serve := store.GetServeSettings()
		reply := store.GetReplySettings()
		if serveAddr != "" {
			serve.Addr = serveAddr
		}
		if serveBackend != "" {
			reply.Backend = serveBackend
		}
		if serveModel != "" {
			reply.Model = serveModel
		}

		service.UseServerFormat()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		profiles := data.NewProfileStore()
		replier, err := service.NewReplier(ctx, reply, profiles)
		if err != nil {
			return err
		}
		service.Debugf("Reply backend %s, model %q", replier.Name(), reply.Model)

		return service.NewServer(serve.Addr, replier, profiles).Run(ctx)
	},
}
