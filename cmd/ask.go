package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/internal/ui"
	"github.com/activebook/fitbot/service"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	askOutput   string
	askEndpoint string
)

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askOutput, "output", "o", "", "Also write the reply to this file")
	askCmd.Flags().StringVarP(&askEndpoint, "endpoint", "e", "", "Reply service URL (overrides chat.endpoint)")
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the coach one question and stream the answer",
	Long: `Send a single question to the reply service and print the answer as it
streams in. The question may also be piped on stdin.

  fitbot ask "How many rest days do I need?"
  echo "Best post-workout snack?" | fitbot ask`,
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if stdin := strings.TrimSpace(readStdin()); stdin != "" {
			if question != "" {
				question += "\n\n"
			}
			question += stdin
		}
		if question == "" {
			return fmt.Errorf("no question given")
		}

		settings := data.NewConfigStore().GetChatSettings()
		if askEndpoint != "" {
			settings.Endpoint = askEndpoint
		}

		p, err := loadProfile()
		if err != nil {
			service.Warnf("Failed to load profile: %v", err)
		}

		out := cmd.OutOrStdout()
		return askQuestion(cmd.Context(), askOptions{
			question:  question,
			settings:  settings,
			profile:   p,
			output:    askOutput,
			out:       out,
			tty:       out == os.Stdout && ui.IsInteractive(),
			termWidth: ui.GetTerminalWidth(),
		})
	},
}

type askOptions struct {
	question  string
	settings  data.ChatSettings
	profile   *data.UserProfile
	output    string
	out       io.Writer
	tty       bool
	termWidth int
}

// askQuestion streams one reply to opts.out and the optional output file.
// A failed reply is returned as an error carrying the apology.
func askQuestion(ctx context.Context, opts askOptions) error {
	printer := &askPrinter{out: opts.out, tty: opts.tty, termWidth: opts.termWidth}
	if opts.output != "" {
		fr, err := ui.NewFileRenderer(opts.output)
		if err != nil {
			return err
		}
		defer fr.Close()
		printer.files = append(printer.files, fr)
	}

	indicator := ui.GetIndicator()
	printer.indicator = indicator
	assembler := service.NewAssembler(
		service.NewChat(opts.profile),
		service.NewHTTPTransport(opts.settings.Endpoint, opts.settings.HeaderTimeout),
		printer.observe,
	)
	indicator.Start(ui.IndicatorConnecting)
	turn, err := assembler.Submit(ctx, opts.question)
	indicator.Stop()
	if err != nil {
		return err
	}
	if turn.State == service.TurnFailed {
		service.Debugf("Reply failed: %v", turn.Reason)
		return errors.New(turn.Content)
	}
	return nil
}

// askPrinter echoes deltas as they arrive. When the reply fails, the files are
// rewritten to hold only the apology and, on a terminal, the partial text is
// erased.
type askPrinter struct {
	out       io.Writer
	files     []*ui.FileRenderer
	indicator *ui.Indicator
	tty       bool
	termWidth int
	partial   strings.Builder
}

func (p *askPrinter) observe(n service.StreamNotify) {
	switch n.Status {
	case service.StatusData:
		p.stopIndicator()
		p.partial.WriteString(n.Data)
		fmt.Fprint(p.out, n.Data)
		for _, f := range p.files {
			f.Write(n.Data)
		}
	case service.StatusFinished:
		p.stopIndicator()
		fmt.Fprintln(p.out)
		for _, f := range p.files {
			f.Writeln()
		}
	case service.StatusError:
		p.stopIndicator()
		p.discardPartial()
		for _, f := range p.files {
			if err := f.Reset(); err != nil {
				service.Warnf("Failed to rewrite output file: %v", err)
				continue
			}
			f.Writeln(n.Turn.Content)
		}
	}
}

func (p *askPrinter) stopIndicator() {
	if p.indicator != nil {
		p.indicator.Stop()
	}
}

// discardPartial erases streamed text from a terminal. Other writers only get
// the line terminated.
func (p *askPrinter) discardPartial() {
	if p.partial.Len() == 0 {
		return
	}
	text := p.partial.String()
	p.partial.Reset()
	if !p.tty {
		fmt.Fprintln(p.out)
		return
	}
	termenv.NewOutput(p.out).ClearLines(rowsAbove(text, p.termWidth))
	fmt.Fprint(p.out, "\r")
}

// rowsAbove counts the terminal rows text occupies above the cursor line.
func rowsAbove(text string, width int) int {
	rows := 0
	for _, line := range strings.Split(text, "\n") {
		w := ansi.PrintableRuneWidth(line)
		if width > 0 && w > width {
			rows += (w - 1) / width
		}
		rows++
	}
	return rows - 1
}
