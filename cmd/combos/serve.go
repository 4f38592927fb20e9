package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/quickfixgo/quickfix"
	"github.com/robaho/go-combinations/internal/classifier"
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/spf13/cobra"
)

func serveCmd(opts *options) *cobra.Command {
	var console bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the FIX acceptor, the gRPC server and the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), e, console, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&console, "console", true, "read commands from stdin")
	return cmd
}

func serve(ctx context.Context, e *env, console bool, in io.Reader, out io.Writer) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	service := classifier.NewService(e.library, classifier.NewMetrics(reg), e.log)

	if fix := e.props.GetString("fix.settings", ""); fix != "" {
		acceptor, err := startAcceptor(fix, service, e)
		if err != nil {
			return err
		}
		defer acceptor.Stop()
		e.log.Info().Str("settings", fix).Msg("fix acceptor started")
	}

	if port := e.props.GetInt("grpc.port", 0); port != 0 {
		gs, err := classifier.StartGRPCServer(fmt.Sprintf(":%d", port), service, e.log)
		if err != nil {
			return err
		}
		defer gs.GracefulStop()
		e.log.Info().Int("port", port).Msg("grpc server started")
	}

	port := e.props.GetInt("web.port", 8080)
	ws, err := classifier.NewWebServer(service, classifier.WebConfig{
		TemplateDir: e.props.GetString("web.templates", "web/templates/"),
		Watch:       e.props.GetBool("web.watch", false),
		Gatherer:    reg,
	}, e.log)
	if err != nil {
		return err
	}
	srv := ws.Start(fmt.Sprintf(":%d", port))
	defer func() {
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	e.log.Info().Int("port", port).Msg("web server access available")

	if !console {
		<-ctx.Done()
		return nil
	}
	return runConsole(ctx, service, in, out)
}

func startAcceptor(file string, service *classifier.Service, e *env) (*quickfix.Acceptor, error) {
	cfg, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer cfg.Close()

	appSettings, err := quickfix.ParseSettings(cfg)
	if err != nil {
		return nil, err
	}
	storeFactory := quickfix.NewMemoryStoreFactory()
	useLogging, _ := appSettings.GlobalSettings().BoolSetting("Logging")
	var logFactory quickfix.LogFactory
	if useLogging {
		logFactory = quickfix.NewScreenLogFactory()
	} else {
		logFactory = quickfix.NewNullLogFactory()
	}
	app := classifier.NewFIXApp(service, e.props.GetBool("fix.reject_unclassified", true), e.log)
	acceptor, err := quickfix.NewAcceptor(app, storeFactory, appSettings, logFactory)
	if err != nil {
		return nil, err
	}
	if err := acceptor.Start(); err != nil {
		return nil, err
	}
	return acceptor, nil
}

// runConsole reads commands until quit, end of input or cancellation
func runConsole(ctx context.Context, service *classifier.Service, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, "use 'help' to get a list of commands")
	fmt.Fprint(out, "Command?")

	var legs []string
	collecting := false
	for {
		var s string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case s, ok = <-lines:
			if !ok {
				return nil
			}
		}

		if collecting {
			if strings.TrimSpace(s) != "" {
				legs = append(legs, s)
				continue
			}
			collecting = false
			components, err := common.ParseComponents(legs)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
			} else {
				printResult(out, service.Classify(components))
			}
			legs = nil
			fmt.Fprint(out, "Command?")
			continue
		}

		parts := strings.Fields(s)
		switch {
		case len(parts) == 0:
		case parts[0] == "help":
			fmt.Fprintln(out, "The available commands are: quit, patterns, stats, reset, classify [LEG;LEG...]")
		case parts[0] == "quit":
			return nil
		case parts[0] == "patterns":
			for i, name := range service.Patterns() {
				fmt.Fprintf(out, "%2d %s\n", i+1, name)
			}
		case parts[0] == "stats":
			fmt.Fprintln(out, service.Stats().Snapshot())
		case parts[0] == "reset":
			service.Stats().Reset()
		case parts[0] == "classify" && len(parts) == 1:
			fmt.Fprintln(out, "enter one leg per line, end with an empty line")
			collecting = true
			continue
		case parts[0] == "classify":
			r, err := service.ClassifyLines(strings.Split(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "classify")), ";"))
			if err != nil {
				fmt.Fprintln(out, "error:", err)
			} else {
				printResult(out, r)
			}
		default:
			fmt.Fprintln(out, "Unknown command, '", s, "' use 'help'")
		}
		fmt.Fprint(out, "Command?")
	}
}
