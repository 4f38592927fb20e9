package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/robaho/go-combinations/internal/classifier"
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func classifyCmd(opts *options) *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify the legs in file, or stdin, one leg per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			components, err := common.ReadComponents(in)
			if err != nil {
				return err
			}
			if server != "" {
				return classifyRemote(cmd.Context(), server, components, cmd.OutOrStdout())
			}
			r := classifier.NewService(e.library, nil, e.log).Classify(components)
			printResult(cmd.OutOrStdout(), r)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "classify on the gRPC server at host:port")
	return cmd
}

func classifyRemote(ctx context.Context, addr string, components []common.Component, out io.Writer) error {
	conn, err := grpc.DialContext(ctx, addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	legs := make([]string, 0, len(components))
	for _, c := range components {
		legs = append(legs, c.String())
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	r, err := classifier.NewGRPCClient(conn).Classify(ctx, legs)
	if err != nil {
		return err
	}
	printResult(out, r)
	return nil
}

func printResult(w io.Writer, r classifier.Result) {
	fmt.Fprintln(w, r.Name)
	if !r.Classified() {
		return
	}
	fmt.Fprintf(w, "  order %v\n", r.Order)
	for i, leg := range r.Legs {
		fmt.Fprintf(w, "  %2d %s\n", i+1, leg)
	}
}
