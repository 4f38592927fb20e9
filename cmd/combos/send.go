package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/robaho/go-combinations/pkg/connector"
	"github.com/spf13/cobra"
)

type reply struct {
	clOrdID  string
	accepted bool
	text     string
}

func sendCmd(opts *options) *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "send [file]",
		Short: "Send the legs in file, or stdin, as a NewOrderMultileg to a running server",
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

			replies := make(chan reply, 1)
			c := connector.NewConnector(e.props.GetString("fix.client", "configs/qf_client_settings"), func(clOrdID string, accepted bool, text string) {
				select {
				case replies <- reply{clOrdID, accepted, text}:
				default:
				}
			}, e.log)
			if err := c.Connect(30 * time.Second); err != nil {
				return err
			}
			defer c.Disconnect()

			id, err := c.Send(components)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			select {
			case r := <-replies:
				if r.accepted {
					fmt.Fprintf(out, "order %s accepted: %s\n", r.clOrdID, r.text)
				} else {
					fmt.Fprintf(out, "order %s rejected: %s\n", r.clOrdID, r.text)
				}
			case <-time.After(wait):
				return errors.Errorf("no reply to order %s after %s", id, wait)
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Second, "how long to wait for the reply")
	return cmd
}
