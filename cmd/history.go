/*
Copyright © 2021 Joseph Lewis <joseph@josephlewis.net>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/tiks/core/config"
	"github.com/josephlewis42/tiks/core/history"
	"github.com/spf13/cobra"
)

var (
	historySession string
	historyPrefix  string
	historyLimit   int
)

// historyCmd queries the persisted command history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show command lines archived from past sessions.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := history.NewStore(cfg.Path(config.HistoryDBName))
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		var commands []*history.Command
		switch {
		case historySession != "":
			commands, err = store.BySession(ctx, historySession)
		case historyPrefix != "":
			commands, err = store.Search(ctx, historyPrefix, historyLimit)
		default:
			commands, err = store.Recent(ctx, historyLimit)
		}
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tSESSION\tUSER\tDIRECTORY\tCOMMAND")
		for _, c := range commands {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				c.Timestamp.Format("2006-01-02 15:04:05"),
				c.SessionID,
				c.Username,
				c.Cwd,
				c.CommandText)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historySession, "session", "", "only show commands from this session ID")
	historyCmd.Flags().StringVar(&historyPrefix, "prefix", "", "only show commands starting with this text")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum number of commands to show")
}
