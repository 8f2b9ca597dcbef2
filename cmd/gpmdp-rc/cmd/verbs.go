package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/command"
)

// verbArgs bounds the positional arguments of each verb. Value checks are
// left to command.Parse.
var verbArgs = map[string]cobra.PositionalArgs{
	"auth":      cobra.NoArgs,
	"status":    cobra.NoArgs,
	"play":      cobra.MaximumNArgs(1),
	"pause":     cobra.NoArgs,
	"next":      cobra.NoArgs,
	"prev":      cobra.NoArgs,
	"replay":    cobra.NoArgs,
	"seek":      cobra.ExactArgs(1),
	"lyrics":    cobra.NoArgs,
	"thumbs":    cobra.ExactArgs(1),
	"shuffle":   cobra.ExactArgs(1),
	"repeat":    cobra.ExactArgs(1),
	"queue":     cobra.NoArgs,
	"clear":     cobra.NoArgs,
	"playlists": cobra.NoArgs,
	"playlist":  cobra.ExactArgs(1),
	"search":    cobra.MinimumNArgs(1),
	"results":   cobra.MaximumNArgs(1),
	"volume":    cobra.MaximumNArgs(1),
}

var verbCompletions = map[string][]string{
	"seek":    {"forward", "backward"},
	"thumbs":  {"up", "down"},
	"shuffle": {"on", "off"},
	"repeat":  {"all", "single", "off"},
	"volume":  {"up", "down"},
}

func init() {
	for _, entry := range command.Entries() {
		rootCmd.AddCommand(newVerbCommand(entry))
	}
}

func newVerbCommand(entry command.Entry) *cobra.Command {
	verb := entry.Verb
	c := &cobra.Command{
		Use:       entry.Usage,
		Short:     entry.Short,
		Args:      verbArgs[verb],
		ValidArgs: verbCompletions[verb],
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(cmd, append([]string{verb}, args...))
		},
	}

	if verb == "seek" {
		c.Long = `Seek within the current track by a relative number of seconds, or
10 seconds forward or backward.

Examples:
  gpmdp-rc seek 30
  gpmdp-rc seek -10
  gpmdp-rc seek backward`
		c.DisableFlagParsing = true
		c.Args = cobra.ArbitraryArgs
		c.RunE = runSeek
	}

	return c
}
