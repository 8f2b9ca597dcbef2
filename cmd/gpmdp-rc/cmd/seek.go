package cmd

import (
	"errors"
	"regexp"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var seekOffset = regexp.MustCompile(`^[+-]?[0-9]+$`)

// runSeek parses its own flags so that negative offsets such as "-10" are
// not mistaken for shorthand flags.
func runSeek(cmd *cobra.Command, args []string) error {
	offsets, rest := splitSeekArgs(args)

	cmd.DisableFlagParsing = false
	err := cmd.ParseFlags(rest)
	cmd.DisableFlagParsing = true
	if errors.Is(err, pflag.ErrHelp) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}
	if help, _ := cmd.Flags().GetBool("help"); help {
		return cmd.Help()
	}

	positional := append(offsets, cmd.Flags().Args()...)
	if err := cobra.ExactArgs(1)(cmd, positional); err != nil {
		return err
	}

	return runRemote(cmd, append([]string{"seek"}, positional...))
}

// splitSeekArgs separates numeric offsets from everything else.
func splitSeekArgs(args []string) (offsets, rest []string) {
	for _, arg := range args {
		if seekOffset.MatchString(arg) {
			offsets = append(offsets, arg)
		} else {
			rest = append(rest, arg)
		}
	}
	return offsets, rest
}
