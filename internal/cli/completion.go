package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts. Completions cover
// subcommands and the enumerated flag values (--output, --format).
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for taskgraph and print it to stdout.

  bash:        source <(taskgraph completion bash)
  zsh:         taskgraph completion zsh > "${fpath[1]}/_taskgraph"
  fish:        taskgraph completion fish > ~/.config/fish/completions/taskgraph.fish
  powershell:  taskgraph completion powershell | Out-String | Invoke-Expression

Start a new shell for the zsh and fish scripts to take effect.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(c.out, true)
			case "zsh":
				return root.GenZshCompletion(c.out)
			case "fish":
				return root.GenFishCompletion(c.out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(c.out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}
