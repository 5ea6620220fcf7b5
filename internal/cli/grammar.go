package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonalspace/cadenza/internal/grammar"
)

// grammarCmd represents the grammar command
var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Show the built-in grammar",
	Long:  `List the rules of the built-in tonal-function grammar.`,
	Run: func(cmd *cobra.Command, args []string) {
		g := grammar.Tonal()
		fmt.Printf("Grammar: %s\n\n", g.Name)
		fmt.Println("Binary rules:")
		for _, r := range g.BinaryRules {
			fmt.Printf("  %s\n", r.Name())
		}
		fmt.Println("\nUnary rules:")
		for _, r := range g.UnaryRules {
			fmt.Printf("  %s\n", r.Name())
		}
	},
}

func init() {
	rootCmd.AddCommand(grammarCmd)
}
