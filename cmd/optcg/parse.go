package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardforge/optcg"
)

var parseCmd = &cobra.Command{
	Use:   "parse [card-file]",
	Short: "Parse the effect text of every card in a YAML card list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cards, err := loadCards(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		parser := optcg.NewEffectParser(newLogger())
		for _, card := range cards {
			defs := parser.ParseEffectText(card.Text, card.ID)
			fmt.Printf("%s %s: %d effect(s)\n", card.ID, card.Name, len(defs))
			for _, def := range defs {
				printDefinition(def)
			}
		}
	},
}

func printDefinition(def *optcg.EffectDefinition) {
	fmt.Printf("  - %s", def.EffectType)
	if def.Timing == optcg.TimingAuto && def.TriggerTiming != optcg.TriggerNone {
		fmt.Printf(" on %s", def.TriggerTiming)
	} else {
		fmt.Printf(" timing %s", def.Timing)
	}
	if def.Cost != nil {
		fmt.Printf(" cost %s", def.Cost)
	}
	if def.Condition != nil {
		fmt.Print(" conditional")
	}
	if def.OncePerTurn {
		fmt.Print(" once-per-turn")
	}
	params := def.Parameters
	if params.PowerChange != nil {
		fmt.Printf(" power %+d", *params.PowerChange)
	}
	if params.CardCount > 0 {
		fmt.Printf(" count %d", params.CardCount)
	}
	if params.Keyword != "" {
		fmt.Printf(" keyword %s", params.Keyword)
	}
	if params.Filter != nil {
		fmt.Printf(" targets %s", describeFilter(params.Filter))
	}
	fmt.Println()
}

func describeFilter(f *optcg.TargetFilter) string {
	out := f.Controller.String()
	if f.Category != nil {
		out += " " + f.Category.String()
	}
	if f.MaxCost > 0 {
		out += fmt.Sprintf(" cost<=%d", f.MaxCost)
	}
	if f.MaxPower > 0 {
		out += fmt.Sprintf(" power<=%d", f.MaxPower)
	}
	if f.Trait != "" {
		out += fmt.Sprintf(" {%s}", f.Trait)
	}
	return out
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
