package main

import (
	"fmt"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardforge/optcg"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [card-file]",
	Short: "Play every character from a card list and resolve its on-play effects",
	Long: `Builds a two player demo board, puts the listed characters into player
one's character area, pushes their on-play effects and drains the stack.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cards, err := loadCards(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := runSimulation(cards); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	simulateCmd.Flags().Int("don", 10, "DON!! cards in each cost area")
	viper.BindPFlag("don", simulateCmd.Flags().Lookup("don"))
	rootCmd.AddCommand(simulateCmd)
}

func runSimulation(cards []cardEntry) error {
	logger := newLogger()
	parser := optcg.NewEffectParser(logger)
	scripts := optcg.NewScriptRegistry()
	stack := optcg.NewEffectStack(
		optcg.NewCostGate(logger),
		optcg.NewReplacementHandler(logger),
		optcg.NewDefaultRegistry(logger),
		scripts,
		logger,
	)

	state, err := demoState(cards, viper.GetInt("don"))
	if err != nil {
		return err
	}

	for _, card := range cards {
		if card.Text == "" {
			continue
		}
		for _, def := range parser.ParseEffectText(card.Text, card.ID) {
			if def.Timing != optcg.TimingAuto || def.TriggerTiming != optcg.TriggerOnPlay {
				continue
			}
			targets := pickTargets(def, state)
			instance, err := stack.Activate(state, def, "p1", targets, nil, 0)
			if err != nil {
				logger.Warn("activation rejected", "card", card.ID, "error", err)
				continue
			}
			logger.Info("effect activated", "card", card.ID, "instance", instance.ID)
		}
	}

	final := stack.ResolveAll(state)
	printBoard(final)
	return nil
}

// demoState seeds both players. Listed characters go straight to player one's
// character area; player two gets a small opposing board to target.
func demoState(cards []cardEntry, don int) (*optcg.GameState, error) {
	p1 := &optcg.PlayerState{ID: "p1"}
	for _, entry := range cards {
		card, err := entry.instance()
		if err != nil {
			return nil, err
		}
		switch card.Category {
		case optcg.CategoryLeader:
			if p1.Leader == nil {
				p1.Leader = card
			}
		case optcg.CategoryCharacter:
			p1.Characters = append(p1.Characters, card)
		}
	}
	if p1.Leader == nil {
		p1.Leader = &optcg.CardInstance{ID: "p1-leader", Name: "Demo Leader", Category: optcg.CategoryLeader, BasePower: 5000}
	}
	for i := 0; i < 10; i++ {
		p1.Deck = append(p1.Deck, &optcg.CardInstance{
			ID:       fmt.Sprintf("p1-deck-%d", i),
			Name:     "Deck Card",
			Category: optcg.CategoryCharacter,
			Cost:     2, BasePower: 3000,
		})
	}

	p2 := &optcg.PlayerState{
		ID:     "p2",
		Leader: &optcg.CardInstance{ID: "p2-leader", Name: "Rival Leader", Category: optcg.CategoryLeader, BasePower: 5000},
		Characters: []*optcg.CardInstance{
			{ID: "p2-char-0", Name: "Rival Grunt", Category: optcg.CategoryCharacter, Cost: 3, BasePower: 4000},
			{ID: "p2-char-1", Name: "Rival Brute", Category: optcg.CategoryCharacter, Cost: 6, BasePower: 7000},
		},
	}
	for i := 0; i < 4; i++ {
		p2.Life = append(p2.Life, &optcg.CardInstance{
			ID:       fmt.Sprintf("p2-life-%d", i),
			Name:     "Life Card",
			Category: optcg.CategoryCharacter,
		})
	}

	for _, p := range []*optcg.PlayerState{p1, p2} {
		for i := 0; i < don; i++ {
			p.CostArea = append(p.CostArea, &optcg.DonCard{ID: ulid.Make().String()})
		}
	}
	return &optcg.GameState{Players: []*optcg.PlayerState{p1, p2}, Turn: 1}, nil
}

// pickTargets makes the demo's choices: the first legal opponent characters
// for card-shaped effects, the opponent for damage, nothing otherwise.
func pickTargets(def *optcg.EffectDefinition, state *optcg.GameState) []optcg.Target {
	if def.EffectType == optcg.DealDamage {
		return []optcg.Target{optcg.PlayerTarget("p2")}
	}
	filter := def.Parameters.Filter
	if filter == nil {
		return nil
	}
	limit := def.Parameters.MaxTargets
	if limit <= 0 {
		limit = 1
	}
	var targets []optcg.Target
	for _, c := range state.Player("p2").Characters {
		if len(targets) >= limit {
			break
		}
		if filter.Matches(c, true) {
			targets = append(targets, optcg.CardTarget(c.ID))
		}
	}
	if filter.Controller != optcg.OpponentController {
		for _, c := range state.Player("p1").Characters {
			if len(targets) >= limit {
				break
			}
			if filter.Matches(c, false) {
				targets = append(targets, optcg.CardTarget(c.ID))
			}
		}
	}
	return targets
}

func printBoard(state *optcg.GameState) {
	for _, p := range state.Players {
		fmt.Printf("%s: hand=%d deck=%d trash=%d life=%d don(active)=%d\n",
			p.ID, len(p.Hand), len(p.Deck), len(p.Trash), len(p.Life), p.ActiveDonCount())
		for _, c := range p.Characters {
			status := "active"
			if c.Rested {
				status = "rested"
			}
			fmt.Printf("  %s %s power=%d %s don=%d\n", c.ID, c.Name, c.CurrentPower(), status, c.AttachedDon)
		}
	}
}
