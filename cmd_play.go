package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"dicemath/config"
	"dicemath/engine"
	"dicemath/expr"
	"dicemath/game"

	"github.com/spf13/cobra"
)

func newPlayCmd(cfg *config.Config) *cobra.Command {
	var (
		mode   string
		target int
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := engine.ParseMode(mode)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("target") {
				target = cfg.Game.DefaultTarget
			}

			options := []game.GeneratorOption{
				game.WithFaces(cfg.Game.DieFaces),
				game.WithTargetRange(cfg.Game.MinTarget, cfg.Game.MaxTarget),
				game.WithMaxAttempts(cfg.Game.MaxAttempts),
			}
			if seed != 0 {
				options = append(options, game.WithSeed(seed))
			}
			session := engine.NewSession(game.NewGenerator(options...),
				engine.WithMode(m),
				engine.WithCustomTarget(target),
				engine.WithTolerance(cfg.Game.AnswerTolerance),
			)
			return play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), session)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(engine.RandomMode), "random or custom")
	cmd.Flags().IntVar(&target, "target", 0, "target for custom mode")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible rolls")
	return cmd
}

const playHelp = "commands: roll, hint, quit; anything else is an answer"

// play runs a line-oriented game loop until quit or end of input.
func play(ctx context.Context, in io.Reader, out io.Writer, session *engine.Session) error {
	fmt.Fprintln(out, playHelp)
	if err := roll(ctx, out, session); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "roll":
			if err := roll(ctx, out, session); err != nil {
				return err
			}
		case "hint":
			hint, err := session.Hint()
			if errors.Is(err, engine.ErrNoHint) {
				fmt.Fprintln(out, "no known solution for this roll")
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, hint)
		default:
			_, err := session.Submit(line)
			if errors.Is(err, engine.ErrNotPlaying) {
				fmt.Fprintln(out, "round over, type roll for a new one")
				continue
			}
			fmt.Fprintln(out, session.View().Message)
		}
	}
}

func roll(ctx context.Context, out io.Writer, session *engine.Session) error {
	if err := session.Roll(ctx); err != nil {
		return err
	}
	view := session.View()
	tokens := make([]expr.Token, len(view.Puzzle.Dice))
	for i, d := range view.Puzzle.Dice {
		tokens[i] = expr.Token{Kind: expr.Operand, Value: d, ID: i}
	}
	fmt.Fprint(out, "dice: ")
	renderTiles(out, tokens)
	fmt.Fprintf(out, "  target: %s\n", targetStyle.Sprint(view.Puzzle.Target))
	fmt.Fprintln(out, view.Message)
	return nil
}
