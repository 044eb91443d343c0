package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dicemath/config"
	"dicemath/expr"
	"dicemath/game"
	"dicemath/solver"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	diceTile     = color.New(color.FgHiWhite, color.BgRed, color.Bold)
	operatorTile = color.New(color.FgBlack, color.BgWhite)
	targetStyle  = color.New(color.FgGreen, color.Bold)
)

func newSolveCmd(cfg *config.Config) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "solve --target N D1 D2 D3 D4 D5",
		Short: "Find one expression combining the dice into the target",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := strconv.Atoi(target)
			if err != nil {
				return errors.New("enter a valid target number")
			}
			dice, err := parseDice(args)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.SolveTimeout)
			defer cancel()
			result, err := solver.NewSolver().SolveContext(ctx, dice, t)
			if err != nil {
				return err
			}
			renderSolution(cmd.OutOrStdout(), result, t)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "target number")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize EXPRESSION",
		Short: "Print the display tokens of an expression as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expression := strings.Join(args, " ")
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(expr.Tokenize(expression))
		},
	}
}

func parseDice(args []string) ([]int, error) {
	if len(args) != game.NumDice {
		return nil, fmt.Errorf("fill in all %d dice", game.NumDice)
	}
	dice := make([]int, len(args))
	for i, a := range args {
		d, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("die %d is not a number: %q", i+1, a)
		}
		dice[i] = d
	}
	return dice, nil
}

// renderSolution prints the solution as a row of tiles followed by the target.
func renderSolution(w io.Writer, result solver.Result, target int) {
	if !result.Found() {
		fmt.Fprintln(w, "no solution")
		return
	}
	renderTiles(w, expr.Tokenize(result.Expression))
	fmt.Fprintf(w, " = %s\n", targetStyle.Sprint(target))
	fmt.Fprintln(w, result.Expression)
}

func renderTiles(w io.Writer, tokens []expr.Token) {
	for i, tok := range tokens {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		if tok.Kind == expr.Operand {
			fmt.Fprint(w, diceTile.Sprintf(" %d ", tok.Value))
			continue
		}
		symbol := tok.Symbol
		switch symbol {
		case "*":
			symbol = "×"
		case "/":
			symbol = "÷"
		}
		fmt.Fprint(w, operatorTile.Sprintf(" %s ", symbol))
	}
}
