package game

import (
	"errors"
	"fmt"
)

// NumDice is the number of dice in every puzzle.
const NumDice = 5

var (
	ErrUnknownDie = errors.New("game: operand is not one of the dice")
	ErrDieReused  = errors.New("game: die used more than once")
)

// Puzzle is a set of dice and the target they must be combined into.
type Puzzle struct {
	Dice   []int `json:"dice"`
	Target int   `json:"target"`
}

func (p Puzzle) String() string {
	return fmt.Sprintf("%v -> %d", p.Dice, p.Target)
}
