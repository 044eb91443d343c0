package engine

import "errors"

type Mode string

const (
	RandomMode Mode = "random" // Target and dice rolled until solvable
	CustomMode Mode = "custom" // Fixed target, random dice
)

type Status string

const (
	Idle    Status = "idle"
	Playing Status = "playing"
	Won     Status = "won"
)

var (
	ErrNotPlaying = errors.New("engine: no round in progress")
	ErrNoHint     = errors.New("engine: no known solution")
	ErrBadMode    = errors.New("engine: unknown mode")
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case RandomMode, CustomMode:
		return Mode(s), nil
	case "":
		return RandomMode, nil
	}
	return "", ErrBadMode
}
