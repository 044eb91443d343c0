package server

import (
	"dicemath/engine"
	"dicemath/expr"
	"dicemath/game"
)

type SolveRequest struct {
	Dice   []int `json:"dice" binding:"required,len=5"`
	Target *int  `json:"target" binding:"required"`
}

type SolveResponse struct {
	Found      bool         `json:"found"`
	Expression string       `json:"expression,omitempty"`
	Tokens     []expr.Token `json:"tokens"`
}

type TokenizeRequest struct {
	Expression string `json:"expression"`
}

type TokenizeResponse struct {
	Tokens []expr.Token `json:"tokens"`
}

type NewSessionRequest struct {
	Mode   string `json:"mode" binding:"omitempty,oneof=random custom"`
	Target *int   `json:"target"`
}

type SessionResponse struct {
	ID string `json:"id"`
	engine.View
}

type AnswerRequest struct {
	Expression string `json:"expression" binding:"required"`
}

type AnswerResponse struct {
	Verdict game.Verdict    `json:"verdict"`
	Session SessionResponse `json:"session"`
}

type HintResponse struct {
	Hint string `json:"hint"`
}

type ErrorResponse struct {
	Error   string           `json:"error"`
	Session *SessionResponse `json:"session,omitempty"`
}
