// meta/meta.go
package meta

import "time"

// DIE_FACES is the number of faces on each die.
const DIE_FACES = 6

// MIN_TARGET and MAX_TARGET bound randomly rolled targets.
const MIN_TARGET = 10
const MAX_TARGET = 99

// DEFAULT_TARGET is used in custom mode when no target is given.
const DEFAULT_TARGET = 24

// MAX_ATTEMPTS is the number of rolls per round when searching for a solvable puzzle.
const MAX_ATTEMPTS = 200

// ANSWER_TOLERANCE is how close a player's answer must be to the target.
const ANSWER_TOLERANCE = 0.001

// SOLVE_TIMEOUT bounds a solve request served over HTTP.
const SOLVE_TIMEOUT = 2 * time.Second

// SESSION_TTL is how long an untouched HTTP session is kept.
const SESSION_TTL = 30 * time.Minute

// MAX_SESSIONS caps the sessions held by the HTTP server.
const MAX_SESSIONS = 1000

// GO_ROUTINES defines the number of goroutines to use for surveys.
const GO_ROUTINES = 8
