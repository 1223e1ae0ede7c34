package lesson

import "github.com/abhisek/weekcards/internal/engine"

// engineReadyMsg is sent when the engine has restored the student's position.
type engineReadyMsg struct {
	Engine *engine.Engine
	Err    error
}

// timerFiredMsg is sent when an engine timer is due.
type timerFiredMsg struct {
	ID int
}
