package system

import (
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/entity"
)

// ScoreSink receives high scores to persist. It must not block.
type ScoreSink interface {
	Submit(score int)
}

// HighScoreSystem forwards the session high score to the sink whenever it
// improves.
type HighScoreSystem struct {
	sink      ScoreSink
	persisted int
}

func NewHighScoreSystem(sink ScoreSink, persisted int) *HighScoreSystem {
	return &HighScoreSystem{sink: sink, persisted: persisted}
}

func (h *HighScoreSystem) Update(w *ecs.World) {
	if h == nil || h.sink == nil || w == nil {
		return
	}
	_, session, ok := entity.Session(w)
	if !ok {
		return
	}
	if session.HighScore > h.persisted {
		h.persisted = session.HighScore
		h.sink.Submit(session.HighScore)
	}
}

// Persisted returns the last score handed to the sink.
func (h *HighScoreSystem) Persisted() int {
	return h.persisted
}
