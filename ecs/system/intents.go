package system

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/pizzamerge/catalog"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
)

var ErrNoSession = errors.New("system: world has no session")

// Intent is one state change requested by a system. Intents are applied
// in order by Reducer.ApplyIntents, the only code that mutates score,
// piece population and the game-over latch.
type Intent interface {
	intent()
}

type AddScore struct {
	Amount int
}

type RemovePieces struct {
	Pieces []ecs.Entity
}

type AddPiece struct {
	Level  int
	X, Y   float64
	VX, VY float64
}

type MergeFlash struct {
	X, Y   float64
	Radius float64
	Level  int
}

type EndGame struct {
	Entity ecs.Entity
	Reason string
}

func (AddScore) intent()     {}
func (RemovePieces) intent() {}
func (AddPiece) intent()     {}
func (MergeFlash) intent()   {}
func (EndGame) intent()      {}

// Reducer applies intents to a world.
type Reducer struct {
	Catalog     *catalog.Catalog
	Scale       float64
	Material    entity.Material
	FlashFrames int
}

// ApplyIntents applies intents in order. Once the session has latched game
// over every remaining intent is dropped.
func (r *Reducer) ApplyIntents(w *ecs.World, intents []Intent) error {
	_, session, ok := entity.Session(w)
	if !ok {
		return ErrNoSession
	}

	for _, in := range intents {
		if session.GameOver {
			return nil
		}
		switch it := in.(type) {
		case AddScore:
			session.Score += it.Amount
			if session.Score > session.HighScore {
				session.HighScore = session.Score
			}
		case RemovePieces:
			for _, e := range it.Pieces {
				delete(session.PendingMerges, uint64(e))
				if session.Falling == uint64(e) {
					session.Falling = 0
				}
				ecs.DestroyEntity(w, e)
			}
		case AddPiece:
			e, err := entity.NewPiece(w, r.Catalog, r.Scale, r.Material, entity.PieceSpec{
				Level: it.Level,
				X:     it.X,
				Y:     it.Y,
				VX:    it.VX,
				VY:    it.VY,
			})
			if err != nil {
				return fmt.Errorf("system: add level %d piece: %w", it.Level, err)
			}
			session.Merges++
			ecs.Events(w).Push(ecs.Event{Type: ecs.EventMerged, Data: ecs.MergeEvent{
				Result: e,
				Level:  it.Level,
				X:      it.X,
				Y:      it.Y,
				Score:  session.Score,
			}})
		case MergeFlash:
			if err := r.addFlash(w, it, session.Score); err != nil {
				return err
			}
		case EndGame:
			r.endGame(w, session, it)
		default:
			return fmt.Errorf("system: unknown intent %T", in)
		}
	}
	return nil
}

func (r *Reducer) addFlash(w *ecs.World, it MergeFlash, total int) error {
	frames := r.FlashFrames
	if frames <= 0 {
		return nil
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.MergeFlashComponent.Kind(), &component.MergeFlash{
		X:      it.X,
		Y:      it.Y,
		Radius: it.Radius,
		Level:  it.Level,
		Total:  total,
	}); err != nil {
		return fmt.Errorf("system: add merge flash: %w", err)
	}
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: frames}); err != nil {
		return fmt.Errorf("system: add merge flash ttl: %w", err)
	}
	return nil
}

func (r *Reducer) endGame(w *ecs.World, session *component.Session, it EndGame) {
	session.GameOver = true
	session.State = component.SessionGameOver
	session.DropDisabled = true
	session.FinalScore = session.Score
	session.GameOverCause = it.Reason

	if session.Falling != 0 {
		ecs.DestroyEntity(w, ecs.Entity(session.Falling))
		session.Falling = 0
	}
	clear(session.PendingMerges)

	log.Printf("GameOver: %s, final score %d", it.Reason, session.FinalScore)
	ecs.Events(w).Push(ecs.Event{Type: ecs.EventGameOver, Data: ecs.GameOverEvent{
		Entity:     it.Entity,
		Reason:     it.Reason,
		FinalScore: session.FinalScore,
	}})
}
