package system

import (
	"log"

	"github.com/milk9111/pizzamerge/catalog"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
)

// MergeSystem turns the collision pairs of the last physics step into merge
// intents and hands them to the reducer.
type MergeSystem struct {
	catalog *catalog.Catalog
	reducer *Reducer
	Debug   bool
}

func NewMergeSystem(cat *catalog.Catalog, reducer *Reducer) *MergeSystem {
	return &MergeSystem{catalog: cat, reducer: reducer}
}

// pairKey identifies an unordered pair of entities.
type pairKey struct {
	lo, hi ecs.Entity
}

func makePairKey(a, b ecs.Entity) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

func (m *MergeSystem) Update(w *ecs.World) {
	if m == nil || w == nil {
		return
	}
	events := ecs.Events(w).DrainType(ecs.EventCollisionBegin)
	if len(events) == 0 {
		return
	}

	batch := make([]ecs.CollisionPair, 0, len(events))
	for _, evt := range events {
		if pair, ok := evt.Data.(ecs.CollisionPair); ok {
			batch = append(batch, pair)
		}
	}

	intents := m.PlanMerges(w, batch)
	if len(intents) == 0 {
		return
	}
	if err := m.reducer.ApplyIntents(w, intents); err != nil {
		log.Printf("MergeSystem: apply intents: %v", err)
	}
	m.pruneLocks(w)
}

// PlanMerges walks the batch in reported order and returns the intents for
// every accepted merge. Both pieces of an accepted pair are locked before
// the next pair is considered, so a piece reported in several pairs merges
// at most once.
func (m *MergeSystem) PlanMerges(w *ecs.World, batch []ecs.CollisionPair) []Intent {
	_, session, ok := entity.Session(w)
	if !ok || session.GameOver || m.catalog == nil {
		return nil
	}
	if session.PendingMerges == nil {
		session.PendingMerges = make(map[uint64]struct{})
	}

	seen := make(map[pairKey]struct{}, len(batch))
	var intents []Intent
	for _, pair := range batch {
		key := makePairKey(pair.A, pair.B)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		a, b, reason := m.eligible(w, session, pair)
		if reason != "" {
			if m.Debug {
				log.Printf("MergeSystem: skip %s/%s: %s", pair.A, pair.B, reason)
			}
			continue
		}

		next := a.piece.Level + 1
		def, err := m.catalog.DefinitionFor(next)
		if err != nil {
			continue
		}

		a.piece.MergeLocked = true
		b.piece.MergeLocked = true
		session.PendingMerges[uint64(pair.A)] = struct{}{}
		session.PendingMerges[uint64(pair.B)] = struct{}{}

		x := (a.transform.X + b.transform.X) / 2
		y := (a.transform.Y + b.transform.Y) / 2
		vx := (a.velocity.X + b.velocity.X) / 2
		vy := (a.velocity.Y + b.velocity.Y) / 2

		intents = append(intents,
			AddScore{Amount: def.ScoreValue},
			RemovePieces{Pieces: []ecs.Entity{pair.A, pair.B}},
			AddPiece{Level: next, X: x, Y: y, VX: vx, VY: vy},
			MergeFlash{X: x, Y: y, Radius: m.catalog.ScaledRadius(next, m.scale()), Level: next},
		)
	}
	return intents
}

type mergeCandidate struct {
	piece     *component.Piece
	transform component.Transform
	velocity  component.Velocity
}

func (m *MergeSystem) eligible(w *ecs.World, session *component.Session, pair ecs.CollisionPair) (mergeCandidate, mergeCandidate, string) {
	a, okA := m.candidate(w, pair.A)
	b, okB := m.candidate(w, pair.B)
	if pair.A == pair.B {
		return a, b, "self pair"
	}
	if !okA || !okB {
		return a, b, "not a live piece"
	}
	if a.piece.MergeLocked || b.piece.MergeLocked || isPending(session, pair.A) || isPending(session, pair.B) {
		return a, b, "already merging"
	}
	if a.piece.Falling || b.piece.Falling || session.Falling == uint64(pair.A) || session.Falling == uint64(pair.B) {
		return a, b, "falling piece"
	}
	if a.piece.Level != b.piece.Level {
		return a, b, "level mismatch"
	}
	if !m.catalog.CanMerge(a.piece.Level) {
		return a, b, "max level"
	}
	return a, b, ""
}

func (m *MergeSystem) candidate(w *ecs.World, e ecs.Entity) (mergeCandidate, bool) {
	piece, ok := ecs.Get(w, e, component.PieceComponent.Kind())
	if !ok {
		return mergeCandidate{}, false
	}
	c := mergeCandidate{piece: piece}
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		c.transform = *tr
	}
	if vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
		c.velocity = *vel
	}
	return c, true
}

func isPending(session *component.Session, e ecs.Entity) bool {
	_, ok := session.PendingMerges[uint64(e)]
	return ok
}

// pruneLocks drops lock entries whose entity no longer exists.
func (m *MergeSystem) pruneLocks(w *ecs.World) {
	_, session, ok := entity.Session(w)
	if !ok {
		return
	}
	for id := range session.PendingMerges {
		if !ecs.IsAlive(w, ecs.Entity(id)) {
			delete(session.PendingMerges, id)
		}
	}
}

func (m *MergeSystem) scale() float64 {
	if m.reducer == nil || m.reducer.Scale <= 0 {
		return 1
	}
	return m.reducer.Scale
}
