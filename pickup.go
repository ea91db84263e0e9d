package main

import "fmt"

// Pickup is a single-cell static consumable: grain, a bonus, or a hazard.
// Grain announces a plain eat; bonuses and hazards announce their touch topic
// instead and leave the effect to whoever listens.
type Pickup struct {
	body
	bonus  UpgradeType
	hazard HazardType
}

// NewGrain places the basic edible at a cell
func NewGrain(w *World, at Cell, fill FillStyle) (*Pickup, error) {
	return newPickup(w, KindGrain, at, fill, 0, 0)
}

// NewBonus places a bonus granting the given upgrade when touched
func NewBonus(w *World, at Cell, t UpgradeType) (*Pickup, error) {
	return newPickup(w, KindBonus, at, "", t, 0)
}

// NewHazard places a hazard inflicting the given penalty when touched
func NewHazard(w *World, at Cell, t HazardType) (*Pickup, error) {
	return newPickup(w, KindHazard, at, "", 0, t)
}

func newPickup(w *World, kind Kind, at Cell, fill FillStyle, bt UpgradeType, ht HazardType) (*Pickup, error) {
	p := &Pickup{
		body:   newBody(w, kind, EntityOptions{Fill: fill}),
		bonus:  bt,
		hazard: ht,
	}
	at = w.Bounds.Wrap(at)
	if err := p.bind(p, EntityOptions{At: &at}, p.onCollide, p.onAllocRecv); err != nil {
		return nil, err
	}
	if len(p.cells) == 0 {
		p.Clear(true)
		return nil, fmt.Errorf("pickup: cell (%d,%d) occupied", at.X, at.Y)
	}
	return p, nil
}

// Bonus reports the upgrade a bonus pickup carries
func (p *Pickup) Bonus() UpgradeType { return p.bonus }

// Hazard reports the penalty a hazard pickup carries
func (p *Pickup) Hazard() HazardType { return p.hazard }

// onCollide announces the touch when the player reaches this pickup: eat for
// grain, the dedicated topic for bonuses and hazards
func (p *Pickup) onCollide(sender, data any) (bool, error) {
	col, ok := data.(Collision)
	if !ok || col.Receiver != p.self {
		return true, nil
	}
	if col.Initiator == nil || col.Initiator.Kind() != KindPlayer {
		return true, nil
	}
	switch p.kind {
	case KindBonus:
		return true, p.world.Bus.Trigger(TopicUpgrade, p.self, BonusTouched{Item: p.self, Cell: col.Cell, Type: p.bonus})
	case KindHazard:
		return true, p.world.Bus.Trigger(TopicPoisoned, p.self, HazardTouched{Item: p.self, Cell: col.Cell, Type: p.hazard})
	default:
		return true, p.world.Bus.Trigger(TopicEat, p.self, Consumed{Entity: p.self, Cell: col.Cell})
	}
}
