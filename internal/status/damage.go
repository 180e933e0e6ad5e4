package status

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// Contribution is the damage one attacker dealt to a victim.
type Contribution struct {
	Attacker EntityID
	Damage   float64
}

// KillRecord is a resolved kill attribution.
// Killer equals Victim when nobody dealt positive damage.
type KillRecord struct {
	Victim        EntityID
	Killer        EntityID
	Contributions []Contribution // sorted by attacker id
	At            time.Time
}

// SelfInflicted reports whether the kill fell back to self-attribution.
func (r KillRecord) SelfInflicted() bool {
	return r.Killer == r.Victim
}

// RecordDamage accumulates damage dealt by attacker to victim.
// Silently ignored when the attacker is nil or cannot be resolved.
func (s *Service) RecordDamage(victim EntityID, attacker Actor, amount float64) {
	if attacker == nil {
		return
	}
	attackerID, ok := attacker.EntityID()
	if !ok {
		return
	}

	s.store.with(victim, true, func(st *entityState) {
		st.damage[attackerID] += amount
	})
}

// DamageBy returns the damage attacker has accumulated against victim.
func (s *Service) DamageBy(victim, attacker EntityID) float64 {
	var dmg float64
	s.store.with(victim, false, func(st *entityState) {
		dmg = st.damage[attacker]
	})
	return dmg
}

// GetKillerID returns the attacker with the strictly greatest accumulated
// damage against victim, or victim itself when there is none.
// Equal totals go to the lowest attacker id.
func (s *Service) GetKillerID(victim EntityID) EntityID {
	killer := victim
	s.store.with(victim, false, func(st *entityState) {
		killer = topAttacker(victim, contributions(st.damage))
	})
	return killer
}

// ResolveKill attributes the victim's death, hands the record to the kill
// recorder (if any) and returns it. Recorder failures are logged only.
func (s *Service) ResolveKill(ctx context.Context, victim EntityID) KillRecord {
	rec := KillRecord{Victim: victim, Killer: victim, At: s.now()}
	s.store.with(victim, false, func(st *entityState) {
		rec.Contributions = contributions(st.damage)
		rec.Killer = topAttacker(victim, rec.Contributions)
	})

	if s.kills != nil {
		if err := s.kills.RecordKill(ctx, rec); err != nil {
			slog.Error("failed to record kill",
				"victim", rec.Victim,
				"killer", rec.Killer,
				"error", err)
		}
	}

	slog.Debug("kill resolved", "victim", rec.Victim, "killer", rec.Killer, "attackers", len(rec.Contributions))
	return rec
}

func contributions(ledger map[EntityID]float64) []Contribution {
	result := make([]Contribution, 0, len(ledger))
	for attacker, dmg := range ledger {
		result = append(result, Contribution{Attacker: attacker, Damage: dmg})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Attacker < result[j].Attacker
	})
	return result
}

// topAttacker expects contributions sorted by attacker id.
func topAttacker(victim EntityID, contribs []Contribution) EntityID {
	killer := victim
	best := 0.0
	for _, c := range contribs {
		if c.Damage > best {
			best = c.Damage
			killer = c.Attacker
		}
	}
	return killer
}
