package generator

import (
	"strings"

	"github.com/willfong/sample-data-generator/internal/models"
)

// Group is a set of definitions sharing a group key. Main is the single member
// that names a payee; it drives the schedule for the whole group.
type Group struct {
	Key     string
	Main    models.Definition
	Members []models.Definition
}

// Partitions splits definitions into standalone rules and groups.
type Partitions struct {
	Solos  []models.Definition
	Groups []Group
}

// Partition separates solo definitions from grouped ones, keeping definition
// order for solos and first-appearance order for groups. Every group is
// validated before it is returned, so generation never starts on a malformed
// group.
func Partition(defs []models.Definition) (Partitions, error) {
	var p Partitions
	index := make(map[string]int)

	for _, def := range defs {
		if def.IsSolo() {
			p.Solos = append(p.Solos, def)
			continue
		}
		key := strings.TrimSpace(def.Group)
		i, ok := index[key]
		if !ok {
			i = len(p.Groups)
			index[key] = i
			p.Groups = append(p.Groups, Group{Key: key})
		}
		p.Groups[i].Members = append(p.Groups[i].Members, def)
	}

	for i := range p.Groups {
		if err := p.Groups[i].resolveMain(); err != nil {
			return Partitions{}, err
		}
	}

	return p, nil
}

func (g *Group) resolveMain() error {
	count := 0
	for _, m := range g.Members {
		if m.HasPayee() {
			if count == 0 {
				g.Main = m
			}
			count++
		}
	}

	switch {
	case count == 0:
		return &GroupIntegrityError{Group: g.Key, PayeeCount: count, Err: ErrGroupNoPayee}
	case count > 1:
		return &GroupIntegrityError{Group: g.Key, PayeeCount: count, Err: ErrGroupMultiplePayees}
	}
	return nil
}

// UnitCount is the number of independent generation units: one per solo
// definition and one per group.
func (p Partitions) UnitCount() int {
	return len(p.Solos) + len(p.Groups)
}
