/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package roster holds the orchestra's personnel and answers which
// musicians take part in which formation.
package roster

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orchesterbuero/dienstplan/internal/models"
)

// Musician is one chair of the orchestra, vacant or not.
type Musician struct {
	Name      string
	Position  string
	Register  string // e.g. "Klarinetten"
	Section   string // "HOLZ" or "BLECH"
	Share     int    // employment share in percent
	Note      string // e.g. "Konzertmeister"
	Ensembles map[string]bool
}

// IsVacant reports whether the chair is unoccupied.
func (m *Musician) IsVacant() bool {
	return strings.EqualFold(m.Name, "vakant")
}

// DisplayName returns the presentation name, marking vacancies.
func (m *Musician) DisplayName() string {
	if m.IsVacant() {
		return fmt.Sprintf("vakant (%s)", m.Position)
	}
	return m.Name
}

// ParticipatesIn is the capability predicate: does this musician play when
// the given formation is scheduled? Unknown formations fail open and count
// for everyone, like the full orchestra.
func (m *Musician) ParticipatesIn(f models.Formation) bool {
	switch f {
	case models.FormationTutti:
		return true
	case models.FormationBrass, models.FormationBrassNoPerc:
		return m.Section == "BLECH"
	case models.FormationWoodwind:
		return m.Section == "HOLZ"
	case models.FormationBrassSection:
		return m.Section == "BLECH"
	case models.FormationPercussion:
		return m.Register == "Schlagzeug"
	case models.FormationDoubleBass:
		return m.Register == "Kontrabass"
	case models.FormationBLQ:
		return m.Ensembles["BLQ"]
	case models.FormationKLQ:
		return m.Ensembles["KLQ"]
	case models.FormationSBQ:
		return m.Ensembles["SBQ"]
	case models.FormationSerenades:
		return m.Ensembles["SERENADEN"]
	case models.FormationCommittees, models.FormationStrategy, models.FormationGroups:
		// Governance work carries no personal duty.
		return false
	case models.FormationUnknown:
		return true
	}
	return false
}

// Roster is the full orchestra seating.
type Roster struct {
	Musicians []*Musician
}

// Active returns only occupied chairs.
func (r *Roster) Active() []*Musician {
	var active []*Musician
	for _, m := range r.Musicians {
		if !m.IsVacant() {
			active = append(active, m)
		}
	}
	return active
}

// ByRegister groups musicians by their register.
func (r *Roster) ByRegister() map[string][]*Musician {
	grouped := make(map[string][]*Musician)
	for _, m := range r.Musicians {
		grouped[m.Register] = append(grouped[m.Register], m)
	}
	return grouped
}

// Find returns the musician with the given name, or nil.
func (r *Roster) Find(name string) *Musician {
	for _, m := range r.Musicians {
		if m.Name == name {
			return m
		}
	}
	return nil
}

type rosterFile struct {
	Register map[string]struct {
		Section   string `yaml:"gruppe"`
		Musicians []struct {
			Name     string `yaml:"name"`
			Position string `yaml:"position"`
			Share    int    `yaml:"anteil"`
			Note     string `yaml:"zusatz"`
		} `yaml:"musiker"`
	} `yaml:"register"`
	Ensembles map[string]struct {
		Positions []string          `yaml:"positionen"`
		Specific  map[string]string `yaml:"spezifisch"`
	} `yaml:"ensembles"`
}

// Load reads the seating from a YAML file and resolves ensemble membership,
// first by position and then by explicit name for multiply-occupied chairs.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Parse(data)
}

// Parse builds a roster from YAML content.
func Parse(data []byte) (*Roster, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	roster := &Roster{}
	for registerName, register := range file.Register {
		for _, entry := range register.Musicians {
			share := entry.Share
			if share == 0 {
				share = 100
			}
			roster.Musicians = append(roster.Musicians, &Musician{
				Name:      entry.Name,
				Position:  entry.Position,
				Register:  registerName,
				Section:   register.Section,
				Share:     share,
				Note:      entry.Note,
				Ensembles: make(map[string]bool),
			})
		}
	}

	for ensemble, def := range file.Ensembles {
		for _, position := range def.Positions {
			for _, m := range roster.Musicians {
				if m.Position == position {
					m.Ensembles[ensemble] = true
				}
			}
		}
		for _, name := range def.Specific {
			for _, m := range roster.Musicians {
				if m.Name == name {
					m.Ensembles[ensemble] = true
				}
			}
		}
	}
	return roster, nil
}
