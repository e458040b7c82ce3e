package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FloorPlan is the root of the floor plan YAML: restaurants, their zones and
// tables. It replaces hand-written seed scripts.
type FloorPlan struct {
	Restaurants []RestaurantPlan `yaml:"restaurants"`
}

type RestaurantPlan struct {
	Name        string     `yaml:"name"`
	Slug        string     `yaml:"slug"`
	Description string     `yaml:"description"`
	Zones       []ZonePlan `yaml:"zones"`
}

type ZonePlan struct {
	Name     string        `yaml:"name"`
	Elements []ElementPlan `yaml:"elements"`
	Tables   []TablePlan   `yaml:"tables"`
}

// ElementPlan is a decorative floor element (bar, window, entrance).
type ElementPlan struct {
	Type   string  `yaml:"type" json:"type"`
	Label  string  `yaml:"label,omitempty" json:"label,omitempty"`
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Height float64 `yaml:"height,omitempty" json:"height,omitempty"`
}

type TablePlan struct {
	Name     string  `yaml:"name"`
	Capacity int     `yaml:"capacity"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Shape    string  `yaml:"shape"`
}

// LoadFloorPlan reads and validates a floor plan file.
func LoadFloorPlan(path string) (*FloorPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read floor plan: %w", err)
	}
	return ParseFloorPlan(data)
}

// ParseFloorPlan decodes and validates floor plan YAML.
func ParseFloorPlan(data []byte) (*FloorPlan, error) {
	var plan FloorPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse floor plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("validate floor plan: %w", err)
	}
	plan.applyDefaults()
	return &plan, nil
}

// Validate checks slugs and table names are unique and capacities positive.
func (p *FloorPlan) Validate() error {
	if len(p.Restaurants) == 0 {
		return fmt.Errorf("no restaurants defined")
	}
	slugs := make(map[string]bool)
	for i, r := range p.Restaurants {
		if r.Slug == "" {
			return fmt.Errorf("restaurant[%d]: slug is required", i)
		}
		if slugs[r.Slug] {
			return fmt.Errorf("restaurant[%d]: duplicate slug '%s'", i, r.Slug)
		}
		slugs[r.Slug] = true

		zones := make(map[string]bool)
		for j, z := range r.Zones {
			if z.Name == "" {
				return fmt.Errorf("%s.zone[%d]: name is required", r.Slug, j)
			}
			if zones[z.Name] {
				return fmt.Errorf("%s.zone[%d]: duplicate name '%s'", r.Slug, j, z.Name)
			}
			zones[z.Name] = true

			tables := make(map[string]bool)
			for k, t := range z.Tables {
				if t.Name == "" {
					return fmt.Errorf("%s/%s.table[%d]: name is required", r.Slug, z.Name, k)
				}
				if tables[t.Name] {
					return fmt.Errorf("%s/%s.table[%d]: duplicate name '%s'", r.Slug, z.Name, k, t.Name)
				}
				tables[t.Name] = true
				if t.Capacity <= 0 {
					return fmt.Errorf("%s/%s.table[%d]: capacity must be positive", r.Slug, z.Name, k)
				}
			}
		}
	}
	return nil
}

func (p *FloorPlan) applyDefaults() {
	for i := range p.Restaurants {
		r := &p.Restaurants[i]
		if r.Name == "" {
			r.Name = r.Slug
		}
		for j := range r.Zones {
			for k := range r.Zones[j].Tables {
				if r.Zones[j].Tables[k].Shape == "" {
					r.Zones[j].Tables[k].Shape = "square"
				}
			}
		}
	}
}

// TableCount returns the number of tables across the plan.
func (p *FloorPlan) TableCount() int {
	n := 0
	for _, r := range p.Restaurants {
		for _, z := range r.Zones {
			n += len(z.Tables)
		}
	}
	return n
}
