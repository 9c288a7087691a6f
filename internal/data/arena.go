package data

import (
	"fmt"
	"os"

	"github.com/quakenite/server/internal/geom"
	"gopkg.in/yaml.v3"
)

// yamlVec decodes a [x, y, z] sequence.
type yamlVec [3]float64

func (v yamlVec) vec() geom.Vec3 { return geom.V(v[0], v[1], v[2]) }

// Brush is one solid axis-aligned block of arena geometry.
type Brush struct {
	Name   string
	Bounds geom.AABB
}

// SpawnPoint is a player start.
type SpawnPoint struct {
	Origin geom.Vec3
	Yaw    float64
}

type brushEntry struct {
	Name string  `yaml:"name"`
	Mins yamlVec `yaml:"mins"`
	Maxs yamlVec `yaml:"maxs"`
}

type spawnEntry struct {
	Origin yamlVec `yaml:"origin"`
	Yaw    float64 `yaml:"yaw"`
}

type arenaFile struct {
	Name    string       `yaml:"name"`
	Brushes []brushEntry `yaml:"brushes"`
	Spawns  []spawnEntry `yaml:"spawns"`
}

// ArenaMap holds the static solid geometry of one arena.
type ArenaMap struct {
	Name    string
	Brushes []Brush
	Spawns  []SpawnPoint
}

// Solids returns the brush bounds in declaration order.
func (m *ArenaMap) Solids() []geom.AABB {
	out := make([]geom.AABB, len(m.Brushes))
	for i, b := range m.Brushes {
		out[i] = b.Bounds
	}
	return out
}

// Spawn returns spawn point n, cycling through the list.
func (m *ArenaMap) Spawn(n int) SpawnPoint {
	if len(m.Spawns) == 0 {
		return SpawnPoint{}
	}
	if n < 0 {
		n = -n
	}
	return m.Spawns[n%len(m.Spawns)]
}

// LoadArenaMap loads arena geometry from a YAML file.
func LoadArenaMap(path string) (*ArenaMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read arena map: %w", err)
	}
	return ParseArenaMap(raw)
}

// ParseArenaMap decodes arena YAML. Brushes with inverted or zero-volume
// bounds are rejected.
func ParseArenaMap(raw []byte) (*ArenaMap, error) {
	var f arenaFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse arena map: %w", err)
	}
	m := &ArenaMap{
		Name:    f.Name,
		Brushes: make([]Brush, 0, len(f.Brushes)),
		Spawns:  make([]SpawnPoint, 0, len(f.Spawns)),
	}
	for i, b := range f.Brushes {
		box := geom.AABB{Min: b.Mins.vec(), Max: b.Maxs.vec()}
		if box.Empty() {
			return nil, fmt.Errorf("parse arena map: brush %d (%s) has empty bounds", i, b.Name)
		}
		m.Brushes = append(m.Brushes, Brush{Name: b.Name, Bounds: box})
	}
	for _, s := range f.Spawns {
		m.Spawns = append(m.Spawns, SpawnPoint{Origin: s.Origin.vec(), Yaw: s.Yaw})
	}
	return m, nil
}
