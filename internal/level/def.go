package level

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/gritfps/sim/internal/engine"
)

//go:embed level.schema.json
var levelSchema string

// Definition is the on-disk level description: static geometry markers only.
// Everything live (actors, projectiles) is created by the simulation.
type Definition struct {
	Name      string `yaml:"name" json:"name"`
	FragLimit int    `yaml:"frag_limit" json:"frag_limit"`

	PlayerSpawn Position   `yaml:"player_spawn" json:"player_spawn"`
	SpawnPoints []Position `yaml:"spawn_points" json:"spawn_points"`

	Bots     []BotMarker     `yaml:"bots" json:"bots"`
	Items    []ItemMarker    `yaml:"items" json:"items"`
	JumpPads []JumpPadMarker `yaml:"jump_pads" json:"jump_pads"`
}

type Position struct {
	X float32 `yaml:"x" json:"x"`
	Y float32 `yaml:"y" json:"y"`
	Z float32 `yaml:"z" json:"z"`
}

func (p Position) Vec3() engine.Vec3 { return engine.Vec3{X: p.X, Y: p.Y, Z: p.Z} }

type BotMarker struct {
	Kind     string   `yaml:"kind" json:"kind"`
	Position Position `yaml:"position" json:"position"`
}

type ItemMarker struct {
	Kind     string   `yaml:"kind" json:"kind"`
	Position Position `yaml:"position" json:"position"`
}

type JumpPadMarker struct {
	Position Position `yaml:"position" json:"position"`
	Radius   float32  `yaml:"radius" json:"radius"`
	Force    Position `yaml:"force" json:"force"`
}

// LoadDefinition reads and validates a level file. Validation runs against
// the embedded schema before any marker is interpreted, so a malformed file
// fails with a field-level error instead of a half-built level.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}

	var loose any
	if err := yaml.Unmarshal(raw, &loose); err != nil {
		return nil, fmt.Errorf("parse level yaml: %w", err)
	}
	if err := validateDefinition(loose); err != nil {
		return nil, fmt.Errorf("validate level %s: %w", path, err)
	}

	var def Definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	if def.FragLimit <= 0 {
		def.FragLimit = 10
	}
	return &def, nil
}

// validateDefinition checks the loose document against the embedded JSON
// schema. The yaml package decodes maps as map[string]any, which the schema
// validator accepts after a round-trip through JSON typing.
func validateDefinition(doc any) error {
	schema, err := jsonschema.CompileString("level.schema.json", levelSchema)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	buf, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var jsonDoc any
	if err := json.Unmarshal(buf, &jsonDoc); err != nil {
		return err
	}
	return schema.Validate(jsonDoc)
}
