package prefabs

import (
	"fmt"

	"github.com/milk9111/pizzamerge/catalog"
	"gopkg.in/yaml.v3"
)

const (
	CatalogFile = "pizzas.yaml"
	FieldFile   = "field.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type LevelSpec struct {
	Level  int     `yaml:"level"`
	Radius float64 `yaml:"radius"`
	Score  int     `yaml:"score"`
	Image  string  `yaml:"image"`
}

type CatalogSpec struct {
	Name           string      `yaml:"name"`
	StartingLevels int         `yaml:"starting_levels"`
	Levels         []LevelSpec `yaml:"levels"`
}

// Build validates the spec into a catalog.
func (s CatalogSpec) Build() (*catalog.Catalog, error) {
	defs := make([]catalog.LevelDef, 0, len(s.Levels))
	for _, l := range s.Levels {
		defs = append(defs, catalog.LevelDef{
			Level:      l.Level,
			Radius:     l.Radius,
			ScoreValue: l.Score,
			VisualRef:  l.Image,
		})
	}
	c, err := catalog.New(defs, s.StartingLevels)
	if err != nil {
		return nil, fmt.Errorf("prefabs: build catalog %q: %w", s.Name, err)
	}
	return c, nil
}

// LoadCatalog loads and validates pizzas.yaml.
func LoadCatalog() (*catalog.Catalog, error) {
	spec, err := LoadSpec[CatalogSpec](CatalogFile)
	if err != nil {
		return nil, err
	}
	return spec.Build()
}

type PhysicsSpec struct {
	Gravity            float64 `yaml:"gravity"`
	Iterations         int     `yaml:"iterations"`
	SleepTimeThreshold float64 `yaml:"sleep_time_threshold"`
	IdleSpeedThreshold float64 `yaml:"idle_speed_threshold"`
	Friction           float64 `yaml:"friction"`
	Elasticity         float64 `yaml:"elasticity"`
	Density            float64 `yaml:"density"`
}

type PlacementSpec struct {
	VerticalStep       float64 `yaml:"vertical_step"`
	VerticalAttempts   int     `yaml:"vertical_attempts"`
	HorizontalStep     float64 `yaml:"horizontal_step"`
	HorizontalAttempts int     `yaml:"horizontal_attempts"`
}

type GameOverSpec struct {
	RestSpeed    float64 `yaml:"rest_speed"`
	SettleFrames int     `yaml:"settle_frames"`
}

// FieldSpec is the unscaled play-field and tuning description.
type FieldSpec struct {
	Name             string        `yaml:"name"`
	Width            float64       `yaml:"width"`
	Height           float64       `yaml:"height"`
	WallThickness    float64       `yaml:"wall_thickness"`
	WallTopRatio     float64       `yaml:"wall_top_ratio"`
	LossLineRatio    float64       `yaml:"loss_line_ratio"`
	SpawnHeightRatio float64       `yaml:"spawn_height_ratio"`
	WallPadding      float64       `yaml:"wall_padding"`
	Physics          PhysicsSpec   `yaml:"physics"`
	Placement        PlacementSpec `yaml:"placement"`
	GameOver         GameOverSpec  `yaml:"game_over"`
	MergeFlashFrames int           `yaml:"merge_flash_frames"`
}

// Validate rejects geometry the game cannot run with.
func (s FieldSpec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("prefabs: field %q: size %.0fx%.0f must be positive", s.Name, s.Width, s.Height)
	}
	if s.WallThickness < 0 || 2*s.WallThickness >= s.Width {
		return fmt.Errorf("prefabs: field %q: wall thickness %.1f does not fit width %.0f", s.Name, s.WallThickness, s.Width)
	}
	for name, r := range map[string]float64{
		"wall_top_ratio":     s.WallTopRatio,
		"loss_line_ratio":    s.LossLineRatio,
		"spawn_height_ratio": s.SpawnHeightRatio,
	} {
		if r < 0 || r > 1 {
			return fmt.Errorf("prefabs: field %q: %s %.2f outside [0, 1]", s.Name, name, r)
		}
	}
	if s.SpawnHeightRatio >= s.LossLineRatio {
		return fmt.Errorf("prefabs: field %q: spawn height %.2f must be above loss line %.2f", s.Name, s.SpawnHeightRatio, s.LossLineRatio)
	}
	return nil
}

// LoadField loads and validates field.yaml.
func LoadField() (FieldSpec, error) {
	spec, err := LoadSpec[FieldSpec](FieldFile)
	if err != nil {
		return FieldSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return FieldSpec{}, err
	}
	return spec, nil
}
