package system

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/pizzamerge/prefabs"
)

// ScriptPicker asks a tengo script for the next level. The script receives
// roll, starting_levels and spawned and must set next_level. Any script
// error or out-of-range result falls back to the uniform picker.
type ScriptPicker struct {
	path     string
	compiled *tengo.Compiled
	fallback *UniformPicker
	spawned  int
}

func NewScriptPicker(path string, fallback *UniformPicker) (*ScriptPicker, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("system: load spawn script %s: %w", path, err)
	}
	return newScriptPicker(path, src, fallback)
}

func newScriptPicker(path string, src []byte, fallback *UniformPicker) (*ScriptPicker, error) {
	if fallback == nil {
		fallback = NewUniformPicker(0)
	}

	script := tengo.NewScript(src)
	_ = script.Add("roll", 0.0)
	_ = script.Add("starting_levels", 1)
	_ = script.Add("spawned", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("system: compile spawn script %s: %w", path, err)
	}

	return &ScriptPicker{path: path, compiled: compiled, fallback: fallback}, nil
}

func (p *ScriptPicker) NextLevel(startingLevels int) int {
	level, err := p.run(startingLevels)
	if err != nil {
		log.Printf("ScriptPicker: %s: %v, using uniform pick", p.path, err)
		return p.fallback.NextLevel(startingLevels)
	}
	p.spawned++
	return level
}

func (p *ScriptPicker) run(startingLevels int) (int, error) {
	if err := p.compiled.Set("roll", p.fallback.Float64()); err != nil {
		return 0, err
	}
	if err := p.compiled.Set("starting_levels", startingLevels); err != nil {
		return 0, err
	}
	if err := p.compiled.Set("spawned", p.spawned); err != nil {
		return 0, err
	}
	if err := p.compiled.Run(); err != nil {
		return 0, err
	}
	if !p.compiled.IsDefined("next_level") {
		return 0, fmt.Errorf("next_level not set")
	}
	level := p.compiled.Get("next_level").Int()
	if level < 1 || level > startingLevels {
		return 0, fmt.Errorf("next_level %d outside [1, %d]", level, startingLevels)
	}
	return level, nil
}
