package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"github.com/brkerd/video-to-ascii-mrd/compose"
)

// Keys the player handles itself; the keymap may not shadow them.
var reservedKeys = map[string]bool{
	"q":      true,
	"i":      true,
	"esc":    true,
	"ctrl+c": true,
}

// config is the playlist configuration loaded from YAML.
type config struct {
	// Idle is the video looped whenever nothing is queued.
	Idle string `yaml:"idle"`
	// Videos maps key presses to video paths.
	Videos map[string]string `yaml:"videos"`
	// Transition configures the blend between clips.
	Transition transitionConfig `yaml:"transition"`
	// FPS is the frame extraction and playback rate.
	FPS int `yaml:"fps"`
}

type transitionConfig struct {
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
	Frames    int    `yaml:"frames"`
}

// loadConfig reads, parses, defaults, and validates a playlist config.
func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return parseConfig(data)
}

func parseConfig(data []byte) (*config, error) {
	cfg := &config{
		Transition: transitionConfig{
			Type:      string(compose.TypeWipe),
			Direction: string(compose.DirectionTop),
			Frames:    20,
		},
		FPS: 30,
	}

	err := yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	err = cfg.validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) validate() error {
	if c.Idle == "" {
		return fmt.Errorf("config: idle video path is required")
	}

	if c.FPS < 1 {
		return fmt.Errorf("config: fps must be >= 1, got %d", c.FPS)
	}

	for key := range c.Videos {
		if key == "" {
			return fmt.Errorf("config: empty video key")
		}

		if reservedKeys[key] {
			return fmt.Errorf("config: key %q is reserved by the player", key)
		}
	}

	_, err := c.spec()
	if err != nil {
		return err
	}

	return nil
}

// spec builds the transition spec from the config.
func (c *config) spec() (compose.Spec, error) {
	typ, err := compose.ParseType(c.Transition.Type)
	if err != nil {
		return compose.Spec{}, fmt.Errorf("config: %w", err)
	}

	spec := compose.Spec{
		Type:   typ,
		Frames: c.Transition.Frames,
	}

	if typ != compose.TypeCrossfade {
		dir, dirErr := compose.ParseDirection(c.Transition.Direction)
		if dirErr != nil {
			return compose.Spec{}, fmt.Errorf("config: %w", dirErr)
		}

		spec.Direction = dir
	}

	err = spec.Validate()
	if err != nil {
		return compose.Spec{}, fmt.Errorf("config: %w", err)
	}

	return spec, nil
}

// newSchemaCmd returns the subcommand that prints the playlist config's
// JSON Schema.
func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the playlist config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := json.MarshalIndent(configSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("encoding schema: %w", err)
			}

			out = append(out, '\n')

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("writing schema: %w", err)
			}

			return nil
		},
	}
}

// configSchema describes the playlist config as JSON Schema (Draft 7).
func configSchema() *jsonschema.Schema {
	falseSchema := func() *jsonschema.Schema {
		return &jsonschema.Schema{Not: &jsonschema.Schema{}}
	}

	transition := &jsonschema.Schema{
		Type:        "object",
		Description: "Blend between clips and between a clip and idle.",
		Properties: map[string]*jsonschema.Schema{
			"type": {
				Type:        "string",
				Description: "Transition type: wipe, crossfade, or scan.",
			},
			"direction": {
				Type:        "string",
				Description: "Wipe/scan direction: top, bottom, left, or right. Ignored by crossfade.",
			},
			"frames": {
				Type:        "integer",
				Description: "Number of composite steps per transition.",
			},
		},
		AdditionalProperties: falseSchema(),
	}

	return &jsonschema.Schema{
		Schema:      "http://json-schema.org/draft-07/schema#",
		Title:       "asciiplay playlist",
		Description: "Playlist configuration for the asciiplay terminal video player.",
		Type:        "object",
		Required:    []string{"idle"},
		Properties: map[string]*jsonschema.Schema{
			"idle": {
				Type:        "string",
				Description: "Idle video path, looped whenever nothing is queued.",
			},
			"videos": {
				Type:                 "object",
				Description:          "Key-to-video map; pressing a key enqueues its video.",
				AdditionalProperties: &jsonschema.Schema{Type: "string"},
			},
			"transition": transition,
			"fps": {
				Type:        "integer",
				Description: "Frame extraction and playback rate.",
			},
		},
		AdditionalProperties: falseSchema(),
	}
}
