// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Sky      SkyConfig      `yaml:"sky"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOV        float32 `yaml:"fov"` // Vertical field of view in degrees
}

// SkyConfig holds sky dome settings.
type SkyConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Path          string   `yaml:"path"`           // Cubemap folder, resolved against ResourcesPath
	ResourcesPath string   `yaml:"resources_path"` // Root of the texture resources
	Radius        float32  `yaml:"radius"`
	LongSteps     int      `yaml:"longitude_steps"`
	LatSteps      int      `yaml:"latitude_steps"`
	Hemisphere    bool     `yaml:"hemisphere"`
	Faces         SkyFaces `yaml:"faces"`
	Mesh          string   `yaml:"mesh"`       // Optional companion OBJ mesh
	MeshScale     float64  `yaml:"mesh_scale"` // Eye-follow factor for the companion mesh
}

// SkyFaces names the image file for each cube face inside the cubemap folder.
type SkyFaces struct {
	PositiveX string `yaml:"positive_x"`
	NegativeX string `yaml:"negative_x"`
	PositiveY string `yaml:"positive_y"`
	NegativeY string `yaml:"negative_y"`
	PositiveZ string `yaml:"positive_z"`
	NegativeZ string `yaml:"negative_z"`
}

// List returns the file names in +X, -X, +Y, -Y, +Z, -Z order.
func (f SkyFaces) List() [6]string {
	return [6]string{f.PositiveX, f.NegativeX, f.PositiveY, f.NegativeY, f.PositiveZ, f.NegativeZ}
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        60,
		},
		Sky: SkyConfig{
			Enabled:       true,
			Path:          "cubemap",
			ResourcesPath: ".",
			Radius:        1.9,
			LongSteps:     24,
			LatSteps:      24,
			Faces: SkyFaces{
				PositiveX: "east.png",
				NegativeX: "west.png",
				PositiveY: "up.png",
				NegativeY: "down.png",
				PositiveZ: "south.png",
				NegativeZ: "north.png",
			},
			MeshScale: 1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
