package skydome

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/skydome/internal/assets"
	"github.com/Faultbox/skydome/internal/config"
	"github.com/Faultbox/skydome/internal/engine/cubemap"
	"github.com/Faultbox/skydome/internal/engine/dome"
	"github.com/Faultbox/skydome/internal/engine/scene"
	"github.com/Faultbox/skydome/internal/logger"
	"github.com/Faultbox/skydome/pkg/formats"
	"github.com/Faultbox/skydome/pkg/math"
)

// CompanionColor is the base color of the companion mesh.
var CompanionColor = math.Vec3{X: 0.42, Y: 0.46, Z: 0.38}

// Deps are the host services a Sky needs.
type Deps struct {
	// Scene is the group the sky subtrees are attached to when enabled.
	Scene    *scene.Group
	Compiler ProgramCompiler
	Uploader TextureUploader
	// Assets reads face files. Nil reads straight from disk.
	Assets *assets.Manager
}

// Sky wires a dome and an optional companion mesh into a host scene and
// applies configuration changes to them.
type Sky struct {
	cfg      config.SkyConfig
	deps     Deps
	resolver assets.Resolver
	log      *zap.Logger

	pipeline  *Pipeline
	dome      *Dome
	root      *SkyTransform
	companion *SkyTransform
	mesh      *scene.Drawable
	folder    string
	enabled   bool

	mu         sync.Mutex
	pending    string
	hasPending bool
}

// NewSky builds the sky described by cfg. Shader failures and invalid mesh
// parameters are returned; a missing cubemap folder or face only degrades
// the picture and is logged. The sky is attached to deps.Scene if
// cfg.Enabled is set.
func NewSky(cfg config.SkyConfig, deps Deps) (*Sky, error) {
	if deps.Scene == nil || deps.Compiler == nil || deps.Uploader == nil {
		return nil, errors.New("sky: scene, compiler and uploader are required")
	}

	s := &Sky{
		cfg:      cfg,
		deps:     deps,
		resolver: assets.Resolver{ResourcesPath: cfg.ResourcesPath},
		log:      logger.Named("skydome"),
	}

	pipeline, err := NewPipeline(deps.Compiler)
	if err != nil {
		return nil, err
	}
	s.pipeline = pipeline

	s.folder = s.resolveFolder(cfg.Path)
	tex, err := s.loadTexture(s.folder)
	if err != nil {
		pipeline.Close()
		return nil, err
	}

	d, err := pipeline.Build(dome.Params{
		Radius:         cfg.Radius,
		LongitudeSteps: cfg.LongSteps,
		LatitudeSteps:  cfg.LatSteps,
		Hemisphere:     cfg.Hemisphere,
	}, tex)
	tex.Release()
	if err != nil {
		pipeline.Close()
		return nil, err
	}
	s.dome = d

	s.root = NewSkyTransform()
	s.root.AddChild(d.Node())

	if cfg.Mesh != "" {
		s.setupCompanion(cfg.Mesh, cfg.MeshScale)
	}

	s.log.Info("sky dome initialized",
		zap.String("folder", s.folder),
		zap.Float32("radius", cfg.Radius),
		zap.Int("vertices", d.Geometry().VertexCount()),
		zap.Bool("companion", s.companion != nil),
	)

	s.SetEnabled(cfg.Enabled)
	return s, nil
}

// resolveFolder finds folder under the resources path. An unresolved
// folder is returned as given so the face loader reports what is missing.
func (s *Sky) resolveFolder(folder string) string {
	resolved, err := s.resolver.ResolveFolder(folder)
	if err != nil {
		s.log.Warn("cubemap folder not found", zap.String("folder", folder), zap.Error(err))
		return folder
	}
	return resolved
}

func (s *Sky) read(path string) ([]byte, error) {
	if s.deps.Assets != nil {
		return s.deps.Assets.Load(path)
	}
	return os.ReadFile(path)
}

func (s *Sky) faceFiles() cubemap.FaceFiles {
	files := cubemap.FaceFiles(s.cfg.Faces.List())
	defaults := cubemap.DefaultFaceFiles()
	for i, name := range files {
		if name == "" {
			files[i] = defaults[i]
		}
	}
	return files
}

// Faces reads the face images of the current folder again, for
// inspection tools. Missing faces are left empty.
func (s *Sky) Faces() *cubemap.Cubemap {
	return cubemap.Load(s.folder, s.faceFiles(), s.read)
}

// loadTexture loads the six faces from folder and uploads them.
func (s *Sky) loadTexture(folder string) (scene.Attribute, error) {
	c := cubemap.Load(folder, s.faceFiles(), s.read)
	tex, err := s.deps.Uploader.UploadCubemap(c)
	if err != nil {
		return nil, fmt.Errorf("uploading cubemap %s: %w", folder, err)
	}
	return tex, nil
}

// setupCompanion loads the companion mesh. Failures are logged and the
// sky runs without it.
func (s *Sky) setupCompanion(path string, scale float64) {
	resolved, err := s.resolver.ResolveFile(path)
	if err != nil {
		s.log.Error("companion mesh not found", zap.String("path", path), zap.Error(err))
		return
	}
	mesh, err := formats.LoadOBJ(resolved)
	if err != nil {
		s.log.Error("companion mesh not loaded", zap.String("path", resolved), zap.Error(err))
		return
	}
	program, err := s.deps.Compiler.CompileProgram("sky-companion", companionVertexShader, companionFragmentShader)
	if err != nil {
		s.log.Error("companion shader failed", zap.Error(err))
		return
	}
	if scale <= 0 {
		s.log.Warn("mesh_scale must be positive, using 1", zap.Float64("mesh_scale", scale))
		scale = 1
	}

	d := scene.NewDrawable(mesh)
	d.SetCullingActive(false)
	ss := d.GetOrCreateStateSet()
	ss.SetMode(scene.Fog, scene.Off)
	ss.SetMode(scene.DepthTest, scene.Off)
	ss.SetRenderBinDetails(CompanionBin, BinName)
	ss.SetProgram(program)
	ss.SetUniform(CompanionColorUniform, CompanionColor)
	program.Release()

	t := NewSkyTransform()
	t.S1 = scale
	t.S2 = 1 / scale
	t.AddChild(d)

	s.mesh = d
	s.companion = t
	s.log.Info("companion mesh loaded",
		zap.String("path", resolved),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Float64("scale", scale),
	)
}

// Root returns the eye-following transform holding the dome.
func (s *Sky) Root() *SkyTransform {
	return s.root
}

// Companion returns the companion mesh transform, or nil.
func (s *Sky) Companion() *SkyTransform {
	return s.companion
}

// Dome returns the dome renderable.
func (s *Sky) Dome() *Dome {
	return s.dome
}

// Folder returns the cubemap folder currently bound.
func (s *Sky) Folder() string {
	return s.folder
}

// Enabled reports whether the sky is attached to the scene.
func (s *Sky) Enabled() bool {
	return s.enabled
}

// SetEnabled attaches or detaches the sky subtrees. Repeated calls with
// the same value do nothing.
func (s *Sky) SetEnabled(enabled bool) {
	nodes := []scene.Node{s.root}
	if s.companion != nil {
		nodes = append(nodes, s.companion)
	}
	for _, n := range nodes {
		if enabled {
			s.deps.Scene.AddChild(n)
		} else {
			s.deps.Scene.RemoveChild(n)
		}
	}
	if enabled != s.enabled {
		s.log.Debug("sky dome toggled", zap.Bool("enabled", enabled))
	}
	s.enabled = enabled
}

// RequestFolder schedules a switch to another cubemap folder. It may be
// called from any goroutine; the switch happens in ApplyPending.
func (s *Sky) RequestFolder(folder string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = folder
	s.hasPending = true
}

// Reload schedules the current folder to be read again.
func (s *Sky) Reload() {
	s.RequestFolder(s.cfg.Path)
}

// ApplyPending performs a requested folder switch. The host calls it
// between frames. A folder that cannot be resolved is logged and the
// current cubemap kept. It reports whether a new cubemap was bound.
func (s *Sky) ApplyPending() bool {
	s.mu.Lock()
	folder, ok := s.pending, s.hasPending
	s.hasPending = false
	s.mu.Unlock()
	if !ok {
		return false
	}

	resolved, err := s.resolver.ResolveFolder(folder)
	if err != nil {
		s.log.Warn("cubemap folder change ignored", zap.String("folder", folder), zap.Error(err))
		return false
	}
	if s.deps.Assets != nil {
		s.deps.Assets.Invalidate(resolved)
	}

	tex, err := s.loadTexture(resolved)
	if err != nil {
		s.log.Error("cubemap reload failed", zap.String("folder", resolved), zap.Error(err))
		return false
	}
	s.pipeline.SetCubeMap(s.dome, tex)
	tex.Release()

	s.cfg.Path = folder
	s.folder = resolved
	s.log.Info("cubemap switched", zap.String("folder", resolved))
	return true
}

// ApplyConfig applies changed sky settings. Enabling and folder changes
// take effect immediately or at the next ApplyPending; mesh settings need
// a new Sky.
func (s *Sky) ApplyConfig(cfg config.SkyConfig) {
	old := s.cfg

	if cfg.Enabled != s.enabled {
		s.SetEnabled(cfg.Enabled)
	}

	if cfg.ResourcesPath != old.ResourcesPath || cfg.Faces != old.Faces || cfg.Path != old.Path {
		s.cfg.ResourcesPath = cfg.ResourcesPath
		s.cfg.Faces = cfg.Faces
		s.resolver = assets.Resolver{ResourcesPath: cfg.ResourcesPath}
		s.RequestFolder(cfg.Path)
	}

	if cfg.Radius != old.Radius || cfg.LongSteps != old.LongSteps || cfg.LatSteps != old.LatSteps ||
		cfg.Hemisphere != old.Hemisphere || cfg.Mesh != old.Mesh || cfg.MeshScale != old.MeshScale {
		s.log.Info("sky mesh settings change on restart")
	}
	s.cfg.Enabled = cfg.Enabled
}

// Close detaches the sky and releases its textures and programs.
func (s *Sky) Close() {
	s.SetEnabled(false)
	s.dome.Release()
	if s.mesh != nil {
		s.mesh.StateSet().Release()
	}
	s.pipeline.Close()
}
