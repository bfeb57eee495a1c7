// Package shader compiles GLSL programs and wraps them as shareable
// render state.
package shader

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skydome/internal/engine/scene"
	"github.com/Faultbox/skydome/internal/logger"
)

var (
	// ErrCompile is returned when a shader stage fails to compile.
	ErrCompile = errors.New("shader compile failed")
	// ErrLink is returned when a program fails to link.
	ErrLink = errors.New("program link failed")
)

// Program is a linked GL program. It is reference counted so state sets
// can share it; the GL object is deleted on the last release.
type Program struct {
	scene.RefCount

	id   uint32
	name string

	mu       sync.Mutex
	uniforms map[string]int32
}

// Compile compiles vertex and fragment sources and links them into a
// program. The returned program holds one reference for the caller.
func Compile(name, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	p := &Program{id: id, name: name, uniforms: make(map[string]int32)}
	p.OnRelease(p.delete)
	p.Retain()

	logger.Named("shader").Debug("program linked", zap.String("name", name), zap.Uint32("id", id))
	return p, nil
}

// ID returns the GL program object.
func (p *Program) ID() uint32 {
	return p.id
}

// Name returns the program name used in logs and errors.
func (p *Program) Name() string {
	return p.name
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Uniform returns a cached uniform location, or -1 if the uniform is
// missing or optimised out.
func (p *Program) Uniform(name string) int32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := GetUniform(p.id, name)
	p.uniforms[name] = loc
	return loc
}

func (p *Program) delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// Compiler adapts Compile to callers that only deal in scene attributes.
type Compiler struct{}

// CompileProgram implements the program compiler used by the sky pipeline.
func (Compiler) CompileProgram(name, vertexSrc, fragmentSrc string) (scene.Attribute, error) {
	p, err := Compile(name, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", ErrLink, log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s stage: %s", ErrCompile, stage, log)
	}

	return shader, nil
}

func infoLog(obj uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var logLen int32
	getiv(obj, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := make([]byte, logLen)
	getLog(obj, logLen, nil, &log[0])
	return string(log)
}

// GetUniform returns the uniform location for the given name, or -1 if the
// uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
