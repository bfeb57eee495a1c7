package skydome

import _ "embed"

var (
	//go:embed shaders/sky.vert
	vertexShader string
	//go:embed shaders/sky.frag
	fragmentShader string

	//go:embed shaders/companion.vert
	companionVertexShader string
	//go:embed shaders/companion.frag
	companionFragmentShader string
)

// SkySamplerUniform is the sampler uniform bound to texture unit 0.
const SkySamplerUniform = "uSky"

// CompanionColorUniform is the base color of the companion mesh.
const CompanionColorUniform = "uColor"
