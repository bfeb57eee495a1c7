package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/skydome/internal/engine/scene"
)

// floatsPerVertex is the interleaved layout of scene.Mesh: position,
// normal and a 3-component texture coordinate.
const floatsPerVertex = 9

type meshBuffers struct {
	vao, vbo, ebo uint32
	count         int32
}

// meshCache uploads each mesh once. Meshes are immutable after creation,
// so the mesh value itself is the key.
type meshCache struct {
	buffers map[scene.Mesh]*meshBuffers
}

func newMeshCache() *meshCache {
	return &meshCache{buffers: make(map[scene.Mesh]*meshBuffers)}
}

func (c *meshCache) get(m scene.Mesh) *meshBuffers {
	if b, ok := c.buffers[m]; ok {
		return b
	}
	b := upload(m)
	c.buffers[m] = b
	return b
}

func upload(m scene.Mesh) *meshBuffers {
	vertices := m.VertexData()
	indices := m.IndexData()
	b := &meshBuffers{}
	if len(vertices) == 0 || len(indices) == 0 {
		return b
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	for loc := uint32(0); loc < 3; loc++ {
		gl.VertexAttribPointerWithOffset(loc, 3, gl.FLOAT, false, stride, uintptr(loc*3*4))
		gl.EnableVertexAttribArray(loc)
	}

	gl.BindVertexArray(0)
	b.count = int32(len(indices))
	return b
}

func (c *meshCache) clear() {
	for m, b := range c.buffers {
		if b.vao != 0 {
			gl.DeleteVertexArrays(1, &b.vao)
			gl.DeleteBuffers(1, &b.vbo)
			gl.DeleteBuffers(1, &b.ebo)
		}
		delete(c.buffers, m)
	}
}
