package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MeshCache owns the GPU models of the bodies, one per body ID. Everything
// it loads is released by Unload.
type MeshCache struct {
	models map[int]rl.Model
	disc   bool
}

// NewMeshCache builds spheres, or flat discs when disc is set.
func NewMeshCache(disc bool) *MeshCache {
	return &MeshCache{models: make(map[int]rl.Model), disc: disc}
}

// Get returns the model for body id, generating it on first use.
func (c *MeshCache) Get(id int, radius float32) rl.Model {
	if m, ok := c.models[id]; ok {
		return m
	}
	var mesh rl.Mesh
	if c.disc {
		mesh = rl.GenMeshPoly(32, radius)
	} else {
		mesh = rl.GenMeshSphere(radius, 16, 16)
	}
	m := rl.LoadModelFromMesh(mesh)
	c.models[id] = m
	return m
}

func (c *MeshCache) Len() int { return len(c.models) }

func (c *MeshCache) Unload() {
	for id, m := range c.models {
		rl.UnloadModel(m)
		delete(c.models, id)
	}
}
