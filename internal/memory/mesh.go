package memory

import vk "github.com/vulkan-go/vulkan"

// Mesh owns a vertex buffer and an index buffer, per §3's resource
// table. It is a thin pairing rather than a new allocation strategy:
// both buffers are built the same way any other device-local Buffer
// is, via Allocator.NewBuffer, grounded on the teacher's buffers.go
// CoreBuffer usage in its model-loading path.
type Mesh struct {
	vertices    *Buffer
	indices     *Buffer
	vertexCount int
	indexCount  int
}

// NewMesh allocates a device-local vertex buffer and, when indexCount
// > 0, a device-local index buffer, sized for vertexStride/indexStride
// bytes per element respectively. Passing indexCount == 0 yields a
// non-indexed mesh: Indices returns nil and IndexCount returns 0.
func NewMesh(a *Allocator, vertexStride int, vertexCount int, indexStride int, indexCount int, vertexUsage, indexUsage vk.BufferUsageFlagBits) (*Mesh, error) {
	deviceLocal := vk.MemoryPropertyFlagBits(vk.MemoryPropertyDeviceLocalBit)

	vertices, err := a.NewBuffer(vertexStride, vertexCount, 1, vertexUsage|vk.BufferUsageFlagBits(vk.BufferUsageVertexBufferBit), deviceLocal)
	if err != nil {
		return nil, err
	}

	m := &Mesh{vertices: vertices, vertexCount: vertexCount}
	if indexCount > 0 {
		indices, err := a.NewBuffer(indexStride, indexCount, 1, indexUsage|vk.BufferUsageFlagBits(vk.BufferUsageIndexBufferBit), deviceLocal)
		if err != nil {
			vertices.Destroy()
			return nil, err
		}
		m.indices = indices
		m.indexCount = indexCount
	}
	return m, nil
}

// Vertices returns the backing vertex buffer.
func (m *Mesh) Vertices() *Buffer { return m.vertices }

// Indices returns the backing index buffer, or nil for a non-indexed
// mesh.
func (m *Mesh) Indices() *Buffer { return m.indices }

// VertexCount returns the number of vertices the mesh was built with.
func (m *Mesh) VertexCount() int { return m.vertexCount }

// IndexCount returns the number of indices, or 0 for a non-indexed
// mesh.
func (m *Mesh) IndexCount() int { return m.indexCount }

// Bind records vertex/index buffer binds on cmd, per the renderer's
// draw-call path (§4.9).
func (m *Mesh) Bind(cmd vk.CommandBuffer, indexType vk.IndexType) {
	offsets := []vk.DeviceSize{0}
	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{m.vertices.Handle()}, offsets)
	if m.indices != nil {
		vk.CmdBindIndexBuffer(cmd, m.indices.Handle(), 0, indexType)
	}
}

// Destroy destroys both backing buffers.
func (m *Mesh) Destroy() {
	if m.vertices != nil {
		m.vertices.Destroy()
		m.vertices = nil
	}
	if m.indices != nil {
		m.indices.Destroy()
		m.indices = nil
	}
}
