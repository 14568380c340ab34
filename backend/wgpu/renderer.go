package wgpu

import (
	"fmt"

	webgpu "github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"

	"github.com/sigscope/sigscope/render"
)

const (
	// vertexStride is the byte size of render.Vertex on the GPU:
	// pos2 + uv2 + color4, all Float32.
	vertexStride = 8 * 4

	// uniformSize is the byte size of the Screen uniform: size_points
	// plus padding to a 16-byte boundary.
	uniformSize = 4 * 4
)

// span locates one primitive's geometry inside the shared buffers.
type span struct {
	firstIndex uint32
	indexCount uint32
	baseVertex int32
}

// boundTexture is one registered texture with its per-texture bind group.
type boundTexture struct {
	texture *webgpu.Texture
	view    *webgpu.TextureView
	bind    *webgpu.BindGroup
}

func (b *boundTexture) release() {
	if b.bind != nil {
		b.bind.Release()
	}
	if b.view != nil {
		b.view.Release()
	}
	if b.texture != nil {
		b.texture.Release()
	}
}

// Renderer encodes draw batches for one Surface. It implements
// render.Encoder; render.Encode fixes the call order.
type Renderer struct {
	surface *Surface
	device  *webgpu.Device
	queue   *webgpu.Queue

	pipeline      *webgpu.RenderPipeline
	sampler       *webgpu.Sampler
	uniformBuffer *webgpu.Buffer
	screenBind    *webgpu.BindGroup
	textureLayout *webgpu.BindGroupLayout

	textures map[render.TextureID]*boundTexture

	vertexBuffer *webgpu.Buffer
	indexBuffer  *webgpu.Buffer
	vertexCap    uint64
	indexCap     uint64

	spans    []span
	nextSpan int

	encoder *webgpu.CommandEncoder
	pass    *webgpu.RenderPassEncoder
	failed  bool
}

var _ render.Encoder = (*Renderer)(nil)

// NewRenderer builds the UI pipeline against the surface's device and
// swapchain format and registers the built-in white texture.
func NewRenderer(surface *Surface) (*Renderer, error) {
	r := &Renderer{
		surface:  surface,
		device:   surface.device,
		queue:    surface.queue,
		textures: make(map[render.TextureID]*boundTexture),
	}
	if err := r.buildPipeline(surface.Format()); err != nil {
		r.Release()
		return nil, err
	}

	// All untextured geometry samples this.
	r.UploadTexture(render.TextureUpload{
		ID:     render.TextureWhite,
		Width:  1,
		Height: 1,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Pixels: []byte{0xff, 0xff, 0xff, 0xff},
	})
	return r, nil
}

func (r *Renderer) buildPipeline(format webgpu.TextureFormat) error {
	shader, err := r.device.CreateShaderModule(&webgpu.ShaderModuleDescriptor{
		Label:          "ui-shader",
		WGSLDescriptor: &webgpu.ShaderModuleWGSLDescriptor{Code: uiShaderWGSL},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create shader module: %w", err)
	}
	defer shader.Release()

	r.sampler, err = r.device.CreateSampler(&webgpu.SamplerDescriptor{
		Label:         "ui-sampler",
		AddressModeU:  webgpu.AddressModeClampToEdge,
		AddressModeV:  webgpu.AddressModeClampToEdge,
		AddressModeW:  webgpu.AddressModeClampToEdge,
		MagFilter:     webgpu.FilterModeNearest,
		MinFilter:     webgpu.FilterModeNearest,
		MipmapFilter:  webgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sampler: %w", err)
	}

	r.uniformBuffer, err = r.device.CreateBuffer(&webgpu.BufferDescriptor{
		Label: "ui-screen-uniform",
		Size:  uniformSize,
		Usage: webgpu.BufferUsageUniform | webgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}

	screenLayout, err := r.device.CreateBindGroupLayout(&webgpu.BindGroupLayoutDescriptor{
		Label: "ui-screen-layout",
		Entries: []webgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: webgpu.ShaderStageVertex,
				Buffer:     webgpu.BufferBindingLayout{Type: webgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: webgpu.ShaderStageFragment,
				Sampler:    webgpu.SamplerBindingLayout{Type: webgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create screen bind group layout: %w", err)
	}
	defer screenLayout.Release()

	r.textureLayout, err = r.device.CreateBindGroupLayout(&webgpu.BindGroupLayoutDescriptor{
		Label: "ui-texture-layout",
		Entries: []webgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: webgpu.ShaderStageFragment,
				Texture: webgpu.TextureBindingLayout{
					SampleType:    webgpu.TextureSampleTypeFloat,
					ViewDimension: webgpu.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create texture bind group layout: %w", err)
	}

	r.screenBind, err = r.device.CreateBindGroup(&webgpu.BindGroupDescriptor{
		Label:  "ui-screen-bind",
		Layout: screenLayout,
		Entries: []webgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.uniformBuffer, Size: uniformSize},
			{Binding: 1, Sampler: r.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create screen bind group: %w", err)
	}

	pipelineLayout, err := r.device.CreatePipelineLayout(&webgpu.PipelineLayoutDescriptor{
		Label:            "ui-pipeline-layout",
		BindGroupLayouts: []*webgpu.BindGroupLayout{screenLayout, r.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	r.pipeline, err = r.device.CreateRenderPipeline(&webgpu.RenderPipelineDescriptor{
		Label:  "ui-pipeline",
		Layout: pipelineLayout,
		Vertex: webgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []webgpu.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    webgpu.VertexStepModeVertex,
					Attributes: []webgpu.VertexAttribute{
						{Format: webgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
						{Format: webgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
						{Format: webgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
					},
				},
			},
		},
		Primitive: webgpu.PrimitiveState{
			Topology:  webgpu.PrimitiveTopologyTriangleList,
			FrontFace: webgpu.FrontFaceCCW,
			CullMode:  webgpu.CullModeNone,
		},
		Multisample: webgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &webgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []webgpu.ColorTargetState{
				{
					Format: format,
					Blend: &webgpu.BlendState{
						Color: webgpu.BlendComponent{
							Operation: webgpu.BlendOperationAdd,
							SrcFactor: webgpu.BlendFactorSrcAlpha,
							DstFactor: webgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: webgpu.BlendComponent{
							Operation: webgpu.BlendOperationAdd,
							SrcFactor: webgpu.BlendFactorOne,
							DstFactor: webgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
					WriteMask: webgpu.ColorWriteMaskAll,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create render pipeline: %w", err)
	}
	return nil
}

// convertTextureFormat maps an upload format onto the wgpu equivalent.
func convertTextureFormat(f gputypes.TextureFormat) webgpu.TextureFormat {
	switch f {
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return webgpu.TextureFormatRGBA8UnormSrgb
	case gputypes.TextureFormatBGRA8Unorm:
		return webgpu.TextureFormatBGRA8Unorm
	case gputypes.TextureFormatR8Unorm:
		return webgpu.TextureFormatR8Unorm
	default:
		return webgpu.TextureFormatRGBA8Unorm
	}
}

// bytesPerPixel for the supported upload formats.
func bytesPerPixel(f gputypes.TextureFormat) uint32 {
	if f == gputypes.TextureFormatR8Unorm {
		return 1
	}
	return 4
}

// UploadTexture creates or replaces one texture and its bind group.
func (r *Renderer) UploadTexture(up render.TextureUpload) {
	if up.Width == 0 || up.Height == 0 {
		slogger().Error("wgpu: empty texture upload dropped", "id", up.ID)
		return
	}

	tex, err := r.device.CreateTexture(&webgpu.TextureDescriptor{
		Label:         "ui-texture",
		Size:          webgpu.Extent3D{Width: up.Width, Height: up.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     webgpu.TextureDimension2D,
		Format:        convertTextureFormat(up.Format),
		Usage:         webgpu.TextureUsageTextureBinding | webgpu.TextureUsageCopyDst,
	})
	if err != nil {
		slogger().Error("wgpu: create texture", "id", up.ID, "error", err)
		return
	}

	r.queue.WriteTexture(
		&webgpu.ImageCopyTexture{
			Texture: tex,
			Origin:  webgpu.Origin3D{},
			Aspect:  webgpu.TextureAspectAll,
		},
		up.Pixels,
		&webgpu.TextureDataLayout{
			BytesPerRow:  bytesPerPixel(up.Format) * up.Width,
			RowsPerImage: up.Height,
		},
		&webgpu.Extent3D{Width: up.Width, Height: up.Height, DepthOrArrayLayers: 1},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		slogger().Error("wgpu: create texture view", "id", up.ID, "error", err)
		tex.Release()
		return
	}
	bind, err := r.device.CreateBindGroup(&webgpu.BindGroupDescriptor{
		Label:   "ui-texture-bind",
		Layout:  r.textureLayout,
		Entries: []webgpu.BindGroupEntry{{Binding: 0, TextureView: view}},
	})
	if err != nil {
		slogger().Error("wgpu: create texture bind group", "id", up.ID, "error", err)
		view.Release()
		tex.Release()
		return
	}

	if old, ok := r.textures[up.ID]; ok {
		old.release()
	}
	r.textures[up.ID] = &boundTexture{texture: tex, view: view, bind: bind}
}

// FreeTexture releases one texture. The built-in white texture is never
// freed.
func (r *Renderer) FreeTexture(id render.TextureID) {
	if id == render.TextureWhite {
		return
	}
	if bt, ok := r.textures[id]; ok {
		bt.release()
		delete(r.textures, id)
	}
}

// growBuffer allocates a buffer of at least size bytes, releasing old.
func (r *Renderer) growBuffer(old *webgpu.Buffer, size uint64, usage webgpu.BufferUsage, label string) (*webgpu.Buffer, error) {
	if old != nil {
		old.Release()
	}
	return r.device.CreateBuffer(&webgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | webgpu.BufferUsageCopyDst,
	})
}

// UpdateBuffers packs the batch's geometry into the shared vertex and
// index buffers and records each primitive's span for Draw.
func (r *Renderer) UpdateBuffers(prims []render.Primitive, screen render.ScreenDescriptor) {
	r.spans = r.spans[:0]
	r.nextSpan = 0

	var vertices []float32
	var indices []uint32
	var baseVertex int32
	for _, p := range prims {
		r.spans = append(r.spans, span{
			firstIndex: uint32(len(indices)),
			indexCount: uint32(len(p.Mesh.Indices)),
			baseVertex: baseVertex,
		})
		for _, v := range p.Mesh.Vertices {
			vertices = append(vertices, v.X, v.Y, v.U, v.V, v.R, v.G, v.B, v.A)
		}
		indices = append(indices, p.Mesh.Indices...)
		baseVertex += int32(len(p.Mesh.Vertices))
	}

	r.queue.WriteBuffer(r.uniformBuffer, 0, webgpu.ToBytes([]float32{
		screen.PointsWidth(), screen.PointsHeight(), 0, 0,
	}))

	if len(vertices) > 0 {
		size := uint64(len(vertices)) * 4
		if size > r.vertexCap {
			buf, err := r.growBuffer(r.vertexBuffer, size, webgpu.BufferUsageVertex, "ui-vertices")
			if err != nil {
				slogger().Error("wgpu: grow vertex buffer", "error", err)
				r.failed = true
				return
			}
			r.vertexBuffer, r.vertexCap = buf, size
		}
		r.queue.WriteBuffer(r.vertexBuffer, 0, webgpu.ToBytes(vertices))
	}
	if len(indices) > 0 {
		size := uint64(len(indices)) * 4
		if size > r.indexCap {
			buf, err := r.growBuffer(r.indexBuffer, size, webgpu.BufferUsageIndex, "ui-indices")
			if err != nil {
				slogger().Error("wgpu: grow index buffer", "error", err)
				r.failed = true
				return
			}
			r.indexBuffer, r.indexCap = buf, size
		}
		r.queue.WriteBuffer(r.indexBuffer, 0, webgpu.ToBytes(indices))
	}
}

// BeginPass opens the single render pass, cleared to the fixed clear
// color.
func (r *Renderer) BeginPass(frame render.Frame) {
	f, ok := frame.(*Frame)
	if !ok || r.failed {
		r.failed = true
		return
	}

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		slogger().Error("wgpu: create command encoder", "error", err)
		r.failed = true
		return
	}
	r.encoder = encoder

	r.pass = encoder.BeginRenderPass(&webgpu.RenderPassDescriptor{
		Label: "ui-pass",
		ColorAttachments: []webgpu.RenderPassColorAttachment{
			{
				View:    f.view,
				LoadOp:  webgpu.LoadOpClear,
				StoreOp: webgpu.StoreOpStore,
				ClearValue: webgpu.Color{
					R: render.ClearColor.R,
					G: render.ClearColor.G,
					B: render.ClearColor.B,
					A: render.ClearColor.A,
				},
			},
		},
	})

	r.pass.SetPipeline(r.pipeline)
	r.pass.SetBindGroup(0, r.screenBind, nil)
	if r.vertexBuffer != nil {
		r.pass.SetVertexBuffer(0, r.vertexBuffer, 0, webgpu.WholeSize)
	}
	if r.indexBuffer != nil {
		r.pass.SetIndexBuffer(r.indexBuffer, webgpu.IndexFormatUint32, 0, webgpu.WholeSize)
	}
}

// Draw encodes one primitive, scissored to its clip rectangle clamped to
// the frame. Spans are consumed in the order UpdateBuffers recorded them.
func (r *Renderer) Draw(prim render.Primitive, screen render.ScreenDescriptor) {
	if r.failed || r.pass == nil || r.nextSpan >= len(r.spans) {
		return
	}
	sp := r.spans[r.nextSpan]
	r.nextSpan++

	if sp.indexCount == 0 {
		return
	}
	clip := prim.Clip.Intersect(screen.WidthPx, screen.HeightPx)
	if clip.Empty() {
		return
	}

	bind := r.textures[prim.Texture]
	if bind == nil {
		bind = r.textures[render.TextureWhite]
		if bind == nil {
			return
		}
	}

	r.pass.SetScissorRect(clip.X, clip.Y, clip.Width, clip.Height)
	r.pass.SetBindGroup(1, bind.bind, nil)
	r.pass.DrawIndexed(sp.indexCount, 1, sp.firstIndex, sp.baseVertex, 0)
}

// EndPass closes the render pass.
func (r *Renderer) EndPass() {
	if r.pass != nil {
		r.pass.End()
		r.pass.Release()
		r.pass = nil
	}
}

// Finish submits the recorded commands and presents the frame. On an
// encoding failure the frame is dropped without presenting; the next
// pass starts clean.
func (r *Renderer) Finish(frame render.Frame) {
	defer func() {
		if f, ok := frame.(*Frame); ok {
			f.release()
		}
		if r.encoder != nil {
			r.encoder.Release()
			r.encoder = nil
		}
		r.failed = false
	}()

	if r.failed || r.encoder == nil {
		slogger().Error("wgpu: frame dropped after encode failure")
		return
	}

	cmd, err := r.encoder.Finish(nil)
	if err != nil {
		slogger().Error("wgpu: finish command encoder", "error", err)
		return
	}
	r.queue.Submit(cmd)
	cmd.Release()
	r.surface.present()
}

// Release frees every GPU object the renderer owns.
func (r *Renderer) Release() {
	for id, bt := range r.textures {
		bt.release()
		delete(r.textures, id)
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
		r.vertexBuffer = nil
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
		r.indexBuffer = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.screenBind != nil {
		r.screenBind.Release()
		r.screenBind = nil
	}
	if r.textureLayout != nil {
		r.textureLayout.Release()
		r.textureLayout = nil
	}
	if r.uniformBuffer != nil {
		r.uniformBuffer.Release()
		r.uniformBuffer = nil
	}
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
}
