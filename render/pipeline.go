package render

// Encoder records the GPU work for one draw batch. backend/wgpu.Renderer
// is the concrete implementation; Encode fixes the order in which its
// methods are called so that the ordering invariants hold for any
// implementation.
//
// Encoding failures are invariant violations, not runtime errors: an
// implementation logs and drops the frame rather than returning an error.
// The only GPU error that surfaces to callers at this layer is frame
// acquisition, which is handled upstream by AcquireFrame.
type Encoder interface {
	// UploadTexture creates or updates one texture on the device.
	UploadTexture(up TextureUpload)

	// UpdateBuffers rebuilds the vertex and index buffers from the
	// batch's primitives, sized to the current screen.
	UpdateBuffers(prims []Primitive, screen ScreenDescriptor)

	// BeginPass opens the single render pass against the frame's view,
	// cleared to ClearColor, with no depth/stencil attachment.
	BeginPass(frame Frame)

	// Draw encodes one primitive, constrained to its clip rectangle.
	Draw(prim Primitive, screen ScreenDescriptor)

	// EndPass closes the render pass.
	EndPass()

	// FreeTexture releases one texture after the pass has been encoded.
	FreeTexture(id TextureID)

	// Finish submits the recorded commands and presents the frame.
	// The frame must not be used afterward.
	Finish(frame Frame)
}

// Encode turns one draw batch into submitted GPU work against one frame:
//
//  1. upload every texture in the delta's set,
//  2. rebuild vertex/index buffers for the batch,
//  3. encode the clipped primitives in list order inside a single pass,
//  4. free the delta's textures only after the draws are encoded,
//  5. submit and present.
//
// Frees must never run before step 3: a primitive in this batch may still
// sample a texture whose free arrives in a later batch, and the current
// batch's own frees target textures its draws have already recorded.
func Encode(enc Encoder, frame Frame, batch *DrawBatch, screen ScreenDescriptor) {
	for _, up := range batch.Delta.Set {
		enc.UploadTexture(up)
	}
	enc.UpdateBuffers(batch.Primitives, screen)

	enc.BeginPass(frame)
	for i := range batch.Primitives {
		enc.Draw(batch.Primitives[i], screen)
	}
	enc.EndPass()

	for _, id := range batch.Delta.Free {
		enc.FreeTexture(id)
	}
	enc.Finish(frame)
}
