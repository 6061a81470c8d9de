package gpu

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vignette"
)

// gpuWaitTimeout bounds how long a frame waits on the fence before the
// render is reported as failed.
const gpuWaitTimeout = 5 * time.Second

// Pipeline renders the cloud boundary vignette on the GPU via a
// fullscreen-triangle fragment pass.
//
// The host owns the device and queue; Pipeline owns the shader, layouts,
// sampler, and its source/target textures. Textures are recreated lazily
// when the frame dimensions change. Pipeline is not safe for concurrent
// use; drive it from the host's render loop.
type Pipeline struct {
	device hal.Device
	queue  hal.Queue

	// GPU objects for the render pipeline.
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	// Linear clamp-to-edge sampler for the scene texture.
	sampler hal.Sampler

	// Scene texture (sampled) and color target (rendered, then read back).
	srcTex  hal.Texture
	srcView hal.TextureView
	dstTex  hal.Texture
	dstView hal.TextureView

	srcWidth, srcHeight uint32
	dstWidth, dstHeight uint32
}

// NewPipeline creates a vignette pipeline on the given device and queue.
// GPU objects are not created until the first Render call.
func NewPipeline(device hal.Device, queue hal.Queue) *Pipeline {
	return &Pipeline{
		device: device,
		queue:  queue,
	}
}

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times or on a pipeline with no allocated resources.
func (p *Pipeline) Destroy() {
	p.destroyPipeline()
	p.destroyTextures()
}

// Render applies the effect: uploads src as the scene texture, uploads the
// packed parameter block, draws the fullscreen pass into a color target
// sized like dst, and reads the pixels back into dst.
//
// Implements vignette.Renderer.
func (p *Pipeline) Render(dst, src *vignette.Pixmap, params vignette.Params) error {
	if dst == nil {
		return vignette.ErrNilTarget
	}
	if src == nil {
		return vignette.ErrNilSource
	}

	dw, dh := uint32(dst.Width()), uint32(dst.Height()) //nolint:gosec // dimensions always fit uint32
	sw, sh := uint32(src.Width()), uint32(src.Height()) //nolint:gosec // dimensions always fit uint32
	if dw == 0 || dh == 0 || sw == 0 || sh == 0 {
		return nil
	}

	if err := p.ensureReady(sw, sh, dw, dh); err != nil {
		return err
	}

	p.uploadScene(src, sw, sh)

	// Per-frame uniform buffer with the packed parameter block.
	uniformBuf, err := p.createAndUploadBuffer("cloud_vignette_uniform", params.Pack(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	defer p.device.DestroyBuffer(uniformBuf)

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "cloud_vignette_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: p.srcView.NativeHandle(),
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: p.sampler.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: vignette.ParamsUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer p.device.DestroyBindGroup(bindGroup)

	return p.encodeAndReadback(dw, dh, bindGroup, dst)
}

// ensureReady creates textures and the pipeline if needed.
func (p *Pipeline) ensureReady(sw, sh, dw, dh uint32) error {
	if err := p.ensureTextures(sw, sh, dw, dh); err != nil {
		return fmt.Errorf("ensure textures: %w", err)
	}
	if p.pipeline == nil {
		if err := p.createPipeline(); err != nil {
			return fmt.Errorf("create pipeline: %w", err)
		}
	}
	return nil
}

// ensureTextures creates or recreates the scene and target textures if the
// requested dimensions differ from the current size.
func (p *Pipeline) ensureTextures(sw, sh, dw, dh uint32) error {
	if p.srcWidth == sw && p.srcHeight == sh && p.dstWidth == dw && p.dstHeight == dh && p.srcTex != nil {
		return nil
	}
	p.destroyTextures()

	// Scene texture: sampled by the fragment shader, filled by WriteTexture.
	srcTex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "cloud_vignette_scene",
		Size:          hal.Extent3D{Width: sw, Height: sh, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create scene texture: %w", err)
	}
	p.srcTex = srcTex

	srcView, err := p.device.CreateTextureView(srcTex, &hal.TextureViewDescriptor{
		Label:         "cloud_vignette_scene_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.destroyTextures()
		return fmt.Errorf("create scene view: %w", err)
	}
	p.srcView = srcView

	// Color target (CopySrc for readback).
	dstTex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "cloud_vignette_target",
		Size:          hal.Extent3D{Width: dw, Height: dh, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		p.destroyTextures()
		return fmt.Errorf("create target texture: %w", err)
	}
	p.dstTex = dstTex

	dstView, err := p.device.CreateTextureView(dstTex, &hal.TextureViewDescriptor{
		Label:         "cloud_vignette_target_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.destroyTextures()
		return fmt.Errorf("create target view: %w", err)
	}
	p.dstView = dstView

	p.srcWidth, p.srcHeight = sw, sh
	p.dstWidth, p.dstHeight = dw, dh
	return nil
}

// destroyTextures releases all texture resources and resets dimensions.
func (p *Pipeline) destroyTextures() {
	if p.dstView != nil {
		p.device.DestroyTextureView(p.dstView)
		p.dstView = nil
	}
	if p.dstTex != nil {
		p.device.DestroyTexture(p.dstTex)
		p.dstTex = nil
	}
	if p.srcView != nil {
		p.device.DestroyTextureView(p.srcView)
		p.srcView = nil
	}
	if p.srcTex != nil {
		p.device.DestroyTexture(p.srcTex)
		p.srcTex = nil
	}
	p.srcWidth, p.srcHeight = 0, 0
	p.dstWidth, p.dstHeight = 0, 0
}

// createPipeline compiles the vignette shader and creates the render
// pipeline. No blending: the pass fully replaces the color target.
func (p *Pipeline) createPipeline() error {
	shader, err := createShaderModule(p.device, "cloud_vignette_shader", cloudVignetteShaderSource)
	if err != nil {
		return fmt.Errorf("compile cloud_vignette shader: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: scene texture (texture_2d, fragment)
	//   Binding 1: sampler (fragment)
	//   Binding 2: CloudVignetteSettings (uniform buffer, fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "cloud_vignette_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "cloud_vignette_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "cloud_vignette_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	p.sampler = sampler

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "cloud_vignette_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline

	return nil
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (p *Pipeline) destroyPipeline() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// uploadScene copies the source pixmap into the scene texture.
func (p *Pipeline) uploadScene(src *vignette.Pixmap, sw, sh uint32) {
	data := rgbaToBGRA(src.Data())
	p.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  p.srcTex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  sw * 4,
			RowsPerImage: sh,
		},
		&hal.Extent3D{Width: sw, Height: sh, DepthOrArrayLayers: 1},
	)
}

// encodeAndReadback encodes the fullscreen pass, copies the color target to
// a staging buffer, submits, waits, and reads back pixels into dst.
func (p *Pipeline) encodeAndReadback(w, h uint32, bindGroup hal.BindGroup, dst *vignette.Pixmap) error {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "cloud_vignette_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("cloud_vignette"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "cloud_vignette_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       p.dstView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()

	// After the pass the target is in attachment layout; the copy below
	// needs transfer-source. No-op on Metal, GLES, software, and noop
	// backends.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: p.dstTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	pixelBufSize := uint64(w) * uint64(h) * 4
	stagingBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "cloud_vignette_staging",
		Size:  pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer p.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(p.dstTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: p.dstTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	fence, err := p.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer p.device.DestroyFence(fence)

	if err := p.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := p.device.Wait(fence, 1, gpuWaitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := p.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}

	bgraIntoRGBA(readback, dst.Data())
	vignette.Logger().Debug("gpu render",
		slog.Int("width", int(w)), slog.Int("height", int(h)))
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (p *Pipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	p.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// rgbaToBGRA returns a copy of RGBA pixel data with channels swizzled for
// BGRA texture upload.
func rgbaToBGRA(rgba []byte) []byte {
	out := make([]byte, len(rgba))
	for i := 0; i+3 < len(rgba); i += 4 {
		out[i+0] = rgba[i+2]
		out[i+1] = rgba[i+1]
		out[i+2] = rgba[i+0]
		out[i+3] = rgba[i+3]
	}
	return out
}

// bgraIntoRGBA swizzles BGRA readback data into an RGBA destination in place.
func bgraIntoRGBA(bgra, rgba []byte) {
	n := len(bgra)
	if len(rgba) < n {
		n = len(rgba)
	}
	for i := 0; i+3 < n; i += 4 {
		rgba[i+0] = bgra[i+2]
		rgba[i+1] = bgra[i+1]
		rgba[i+2] = bgra[i+0]
		rgba[i+3] = bgra[i+3]
	}
}
