// Package gpu renders the cloud boundary vignette as a WGSL fragment
// pipeline over gogpu/wgpu.
//
// Resource acquisition stays with the host: the pipeline is constructed
// from an existing hal.Device and hal.Queue, uploads the scene and the
// packed parameter block itself, draws a fullscreen triangle, and reads the
// result back into a CPU pixmap.
package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/cloud_vignette.wgsl
var cloudVignetteShaderSource string

// ErrEmptyShaderSource indicates the embedded WGSL source is missing,
// which can only happen through a broken build.
var ErrEmptyShaderSource = errors.New("gpu: cloud_vignette shader source is empty")

// ShaderSource returns the WGSL source for the cloud vignette shader.
func ShaderSource() string {
	return cloudVignetteShaderSource
}

// compileShaderToSPIRV compiles WGSL source to a SPIR-V uint32 slice.
func compileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	if wgslSource == "" {
		return nil, ErrEmptyShaderSource
	}

	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return spirvCode, nil
}

// createShaderModule compiles the WGSL source and creates a HAL shader
// module from the resulting SPIR-V.
func createShaderModule(device hal.Device, label, wgslSource string) (hal.ShaderModule, error) {
	spirvCode, err := compileShaderToSPIRV(wgslSource)
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirvCode,
		},
	})
}
