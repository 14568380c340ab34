package wgpu

import _ "embed"

// uiShaderWGSL is the single render shader for all UI primitives.
//
//go:embed shader.wgsl
var uiShaderWGSL string
